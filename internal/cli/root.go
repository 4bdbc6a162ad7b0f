// Package cli is the command-line entry point of the server.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allenshamrock/starttech/server/internal/config"
	"github.com/allenshamrock/starttech/server/internal/logging"
	"github.com/allenshamrock/starttech/server/internal/server"
	"github.com/allenshamrock/starttech/server/internal/watch"
)

// NewRootCmd builds the root command around v. Flags take precedence over
// environment variables, which take precedence over defaults.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "starttech-server",
		Short:         "Serve the public/ directory and a sample JSON API",
		Long:          "Serves static assets from a directory and answers GET /api/data with a fixed JSON message.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.IntP("port", "p", config.DefaultPort, "listen port (env PORT)")
	flags.String("host", "", "listen host, empty for all interfaces (env HOST)")
	flags.String("static-dir", "", "static asset directory (env STATIC_DIR, default public/ next to the binary)")
	flags.Bool("watch", false, "log changes to static assets (env WATCH)")
	flags.String("log-level", "info", "log level (env LOG_LEVEL)")

	_ = v.BindPFlag(config.KeyPort, flags.Lookup("port"))
	_ = v.BindPFlag(config.KeyHost, flags.Lookup("host"))
	_ = v.BindPFlag(config.KeyStaticDir, flags.Lookup("static-dir"))
	_ = v.BindPFlag(config.KeyWatch, flags.Lookup("watch"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	return cmd
}

// Execute runs the root command with process-wide settings.
func Execute() error {
	return NewRootCmd(config.NewViper()).Execute()
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}
	if info, err := os.Stat(cfg.StaticDir); err != nil || !info.IsDir() {
		log.WithField("static_dir", cfg.StaticDir).Warn("static directory not found, only API routes will answer")
	}

	gin.SetMode(cfg.Mode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		startWatcher(ctx, cfg.StaticDir, log)
	}

	return server.New(cfg, log).Run(ctx)
}

func startWatcher(ctx context.Context, root string, log *logrus.Logger) {
	w, err := watch.New(root, log)
	if err != nil {
		log.WithError(err).Warn("static watcher disabled")
		return
	}
	go func() {
		defer w.Close()
		w.Run(ctx)
	}()
	log.WithField("static_dir", root).Info("watching static assets")
}
