// Package config resolves server settings from flags, environment and defaults.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

const (
	DefaultPort            = 3000
	PublicDir              = "public"
	DefaultShutdownTimeout = 5 * time.Second
)

// Keys used in viper. Flags bind to the same names.
const (
	KeyPort            = "port"
	KeyHost            = "host"
	KeyStaticDir       = "static_dir"
	KeyCORSOrigins     = "cors_origins"
	KeySwagger         = "swagger"
	KeyWatch           = "watch"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyShutdownTimeout = "shutdown_timeout"
	KeyMode            = "mode"
)

var envNames = map[string]string{
	KeyPort:            "PORT",
	KeyHost:            "HOST",
	KeyStaticDir:       "STATIC_DIR",
	KeyCORSOrigins:     "CORS_ORIGINS",
	KeySwagger:         "SWAGGER",
	KeyWatch:           "WATCH",
	KeyLogLevel:        "LOG_LEVEL",
	KeyLogFormat:       "LOG_FORMAT",
	KeyShutdownTimeout: "SHUTDOWN_TIMEOUT",
	KeyMode:            "GIN_MODE",
}

type Config struct {
	Port            int
	Host            string
	StaticDir       string
	CORSOrigins     []string
	Swagger         bool
	Watch           bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	Mode            string

	// Warnings collects values that were ignored in favour of a default.
	// They are reported once a logger exists.
	Warnings []string
}

// Addr returns the listen address, e.g. ":3000".
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewViper returns a viper instance with defaults and env bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyHost, "")
	v.SetDefault(KeyStaticDir, "")
	v.SetDefault(KeyCORSOrigins, "*")
	v.SetDefault(KeySwagger, true)
	v.SetDefault(KeyWatch, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyShutdownTimeout, DefaultShutdownTimeout.String())
	v.SetDefault(KeyMode, gin.ReleaseMode)

	for key, env := range envNames {
		_ = v.BindEnv(key, env)
	}
	return v
}

// Load resolves a Config from v. An unusable PORT is replaced by DefaultPort
// and recorded in Warnings; other malformed values are errors.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Host:      v.GetString(KeyHost),
		Swagger:   v.GetBool(KeySwagger),
		Watch:     v.GetBool(KeyWatch),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		Mode:      v.GetString(KeyMode),
	}

	port, err := parsePort(v.GetString(KeyPort))
	if err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring PORT: %v, using %d", err, DefaultPort))
		port = DefaultPort
	}
	cfg.Port = port

	dir, err := resolveStaticDir(v.GetString(KeyStaticDir))
	if err != nil {
		return nil, err
	}
	cfg.StaticDir = dir

	cfg.CORSOrigins = splitList(v.GetString(KeyCORSOrigins))

	timeout, err := time.ParseDuration(v.GetString(KeyShutdownTimeout))
	if err != nil {
		return nil, fmt.Errorf("shutdown timeout: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("shutdown timeout: must not be negative, got %s", timeout)
	}
	cfg.ShutdownTimeout = timeout

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("log format %q: want text or json", cfg.LogFormat)
	}

	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return nil, fmt.Errorf("gin mode %q: want debug, release or test", cfg.Mode)
	}

	return cfg, nil
}

func parsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPort, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("%d is out of range", n)
	}
	return n, nil
}

// resolveStaticDir returns an absolute static root. With no explicit value
// it prefers public/ next to the executable, then public/ in the working dir.
func resolveStaticDir(dir string) (string, error) {
	if dir == "" {
		dir = defaultStaticDir()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("static dir %s: %w", dir, err)
	}
	return abs, nil
}

func defaultStaticDir() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir := filepath.Join(filepath.Dir(exe), PublicDir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return PublicDir
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
