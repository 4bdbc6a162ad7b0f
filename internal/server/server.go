// Package server wires the gin engine and owns the listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/allenshamrock/starttech/server/docs"
	"github.com/allenshamrock/starttech/server/internal/config"
	"github.com/allenshamrock/starttech/server/internal/handlers"
	"github.com/allenshamrock/starttech/server/internal/middleware"
	"github.com/allenshamrock/starttech/server/internal/static"
)

// Server serves the static root and the JSON API over HTTP.
type Server struct {
	cfg      *config.Config
	log      *logrus.Logger
	engine   *gin.Engine
	httpSrv  *http.Server
	listener net.Listener
	port     int
	errCh    chan error

	stopOnce sync.Once
	stopErr  error
}

// New builds the router. Nothing listens until Start is called.
func New(cfg *config.Config, log *logrus.Logger) *Server {
	engine := gin.New()
	_ = engine.SetTrustedProxies(nil)

	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.CORS(cfg.CORSOrigins),
		static.Serve(cfg.StaticDir),
	)

	engine.GET("/api/data", handlers.GetData)
	engine.HEAD("/api/data", handlers.GetData)
	engine.GET("/health", handlers.Health)
	engine.HEAD("/health", handlers.Health)
	if cfg.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &Server{
		cfg:    cfg,
		log:    log,
		engine: engine,
		errCh:  make(chan error, 1),
		httpSrv: &http.Server{
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start binds the configured address and serves in the background.
// A bind failure is returned as is; there is no retry.
func (s *Server) Start() error {
	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port

	s.log.WithField("static_dir", s.cfg.StaticDir).Infof("Server is running on port %d", s.port)

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
	}()
	return nil
}

// Stop gracefully shuts down, waiting up to the configured shutdown timeout.
// Idempotent; later calls return the first result.
func (s *Server) Stop(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	s.stopOnce.Do(func() {
		if timeout := s.cfg.ShutdownTimeout; timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		s.stopErr = s.httpSrv.Shutdown(ctx)
		s.log.Info("Server stopped")
	})
	return s.stopErr
}

// Run starts the server and blocks until ctx is done or serving fails.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down")
	case err := <-s.errCh:
		_ = s.Stop(context.Background())
		return fmt.Errorf("serve: %w", err)
	}
	return s.Stop(context.Background())
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}
