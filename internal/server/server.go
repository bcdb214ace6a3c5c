package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bgallie/hill/internal/config"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP adapter.
type Server struct {
	cfg    config.Server
	log    *logrus.Logger
	router *gin.Engine
}

// New builds the router for cfg.  Requests are logged to log at debug level.
func New(cfg config.Server, log *logrus.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 0 || (len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsCfg))

	h := NewHandler(log)

	// API Routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", h.HealthCheck)
		api.POST("/encrypt", h.Encrypt)
		api.POST("/decrypt", h.Decrypt)
		api.POST("/validate", h.Validate)
		api.POST("/keygen", h.Keygen)
	}

	return &Server{cfg: cfg, log: log, router: router}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("Server listening on %s", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request")
	}
}
