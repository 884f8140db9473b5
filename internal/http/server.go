// Package http provides the HTTP API server and its middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	configsHTTP "github.com/allisson/llm-config/internal/configs/http"
	"github.com/allisson/llm-config/internal/metrics"
	"github.com/allisson/llm-config/internal/security"
)

// ServerConfig holds the listener and CORS settings of the API server.
type ServerConfig struct {
	Host             string
	Port             int
	Version          string
	CORSEnabled      bool
	CORSAllowOrigins string
}

// Server is the HTTP API server. All /api/v1 routes run behind the
// security pipeline; /health does not, so load balancers can always
// reach it.
type Server struct {
	server  *http.Server
	router  *gin.Engine
	logger  *slog.Logger
	version string
}

// NewServer creates the API server and registers all routes. meterProvider
// may be nil to disable HTTP metrics collection.
func NewServer(
	cfg ServerConfig,
	configHandler *configsHTTP.ConfigHandler,
	pipeline *security.Pipeline,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, "llm_config"))
	}
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	s := &Server{
		router:  router,
		logger:  logger,
		version: cfg.Version,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	router.GET("/health", s.healthHandler)

	v1 := router.Group("/api/v1")
	v1.Use(pipeline.Middleware())
	{
		v1.GET("/configs/:namespace", configHandler.ListHandler)
		v1.GET("/configs/:namespace/:key", configHandler.GetHandler)
		v1.POST("/configs/:namespace/:key", configHandler.SetHandler)
		v1.DELETE("/configs/:namespace/:key", configHandler.DeleteHandler)
		v1.GET("/configs/:namespace/:key/secret", configHandler.GetSecretHandler)
		v1.GET("/configs/:namespace/:key/history", configHandler.HistoryHandler)
		v1.POST("/configs/:namespace/:key/rollback/:version", configHandler.RollbackHandler)
		v1.GET("/cache/stats", configHandler.CacheStatsHandler)
	}

	return s
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "llm-config",
		"version": s.version,
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
