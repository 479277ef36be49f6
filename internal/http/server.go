// Package http provides the HTTP server, router setup and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/secretdrop/secretdrop/internal/config"
	"github.com/secretdrop/secretdrop/internal/metrics"
	secretsHTTP "github.com/secretdrop/secretdrop/internal/secrets/http"
)

// readinessTimeout bounds each dependency ping of the readiness probe.
const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the public API HTTP server.
type Server struct {
	db     *sql.DB
	cache  Pinger
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	cache Pinger,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		cache:  cache,
		logger: logger,
		server: newHTTPServer(host, port, nil, 15*time.Second, 15*time.Second),
	}
}

// SetupRouter registers middleware, health probes and the secret routes.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	secretHandler *secretsHTTP.SecretHandler,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	secrets := v1.Group("/secrets")
	secrets.Use(NoCacheMiddleware())
	if cfg.RateLimitEnabled {
		secrets.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	{
		secrets.POST("", secretHandler.CreateHandler)
		secrets.GET("/:secret_key", secretHandler.ReadHandler)
		secrets.DELETE("/:secret_key", secretHandler.DeleteHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router
	return listenAndServe(s.server, "http server", s.logger)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler is the liveness probe. It never touches dependencies.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler pings the database and the cache mirror. A database failure makes the
// service not ready; a cache failure only degrades it because reads fall back to the store.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	components := gin.H{
		"database": "ok",
		"cache":    "ok",
	}
	status := "ready"

	if s.cache == nil || s.cache.Ping(ctx) != nil {
		components["cache"] = "error"
		status = "degraded"
	}

	if s.db == nil || s.db.PingContext(ctx) != nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status, "components": components})
}
