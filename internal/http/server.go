// Package http provides the API and metrics HTTP servers.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
	authHTTP "github.com/allisson/registry-auth/internal/auth/http"
	authUseCase "github.com/allisson/registry-auth/internal/auth/usecase"
	"github.com/allisson/registry-auth/internal/metrics"
)

// RouterConfig holds the collaborators and settings of the API router.
type RouterConfig struct {
	Authenticator authUseCase.Authenticator
	Challenge     authHTTP.Challenge

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string

	// MeterProvider enables HTTP metrics when non-nil.
	MeterProvider    metric.MeterProvider
	MetricsNamespace string
}

// Server is the API server in front of the registry.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
	ready  atomic.Bool
}

// NewServer creates a new API server. SetupRouter must be called before Start.
func NewServer(host string, port int, logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter builds the gin router. The rate limiter cleanup goroutine lives until
// ctx is cancelled.
func (s *Server) SetupRouter(ctx context.Context, cfg RouterConfig) error {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MeterProvider != nil {
		metricsMiddleware, err := metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace)
		if err != nil {
			return err
		}
		router.Use(metricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authHandler := authHTTP.NewAuthHandler(s.logger)
	authenticate := authHTTP.AuthenticationMiddleware(cfg.Authenticator, cfg.Challenge, s.logger)

	// Every route that runs the authenticator shares one per-IP limiter.
	guarded := []gin.HandlerFunc{}
	if cfg.RateLimitEnabled {
		guarded = append(guarded,
			authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	guarded = append(guarded, authenticate)

	router.GET("/auth/check", append(guarded, authHandler.CheckHandler)...)

	v2 := router.Group("/v2", guarded...)
	{
		v2.GET("/",
			authHTTP.AuthorizationMiddleware(authDomain.PullCapability, cfg.Challenge, s.logger),
			authHandler.PingHandler,
		)

		requirePush := authHTTP.AuthorizationMiddleware(authDomain.PushCapability, cfg.Challenge, s.logger)
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			v2.Handle(method, "/*path", requirePush, authHandler.WriteProbeHandler)
		}
	}

	s.router = router
	return nil
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not set up")
	}
	s.server.Handler = s.router
	s.ready.Store(true)

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.ready.Store(false)
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown marks the server as not ready and gracefully shuts it down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
