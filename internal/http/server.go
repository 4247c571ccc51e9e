// Package http provides the gin HTTP server, its router and shared middleware.
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

	accessHTTP "github.com/allisson/ghostpass/internal/access/http"
	"github.com/allisson/ghostpass/internal/config"
	identityHTTP "github.com/allisson/ghostpass/internal/identity/http"
	identityUseCase "github.com/allisson/ghostpass/internal/identity/usecase"
	"github.com/allisson/ghostpass/internal/metrics"
)

const readinessTimeout = 2 * time.Second

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger

	// stopBackground stops goroutines owned by router middleware.
	stopBackground context.CancelFunc
}

// NewServer creates a new HTTP server. db is used by the readiness probe.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the gin router with middleware and every route.
//
// Routes:
//   - GET  /health, /ready
//   - POST /v1/tokens               bearer JWT
//   - POST /v1/tokens/verify        public, rate-limited per IP
//   - POST /v1/tokens/view          public, rate-limited per IP
//   - POST /v1/tokens/revoke        bearer JWT
//   - GET  /v1/profiles/:id/tokens  bearer JWT
//   - GET  /v1/audit-logs           bearer JWT, admin only
func (s *Server) SetupRouter(
	cfg *config.Config,
	tokenHandler *accessHTTP.TokenHandler,
	auditLogHandler *accessHTTP.AuditLogHandler,
	authenticator identityUseCase.IdentityUseCase,
	metricsProvider *metrics.Provider,
) {
	backgroundCtx, cancel := context.WithCancel(context.Background())
	s.stopBackground = cancel

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
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authMiddleware := identityHTTP.AuthenticationMiddleware(authenticator, s.logger)

	presentation := []gin.HandlerFunc{}
	if cfg.RateLimitEnabled {
		presentation = append(presentation, accessHTTP.RateLimitMiddleware(
			backgroundCtx,
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}

	v1 := router.Group("/v1")
	{
		tokens := v1.Group("/tokens")
		{
			tokens.POST("", authMiddleware, tokenHandler.IssueHandler)
			tokens.POST("/verify", append(presentation, tokenHandler.VerifyHandler)...)
			tokens.POST("/view", append(presentation, tokenHandler.ViewHandler)...)
			tokens.POST("/revoke", authMiddleware, tokenHandler.RevokeHandler)
		}

		v1.GET("/profiles/:id/tokens", authMiddleware, tokenHandler.ListHandler)

		v1.GET("/audit-logs",
			authMiddleware,
			identityHTTP.RequireAdminMiddleware(s.logger),
			auditLogHandler.ListHandler,
		)
	}

	s.router = router
}

// GetHandler returns the configured http.Handler.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server and its background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")

	if s.stopBackground != nil {
		s.stopBackground()
	}

	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"

	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	components := gin.H{"database": database}
	if database != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
