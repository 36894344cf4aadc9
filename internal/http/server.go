// Package http provides the API server, router setup and shared middleware.
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
	"go.opentelemetry.io/otel/metric"

	apikeyHTTP "github.com/julianstoll1/access-dashboard/internal/apikey/http"
	auditHTTP "github.com/julianstoll1/access-dashboard/internal/audit/http"
	"github.com/julianstoll1/access-dashboard/internal/metrics"
	projectHTTP "github.com/julianstoll1/access-dashboard/internal/project/http"
	rbacHTTP "github.com/julianstoll1/access-dashboard/internal/rbac/http"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The router is built separately via
// SetupRouter so tests can exercise handlers without a full dependency graph.
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

// RouterConfig carries router-level settings that are not handler dependencies.
type RouterConfig struct {
	CORSEnabled      bool
	CORSAllowOrigins string
	MetricsEnabled   bool
	MetricsNamespace string
	MeterProvider    metric.MeterProvider
}

// SetupRouter builds the Gin router with all middleware and API routes.
func (s *Server) SetupRouter(
	cfg RouterConfig,
	projectHandler *projectHTTP.ProjectHandler,
	apiKeyHandler *apikeyHTTP.APIKeyHandler,
	permissionHandler *rbacHTTP.PermissionHandler,
	roleHandler *rbacHTTP.RoleHandler,
	auditLogHandler *auditHTTP.AuditLogHandler,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(ActorMiddleware())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	// Health and readiness endpoints
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Credential authentication (resolves the bearer key to its identity)
	v1.GET("/auth/whoami", apiKeyHandler.WhoamiHandler)

	// Projects
	v1.POST("/projects", projectHandler.CreateHandler)
	v1.GET("/projects", projectHandler.ListHandler)

	project := v1.Group("/projects/:project_id")
	project.GET("", projectHandler.GetHandler)

	// API key credentials
	project.POST("/api-keys", apiKeyHandler.GenerateHandler)
	project.GET("/api-keys", apiKeyHandler.ListHandler)
	project.GET("/api-keys/:id", apiKeyHandler.GetHandler)
	project.DELETE("/api-keys/:id", apiKeyHandler.DeleteHandler)
	project.POST("/api-keys/:id/rotate", apiKeyHandler.RotateHandler)
	project.POST("/api-keys/:id/reveal", apiKeyHandler.RevealHandler)

	// Permissions
	project.POST("/permissions", permissionHandler.CreateHandler)
	project.GET("/permissions", permissionHandler.ListHandler)
	project.GET("/permissions/:id", permissionHandler.GetHandler)
	project.PUT("/permissions/:id", permissionHandler.UpdateHandler)
	project.POST("/permissions/:id/toggle", permissionHandler.ToggleHandler)
	project.DELETE("/permissions/:id", permissionHandler.DeleteHandler)

	// Roles
	project.POST("/roles", roleHandler.CreateHandler)
	project.GET("/roles", roleHandler.ListHandler)
	project.GET("/roles/:id", roleHandler.GetHandler)
	project.PUT("/roles/:id", roleHandler.UpdateHandler)
	project.DELETE("/roles/:id", roleHandler.DeleteHandler)

	// Audit trail (read-only)
	project.GET("/audit-logs", auditLogHandler.ListHandler)

	s.router = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic.
// The database is the only hard dependency.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}
	status := http.StatusOK
	overall := "ready"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		components["database"] = "error"
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	}

	c.JSON(status, gin.H{"status": overall, "components": components})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

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
