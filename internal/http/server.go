// Package http provides the API HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The router is attached separately via
// SetupRoutes; a server without routes only serves health endpoints.
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

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can take traffic, checking each
// dependency individually.
func (s *Server) readinessHandler(c *gin.Context) {
	components := map[string]string{"database": "ok"}
	status := "ready"
	code := http.StatusOK

	if s.db == nil || s.db.PingContext(c.Request.Context()) != nil {
		components["database"] = "error"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server, blocking until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		router := gin.New()
		router.Use(gin.Recovery())
		router.GET("/health", s.healthHandler)
		router.GET("/ready", s.readinessHandler)
		s.router = router
	}

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
