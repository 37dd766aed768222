// Package stubserver is an in-process deal-pipeline backend used by the
// integration tests and by local development (cmd/stubserver). It implements
// the same REST contract the production service exposes: JWT login, profile
// lookup, the deal lifecycle endpoints, and admin user management.
package stubserver

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

// Server is the stub backend.
type Server struct {
	echo   *echo.Echo
	store  *store
	secret string
	ttl    time.Duration
}

// New builds the stub backend with all routes registered under /api and the
// default accounts seeded: admin/admin123 (ADMIN) and analyst/analyst123
// (USER).
func New(jwtSecret string) *Server {
	s := &Server{
		echo:   echo.New(),
		store:  newStore(),
		secret: jwtSecret,
		ttl:    24 * time.Hour,
	}
	s.echo.HideBanner = true

	s.echo.Use(echomiddleware.Recover())
	// Each server instance carries its own registry so several can
	// coexist in one process without collector collisions.
	registry := prometheus.NewRegistry()
	s.echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "dealpipeline_stub",
		Registerer: registry,
	}))
	s.echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: registry,
	}))

	api := s.echo.Group("/api")
	api.POST("/auth/login", s.login)

	authed := api.Group("", authMiddleware(jwtSecret))
	authed.GET("/users/me", s.currentUser)

	deals := authed.Group("/deals")
	deals.POST("", s.createDeal)
	deals.GET("", s.listDeals)
	deals.GET("/:id", s.getDeal)
	deals.PUT("/:id", s.updateDeal)
	deals.PATCH("/:id/stage", s.updateStage)
	deals.POST("/:id/notes", s.addNote)

	// Admin-only surfaces: value edits, deletion, user management.
	adminOnly := requireRole(domain.RoleAdmin)
	deals.PATCH("/:id/value", s.updateValue, adminOnly)
	deals.DELETE("/:id", s.deleteDeal, adminOnly)

	admin := authed.Group("/admin", adminOnly)
	admin.GET("/users", s.listUsers)
	admin.POST("/users", s.createUser)
	admin.PUT("/users/:id/status", s.setUserStatus)

	s.seed()
	return s
}

// Handler exposes the underlying HTTP handler for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until the process exits.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) seed() {
	s.store.addUser("admin", "admin@investbank.com", domain.RoleAdmin, mustHash("admin123"))
	s.store.addUser("analyst", "analyst@investbank.com", domain.RoleUser, mustHash("analyst123"))
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

func (s *Server) issueToken(acc *account) (string, error) {
	claims := jwt.MapClaims{
		"username": acc.Username,
		"email":    acc.Email,
		"role":     string(acc.Role),
		"exp":      time.Now().Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}
