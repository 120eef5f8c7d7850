// Package cloudapi is the HTTP surface of the cloud integrations service.
package cloudapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	mw "github.com/reachskumar/ai-ops-guardian-angel/internal/api/middleware"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/cloudapi/handler"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/config"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/platform"
)

const (
	rateLimit       = 100
	rateLimitWindow = 15 * time.Minute
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.CloudServices
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, services *core.CloudServices, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.SecurityHeaders)
	s.router.Use(mw.Metrics(s.cfg.ServiceName))

	s.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{s.cfg.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler)

	if !s.cfg.RateLimitDisabled {
		s.router.Use(mw.NewRateLimiter(rateLimit, rateLimitWindow).Middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.Auth(s.cfg.JWTSecret))

		cloud := handler.NewCloud(s.services, s.cfg.IsProduction())
		r.Post("/{provider}/connect", cloud.Connect)
		r.Get("/{provider}/resources", cloud.Resources)
		r.Get("/{provider}/costs", cloud.Costs)

		multi := handler.NewMultiCloud(s.services.MultiCloud)
		r.Get("/multi-cloud/resources", multi.Resources)
		r.Get("/multi-cloud/costs", multi.Costs)

		conn := handler.NewConnection(s.services.Connection)
		r.Get("/connections", conn.List)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, http.StatusNotFound, "Not found",
			fmt.Sprintf("Route %s not found", r.URL.Path))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   s.cfg.ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   platform.Version,
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
