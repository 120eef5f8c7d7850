// Package securityapi is the HTTP surface of the security service.
package securityapi

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
	"github.com/reachskumar/ai-ops-guardian-angel/internal/config"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/monitor"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/platform"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/securityapi/handler"
)

const (
	rateLimit       = 50
	rateLimitWindow = 15 * time.Minute
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.SecurityServices
	hub      *monitor.Hub
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, services *core.SecurityServices, hub *monitor.Hub, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		hub:      hub,
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
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/health", s.handleHealth)

	production := s.cfg.IsProduction()

	s.router.Route("/api/security", func(r chi.Router) {
		if !s.cfg.RateLimitDisabled {
			r.Use(mw.NewRateLimiter(rateLimit, rateLimitWindow).Middleware)
		}

		monitoring := handler.NewMonitoring(s.hub, s.cfg.JWTSecret, s.logger)
		// The stream authenticates via token query param inside the handler.
		r.Get("/monitoring/stream", monitoring.Stream)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(s.cfg.JWTSecret))

			overview := handler.NewOverview(s.services.Overview, production)
			r.Get("/overview", overview.Get)

			scan := handler.NewScan(s.services.Scan, production)
			r.Post("/vulnerability-scan", scan.Run)
			r.Get("/scans/{id}", scan.Get)

			vuln := handler.NewVulnerability(s.services.Vulnerability, production)
			r.Get("/vulnerabilities", vuln.List)
			r.Get("/vulnerabilities/{id}", vuln.Get)
			r.Put("/vulnerabilities/{id}", vuln.UpdateStatus)

			compliance := handler.NewCompliance(s.services.Compliance, production)
			r.Post("/compliance-check", compliance.Check)
			r.Get("/compliance/standards", compliance.Standards)
			r.Get("/compliance/reports", compliance.ListReports)
			r.Get("/compliance/reports/{id}", compliance.GetReport)
			r.Get("/compliance/reports/{id}/pdf", compliance.GetReportPDF)

			threat := handler.NewThreat(s.services.Threat, production)
			r.Post("/threat-detection", threat.Detect)
			r.Get("/threats", threat.List)
			r.Get("/threats/{id}", threat.Get)
			r.Post("/threats/{id}/resolve", threat.Resolve)

			hardening := handler.NewHardening(s.services.Hardening, production)
			r.Get("/hardening/recommendations", hardening.Recommendations)

			r.Get("/monitoring/status", monitoring.Status)
		})
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
