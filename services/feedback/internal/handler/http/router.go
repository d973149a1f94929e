package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akajrolkar2644/Assessment/pkg/health"
	"github.com/akajrolkar2644/Assessment/pkg/middleware"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/auth"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/service"
)

const serviceName = "feedback"

// RouterConfig carries the dependencies and settings of the HTTP surface.
type RouterConfig struct {
	Feedback       *service.FeedbackService
	Admin          *auth.AdminAuthenticator
	TokenValidator middleware.TokenValidator
	Health         *health.Handler
	CORS           middleware.CORSConfig

	// RequestTimeout bounds every request. A submission waits on three
	// model completions, so this must exceed three LLM timeouts.
	RequestTimeout time.Duration

	SubmitRateLimitRPS   float64
	SubmitRateLimitBurst int

	// DebugCIDRs restricts /metrics and enables /debug/pprof.
	DebugCIDRs []string
}

// NewRouter creates a chi router with all feedback service routes
// registered. ctx bounds background work such as rate limiter cleanup.
func NewRouter(ctx context.Context, cfg RouterConfig, logger *slog.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.With(middleware.AllowCIDRs(cfg.DebugCIDRs, logger)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.MountPprof(r, cfg.DebugCIDRs, logger)

	feedbackHandler := NewFeedbackHandler(cfg.Feedback, logger)
	adminHandler := NewAdminHandler(cfg.Feedback, cfg.Admin, logger)
	submitLimit := middleware.RateLimit(ctx, cfg.SubmitRateLimitRPS, cfg.SubmitRateLimitBurst, logger)
	loginLimit := middleware.RateLimit(ctx, cfg.SubmitRateLimitRPS, cfg.SubmitRateLimitBurst, logger)

	r.Route("/api/v1/feedback", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(submitLimit).Post("/", feedbackHandler.SubmitFeedback)
		r.Get("/statistics", feedbackHandler.GetStatistics)
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(loginLimit).Post("/login", adminHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.TokenValidator))
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Use(middleware.RequestLogger(logger))

			r.Get("/reviews", adminHandler.ListReviews)
			r.Get("/reviews/{id}", adminHandler.GetReview)
			r.Put("/reviews/{id}/reviewed", adminHandler.MarkReviewed)
			r.Get("/statistics", adminHandler.GetStatistics)
			r.Get("/export.csv", adminHandler.ExportCSV)
		})
	})

	return r
}
