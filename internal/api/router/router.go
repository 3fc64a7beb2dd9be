package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flarelabs/whatsapp-relay/internal/http/handlers"
	httpmiddleware "github.com/flarelabs/whatsapp-relay/internal/http/middleware"
	"github.com/flarelabs/whatsapp-relay/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	RelayWebhook       *handlers.RelayWebhookHandler
	MetricsHandler     http.Handler
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints (webhooks, health checks)
	r.Get("/health", cfg.RelayWebhook.HealthCheck)
	r.Route("/messaging", func(r chi.Router) {
		r.Post("/twilio/webhook", cfg.RelayWebhook.HandleMessage)
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
