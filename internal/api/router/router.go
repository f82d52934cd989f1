package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aquawatch/aquawatch/internal/api/handlers"
	"github.com/aquawatch/aquawatch/internal/api/middleware"
	"github.com/aquawatch/aquawatch/internal/config"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/metrics"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Reading   *handlers.ReadingHandler
	Alert     *handlers.AlertHandler
	WebSocket *handlers.WebSocketHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Health checks
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)

	// Prometheus metrics
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Readings
	r.Route("/api/v1/water-quality", func(r chi.Router) {
		r.Post("/", h.Reading.Ingest)
		r.Get("/", h.Reading.List)
		r.Get("/latest", h.Reading.Latest)
		r.Get("/{id}", h.Reading.Get)
	})

	// Alerts
	r.Route("/api/v1/alerts", func(r chi.Router) {
		r.Get("/", h.Alert.List)
		r.Get("/{id}", h.Alert.Get)
		r.Put("/{id}/status", h.Alert.UpdateStatus)
	})

	// Realtime anomaly feed
	r.Get("/ws", h.WebSocket.Serve)

	return r
}
