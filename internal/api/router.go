package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Paper-Trading-Backend/internal/api/middleware"
	"github.com/ndewijer/Paper-Trading-Backend/internal/config"
	"github.com/ndewijer/Paper-Trading-Backend/internal/metrics"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	paperTradingService *service.PaperTradingService,
	metricsRegistry *metrics.Registry,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Method(http.MethodGet, "/metrics", metricsRegistry.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/paper-trading", func(r chi.Router) {
			h := handlers.NewPaperTradingHandler(paperTradingService)
			r.Get("/status", h.Status)
			r.Get("/index", h.Index)
			r.Post("/refresh", h.Refresh)
			r.Get("/days/{date}", h.Day)
			r.Post("/summary", h.Summary)

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", h.CreateSession)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", h.GetSession)
					r.Delete("/", h.DeleteSession)
					r.Post("/dates/toggle", h.ToggleDate)
					r.Post("/dates/toggle-all", h.ToggleAllDates)
					r.Post("/stocks/toggle", h.ToggleStock)
					r.Post("/stocks/toggle-all", h.ToggleAllStocks)
					r.Delete("/excluded", h.ResetExcluded)
					r.Put("/snapshot", h.SelectSnapshot)
				})
			})
		})
	})

	return r
}
