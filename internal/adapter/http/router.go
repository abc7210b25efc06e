package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mvr/thenumber/internal/adapter/http/handler"
	"github.com/mvr/thenumber/internal/adapter/http/middleware"
	"github.com/mvr/thenumber/internal/infrastructure/auth"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BudgetHandler      *handler.BudgetHandler
	ExpenseHandler     *handler.ExpenseHandler
	TransactionHandler *handler.TransactionHandler
	HealthHandler      *handler.HealthHandler

	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	// JWTManager is optional. When nil every request runs as the fixed
	// local user.
	JWTManager  *auth.JWTManager
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics))
		} else {
			r.Use(middleware.LocalUser)
		}

		// The number
		r.Get("/number", cfg.BudgetHandler.GetNumber)

		// Budget configuration
		r.Route("/budget", func(r chi.Router) {
			r.Post("/configure", cfg.BudgetHandler.Configure)
			r.Get("/config", cfg.BudgetHandler.GetConfig)
		})

		// Recurring expenses
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", cfg.ExpenseHandler.Create)
			r.Get("/", cfg.ExpenseHandler.List)
			r.Put("/", cfg.ExpenseHandler.Replace)
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.Patch("/{id}", cfg.ExpenseHandler.Update)
			r.Delete("/{id}", cfg.ExpenseHandler.Delete)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})
	})

	return r
}
