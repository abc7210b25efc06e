package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Budget metrics
	BudgetCalculations *prometheus.CounterVec
	BudgetConfigured   *prometheus.CounterVec
	BudgetDeficits     prometheus.Counter

	// Expense and transaction metrics
	ExpensesCreated     prometheus.Counter
	ExpensesDeleted     prometheus.Counter
	TransactionsCreated prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DecryptFailures prometheus.Counter
	RetriesExceeded prometheus.Counter

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Authentication metrics
	AuthFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Budget metrics
		BudgetCalculations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thenumber_budget_calculations_total",
				Help: "Total budget calculations by mode",
			},
			[]string{"mode"},
		),
		BudgetConfigured: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thenumber_budget_configured_total",
				Help: "Total configure operations by mode",
			},
			[]string{"mode"},
		),
		BudgetDeficits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thenumber_budget_deficits_total",
			Help: "Total calculations that produced a deficit",
		}),

		// Expense and transaction metrics
		ExpensesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thenumber_expenses_created_total",
			Help: "Total number of expenses created",
		}),
		ExpensesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thenumber_expenses_deleted_total",
			Help: "Total number of expenses deleted",
		}),
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thenumber_transactions_created_total",
			Help: "Total number of transactions logged",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thenumber_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "thenumber_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DecryptFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thenumber_decrypt_failures_total",
			Help: "Total reads that failed ciphertext authentication",
		}),
		RetriesExceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thenumber_retries_exceeded_total",
			Help: "Total operations that exhausted the busy retry budget",
		}),

		// Cache metrics
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thenumber_cache_hits_total",
			Help: "Total budget result cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thenumber_cache_misses_total",
			Help: "Total budget result cache misses",
		}),

		// Authentication metrics
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thenumber_auth_failures_total",
				Help: "Total authentication failures by reason",
			},
			[]string{"reason"},
		),
	}
}
