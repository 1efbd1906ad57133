package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Transaction metrics
	TransactionsCreated prometheus.Counter
	TransactionErrors   *prometheus.CounterVec
	TransactionValue    prometheus.Histogram

	// Anti-fraud pipeline metrics
	ValidationSubmitted      prometheus.Counter
	ValidationSubmitFailures prometheus.Counter
	VerdictsApplied          *prometheus.CounterVec
	VerdictsUnknownTxn       prometheus.Counter
	MalformedVerdictsDropped prometheus.Counter
	ConsumeErrors            prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics. It must be called
// at most once per process; promauto panics on re-registration.
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gopay_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gopay_transaction_errors_total",
				Help: "Total number of transaction creation errors by category",
			},
			[]string{"category"},
		),
		TransactionValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gopay_transaction_value",
			Help:    "Created transaction values",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		ValidationSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gopay_validation_submitted_total",
			Help: "Total number of transactions submitted for anti-fraud validation",
		}),
		ValidationSubmitFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gopay_validation_submit_failures_total",
			Help: "Total number of failed anti-fraud submissions",
		}),
		VerdictsApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gopay_verdicts_applied_total",
				Help: "Total number of anti-fraud verdicts applied by status",
			},
			[]string{"status"},
		),
		VerdictsUnknownTxn: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gopay_verdicts_unknown_transaction_total",
			Help: "Total number of verdicts referencing an unknown transaction",
		}),
		MalformedVerdictsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gopay_malformed_verdicts_dropped_total",
			Help: "Total number of malformed verdict messages committed and dropped",
		}),
		ConsumeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gopay_consume_errors_total",
			Help: "Total number of broker-level consume errors",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gopay_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gopay_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
