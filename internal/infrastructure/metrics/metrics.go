package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Journal metrics
	EntriesCreated   *prometheus.CounterVec
	EntriesValidated prometheus.Counter
	EntriesReversed  prometheus.Counter
	EntryErrors      *prometheus.CounterVec

	// Barème metrics
	ProvisionsCalculated *prometheus.CounterVec
	ProvisionAmount      prometheus.Histogram

	// Client sub-ledger metrics
	ClientAccountsCreated prometheus.Counter

	// Invoice metrics
	InvoicesPosted   prometheus.Counter
	PaymentsRecorded *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationSessions *prometheus.CounterVec
	ReconciliationMatches  *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		// Journal metrics
		EntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notacompta_entries_created_total",
				Help: "Total number of journal entries created",
			},
			[]string{"journal"},
		),
		EntriesValidated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "notacompta_entries_validated_total",
			Help: "Total number of journal entries validated",
		}),
		EntriesReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "notacompta_entries_reversed_total",
			Help: "Total number of journal entries reversed",
		}),
		EntryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notacompta_entry_errors_total",
				Help: "Total number of journal entry errors by type",
			},
			[]string{"error_type"},
		),

		// Barème metrics
		ProvisionsCalculated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notacompta_provisions_calculated_total",
				Help: "Total provision calculations by act type",
			},
			[]string{"type_acte"},
		),
		ProvisionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "notacompta_provision_amount",
			Help:    "Provision amounts, tax included",
			Buckets: []float64{100_000, 500_000, 1_000_000, 5_000_000, 10_000_000, 50_000_000},
		}),

		// Client sub-ledger metrics
		ClientAccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "notacompta_client_accounts_created_total",
			Help: "Total number of client sub-accounts created",
		}),

		// Invoice metrics
		InvoicesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "notacompta_invoices_posted_total",
			Help: "Total number of invoices posted to the ledger",
		}),
		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notacompta_payments_recorded_total",
				Help: "Total payments recorded by method",
			},
			[]string{"method"},
		),

		// Reconciliation metrics
		ReconciliationSessions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notacompta_reconciliation_sessions_total",
				Help: "Total reconciliation sessions by final status",
			},
			[]string{"status"},
		),
		ReconciliationMatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notacompta_reconciliation_matches_total",
				Help: "Total reconciliation matches by type",
			},
			[]string{"match_type"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notacompta_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notacompta_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "notacompta_db_connections",
			Help: "Current number of database connections",
		}),
	}
}
