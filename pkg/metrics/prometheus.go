package metrics

import (
	"context"
	"fraud_report/internal/domain"
	"fraud_report/internal/processor"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ processor.BatchRecorder = (*MetricsCollector)(nil)

type MetricsCollector struct {
	registry            *prometheus.Registry
	batchesProcessed    prometheus.Counter
	transactionsScanned prometheus.Counter
	transactionsFlagged prometheus.Counter
	batchDuration       prometheus.Histogram
	fraudRate           prometheus.Histogram
	ruleHits            *prometheus.CounterVec
	invalidData         *prometheus.CounterVec
	logger              *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &MetricsCollector{
		registry: registry,
		batchesProcessed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "fraud_batches_processed_total",
			Help: "Total number of scored batches",
		}),
		transactionsScanned: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "fraud_transactions_scanned_total",
			Help: "Total number of transactions seen across batches",
		}),
		transactionsFlagged: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "fraud_transactions_flagged_total",
			Help: "Total number of flagged transactions",
		}),
		batchDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "fraud_batch_duration_seconds",
			Help:    "Time taken to score a batch",
			Buckets: prometheus.DefBuckets,
		}),
		fraudRate: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "fraud_batch_fraud_rate",
			Help:    "Distribution of per-batch fraud rates",
			Buckets: []float64{0, 0.05, 0.1, 0.25, 0.5, 0.75, 1},
		}),
		ruleHits: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_rule_hits_total",
			Help: "Number of times each rule fired",
		}, []string{"rule"}),
		invalidData: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_invalid_data_total",
			Help: "Transactions skipped because a rule found a required field missing",
		}, []string{"rule"}),
		logger: logger,
	}
}

func (m *MetricsCollector) RecordBatch(duration time.Duration, summary domain.Summary, invalid int) {
	m.batchesProcessed.Inc()
	m.transactionsScanned.Add(float64(summary.TotalTransactions))
	m.transactionsFlagged.Add(float64(summary.FlaggedCount))
	m.batchDuration.Observe(duration.Seconds())
	if summary.TotalTransactions > 0 {
		m.fraudRate.Observe(summary.FraudRate)
	}
	if invalid > 0 {
		m.logger.Debug("Batch contained invalid transactions", slog.Int("invalid", invalid))
	}
}

func (m *MetricsCollector) RecordRuleHit(rule string) {
	m.ruleHits.WithLabelValues(rule).Inc()
}

func (m *MetricsCollector) RecordInvalidData(rule string) {
	m.invalidData.WithLabelValues(rule).Inc()
}

func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	m.logger.InfoContext(ctx, "Metrics collector shutdown complete")
	return nil
}
