package processor

import (
	"context"
	"fraud_report/internal/domain"
	"log/slog"
	"time"
)

// ItemResult is the outcome for one transaction: flagged, clean (both fields
// nil) or failed with invalid data.
type ItemResult struct {
	Flagged *domain.FlaggedTransaction
	Err     error
}

// Recorder receives rule and batch measurements. *metrics.MetricsCollector
// satisfies it.
type Recorder interface {
	RecordRuleHit(rule string)
	RecordInvalidData(rule string)
}

type FraudDetector struct {
	engine   *RuleEngine
	recorder Recorder
	logger   *slog.Logger
}

func NewFraudDetector(engine *RuleEngine, recorder Recorder, logger *slog.Logger) *FraudDetector {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &FraudDetector{
		engine:   engine,
		recorder: recorder,
		logger:   logger,
	}
}

// AnalyzeTransaction combines the rules that fired for tx into one flagged
// entry. Score is the sum of outcome scores and reasons are concatenated in
// rule order.
func (fd *FraudDetector) AnalyzeTransaction(ctx context.Context, tx domain.Transaction, batch *Batch) ItemResult {
	results, err := fd.engine.EvaluateRules(ctx, tx, batch)
	if err != nil {
		fd.logInvalid(ctx, tx, err)
		return ItemResult{Err: err}
	}
	if len(results) == 0 {
		return ItemResult{}
	}

	flagged := &domain.FlaggedTransaction{
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		Reasons:       make([]string, 0, len(results)),
	}
	for _, result := range results {
		flagged.RiskScore += result.Outcome.RiskScore
		flagged.Reasons = append(flagged.Reasons, result.Outcome.Reasons...)
		fd.recorder.RecordRuleHit(result.RuleName)
	}

	return ItemResult{Flagged: flagged}
}

func (fd *FraudDetector) logInvalid(ctx context.Context, tx domain.Transaction, err error) {
	attrs := []any{
		slog.String("transaction_id", tx.ID),
		slog.String("error", err.Error()),
	}

	rule := "unknown"
	if invalid, ok := asInvalidData(err); ok {
		rule = invalid.Rule
		attrs = append(attrs, slog.String("rule", invalid.Rule), slog.String("field", invalid.Field))
	}
	fd.recorder.RecordInvalidData(rule)

	fd.logger.WarnContext(ctx, "Transaction skipped due to invalid data", attrs...)
}

type nopRecorder struct{}

func (nopRecorder) RecordRuleHit(string) {}
func (nopRecorder) RecordInvalidData(string) {}

func (nopRecorder) RecordBatch(time.Duration, domain.Summary, int) {}
