package processor

import (
	"context"
	"fraud_report/internal/domain"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BatchRecorder extends Recorder with batch level measurements.
type BatchRecorder interface {
	Recorder
	RecordBatch(duration time.Duration, summary domain.Summary, invalid int)
}

type BatchResult struct {
	ID       string
	Report   domain.Report
	Invalid  int
	Duration time.Duration
}

// TransactionProcessor runs the full pass over a batch: parse, evaluate every
// transaction, fold into a report. Process returns only once the whole batch
// is done.
type TransactionProcessor struct {
	detector *FraudDetector
	recorder BatchRecorder
	workers  int
	logger   *slog.Logger
}

func NewTransactionProcessor(
	engine *RuleEngine,
	recorder BatchRecorder,
	maxWorkers int,
	logger *slog.Logger,
) *TransactionProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	return &TransactionProcessor{
		detector: NewFraudDetector(engine, recorder, logger),
		recorder: recorder,
		workers:  maxWorkers,
		logger:   logger,
	}
}

func (p *TransactionProcessor) Process(ctx context.Context, records []string) BatchResult {
	return p.ProcessTransactions(ctx, ParseRecords(records))
}

func (p *TransactionProcessor) ProcessTransactions(ctx context.Context, transactions []domain.Transaction) BatchResult {
	startTime := time.Now()
	batchID := uuid.NewString()
	logger := p.logger.With(slog.String("batch_id", batchID))

	logger.InfoContext(ctx, "Processing batch",
		slog.Int("transactions", len(transactions)),
		slog.Int("workers", p.workers))

	batch := NewBatch(transactions)
	results := p.evaluate(ctx, batch)
	report := BuildReport(results)

	invalid := 0
	for _, result := range results {
		if result.Err != nil {
			invalid++
		}
	}

	duration := time.Since(startTime)
	p.recorder.RecordBatch(duration, report.Summary, invalid)

	logger.InfoContext(ctx, "Batch processed",
		slog.Int("total", report.Summary.TotalTransactions),
		slog.Int("flagged", report.Summary.FlaggedCount),
		slog.Int("invalid", invalid),
		slog.Float64("fraud_rate", report.Summary.FraudRate),
		slog.Duration("duration", duration))

	return BatchResult{
		ID:       batchID,
		Report:   report,
		Invalid:  invalid,
		Duration: duration,
	}
}

// evaluate fills one result slot per transaction. Workers only write their own
// slot so the results keep input order.
func (p *TransactionProcessor) evaluate(ctx context.Context, batch *Batch) []ItemResult {
	transactions := batch.Transactions()
	results := make([]ItemResult, len(transactions))

	if p.workers == 1 {
		for i, tx := range transactions {
			results[i] = p.detector.AnalyzeTransaction(ctx, tx, batch)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, tx := range transactions {
		g.Go(func() error {
			results[i] = p.detector.AnalyzeTransaction(ctx, tx, batch)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
