package processor

import (
	"errors"
	"fraud_report/internal/domain"
)

// BuildReport folds per-transaction results, given in input order, into the
// batch report. Only the first error is surfaced and always as the generic
// message; details stay in the logs.
func BuildReport(results []ItemResult) domain.Report {
	report := domain.Report{
		Flagged: make([]domain.FlaggedTransaction, 0),
	}

	var firstErr error
	for _, result := range results {
		switch {
		case result.Err != nil:
			if firstErr == nil {
				firstErr = result.Err
			}
		case result.Flagged != nil:
			report.Flagged = append(report.Flagged, *result.Flagged)
		}
	}

	report.Summary = newSummary(len(results), len(report.Flagged))
	if firstErr != nil {
		report.Errors = []string{errorMessage(firstErr)}
	}

	return report
}

func newSummary(total, flagged int) domain.Summary {
	summary := domain.Summary{
		TotalTransactions: total,
		FlaggedCount:      flagged,
	}
	if total > 0 {
		summary.FraudRate = float64(flagged) / float64(total)
	}
	return summary
}

func errorMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidData) {
		return domain.InvalidDataMessage
	}
	return err.Error()
}

func asInvalidData(err error) (*domain.InvalidDataError, bool) {
	var invalid *domain.InvalidDataError
	if errors.As(err, &invalid) {
		return invalid, true
	}
	return nil, false
}
