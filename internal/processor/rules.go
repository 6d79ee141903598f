package processor

import (
	"fraud_report/internal/domain"
	"time"
)

const (
	HighAmountReason       = "highAmount"
	RapidTransactionReason = "rapidTransactions"

	highAmountThreshold = 1000
	highAmountRiskScore = 70

	rapidTransactionWindow     = 5 * time.Minute
	rapidTransactionMinMatches = 2
	rapidTransactionRiskScore  = 60
)

// Rule evaluates one transaction against the batch. It returns a nil outcome
// when it does not fire and an error wrapping domain.ErrInvalidData when a
// field it needs is absent. Rules must not modify the batch.
type Rule interface {
	Name() string
	Evaluate(tx domain.Transaction, batch *Batch) (*domain.RuleOutcome, error)
}

var (
	_ Rule = HighAmountRule{}
	_ Rule = RapidTransactionRule{}
)

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		NewHighAmountRule(),
		NewRapidTransactionRule(),
	}
}

type HighAmountRule struct {
	Threshold int64
	Score     int
}

func NewHighAmountRule() HighAmountRule {
	return HighAmountRule{
		Threshold: highAmountThreshold,
		Score:     highAmountRiskScore,
	}
}

func (r HighAmountRule) Name() string {
	return HighAmountReason
}

func (r HighAmountRule) Evaluate(tx domain.Transaction, _ *Batch) (*domain.RuleOutcome, error) {
	if !tx.HasAmount() {
		return nil, domain.NewInvalidDataError(tx.ID, r.Name(), "amount")
	}
	if *tx.Amount <= r.Threshold {
		return nil, nil
	}
	return domain.NewRuleOutcome(r.Score, HighAmountReason), nil
}

// RapidTransactionRule fires when enough other transactions of the same user
// fall strictly inside the window around this one.
type RapidTransactionRule struct {
	Window     time.Duration
	MinMatches int
	Score      int
}

func NewRapidTransactionRule() RapidTransactionRule {
	return RapidTransactionRule{
		Window:     rapidTransactionWindow,
		MinMatches: rapidTransactionMinMatches,
		Score:      rapidTransactionRiskScore,
	}
}

func (r RapidTransactionRule) Name() string {
	return RapidTransactionReason
}

func (r RapidTransactionRule) Evaluate(tx domain.Transaction, batch *Batch) (*domain.RuleOutcome, error) {
	if !tx.HasTimestamp() {
		return nil, domain.NewInvalidDataError(tx.ID, r.Name(), "timestamp")
	}

	matches := 0
	for _, other := range batch.UserTransactions(tx.UserID) {
		if other.ID == tx.ID || !other.HasTimestamp() {
			continue
		}
		if absDuration(other.Timestamp.Sub(*tx.Timestamp)) < r.Window {
			matches++
		}
	}

	if matches < r.MinMatches {
		return nil, nil
	}
	return domain.NewRuleOutcome(r.Score, RapidTransactionReason), nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
