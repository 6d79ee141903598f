package processor

import (
	"context"
	"fmt"
	"fraud_report/internal/domain"
	"log/slog"
	"slices"
)

// RuleEngine holds the ordered rule set. Rules are registered at setup and
// evaluated in registration order; scores and reasons depend on that order.
type RuleEngine struct {
	rules  []Rule
	logger *slog.Logger
}

type RuleResult struct {
	RuleName string
	Outcome  *domain.RuleOutcome
}

func NewRuleEngine(logger *slog.Logger, rules ...Rule) *RuleEngine {
	if logger == nil {
		logger = slog.Default()
	}

	return &RuleEngine{
		rules:  slices.Clone(rules),
		logger: logger,
	}
}

// Register appends a rule after the existing ones. It must not be called while
// a batch is being processed.
func (e *RuleEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

func (e *RuleEngine) Rules() []Rule {
	return slices.Clone(e.rules)
}

// EvaluateRules runs every rule against tx and returns the ones that fired.
// It stops at the first rule that reports invalid data.
func (e *RuleEngine) EvaluateRules(ctx context.Context, tx domain.Transaction, batch *Batch) ([]RuleResult, error) {
	var results []RuleResult

	for _, rule := range e.rules {
		outcome, err := rule.Evaluate(tx, batch)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		if outcome == nil {
			continue
		}

		results = append(results, RuleResult{
			RuleName: rule.Name(),
			Outcome:  outcome,
		})
		e.logger.DebugContext(ctx, "Rule triggered",
			slog.String("rule", rule.Name()),
			slog.String("transaction_id", tx.ID),
			slog.Int("risk_score", outcome.RiskScore))
	}

	return results, nil
}
