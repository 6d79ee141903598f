package domain

import (
	"time"
)

// Transaction is one parsed input record. Amount and Timestamp are nil when
// the raw field could not be parsed.
type Transaction struct {
	ID        string     `json:"transactionId"`
	UserID    string     `json:"userId"`
	Amount    *int64     `json:"amount,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Location  string     `json:"location"`
}

func (tx Transaction) HasAmount() bool {
	return tx.Amount != nil
}

func (tx Transaction) HasTimestamp() bool {
	return tx.Timestamp != nil
}

// RuleOutcome is what a single rule returns when it fires.
type RuleOutcome struct {
	RiskScore int
	Reasons   []string
}

func NewRuleOutcome(score int, reasons ...string) *RuleOutcome {
	return &RuleOutcome{
		RiskScore: score,
		Reasons:   reasons,
	}
}
