package domain

const InvalidDataMessage = "Invalid data detected in transactions"

type FlaggedTransaction struct {
	TransactionID string   `json:"transactionId" yaml:"transactionId"`
	UserID        string   `json:"userId" yaml:"userId"`
	RiskScore     int      `json:"riskScore" yaml:"riskScore"`
	Reasons       []string `json:"reasons" yaml:"reasons"`
}

type Summary struct {
	TotalTransactions int     `json:"totalTransactions" yaml:"totalTransactions"`
	FlaggedCount      int     `json:"flaggedCount" yaml:"flaggedCount"`
	FraudRate         float64 `json:"fraudRate" yaml:"fraudRate"`
}

// Report is the result of one scoring pass. Flagged keeps input order and is
// never nil so it encodes as an empty list.
type Report struct {
	Flagged []FlaggedTransaction `json:"flagged" yaml:"flagged"`
	Summary Summary              `json:"summary" yaml:"summary"`
	Errors  []string             `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func (r Report) HasErrors() bool {
	return len(r.Errors) > 0
}
