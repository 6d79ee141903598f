package processor

import (
	"fraud_report/internal/domain"
)

// Batch is the read-only view of a parsed batch that rules evaluate against.
type Batch struct {
	transactions []domain.Transaction
	byUser       map[string][]domain.Transaction
}

func NewBatch(transactions []domain.Transaction) *Batch {
	byUser := make(map[string][]domain.Transaction)
	for _, tx := range transactions {
		byUser[tx.UserID] = append(byUser[tx.UserID], tx)
	}

	return &Batch{
		transactions: transactions,
		byUser:       byUser,
	}
}

func (b *Batch) Len() int {
	return len(b.transactions)
}

func (b *Batch) Transactions() []domain.Transaction {
	return b.transactions
}

// UserTransactions returns every transaction in the batch for userID,
// including the one being evaluated.
func (b *Batch) UserTransactions(userID string) []domain.Transaction {
	return b.byUser[userID]
}
