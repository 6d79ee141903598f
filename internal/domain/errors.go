package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidData = errors.New("invalid data")

// InvalidDataError reports a rule that needed a field the transaction does not have.
type InvalidDataError struct {
	TransactionID string
	Rule          string
	Field         string
}

func NewInvalidDataError(transactionID, rule, field string) *InvalidDataError {
	return &InvalidDataError{
		TransactionID: transactionID,
		Rule:          rule,
		Field:         field,
	}
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("%s: transaction %q: rule %s requires %s", ErrInvalidData, e.TransactionID, e.Rule, e.Field)
}

func (e *InvalidDataError) Unwrap() error {
	return ErrInvalidData
}
