package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType describes the direction of a statement.
type OperationType string

const (
	OperationTypeDeposit  OperationType = "deposit"
	OperationTypeWithdraw OperationType = "withdraw"
)

// Valid reports whether t is a known operation type.
func (t OperationType) Valid() bool {
	return t == OperationTypeDeposit || t == OperationTypeWithdraw
}

// Statement is a single recorded deposit or withdrawal.
type Statement struct {
	ID          string
	UserID      string
	Type        OperationType
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AmountScale is the number of fractional digits a statement amount may carry.
const AmountScale = 2

// maxAmount is the first value that no longer fits NUMERIC(20, 2).
var maxAmount = decimal.New(1, 18)

// ValidAmount reports whether d is positive, has at most AmountScale
// fractional digits and fits the statements.amount column.
func ValidAmount(d decimal.Decimal) bool {
	if !d.IsPositive() || d.GreaterThanOrEqual(maxAmount) {
		return false
	}
	return d.Equal(d.Truncate(AmountScale))
}
