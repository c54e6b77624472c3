package model

import "github.com/shopspring/decimal"

// Balance aggregates user statements with the resulting amount.
type Balance struct {
	Statements []Statement
	Balance    decimal.Decimal
}

// ComputeBalance returns deposits minus withdrawals.
func ComputeBalance(deposits, withdrawals decimal.Decimal) decimal.Decimal {
	return deposits.Sub(withdrawals)
}
