package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementRequest describes deposit and withdrawal payloads.
// Amount accepts both JSON numbers and decimal strings.
type StatementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// StatementResponse describes a single recorded operation.
type StatementResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BalanceResponse lists statements oldest first with the resulting balance.
type BalanceResponse struct {
	Statement []StatementResponse `json:"statement"`
	Balance   decimal.Decimal     `json:"balance"`
}
