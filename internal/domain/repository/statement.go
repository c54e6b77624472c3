package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/finapi/internal/domain/model"
)

// StatementRepository describes persistence operations with statements.
// ListByUser returns statements oldest first.
type StatementRepository interface {
	Create(ctx context.Context, userID string, opType model.OperationType, amount decimal.Decimal, description string) (*model.Statement, error)
	GetByID(ctx context.Context, id string) (*model.Statement, error)
	ListByUser(ctx context.Context, userID string) ([]model.Statement, error)
	SumByUserAndType(ctx context.Context, userID string, opType model.OperationType) (decimal.Decimal, error)
}
