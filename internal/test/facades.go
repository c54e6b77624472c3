package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/finapi/internal/domain/model"
)

// StatementFacadeStub provides controllable behaviour for statement endpoints.
type StatementFacadeStub struct {
	CreateStatementFn    func(context.Context, string, model.OperationType, decimal.Decimal, string) (*model.Statement, error)
	BalanceFn            func(context.Context, string) (*model.Balance, error)
	StatementOperationFn func(context.Context, string, string) (*model.Statement, error)
}

// CreateStatement delegates to provided function or echoes the input.
func (s StatementFacadeStub) CreateStatement(ctx context.Context, userID string, opType model.OperationType, amount decimal.Decimal, description string) (*model.Statement, error) {
	if s.CreateStatementFn != nil {
		return s.CreateStatementFn(ctx, userID, opType, amount, description)
	}
	return &model.Statement{
		ID:          "statement-1",
		UserID:      userID,
		Type:        opType,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Unix(0, 0).UTC(),
		UpdatedAt:   time.Unix(0, 0).UTC(),
	}, nil
}

// Balance returns the configured balance or a single deposit.
func (s StatementFacadeStub) Balance(ctx context.Context, userID string) (*model.Balance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, userID)
	}
	return &model.Balance{
		Statements: []model.Statement{{
			ID:        "statement-1",
			UserID:    userID,
			Type:      model.OperationTypeDeposit,
			Amount:    decimal.NewFromInt(100),
			CreatedAt: time.Unix(0, 0).UTC(),
			UpdatedAt: time.Unix(0, 0).UTC(),
		}},
		Balance: decimal.NewFromInt(100),
	}, nil
}

// StatementOperation returns a statement owned by the user.
func (s StatementFacadeStub) StatementOperation(ctx context.Context, userID, statementID string) (*model.Statement, error) {
	if s.StatementOperationFn != nil {
		return s.StatementOperationFn(ctx, userID, statementID)
	}
	return &model.Statement{
		ID:        statementID,
		UserID:    userID,
		Type:      model.OperationTypeDeposit,
		Amount:    decimal.NewFromInt(100),
		CreatedAt: time.Unix(0, 0).UTC(),
		UpdatedAt: time.Unix(0, 0).UTC(),
	}, nil
}
