package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/finapi/internal/domain/model"
)

// UserFacade describes account capabilities required by handlers.
type UserFacade interface {
	CreateUser(ctx context.Context, name, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ShowProfile(ctx context.Context, userID string) (*model.User, error)
	ParseToken(token string) (string, error)
}

// StatementFacade encapsulates statement operations exposed via HTTP.
type StatementFacade interface {
	CreateStatement(ctx context.Context, userID string, opType model.OperationType, amount decimal.Decimal, description string) (*model.Statement, error)
	Balance(ctx context.Context, userID string) (*model.Balance, error)
	StatementOperation(ctx context.Context, userID, statementID string) (*model.Statement, error)
}

// HealthFacade reports readiness of the service.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// FinanceFacade aggregates the full set of operations used across handlers.
type FinanceFacade interface {
	UserFacade
	StatementFacade
	HealthFacade
}
