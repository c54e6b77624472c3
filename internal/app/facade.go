package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/finapi/internal/domain/model"
	"github.com/polkiloo/finapi/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// FinanceFacade exposes the use cases to transport adapters.
type FinanceFacade struct {
	auth       *usecase.AuthUseCase
	statements *usecase.StatementUseCase
	health     HealthChecker
}

// NewFinanceFacade builds facade over auth and statement use cases.
func NewFinanceFacade(auth *usecase.AuthUseCase, statements *usecase.StatementUseCase, health HealthChecker) *FinanceFacade {
	return &FinanceFacade{auth: auth, statements: statements, health: health}
}

// CreateUser registers a new account.
func (f *FinanceFacade) CreateUser(ctx context.Context, name, email, password string) (*model.User, error) {
	return f.auth.CreateUser(ctx, name, email, password)
}

// Authenticate signs the user in and returns an auth token.
func (f *FinanceFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

// ShowProfile returns the stored user record.
func (f *FinanceFacade) ShowProfile(ctx context.Context, userID string) (*model.User, error) {
	return f.auth.ShowProfile(ctx, userID)
}

// ParseToken resolves token into user identifier.
func (f *FinanceFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

// CreateStatement records a deposit or withdrawal.
func (f *FinanceFacade) CreateStatement(ctx context.Context, userID string, opType model.OperationType, amount decimal.Decimal, description string) (*model.Statement, error) {
	return f.statements.CreateStatement(ctx, userID, opType, amount, description)
}

// Balance returns user statements and current balance.
func (f *FinanceFacade) Balance(ctx context.Context, userID string) (*model.Balance, error) {
	return f.statements.GetBalance(ctx, userID)
}

// StatementOperation returns a single statement owned by the user.
func (f *FinanceFacade) StatementOperation(ctx context.Context, userID, statementID string) (*model.Statement, error) {
	return f.statements.GetStatementOperation(ctx, userID, statementID)
}

// Health reports storage reachability.
func (f *FinanceFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
