package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/finapi/internal/domain/errors"
	"github.com/polkiloo/finapi/internal/domain/model"
	"github.com/polkiloo/finapi/internal/domain/repository"
)

// BalanceCache stores computed balances per user.
type BalanceCache interface {
	Get(ctx context.Context, userID string) (*model.Balance, bool, error)
	Set(ctx context.Context, userID string, balance *model.Balance) error
	Invalidate(ctx context.Context, userID string) error
}

// StatementUseCase records deposits and withdrawals and reports balances.
type StatementUseCase struct {
	users      repository.UserRepository
	statements repository.StatementRepository
	cache      BalanceCache
	locks      *userLocks
	stale      *staleBalances
	logger     *slog.Logger
}

// NewStatementUseCase constructs StatementUseCase. A nil cache disables caching.
func NewStatementUseCase(users repository.UserRepository, statements repository.StatementRepository, cache BalanceCache, logger *slog.Logger) *StatementUseCase {
	return &StatementUseCase{
		users:      users,
		statements: statements,
		cache:      cache,
		locks:      newUserLocks(),
		stale:      newStaleBalances(),
		logger:     logger,
	}
}

// CreateStatement appends a deposit or withdrawal for the user.
// Withdrawals larger than the current balance are rejected. The cached
// balance is dropped before the write; if that fails nothing is recorded.
func (u *StatementUseCase) CreateStatement(ctx context.Context, userID string, opType model.OperationType, amount decimal.Decimal, description string) (*model.Statement, error) {
	if !opType.Valid() {
		return nil, domainErrors.ErrInvalidOperationType
	}
	if !model.ValidAmount(amount) {
		return nil, domainErrors.ErrInvalidAmount
	}

	unlock := u.locks.lock(userID)
	defer unlock()

	if err := u.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	if opType == model.OperationTypeWithdraw {
		balance, err := u.balance(ctx, userID)
		if err != nil {
			return nil, err
		}
		if amount.GreaterThan(balance) {
			return nil, domainErrors.ErrInsufficientFunds
		}
	}

	if u.cache != nil {
		if err := u.cache.Invalidate(ctx, userID); err != nil {
			return nil, fmt.Errorf("invalidate cached balance: %w", err)
		}
	}

	st, err := u.statements.Create(ctx, userID, opType, amount, description)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("create statement: %w", err)
	}

	u.invalidate(ctx, userID)
	return st, nil
}

// GetBalance returns the user's statements oldest first together with the balance.
func (u *StatementUseCase) GetBalance(ctx context.Context, userID string) (*model.Balance, error) {
	if cached, ok := u.cached(ctx, userID); ok {
		return cached, nil
	}

	unlock := u.locks.lock(userID)
	defer unlock()

	if err := u.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	list, err := u.statements.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}

	balance, err := u.balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &model.Balance{Statements: list, Balance: balance}
	u.store(ctx, userID, result)
	return result, nil
}

// GetStatementOperation returns a single statement owned by the user.
func (u *StatementUseCase) GetStatementOperation(ctx context.Context, userID, statementID string) (*model.Statement, error) {
	if err := u.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	st, err := u.statements.GetByID(ctx, statementID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrStatementNotFound
		}
		return nil, fmt.Errorf("find statement: %w", err)
	}
	if st.UserID != userID {
		return nil, domainErrors.ErrStatementNotFound
	}

	return st, nil
}

func (u *StatementUseCase) ensureUser(ctx context.Context, userID string) error {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return nil
}

func (u *StatementUseCase) balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	deposits, err := u.statements.SumByUserAndType(ctx, userID, model.OperationTypeDeposit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum deposits: %w", err)
	}
	withdrawals, err := u.statements.SumByUserAndType(ctx, userID, model.OperationTypeWithdraw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum withdrawals: %w", err)
	}
	return model.ComputeBalance(deposits, withdrawals), nil
}

// Cache failures on reads are logged and the store is used instead. A user
// whose entry could not be dropped after a write is read from the store
// until a fresh balance is cached again.

func (u *StatementUseCase) cached(ctx context.Context, userID string) (*model.Balance, bool) {
	if u.cache == nil || u.stale.has(userID) {
		return nil, false
	}
	balance, ok, err := u.cache.Get(ctx, userID)
	if err != nil {
		u.logger.Warn("balance cache read failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, false
	}
	return balance, ok
}

func (u *StatementUseCase) store(ctx context.Context, userID string, balance *model.Balance) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Set(ctx, userID, balance); err != nil {
		u.logger.Warn("balance cache write failed", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	u.stale.clear(userID)
}

func (u *StatementUseCase) invalidate(ctx context.Context, userID string) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx, userID); err != nil {
		u.stale.mark(userID)
		u.logger.Warn("balance cache invalidation failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}
