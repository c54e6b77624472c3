package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/finapi/internal/domain/errors"
	"github.com/polkiloo/finapi/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users   map[string]*model.User
	ByID    map[string]*model.User
	Next    int
	Err     error
	GetErr  error
	Creates int
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[string]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.User)
	}
	if _, exists := s.Users[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: fmt.Sprintf("user-%d", s.Next), Name: name, Email: email, PasswordHash: passwordHash}
	s.Next++
	s.Creates++
	s.Users[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// StatementRepositoryStub allows tests to customize behaviour.
type StatementRepositoryStub struct {
	CreateFn  func(context.Context, string, model.OperationType, decimal.Decimal, string) (*model.Statement, error)
	GetByIDFn func(context.Context, string) (*model.Statement, error)
	ListFn    func(context.Context, string) ([]model.Statement, error)
	SumFn     func(context.Context, string, model.OperationType) (decimal.Decimal, error)

	mu    sync.Mutex
	calls int
}

// Calls reports how many repository methods were invoked.
func (s *StatementRepositoryStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *StatementRepositoryStub) record() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

// Create invokes configured function or returns a statement built from input.
func (s *StatementRepositoryStub) Create(ctx context.Context, userID string, opType model.OperationType, amount decimal.Decimal, description string) (*model.Statement, error) {
	s.record()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, opType, amount, description)
	}
	return &model.Statement{ID: "statement-1", UserID: userID, Type: opType, Amount: amount, Description: description}, nil
}

// GetByID invokes configured function or returns not found.
func (s *StatementRepositoryStub) GetByID(ctx context.Context, id string) (*model.Statement, error) {
	s.record()
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser invokes configured function or returns empty list.
func (s *StatementRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Statement, error) {
	s.record()
	if s.ListFn != nil {
		return s.ListFn(ctx, userID)
	}
	return []model.Statement{}, nil
}

// SumByUserAndType invokes configured function or returns zero.
func (s *StatementRepositoryStub) SumByUserAndType(ctx context.Context, userID string, opType model.OperationType) (decimal.Decimal, error) {
	s.record()
	if s.SumFn != nil {
		return s.SumFn(ctx, userID, opType)
	}
	return decimal.Zero, nil
}

// BalanceCacheStub keeps balances in a map and lets tests inject failures.
type BalanceCacheStub struct {
	GetErr        error
	SetErr        error
	InvalidateErr error
	// InvalidateFn overrides InvalidateErr when set.
	InvalidateFn func(userID string) error

	mu          sync.Mutex
	entries     map[string]*model.Balance
	Invalidated []string
}

// Get returns a cached balance when present.
func (s *BalanceCacheStub) Get(ctx context.Context, userID string) (*model.Balance, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, false, s.GetErr
	}
	b, ok := s.entries[userID]
	return b, ok, nil
}

// Set stores the balance for the user.
func (s *BalanceCacheStub) Set(ctx context.Context, userID string, balance *model.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	if s.entries == nil {
		s.entries = make(map[string]*model.Balance)
	}
	s.entries[userID] = balance
	return nil
}

// Invalidate drops the cached balance and records the call.
func (s *BalanceCacheStub) Invalidate(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Invalidated = append(s.Invalidated, userID)
	err := s.InvalidateErr
	if s.InvalidateFn != nil {
		err = s.InvalidateFn(userID)
	}
	if err != nil {
		return err
	}
	delete(s.entries, userID)
	return nil
}

// Cached reports whether a balance is stored for the user.
func (s *BalanceCacheStub) Cached(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[userID]
	return ok
}
