package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/finapi/internal/domain/errors"
	"github.com/polkiloo/finapi/internal/domain/model"
	"github.com/polkiloo/finapi/internal/domain/repository"
)

// Store keeps users and statements in process memory.
type Store struct {
	mu         sync.RWMutex
	users      map[string]model.User
	emails     map[string]string
	statements map[string]model.Statement
	byUser     map[string][]string
	now        func() time.Time
}

type userRepository struct {
	store *Store
}

type statementRepository struct {
	store *Store
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:      make(map[string]model.User),
		emails:     make(map[string]string),
		statements: make(map[string]model.Statement),
		byUser:     make(map[string][]string),
		now:        time.Now,
	}
}

// Factory methods for domain repositories.
func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s}
}

func (s *Store) Statements() repository.StatementRepository {
	return &statementRepository{store: s}
}

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(context.Context) error {
	return nil
}

func (r *userRepository) Create(_ context.Context, name, email, passwordHash string) (*model.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[email]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}

	now := s.now()
	u := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	s.emails[email] = u.ID
	return &u, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &u, nil
}

func (r *statementRepository) Create(_ context.Context, userID string, opType model.OperationType, amount decimal.Decimal, description string) (*model.Statement, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, domainErrors.ErrNotFound
	}

	now := s.now()
	st := model.Statement{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        opType,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.statements[st.ID] = st
	s.byUser[userID] = append(s.byUser[userID], st.ID)
	return &st, nil
}

func (r *statementRepository) GetByID(_ context.Context, id string) (*model.Statement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.statements[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &st, nil
}

func (r *statementRepository) ListByUser(_ context.Context, userID string) ([]model.Statement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	result := make([]model.Statement, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.statements[id])
	}
	return result, nil
}

func (r *statementRepository) SumByUserAndType(_ context.Context, userID string, opType model.OperationType) (decimal.Decimal, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, id := range s.byUser[userID] {
		if st := s.statements[id]; st.Type == opType {
			sum = sum.Add(st.Amount)
		}
	}
	return sum, nil
}
