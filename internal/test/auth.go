package test

import (
	"context"
	"errors"

	"github.com/polkiloo/finapi/internal/domain/model"
	pkgAuth "github.com/polkiloo/finapi/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(subject string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(subject)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "user-1", nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	ID      string
	Err     error
	ParseFn func(string) (string, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.ID, nil
}

// UserFacadeStub simulates account facade interactions.
type UserFacadeStub struct {
	CreateUserFn   func(context.Context, string, string, string) (*model.User, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ShowProfileFn  func(context.Context, string) (*model.User, error)
	ParseFn        func(string) (string, error)
}

// CreateUser returns the created user for successful registration scenarios.
func (s UserFacadeStub) CreateUser(ctx context.Context, name, email, password string) (*model.User, error) {
	if s.CreateUserFn != nil {
		return s.CreateUserFn(ctx, name, email, password)
	}
	return &model.User{ID: "user-1", Name: name, Email: email, PasswordHash: "hash:" + password}, nil
}

// Authenticate returns user and token for successful sign in scenarios.
func (s UserFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: "user-1", Name: "user", Email: email, PasswordHash: "hash:" + password}, "token", nil
}

// ShowProfile returns a default profile for the given user.
func (s UserFacadeStub) ShowProfile(ctx context.Context, userID string) (*model.User, error) {
	if s.ShowProfileFn != nil {
		return s.ShowProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Name: "user", Email: "user@example.com", PasswordHash: "hash"}, nil
}

// ParseToken returns stored identifier for authenticated user.
func (s UserFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "user-1", nil
}

// FinanceFacadeStub aggregates facade dependencies for HTTP layer tests.
type FinanceFacadeStub struct {
	UserFacadeStub
	StatementFacadeStub
	HealthFn func(context.Context) error
}

// Health reports storage health.
func (s FinanceFacadeStub) Health(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
