package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/finapi/internal/domain/errors"
	"github.com/polkiloo/finapi/internal/domain/model"
	"github.com/polkiloo/finapi/internal/domain/repository"
	pkgAuth "github.com/polkiloo/finapi/internal/pkg/auth"
)

// AuthUseCase handles user registration, sign in and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// CreateUser registers a new user. The email must not be taken and the
// password must fit pkgAuth.MaxPasswordBytes.
func (u *AuthUseCase) CreateUser(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" || len(password) > pkgAuth.MaxPasswordBytes {
		return nil, domainErrors.ErrInvalidInput
	}

	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return nil, domainErrors.ErrUserAlreadyExists
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
			return nil, domainErrors.ErrInvalidInput
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	usr, err := u.users.Create(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return usr, nil
}

// Authenticate validates credentials and returns the user with a fresh token.
// Unknown email and wrong password are reported identically.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrIncorrectCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrIncorrectCredentials
		}
		return nil, "", fmt.Errorf("find user by email: %w", err)
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrIncorrectCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return usr, token, nil
}

// ShowProfile returns the stored user record.
func (u *AuthUseCase) ShowProfile(ctx context.Context, userID string) (*model.User, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return usr, nil
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
