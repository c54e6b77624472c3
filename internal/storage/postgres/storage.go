package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/finapi/internal/domain/errors"
	"github.com/polkiloo/finapi/internal/domain/model"
	"github.com/polkiloo/finapi/internal/domain/repository"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type statementRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres storage ready")
	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Statements() repository.StatementRepository {
	return &statementRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS statements (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id),
            type TEXT NOT NULL CHECK (type IN ('deposit', 'withdraw')),
            amount NUMERIC(20, 2) NOT NULL CHECK (amount > 0),
            description TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_statements_user ON statements(user_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// validID reports whether id can be stored in a UUID column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)
                   RETURNING created_at, updated_at`
	u := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := r.storage.pool.QueryRow(ctx, query, u.ID, name, email, passwordHash).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id::text, name, email, password_hash, created_at, updated_at FROM users WHERE email=$1`
	return r.scanOne(ctx, query, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if !validID(id) {
		return nil, domainErrors.ErrNotFound
	}
	const query = `SELECT id::text, name, email, password_hash, created_at, updated_at FROM users WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

func (r *userRepository) scanOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- StatementRepository implementation ---

func (r *statementRepository) Create(ctx context.Context, userID string, opType model.OperationType, amount decimal.Decimal, description string) (*model.Statement, error) {
	if !validID(userID) {
		return nil, domainErrors.ErrNotFound
	}
	const query = `INSERT INTO statements (id, user_id, type, amount, description) VALUES ($1, $2, $3, $4, $5)
                   RETURNING created_at, updated_at`
	st := model.Statement{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        opType,
		Amount:      amount,
		Description: description,
	}
	err := r.storage.pool.QueryRow(ctx, query, st.ID, userID, string(opType), amount.String(), description).Scan(&st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *statementRepository) GetByID(ctx context.Context, id string) (*model.Statement, error) {
	if !validID(id) {
		return nil, domainErrors.ErrNotFound
	}
	const query = `SELECT id::text, user_id::text, type, amount::text, description, created_at, updated_at
                   FROM statements WHERE id=$1`
	st, err := scanStatement(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (r *statementRepository) ListByUser(ctx context.Context, userID string) ([]model.Statement, error) {
	if !validID(userID) {
		return []model.Statement{}, nil
	}
	const query = `SELECT id::text, user_id::text, type, amount::text, description, created_at, updated_at
                   FROM statements WHERE user_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Statement{}
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *statementRepository) SumByUserAndType(ctx context.Context, userID string, opType model.OperationType) (decimal.Decimal, error) {
	if !validID(userID) {
		return decimal.Zero, nil
	}
	const query = `SELECT COALESCE(SUM(amount), 0)::text FROM statements WHERE user_id=$1 AND type=$2`
	var raw string
	if err := r.storage.pool.QueryRow(ctx, query, userID, string(opType)).Scan(&raw); err != nil {
		return decimal.Zero, err
	}
	sum, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse sum: %w", err)
	}
	return sum, nil
}

func scanStatement(row pgx.Row) (*model.Statement, error) {
	var (
		st     model.Statement
		opType string
		amount string
	)
	if err := row.Scan(&st.ID, &st.UserID, &opType, &amount, &st.Description, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	st.Type = model.OperationType(opType)
	st.Amount = parsed
	return &st, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
