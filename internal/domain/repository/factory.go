package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Statements() StatementRepository
	// HealthCheck reports whether the backing store is reachable.
	HealthCheck(ctx context.Context) error
}
