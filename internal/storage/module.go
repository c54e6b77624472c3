package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/finapi/internal/config"
	"github.com/polkiloo/finapi/internal/domain/repository"
	"github.com/polkiloo/finapi/internal/storage/memory"
	"github.com/polkiloo/finapi/internal/storage/postgres"
)

// Module wires the configured storage backend and its repositories.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.UserRepository { return f.Users() },
		func(f repository.Factory) repository.StatementRepository { return f.Statements() },
	),
)

type factoryParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

// newFactory picks PostgreSQL when a DSN is configured and the in-memory store otherwise.
func newFactory(p factoryParams) (repository.Factory, error) {
	if p.Config.DatabaseURI == "" {
		p.Logger.Info("database uri not set, using in-memory storage")
		return memory.New(), nil
	}

	st, err := postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			st.Close()
			return nil
		},
	})
	return st, nil
}
