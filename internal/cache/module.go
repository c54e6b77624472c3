package cache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/finapi/internal/config"
	"github.com/polkiloo/finapi/internal/usecase"
)

// Module provides the balance cache, disabled when no redis address is configured.
var Module = fx.Provide(newBalanceCache)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newBalanceCache(p cacheParams) usecase.BalanceCache {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("redis address not set, balance cache disabled")
		return NopBalanceCache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     p.Config.RedisAddr,
		Password: p.Config.RedisPassword,
		DB:       p.Config.RedisDB,
	})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Logger.Warn("redis unreachable, balances will be read from storage",
					slog.String("addr", p.Config.RedisAddr), slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return NewBalanceCache(client, p.Config.BalanceCacheTTL)
}
