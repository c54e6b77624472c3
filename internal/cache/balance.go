package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/finapi/internal/domain/model"
)

const balanceKeyPrefix = "balance:user:"

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// BalanceCache keeps JSON encoded balances in redis for a limited time.
type BalanceCache struct {
	client redisClient
	ttl    time.Duration
}

// NewBalanceCache creates a cache backed by the given redis client.
func NewBalanceCache(client redisClient, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

func balanceKey(userID string) string {
	return balanceKeyPrefix + userID
}

// Get returns the cached balance. A missing key is not an error.
func (c *BalanceCache) Get(ctx context.Context, userID string) (*model.Balance, bool, error) {
	raw, err := c.client.Get(ctx, balanceKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var balance model.Balance
	if err := json.Unmarshal(raw, &balance); err != nil {
		return nil, false, fmt.Errorf("decode cached balance: %w", err)
	}
	return &balance, true, nil
}

// Set stores the balance with the configured TTL.
func (c *BalanceCache) Set(ctx context.Context, userID string, balance *model.Balance) error {
	raw, err := json.Marshal(balance)
	if err != nil {
		return fmt.Errorf("encode balance: %w", err)
	}
	return c.client.Set(ctx, balanceKey(userID), raw, c.ttl).Err()
}

// Invalidate removes the cached balance.
func (c *BalanceCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, balanceKey(userID)).Err()
}

// NopBalanceCache never stores anything.
type NopBalanceCache struct{}

func (NopBalanceCache) Get(context.Context, string) (*model.Balance, bool, error) {
	return nil, false, nil
}

func (NopBalanceCache) Set(context.Context, string, *model.Balance) error { return nil }

func (NopBalanceCache) Invalidate(context.Context, string) error { return nil }
