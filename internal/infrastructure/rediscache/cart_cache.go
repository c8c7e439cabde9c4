package rediscache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/pkg/helpers"
)

// CartCache keeps a per-user cart snapshot in Redis, alongside the rows in
// Postgres. It is the durable cache half of the login-time reconciliation:
// on (re-)login the cached snapshot is merged with the persisted cart.
type CartCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartCache(rdb *redis.Client, ttl time.Duration) *CartCache {
	return &CartCache{rdb: rdb, ttl: ttl}
}

func cartKey(userID int64) string {
	return "cart:cache:" + strconv.FormatInt(userID, 10)
}

func (c *CartCache) Load(ctx context.Context, userID int64) ([]entity.CartItem, error) {
	var items []entity.CartItem
	found, err := helpers.RedisGetJSON(ctx, c.rdb, cartKey(userID), &items)
	if err != nil {
		return nil, err
	}
	if !found {
		return []entity.CartItem{}, nil
	}
	return items, nil
}

func (c *CartCache) Save(ctx context.Context, userID int64, items []entity.CartItem) error {
	if items == nil {
		items = []entity.CartItem{}
	}
	return helpers.RedisSetJSON(ctx, c.rdb, cartKey(userID), items, c.ttl)
}

func (c *CartCache) Delete(ctx context.Context, userID int64) error {
	return helpers.RedisDel(ctx, c.rdb, cartKey(userID))
}
