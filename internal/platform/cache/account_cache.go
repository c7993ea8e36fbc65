package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staynest/listings-api/pkg/model"
)

const keyPrefix = "listings:account:"

// AccountCache keeps owner account display fields in Redis for a short TTL.
type AccountCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAccountCache(rdb *redis.Client, ttl time.Duration) *AccountCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AccountCache{rdb: rdb, ttl: ttl}
}

// Connect parses a redis:// URL and verifies the connection.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func key(collection, id string) string {
	return keyPrefix + collection + ":" + id
}

// Get returns the cached account and whether it was present.
func (c *AccountCache) Get(ctx context.Context, collection, id string) (model.Account, bool, error) {
	raw, err := c.rdb.Get(ctx, key(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Account{}, false, nil
	}
	if err != nil {
		return model.Account{}, false, fmt.Errorf("get account %s/%s: %w", collection, id, err)
	}
	var acct model.Account
	if err := json.Unmarshal(raw, &acct); err != nil {
		return model.Account{}, false, fmt.Errorf("decode account %s/%s: %w", collection, id, err)
	}
	return acct, true, nil
}

// Set stores the account under its id.
func (c *AccountCache) Set(ctx context.Context, collection string, acct model.Account) error {
	if acct.ID == "" {
		return errors.New("account id is required")
	}
	raw, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("encode account %s: %w", acct.ID, err)
	}
	if err := c.rdb.Set(ctx, key(collection, acct.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set account %s/%s: %w", collection, acct.ID, err)
	}
	return nil
}
