package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

// TokenCache maps an active organization access token to the owning
// organization's SAP id. The redis entry is the fast validation path; the
// organizations table stays the source of truth.
type TokenCache interface {
	Put(ctx context.Context, token, orgSapID string) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type redisTokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) TokenCache {
	return &redisTokenCache{client: client}
}

func tokenKey(token string) string {
	return fmt.Sprintf("orgtoken:%s", token)
}

func (c *redisTokenCache) Put(ctx context.Context, token, orgSapID string) error {
	return c.client.Set(ctx, tokenKey(token), orgSapID, 0).Err()
}

// Get returns the org SAP id for a token, or "" on a cache miss.
func (c *redisTokenCache) Get(ctx context.Context, token string) (string, error) {
	v, err := c.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (c *redisTokenCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, tokenKey(token)).Err()
}
