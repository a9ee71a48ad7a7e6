package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blocklist tracks revoked token ids until they expire
type Blocklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NoopBlocklist is used when Redis is not configured; logout is then client-side only
type NoopBlocklist struct{}

func (NoopBlocklist) Revoke(context.Context, string, time.Duration) error { return nil }

func (NoopBlocklist) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// RedisBlocklist stores revoked ids as expiring keys
type RedisBlocklist struct {
	client *redis.Client
	prefix string
}

// NewRedisBlocklist wraps an existing client
func NewRedisBlocklist(client *redis.Client) *RedisBlocklist {
	return &RedisBlocklist{client: client, prefix: "caredonate:revoked:"}
}

func (b *RedisBlocklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return b.client.Set(ctx, b.prefix+jti, "1", ttl).Err()
}

func (b *RedisBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := b.client.Get(ctx, b.prefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
