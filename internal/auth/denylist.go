package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:denylist:"

// Denylist records revoked token IDs until their natural expiry, making JWT
// logout effective server-side.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	Revoked(ctx context.Context, jti string) bool
}

type redisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist builds a Redis-backed denylist.
func NewRedisDenylist(client *redis.Client) Denylist {
	return &redisDenylist{client: client}
}

func (d *redisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+jti, "1", ttl).Err()
}

// Revoked treats Redis errors as "not revoked": a flaky cache must not lock
// every user out.
func (d *redisDenylist) Revoked(ctx context.Context, jti string) bool {
	val, err := d.client.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false
	}
	return val > 0
}
