package jwt

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist keeps signed-out token ids in Redis until the token would have expired anyway.
type Denylist struct {
	redisClient *redis.Client
}

func NewDenylist(redisClient *redis.Client) *Denylist {
	return &Denylist{redisClient: redisClient}
}

func denylistKey(jti string) string {
	return "auth:denylist:" + jti
}

func (d *Denylist) Revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return d.redisClient.Set(ctx, denylistKey(claims.ID), "1", ttl).Err()
}

func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.redisClient.Exists(ctx, denylistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
