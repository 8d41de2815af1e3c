package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "therapy:therapist:"
	defaultTTL = 60 * time.Second
)

// TherapistCache implementa relationships.Cache sobre Redis.
// TTL corto a propósito: un link nuevo/cerrado se tiene que notar rápido.
type TherapistCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string) *TherapistCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &TherapistCache{rdb: rdb, ttl: defaultTTL}
}

func (c *TherapistCache) GetTherapist(ctx context.Context, patientID string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, keyPrefix+patientID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (c *TherapistCache) SetTherapist(ctx context.Context, patientID, therapistID string) error {
	return c.rdb.Set(ctx, keyPrefix+patientID, therapistID, c.ttl).Err()
}

func (c *TherapistCache) Invalidate(ctx context.Context, patientID string) error {
	return c.rdb.Del(ctx, keyPrefix+patientID).Err()
}

func (c *TherapistCache) Close() error {
	return c.rdb.Close()
}
