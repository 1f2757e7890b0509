package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis stores JSON values under "<prefix>:<key>"; every Put refreshes the TTL.
type Redis[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedis[T any](client redis.UniversalClient, prefix string, ttl time.Duration) *Redis[T] {
	return &Redis[T]{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis[T]) Key(key string) string {
	return r.prefix + ":" + key
}

func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var value T
	data, err := r.client.Get(ctx, r.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, errors.Wrapf(err, "redis get %s", r.Key(key))
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, errors.Wrapf(err, "decode %s", r.Key(key))
	}
	return value, true, nil
}

func (r *Redis[T]) Put(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", r.Key(key))
	}
	if err := r.client.Set(ctx, r.Key(key), data, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", r.Key(key))
	}
	return nil
}

func (r *Redis[T]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.Key(key)).Err(); err != nil {
		return errors.Wrapf(err, "redis del %s", r.Key(key))
	}
	return nil
}
