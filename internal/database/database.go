// Package database connects the optional Redis backend used for session state,
// pub/sub and rate limiting.
package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"labubu_store/internal/config"
)

const pingTimeout = 5 * time.Second

// ConnectRedis returns nil, nil when Redis is not configured.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.RedisEnabled() {
		log.Info("redis not configured, using in-memory session state")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", cfg.RedisAddr)
	}
	log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
	return client, nil
}
