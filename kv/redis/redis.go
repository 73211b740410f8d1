// Package redis provides a key/value service on Redis.
//
// Each store key maps to one Redis string. Values never expire.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// ErrInvalidConfig is returned for unusable connection settings.
var ErrInvalidConfig = errors.New("eventease: invalid redis config")

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every key, e.g. "eventease:".
	Prefix string
}

// DefaultConfig returns a Config for a local Redis.
func DefaultConfig() Config {
	return Config{Addr: "localhost:6379"}
}

// KV implements store.KV on a Redis client.
type KV struct {
	client goredis.UniversalClient
	prefix string
}

// New wraps an existing client.
func New(client goredis.UniversalClient, prefix string) *KV {
	return &KV{client: client, prefix: prefix}
}

// Open connects to Redis and verifies the connection with PING.
func Open(ctx context.Context, cfg Config) (*KV, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidConfig)
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return New(client, cfg.Prefix), nil
}

// Get returns the string stored under key. A missing key is not an error.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := k.client.Get(ctx, k.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", k.prefix+key, err)
	}
	return v, true, nil
}

// Set stores value under key without expiry.
func (k *KV) Set(ctx context.Context, key, value string) error {
	if err := k.client.Set(ctx, k.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", k.prefix+key, err)
	}
	return nil
}

// Close closes the underlying client.
func (k *KV) Close() error {
	return k.client.Close()
}
