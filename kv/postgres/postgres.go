// Package postgres provides a key/value service on a Postgres table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the table used when Config.Table is empty.
const DefaultTable = "eventease_kv"

// Config holds Postgres connection settings.
type Config struct {
	DSN   string
	Table string
}

// KV implements store.KV on a Postgres table.
type KV struct {
	pool  *pgxpool.Pool
	table string
}

// Open connects to Postgres, pings it and ensures the table exists.
func Open(ctx context.Context, cfg Config) (*KV, error) {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	kv := &KV{pool: pool, table: pgx.Identifier{cfg.Table}.Sanitize()}
	if _, err := pool.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)`, kv.table,
	)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return kv, nil
}

// Get returns the value stored under key.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := k.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, k.table), key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres get %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (k *KV) Set(ctx context.Context, key, value string) error {
	_, err := k.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, k.table,
	), key, value)
	if err != nil {
		return fmt.Errorf("postgres set %q: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (k *KV) Close() {
	k.pool.Close()
}
