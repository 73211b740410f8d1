// Package config loads eventease settings from a YAML file and the environment
// and opens the selected key/value backend.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jacentio/eventease/internal/keyspace"
	"github.com/jacentio/eventease/kv/dynamodb"
	"github.com/jacentio/eventease/kv/memory"
	"github.com/jacentio/eventease/kv/postgres"
	"github.com/jacentio/eventease/kv/redis"
	"github.com/jacentio/eventease/kv/sqlite"
	"github.com/jacentio/eventease/store"
)

// ErrInvalid is returned for configurations that cannot be used.
var ErrInvalid = errors.New("eventease: invalid configuration")

// Backend names.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Backends lists every supported backend name.
var Backends = []string{BackendMemory, BackendRedis, BackendDynamoDB, BackendSQLite, BackendPostgres}

// Config is the full application configuration.
type Config struct {
	// Backend selects the key/value service. Default: sqlite.
	Backend string `yaml:"backend"`

	// Namespace prefixes every storage key.
	Namespace string `yaml:"namespace"`

	// Addr is the HTTP listen address of "serve".
	Addr string `yaml:"addr"`

	Redis    RedisConfig    `yaml:"redis"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// RedisConfig selects the Redis server and key prefix for the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// DynamoDBConfig names the table and AWS endpoint for the dynamodb backend.
type DynamoDBConfig struct {
	Table    string `yaml:"table"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`

	// CreateTable creates the table on open when it does not exist.
	CreateTable bool `yaml:"create_table"`
}

// SQLiteConfig locates the database file for the sqlite backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds the connection string and table for the postgres backend.
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Backend:  BackendSQLite,
		Addr:     ":8080",
		Redis:    RedisConfig{Addr: redis.DefaultConfig().Addr},
		DynamoDB: DynamoDBConfig{Table: dynamodb.DefaultConfig().Table},
		SQLite:   SQLiteConfig{Path: sqlite.DefaultPath},
		Postgres: PostgresConfig{Table: postgres.DefaultTable},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// not empty) and then with EVENTEASE_* variables from getenv.
// A nil getenv means os.Getenv.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(name string, dst *string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	set("EVENTEASE_BACKEND", &c.Backend)
	set("EVENTEASE_NAMESPACE", &c.Namespace)
	set("EVENTEASE_ADDR", &c.Addr)
	set("EVENTEASE_REDIS_ADDR", &c.Redis.Addr)
	set("EVENTEASE_REDIS_PASSWORD", &c.Redis.Password)
	set("EVENTEASE_REDIS_PREFIX", &c.Redis.Prefix)
	set("EVENTEASE_DYNAMODB_TABLE", &c.DynamoDB.Table)
	set("EVENTEASE_DYNAMODB_REGION", &c.DynamoDB.Region)
	set("EVENTEASE_DYNAMODB_ENDPOINT", &c.DynamoDB.Endpoint)
	set("EVENTEASE_SQLITE_PATH", &c.SQLite.Path)
	set("EVENTEASE_PG_DSN", &c.Postgres.DSN)
	set("EVENTEASE_PG_TABLE", &c.Postgres.Table)

	if v := getenv("EVENTEASE_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: EVENTEASE_REDIS_DB=%q", ErrInvalid, v)
		}
		c.Redis.DB = db
	}
	if v := getenv("EVENTEASE_DYNAMODB_CREATE_TABLE"); v != "" {
		create, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: EVENTEASE_DYNAMODB_CREATE_TABLE=%q", ErrInvalid, v)
		}
		c.DynamoDB.CreateTable = create
	}
	return nil
}

// Validate checks the selected backend has what it needs.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if err := keyspace.ValidateNamespace(c.Namespace); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	switch c.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required", ErrInvalid)
		}
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			return fmt.Errorf("%w: dynamodb.table is required", ErrInvalid)
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("%w: sqlite.path is required", ErrInvalid)
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("%w: postgres.dsn is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q (want one of %v)", ErrInvalid, c.Backend, Backends)
	}
	return nil
}

// Open connects to the configured backend. The returned close function
// releases it and is never nil.
func (c Config) Open(ctx context.Context) (store.KV, func() error, error) {
	noop := func() error { return nil }

	switch c.Backend {
	case BackendMemory:
		return memory.New(), noop, nil

	case BackendRedis:
		kv, err := redis.Open(ctx, redis.Config{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
		if err != nil {
			return nil, noop, err
		}
		return kv, kv.Close, nil

	case BackendDynamoDB:
		ddbCfg := dynamodb.DefaultConfig()
		ddbCfg.Table = c.DynamoDB.Table
		ddbCfg.Region = c.DynamoDB.Region
		ddbCfg.Endpoint = c.DynamoDB.Endpoint
		kv, client, err := dynamodb.OpenFromEnv(ctx, ddbCfg)
		if err != nil {
			return nil, noop, err
		}
		if c.DynamoDB.CreateTable {
			if err := dynamodb.EnsureTable(ctx, client, ddbCfg, 2*time.Minute); err != nil {
				return nil, noop, err
			}
		}
		return kv, noop, nil

	case BackendSQLite:
		kv, err := sqlite.Open(ctx, c.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		return kv, kv.Close, nil

	case BackendPostgres:
		kv, err := postgres.Open(ctx, postgres.Config{DSN: c.Postgres.DSN, Table: c.Postgres.Table})
		if err != nil {
			return nil, noop, err
		}
		return kv, func() error { kv.Close(); return nil }, nil
	}
	return nil, noop, fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
}
