package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jacentio/eventease/internal/keyspace"
)

// Config holds configuration for an EntityStore.
type Config struct {
	// CollectionKey is the key holding the JSON array of records (e.g., "events").
	CollectionKey string

	// CounterKey is the key holding the last issued ID as base-10 text (e.g., "lastEventId").
	CounterKey string

	// Namespace optionally prefixes both keys so several applications can
	// share one key/value service.
	// Default: "" (bare keys)
	Namespace string

	// Logger receives recovery and failure diagnostics.
	// Default: slog.Default()
	Logger *slog.Logger

	// Now is the clock used by stamp helpers.
	// Default: time.Now
	Now func() time.Time
}

// validate fills defaults and rejects unusable keys.
func (c *Config) validate() error {
	if err := keyspace.ValidateName(c.CollectionKey); err != nil {
		return fmt.Errorf("%w: collection key: %v", ErrInvalidConfig, err)
	}
	if err := keyspace.ValidateName(c.CounterKey); err != nil {
		return fmt.Errorf("%w: counter key: %v", ErrInvalidConfig, err)
	}
	if c.CollectionKey == c.CounterKey {
		return fmt.Errorf("%w: collection and counter keys are both %q", ErrInvalidConfig, c.CounterKey)
	}
	if err := keyspace.ValidateNamespace(c.Namespace); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

func (c Config) collectionKey() string {
	return keyspace.Qualify(c.Namespace, c.CollectionKey)
}

func (c Config) counterKey() string {
	return keyspace.Qualify(c.Namespace, c.CounterKey)
}
