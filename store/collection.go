package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// LoadState tells how a collection load was satisfied.
type LoadState int

const (
	// LoadEmpty means the key was missing or held an empty value.
	LoadEmpty LoadState = iota
	// LoadOK means the stored array decoded successfully.
	LoadOK
	// LoadCorrupted means the stored value could not be decoded and was ignored.
	LoadCorrupted
)

func (s LoadState) String() string {
	switch s {
	case LoadEmpty:
		return "empty"
	case LoadOK:
		return "ok"
	case LoadCorrupted:
		return "corrupted"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// Snapshot is the result of a collection load.
// Items is never nil.
type Snapshot[T any] struct {
	Items []T
	State LoadState
}

// Collection reads and writes one ordered sequence of records under a single key.
type Collection[T any] struct {
	kv     KV
	key    string
	logger *slog.Logger
}

// NewCollection creates a collection stored under key.
func NewCollection[T any](kv KV, key string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{kv: kv, key: key, logger: logger}
}

// Key returns the fully qualified storage key.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load reads the collection.
// A missing or empty value yields LoadEmpty; an undecodable value yields
// LoadCorrupted. Both return an empty, non-nil Items slice. Only a failing
// key/value service produces an error.
func (c *Collection[T]) Load(ctx context.Context) (Snapshot[T], error) {
	raw, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return Snapshot[T]{}, fmt.Errorf("%w: load %q: %w", ErrStorageUnavailable, c.key, err)
	}
	if !ok || raw == "" {
		return Snapshot[T]{Items: []T{}, State: LoadEmpty}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.logger.Warn("discarding undecodable collection",
			"key", c.key,
			"bytes", len(raw),
			"error", err,
		)
		return Snapshot[T]{Items: []T{}, State: LoadCorrupted}, nil
	}
	if items == nil {
		// "null"
		return Snapshot[T]{Items: []T{}, State: LoadEmpty}, nil
	}
	return Snapshot[T]{Items: items, State: LoadOK}, nil
}

// Save overwrites the collection with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", c.key, err)
	}
	if err := c.kv.Set(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("%w: save %q: %w", ErrStorageUnavailable, c.key, err)
	}
	return nil
}
