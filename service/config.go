package service

import (
	"log/slog"
	"time"

	"github.com/jacentio/eventease/store"
)

// Storage keys of the two collections and their ID counters.
const (
	EventsKey           = "events"
	LastEventIDKey      = "lastEventId"
	AttendancesKey      = "attendances"
	LastAttendanceIDKey = "lastAttendanceId"
)

// Config holds settings shared by both services.
type Config struct {
	// Namespace prefixes every storage key. Empty means unprefixed.
	Namespace string

	// Logger receives store diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Now supplies registration timestamps. Nil means time.Now.
	Now func() time.Time
}

func (c Config) storeConfig(collectionKey, counterKey string) store.Config {
	return store.Config{
		CollectionKey: collectionKey,
		CounterKey:    counterKey,
		Namespace:     c.Namespace,
		Logger:        c.Logger,
		Now:           c.Now,
	}
}
