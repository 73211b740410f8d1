package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// EntityStore provides create/read/update operations for one entity type.
type EntityStore[T Entity] struct {
	kv       KV
	config   Config
	logger   *slog.Logger
	gate     *InitGate
	ids      *IDAllocator
	items    *Collection[T]
	notifier *Notifier
}

// New creates a new EntityStore persisting to kv.
// Nothing is read until the first operation.
func New[T Entity](kv KV, config Config) (*EntityStore[T], error) {
	if kv == nil {
		return nil, ErrNilKV
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	s := &EntityStore[T]{
		kv:       kv,
		config:   config,
		logger:   config.Logger.With("collection", config.collectionKey()),
		ids:      NewIDAllocator(),
		notifier: NewNotifier(),
	}
	s.items = NewCollection[T](kv, config.collectionKey(), s.logger)
	s.gate = NewInitGate(s.restoreCounter)
	return s, nil
}

// Now returns the current time from the configured clock.
func (s *EntityStore[T]) Now() time.Time {
	return s.config.Now()
}

// EnsureInitialized restores the ID counter from storage once per store.
func (s *EntityStore[T]) EnsureInitialized(ctx context.Context) error {
	return s.gate.EnsureInitialized(ctx)
}

// Gate exposes the init gate for diagnostics.
func (s *EntityStore[T]) Gate() *InitGate {
	return s.gate
}

// NextID returns the ID the next Create will allocate.
func (s *EntityStore[T]) NextID() int {
	return s.ids.Next()
}

// restoreCounter seeds the allocator from the counter key.
// A failed read, a missing key or an unparsable value all leave the default.
func (s *EntityStore[T]) restoreCounter(ctx context.Context) {
	key := s.config.counterKey()
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("id counter unreadable, starting from default",
			"key", key,
			"error", err,
		)
		return
	}
	if !ok {
		return
	}
	last, valid := parseCounter(raw)
	if !valid {
		s.logger.Warn("ignoring malformed id counter",
			"key", key,
			"value", raw,
		)
		return
	}
	s.ids.Seed(last)
	s.logger.Debug("restored id counter",
		"key", key,
		"next", s.ids.Next(),
	)
}

// persistCounter writes the last issued ID under the counter key.
func (s *EntityStore[T]) persistCounter(ctx context.Context) error {
	key := s.config.counterKey()
	if err := s.kv.Set(ctx, key, formatCounter(s.ids.LastIssued())); err != nil {
		return fmt.Errorf("%w: %w: save %q: %w", ErrCounterNotPersisted, ErrStorageUnavailable, key, err)
	}
	return nil
}

// Create allocates an ID, lets stamp build the record, appends it and persists.
//
// stamp receives the allocated ID and must return a record whose GetID equals it.
// If the collection write succeeds but the counter write fails, the record is
// stored, subscribers are notified, and the record is returned together with an
// ErrCounterNotPersisted error. Once the collection write starts, cancelling ctx
// no longer stops either write.
func (s *EntityStore[T]) Create(ctx context.Context, stamp func(id int) T) (T, error) {
	var zero T

	if err := s.gate.EnsureInitialized(ctx); err != nil {
		return zero, err
	}

	snap, err := s.items.Load(ctx)
	if err != nil {
		return zero, err
	}

	id := s.ids.Allocate()
	item := stamp(id)
	if item.GetID() != id {
		return zero, fmt.Errorf("%w: allocated %d, got %d", ErrIDMismatch, id, item.GetID())
	}

	wctx := context.WithoutCancel(ctx)
	if err := s.items.Save(wctx, append(snap.Items, item)); err != nil {
		s.logger.Error("create failed, id consumed",
			"id", id,
			"error", err,
		)
		return zero, err
	}

	counterErr := s.persistCounter(wctx)
	if counterErr != nil {
		s.logger.Error("record stored but id counter not persisted",
			"id", id,
			"error", counterErr,
		)
	}

	s.notifier.Publish()
	return item, counterErr
}

// All returns every record in insertion order.
func (s *EntityStore[T]) All(ctx context.Context) ([]T, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Items, nil
}

// Snapshot returns every record along with how the load was satisfied.
func (s *EntityStore[T]) Snapshot(ctx context.Context) (Snapshot[T], error) {
	if err := s.gate.EnsureInitialized(ctx); err != nil {
		return Snapshot[T]{}, err
	}
	return s.items.Load(ctx)
}

// Get returns the record with the given ID, or ok=false if there is none.
func (s *EntityStore[T]) Get(ctx context.Context, id int) (item T, ok bool, err error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return item, false, err
	}
	for _, it := range snap.Items {
		if it.GetID() == id {
			return it, true, nil
		}
	}
	return item, false, nil
}

// Filter returns the records matching keep, preserving insertion order.
// The result is empty, not nil, when nothing matches.
func (s *EntityStore[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(snap.Items))
	for _, it := range snap.Items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Update applies mutate to the record with the given ID and persists the collection.
// When no record has that ID nothing is written, no notification fires and
// Update returns false. Cancelling ctx does not stop a save that has started.
func (s *EntityStore[T]) Update(ctx context.Context, id int, mutate func(*T)) (bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}

	idx := -1
	for i := range snap.Items {
		if snap.Items[i].GetID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	mutate(&snap.Items[idx])
	if snap.Items[idx].GetID() != id {
		return false, fmt.Errorf("%w: update of %d changed id to %d", ErrIDMismatch, id, snap.Items[idx].GetID())
	}

	if err := s.items.Save(context.WithoutCancel(ctx), snap.Items); err != nil {
		return false, err
	}
	s.notifier.Publish()
	return true, nil
}

// Subscribe registers fn to run after every successful mutation.
func (s *EntityStore[T]) Subscribe(fn func()) (unsubscribe func()) {
	return s.notifier.Subscribe(fn)
}

// Notifier returns the store's change signal.
func (s *EntityStore[T]) Notifier() *Notifier {
	return s.notifier
}
