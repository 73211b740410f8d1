package service

import (
	"context"

	"github.com/jacentio/eventease/model"
	"github.com/jacentio/eventease/store"
)

// EventService stores events.
type EventService struct {
	store *store.EntityStore[model.Event]
}

// NewEventService creates an EventService persisting to kv.
func NewEventService(kv store.KV, cfg Config) (*EventService, error) {
	s, err := store.New[model.Event](kv, cfg.storeConfig(EventsKey, LastEventIDKey))
	if err != nil {
		return nil, err
	}
	return &EventService{store: s}, nil
}

// AddEvent assigns the next event ID, stores the event and returns it.
// Any ID already set on e is overwritten.
func (s *EventService) AddEvent(ctx context.Context, e model.Event) (model.Event, error) {
	return s.store.Create(ctx, func(id int) model.Event {
		e.ID = id
		return e
	})
}

// Events returns every event in creation order.
func (s *EventService) Events(ctx context.Context) ([]model.Event, error) {
	return s.store.All(ctx)
}

// EventByID returns the event with the given ID; ok is false if there is none.
func (s *EventService) EventByID(ctx context.Context, id int) (model.Event, bool, error) {
	return s.store.Get(ctx, id)
}

// OnChange registers fn to run after every stored change.
func (s *EventService) OnChange(fn func()) (unsubscribe func()) {
	return s.store.Subscribe(fn)
}

// Store exposes the underlying entity store.
func (s *EventService) Store() *store.EntityStore[model.Event] {
	return s.store
}
