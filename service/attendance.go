package service

import (
	"context"
	"fmt"

	"github.com/jacentio/eventease/model"
	"github.com/jacentio/eventease/store"
)

// AttendanceService stores event registrations.
type AttendanceService struct {
	store *store.EntityStore[model.Attendance]
}

// NewAttendanceService creates an AttendanceService persisting to kv.
func NewAttendanceService(kv store.KV, cfg Config) (*AttendanceService, error) {
	s, err := store.New[model.Attendance](kv, cfg.storeConfig(AttendancesKey, LastAttendanceIDKey))
	if err != nil {
		return nil, err
	}
	return &AttendanceService{store: s}, nil
}

// RegisterAttendee stores a registration of a for the given event.
//
// The ID, EventID, RegistrationDate and Status of a are overwritten: the
// record gets the next attendance ID, eventID, the store clock's current time
// and Registered. eventID is not checked against the event store.
func (s *AttendanceService) RegisterAttendee(ctx context.Context, eventID int, a model.Attendance) (model.Attendance, error) {
	return s.store.Create(ctx, func(id int) model.Attendance {
		a.ID = id
		a.EventID = eventID
		a.RegistrationDate = s.store.Now()
		a.Status = model.Registered
		return a
	})
}

// EventAttendees returns the registrations for eventID in registration order.
// The result is empty, not nil, when there are none.
func (s *AttendanceService) EventAttendees(ctx context.Context, eventID int) ([]model.Attendance, error) {
	return s.store.Filter(ctx, func(a model.Attendance) bool {
		return a.EventID == eventID
	})
}

// Attendances returns every registration in registration order.
func (s *AttendanceService) Attendances(ctx context.Context) ([]model.Attendance, error) {
	return s.store.All(ctx)
}

// AttendanceByID returns the registration with the given ID; ok is false if
// there is none.
func (s *AttendanceService) AttendanceByID(ctx context.Context, id int) (model.Attendance, bool, error) {
	return s.store.Get(ctx, id)
}

// UpdateAttendanceStatus sets the status of a registration. Any status may
// follow any other. It reports false, without writing, when no registration
// has that ID.
func (s *AttendanceService) UpdateAttendanceStatus(ctx context.Context, id int, status model.AttendanceStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %d", model.ErrInvalidStatus, int(status))
	}
	return s.store.Update(ctx, id, func(a *model.Attendance) {
		a.Status = status
	})
}

// OnChange registers fn to run after every stored change.
func (s *AttendanceService) OnChange(fn func()) (unsubscribe func()) {
	return s.store.Subscribe(fn)
}

// Store exposes the underlying entity store.
func (s *AttendanceService) Store() *store.EntityStore[model.Attendance] {
	return s.store
}
