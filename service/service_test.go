package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/eventease/kv/memory"
	"github.com/jacentio/eventease/model"
	"github.com/jacentio/eventease/store"
)

var testNow = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{Now: func() time.Time { return testNow }}
}

func newServices(t *testing.T, kv store.KV, cfg Config) (*EventService, *AttendanceService) {
	t.Helper()
	events, err := NewEventService(kv, cfg)
	require.NoError(t, err)
	attendances, err := NewAttendanceService(kv, cfg)
	require.NoError(t, err)
	return events, attendances
}

func meetup(name string) model.Event {
	return model.Event{
		Name:     name,
		Date:     testNow.AddDate(0, 1, 0),
		Location: "Hall A",
	}
}

func attendee(name string) model.Attendance {
	return model.Attendance{AttendeeName: name, AttendeeEmail: name + "@example.com"}
}

func TestNewServices_NilKV(t *testing.T) {
	_, err := NewEventService(nil, Config{})
	assert.ErrorIs(t, err, store.ErrNilKV)

	_, err = NewAttendanceService(nil, Config{})
	assert.ErrorIs(t, err, store.ErrNilKV)
}

func TestEventService_AddAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	events, _ := newServices(t, kv, testConfig())

	in := meetup("Go Night")
	in.ID = 99
	first, err := events.AddEvent(ctx, in)
	require.NoError(t, err)
	second, err := events.AddEvent(ctx, meetup("Rust Night"))
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	counter, ok := kv.Raw(LastEventIDKey)
	require.True(t, ok)
	assert.Equal(t, "2", counter)

	all, err := events.Events(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Go Night", all[0].Name)
	assert.Equal(t, "Rust Night", all[1].Name)
}

func TestEventService_EventByID(t *testing.T) {
	ctx := context.Background()
	events, _ := newServices(t, memory.New(), testConfig())

	added, err := events.AddEvent(ctx, meetup("Go Night"))
	require.NoError(t, err)

	got, ok, err := events.EventByID(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, added, got)

	_, ok, err = events.EventByID(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEventService_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	events, _ := newServices(t, kv, testConfig())
	for _, name := range []string{"a", "b", "c"} {
		_, err := events.AddEvent(ctx, meetup(name))
		require.NoError(t, err)
	}

	restarted, _ := newServices(t, kv, testConfig())
	got, err := restarted.AddEvent(ctx, meetup("d"))
	require.NoError(t, err)
	assert.Equal(t, 4, got.ID)

	all, err := restarted.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestEventService_CorruptedCollectionReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	kv.Put(EventsKey, "{not json")
	kv.Put(LastEventIDKey, "7")
	events, _ := newServices(t, kv, testConfig())

	all, err := events.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	added, err := events.AddEvent(ctx, meetup("fresh"))
	require.NoError(t, err)
	assert.Equal(t, 8, added.ID)

	all, err = events.Events(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "fresh", all[0].Name)
}

func TestEventService_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	kv.FailGet(EventsKey, true)
	events, _ := newServices(t, kv, testConfig())

	_, err := events.Events(ctx)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.ErrorIs(t, err, memory.ErrInjected)
}

func TestEventService_CancelledFirstReadKeepsCounter(t *testing.T) {
	kv := memory.New()
	kv.Put(EventsKey, `[{"id":5,"name":"Old","date":"2026-05-01T00:00:00Z","location":"Hall A"}]`)
	kv.Put(LastEventIDKey, "5")
	events, _ := newServices(t, kv, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := events.Events(ctx)
	require.ErrorIs(t, err, context.Canceled)

	next, err := events.AddEvent(context.Background(), meetup("New"))
	require.NoError(t, err)
	assert.Equal(t, 6, next.ID)
}

func TestEventService_CounterOnlyFailure(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	kv.FailSet(LastEventIDKey, true)
	events, _ := newServices(t, kv, testConfig())

	ev, err := events.AddEvent(ctx, meetup("Kept"))
	assert.ErrorIs(t, err, store.ErrCounterNotPersisted)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.Equal(t, 1, ev.ID)

	all, err := events.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEventService_OnChange(t *testing.T) {
	ctx := context.Background()
	events, attendances := newServices(t, memory.New(), testConfig())

	var eventChanges, attendanceChanges int
	unsubscribe := events.OnChange(func() { eventChanges++ })
	attendances.OnChange(func() { attendanceChanges++ })

	_, err := events.AddEvent(ctx, meetup("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, eventChanges)
	assert.Equal(t, 0, attendanceChanges)

	unsubscribe()
	_, err = events.AddEvent(ctx, meetup("b"))
	require.NoError(t, err)
	assert.Equal(t, 1, eventChanges)
}

func TestAttendanceService_RegisterStampsFields(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	_, attendances := newServices(t, kv, testConfig())

	in := attendee("ada")
	in.ID = 50
	in.EventID = 9
	in.Status = model.Cancelled
	got, err := attendances.RegisterAttendee(ctx, 3, in)
	require.NoError(t, err)

	assert.Equal(t, 1, got.ID)
	assert.Equal(t, 3, got.EventID)
	assert.Equal(t, testNow, got.RegistrationDate)
	assert.Equal(t, model.Registered, got.Status)
	assert.Equal(t, "ada@example.com", got.AttendeeEmail)

	raw, ok := kv.Raw(AttendancesKey)
	require.True(t, ok)
	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "Registered", stored[0]["status"])
	assert.Equal(t, float64(3), stored[0]["eventId"])
}

func TestAttendanceService_RegisterForUnknownEvent(t *testing.T) {
	ctx := context.Background()
	_, attendances := newServices(t, memory.New(), testConfig())

	got, err := attendances.RegisterAttendee(ctx, 404, attendee("bo"))
	require.NoError(t, err)
	assert.Equal(t, 404, got.EventID)
}

func TestAttendanceService_EventAttendees(t *testing.T) {
	ctx := context.Background()
	_, attendances := newServices(t, memory.New(), testConfig())

	for _, reg := range []struct {
		event int
		name  string
	}{{1, "a"}, {1, "b"}, {2, "c"}} {
		_, err := attendances.RegisterAttendee(ctx, reg.event, attendee(reg.name))
		require.NoError(t, err)
	}

	first, err := attendances.EventAttendees(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, []int{1, 2}, []int{first[0].ID, first[1].ID})

	second, err := attendances.EventAttendees(ctx, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 3, second[0].ID)

	none, err := attendances.EventAttendees(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := attendances.Attendances(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAttendanceService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	_, attendances := newServices(t, memory.New(), testConfig())

	reg, err := attendances.RegisterAttendee(ctx, 1, attendee("ada"))
	require.NoError(t, err)

	changes := 0
	attendances.OnChange(func() { changes++ })

	for _, status := range []model.AttendanceStatus{model.Attended, model.Registered, model.NoShow} {
		ok, err := attendances.UpdateAttendanceStatus(ctx, reg.ID, status)
		require.NoError(t, err)
		assert.True(t, ok)

		got, found, err := attendances.AttendanceByID(ctx, reg.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, status, got.Status)
		assert.Equal(t, reg.RegistrationDate, got.RegistrationDate)
	}
	assert.Equal(t, 3, changes)
}

func TestAttendanceService_UpdateStatusMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	_, attendances := newServices(t, kv, testConfig())

	_, err := attendances.RegisterAttendee(ctx, 1, attendee("ada"))
	require.NoError(t, err)
	before, _ := kv.Raw(AttendancesKey)

	changes := 0
	attendances.OnChange(func() { changes++ })

	ok, err := attendances.UpdateAttendanceStatus(ctx, 999, model.Attended)
	require.NoError(t, err)
	assert.False(t, ok)

	after, _ := kv.Raw(AttendancesKey)
	assert.Equal(t, before, after)
	assert.Zero(t, changes)
}

func TestAttendanceService_UpdateStatusRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	kv.FailGet(AttendancesKey, true)
	_, attendances := newServices(t, kv, testConfig())

	ok, err := attendances.UpdateAttendanceStatus(ctx, 1, model.AttendanceStatus(8))
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
	assert.NotErrorIs(t, err, store.ErrStorageUnavailable)
	assert.False(t, ok)
}

func TestServices_NamespaceAndSharedKV(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	cfg := testConfig()
	cfg.Namespace = "tenant"
	events, attendances := newServices(t, kv, cfg)

	ev, err := events.AddEvent(ctx, meetup("a"))
	require.NoError(t, err)
	_, err = attendances.RegisterAttendee(ctx, ev.ID, attendee("b"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"tenant:attendances",
		"tenant:events",
		"tenant:lastAttendanceId",
		"tenant:lastEventId",
	}, kv.Keys())
}

func TestServices_IndependentCounters(t *testing.T) {
	ctx := context.Background()
	events, attendances := newServices(t, memory.New(), testConfig())

	ev, err := events.AddEvent(ctx, meetup("a"))
	require.NoError(t, err)
	_, err = events.AddEvent(ctx, meetup("b"))
	require.NoError(t, err)
	reg, err := attendances.RegisterAttendee(ctx, ev.ID, attendee("c"))
	require.NoError(t, err)

	assert.Equal(t, 1, reg.ID)
	assert.Equal(t, 3, events.Store().NextID())
	assert.Equal(t, 2, attendances.Store().NextID())
}
