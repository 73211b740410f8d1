package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(func() time.Time { return fixedNow })
}

func validEvent() Event {
	return Event{
		Name:     "Go Meetup",
		Date:     fixedNow.AddDate(0, 0, 7),
		Location: "Main Hall",
	}
}

func validAttendance() Attendance {
	return Attendance{
		EventID:       1,
		AttendeeName:  "Ada Lovelace",
		AttendeeEmail: "ada@example.com",
	}
}

func messagesOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestValidator_ValidRecords(t *testing.T) {
	v := newTestValidator()
	assert.NoError(t, v.Struct(validEvent()))
	assert.NoError(t, v.Struct(validAttendance()))
}

func TestValidator_EventRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Event)
		field  string
		msg    string
	}{
		{"blank name", func(e *Event) { e.Name = "   " }, "Name", "Event name is required"},
		{"long name", func(e *Event) { e.Name = strings.Repeat("n", 101) }, "Name", "Name cannot be longer than 100 characters"},
		{"missing date", func(e *Event) { e.Date = time.Time{} }, "Date", "Event date is required"},
		{"past date", func(e *Event) { e.Date = fixedNow.AddDate(0, 0, -1) }, "Date", "Event date must be in the future"},
		{"empty location", func(e *Event) { e.Location = "" }, "Location", "Location is required"},
		{"long location", func(e *Event) { e.Location = strings.Repeat("l", 201) }, "Location", "Location cannot be longer than 200 characters"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			msgs := messagesOf(t, v.Struct(e))
			assert.Equal(t, tt.msg, msgs[tt.field])
		})
	}
}

func TestValidator_EventDateTodayIsAllowed(t *testing.T) {
	v := newTestValidator()
	e := validEvent()
	e.Date = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, v.Struct(e))
}

func TestValidator_EventMaxLengthsInclusive(t *testing.T) {
	v := newTestValidator()
	e := validEvent()
	e.Name = strings.Repeat("n", 100)
	e.Location = strings.Repeat("l", 200)
	assert.NoError(t, v.Struct(e))
}

func TestValidator_AttendanceRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Attendance)
		field  string
		msg    string
	}{
		{"blank name", func(a *Attendance) { a.AttendeeName = "" }, "AttendeeName", "Name is required"},
		{"long name", func(a *Attendance) { a.AttendeeName = strings.Repeat("a", 101) }, "AttendeeName", "Name is too long"},
		{"blank email", func(a *Attendance) { a.AttendeeEmail = " " }, "AttendeeEmail", "Email is required"},
		{"bad email", func(a *Attendance) { a.AttendeeEmail = "not-an-email" }, "AttendeeEmail", "Invalid email address"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAttendance()
			tt.mutate(&a)
			msgs := messagesOf(t, v.Struct(a))
			assert.Equal(t, tt.msg, msgs[tt.field])
		})
	}
}

func TestValidator_CollectsEveryField(t *testing.T) {
	v := newTestValidator()
	err := v.Struct(Event{})
	msgs := messagesOf(t, err)
	assert.Len(t, msgs, 3)
	assert.Contains(t, err.Error(), "Event name is required")
}

func TestValidator_AcceptsPointers(t *testing.T) {
	v := newTestValidator()
	a := validAttendance()
	assert.NoError(t, v.Struct(&a))

	a.AttendeeEmail = "x"
	msgs := messagesOf(t, v.Struct(&a))
	assert.Equal(t, "Invalid email address", msgs["AttendeeEmail"])
}

func TestValidate_UsesWallClock(t *testing.T) {
	e := Event{Name: "Later", Date: time.Now().AddDate(1, 0, 0), Location: "Roof"}
	assert.NoError(t, Validate(e))

	e.Date = time.Now().AddDate(-1, 0, 0)
	msgs := messagesOf(t, Validate(e))
	assert.Equal(t, "Event date must be in the future", msgs["Date"])
}
