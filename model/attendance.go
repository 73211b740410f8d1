package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AttendanceStatus is the lifecycle state of a registration.
type AttendanceStatus int

const (
	Registered AttendanceStatus = iota
	Attended
	Cancelled
	NoShow
)

// ErrInvalidStatus is returned for values outside the AttendanceStatus enumeration.
var ErrInvalidStatus = errors.New("eventease: invalid attendance status")

var statusNames = [...]string{
	Registered: "Registered",
	Attended:   "Attended",
	Cancelled:  "Cancelled",
	NoShow:     "NoShow",
}

// AttendanceStatuses lists every status in declaration order.
func AttendanceStatuses() []AttendanceStatus {
	return []AttendanceStatus{Registered, Attended, Cancelled, NoShow}
}

// Valid reports whether s is a member of the enumeration.
func (s AttendanceStatus) Valid() bool {
	return s >= Registered && s <= NoShow
}

func (s AttendanceStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("AttendanceStatus(%d)", int(s))
	}
	return statusNames[s]
}

// ParseAttendanceStatus accepts a status name (case-insensitive) or its
// numeric value.
func ParseAttendanceStatus(text string) (AttendanceStatus, error) {
	text = strings.TrimSpace(text)
	for i, name := range statusNames {
		if strings.EqualFold(text, name) {
			return AttendanceStatus(i), nil
		}
	}
	if n, err := strconv.Atoi(text); err == nil && AttendanceStatus(n).Valid() {
		return AttendanceStatus(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, text)
}

// MarshalText encodes the status as its name.
func (s AttendanceStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText decodes a status name or numeric value.
func (s *AttendanceStatus) UnmarshalText(text []byte) error {
	v, err := ParseAttendanceStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// UnmarshalJSON accepts the name form written by MarshalText and the bare
// numeric form found in older collections.
func (s *AttendanceStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		return s.UnmarshalText([]byte(text))
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, data)
	}
	if !AttendanceStatus(n).Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, n)
	}
	*s = AttendanceStatus(n)
	return nil
}

// Attendance is one attendee's registration for an event.
//
// EventID is not checked against the event store; readers must tolerate
// references to events that do not exist.
type Attendance struct {
	ID               int              `json:"id"`
	EventID          int              `json:"eventId"`
	AttendeeName     string           `json:"attendeeName" validate:"notblank,max=100"`
	AttendeeEmail    string           `json:"attendeeEmail" validate:"notblank,email"`
	RegistrationDate time.Time        `json:"registrationDate"`
	Status           AttendanceStatus `json:"status"`
}

// GetID returns the store-assigned identifier.
func (a Attendance) GetID() int { return a.ID }
