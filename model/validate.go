package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// FieldError is one failed field rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every failed rule of a record.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// messages maps "<Struct>.<Field>.<tag>" to the text shown to users.
var messages = map[string]string{
	"Event.Name.notblank":               "Event name is required",
	"Event.Name.max":                    "Name cannot be longer than 100 characters",
	"Event.Date.required":               "Event date is required",
	"Event.Date.notpast":                "Event date must be in the future",
	"Event.Location.notblank":           "Location is required",
	"Event.Location.max":                "Location cannot be longer than 200 characters",
	"Attendance.AttendeeName.notblank":  "Name is required",
	"Attendance.AttendeeName.max":       "Name is too long",
	"Attendance.AttendeeEmail.notblank": "Email is required",
	"Attendance.AttendeeEmail.email":    "Invalid email address",
}

// Validator checks records against their field rules.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator creates a Validator. now decides what "today" is for event
// dates; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}
	// Registration only fails for empty tags or nil funcs.
	_ = v.validate.RegisterValidation("notblank", validators.NotBlank)
	_ = v.validate.RegisterValidation("notpast", v.notPast)
	return v
}

// notPast passes when the date falls on today or later, compared by calendar
// day in the clock's location.
func (v *Validator) notPast(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	now := v.now()
	y, m, d := t.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return !day.Before(today)
}

// Struct validates a record. It returns nil or a ValidationErrors.
func (v *Validator) Struct(record any) error {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	key := fmt.Sprintf("%s.%s", fe.Namespace(), fe.Tag())
	if msg, ok := messages[key]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
}

var defaultValidator = NewValidator(nil)

// Validate checks record against its field rules using the wall clock.
func Validate(record any) error {
	return defaultValidator.Struct(record)
}
