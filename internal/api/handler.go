package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jacentio/eventease/model"
	"github.com/jacentio/eventease/store"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error  string             `json:"error"`
	Fields []model.FieldError `json:"fields,omitempty"`
}

// CreateEventRequest is the body of POST /events.
type CreateEventRequest struct {
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
}

// RegisterRequest is the body of POST /events/{id}/attendances.
type RegisterRequest struct {
	AttendeeName  string `json:"attendeeName"`
	AttendeeEmail string `json:"attendeeEmail"`
}

// StatusRequest is the body of PUT /attendances/{id}/status. Status accepts a
// name ("Attended") or its number.
type StatusRequest struct {
	Status model.AttendanceStatus `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// validate writes a 400 and returns false when record breaks a field rule.
func (h *Handler) validate(w http.ResponseWriter, record any) bool {
	err := h.validator.Struct(record)
	if err == nil {
		return true
	}
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verrs})
		return false
	}
	writeError(w, http.StatusBadRequest, err.Error())
	return false
}

// storageError maps a store error to a response.
func (h *Handler) storageError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op+" failed",
		"path", r.URL.Path,
		"error", err,
	)
	if errors.Is(err, store.ErrStorageUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, op+" failed")
}

// ListEvents handles GET /events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.Events(r.Context())
	if err != nil {
		h.storageError(w, r, "list events", err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event := model.Event{Name: req.Name, Date: req.Date, Location: req.Location}
	if !h.validate(w, event) {
		return
	}

	created, err := h.events.AddEvent(r.Context(), event)
	if err != nil && !errors.Is(err, store.ErrCounterNotPersisted) {
		h.storageError(w, r, "create event", err)
		return
	}
	if err != nil {
		h.logger.Warn("event stored without counter update", "id", created.ID, "error", err)
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetEvent handles GET /events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, found, err := h.events.EventByID(r.Context(), id)
	if err != nil {
		h.storageError(w, r, "get event", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// ListAttendances handles GET /events/{id}/attendances
// Registrations are listed even when the event itself no longer resolves.
func (h *Handler) ListAttendances(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	attendances, err := h.attendances.EventAttendees(r.Context(), id)
	if err != nil {
		h.storageError(w, r, "list attendances", err)
		return
	}
	writeJSON(w, http.StatusOK, attendances)
}

// RegisterAttendee handles POST /events/{id}/attendances
func (h *Handler) RegisterAttendee(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	attendance := model.Attendance{AttendeeName: req.AttendeeName, AttendeeEmail: req.AttendeeEmail}
	if !h.validate(w, attendance) {
		return
	}

	_, found, err := h.events.EventByID(r.Context(), eventID)
	if err != nil {
		h.storageError(w, r, "get event", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	created, err := h.attendances.RegisterAttendee(r.Context(), eventID, attendance)
	if err != nil && !errors.Is(err, store.ErrCounterNotPersisted) {
		h.storageError(w, r, "register attendee", err)
		return
	}
	if err != nil {
		h.logger.Warn("attendance stored without counter update", "id", created.ID, "error", err)
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetAttendance handles GET /attendances/{id}
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid attendance id")
		return
	}

	attendance, found, err := h.attendances.AttendanceByID(r.Context(), id)
	if err != nil {
		h.storageError(w, r, "get attendance", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "attendance not found")
		return
	}
	writeJSON(w, http.StatusOK, attendance)
}

// UpdateStatus handles PUT /attendances/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid attendance id")
		return
	}

	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.attendances.UpdateAttendanceStatus(r.Context(), id, req.Status)
	if errors.Is(err, model.ErrInvalidStatus) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.storageError(w, r, "update status", err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "attendance not found")
		return
	}

	attendance, _, err := h.attendances.AttendanceByID(r.Context(), id)
	if err != nil {
		h.storageError(w, r, "get attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, attendance)
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
