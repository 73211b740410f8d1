// Package api exposes the event and attendance services over JSON HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jacentio/eventease/model"
	"github.com/jacentio/eventease/service"
)

// Handler holds the HTTP handlers.
type Handler struct {
	events      *service.EventService
	attendances *service.AttendanceService
	validator   *model.Validator
	logger      *slog.Logger
}

// NewHandler constructs a Handler. A nil validator uses the wall clock; a nil
// logger uses slog.Default().
func NewHandler(events *service.EventService, attendances *service.AttendanceService, validator *model.Validator, logger *slog.Logger) *Handler {
	if validator == nil {
		validator = model.NewValidator(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		events:      events,
		attendances: attendances,
		validator:   validator,
		logger:      logger,
	}
}

// Router builds the route table.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(h.accessLog)

	r.Get("/health", HealthCheck)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
		r.Get("/{id}", h.GetEvent)
		r.Get("/{id}/attendances", h.ListAttendances)
		r.Post("/{id}/attendances", h.RegisterAttendee)
	})

	r.Route("/attendances", func(r chi.Router) {
		r.Get("/{id}", h.GetAttendance)
		r.Put("/{id}/status", h.UpdateStatus)
	})

	return r
}

// accessLog logs one line per request.
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
