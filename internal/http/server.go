package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rainboowbee/next-shedule/internal/config"
	"github.com/rainboowbee/next-shedule/internal/model"
	"github.com/rainboowbee/next-shedule/internal/observability/metrics"
	"github.com/rainboowbee/next-shedule/internal/repository"
	"github.com/rainboowbee/next-shedule/internal/schedule"
)

// Store is the data-access contract the API surface depends on. Both the
// Postgres store and the in-memory store satisfy it.
type Store interface {
	ListStudents(ctx context.Context) ([]model.Student, error)
	GetStudent(ctx context.Context, id string) (model.Student, error)
	ListLessons(ctx context.Context) ([]model.Lesson, error)
	GetLesson(ctx context.Context, id string) (model.Lesson, error)
	CreateLesson(ctx context.Context, lesson model.Lesson) (model.Lesson, error)
	UpdateLesson(ctx context.Context, id string, lesson model.Lesson) (model.Lesson, error)
	DeleteLesson(ctx context.Context, id string) error
}

type Server struct {
	cfg       config.Config
	store     Store
	validator *schedule.Validator
}

func NewServer(cfg config.Config, store Store) (*Server, error) {
	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("load business timezone %q: %w", cfg.BusinessTimezone, err)
	}
	metrics.Init()
	return &Server{
		cfg:       cfg,
		store:     store,
		validator: schedule.NewValidator(loc, store),
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(corsMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/lessons", s.handleListLessons)
	r.Post("/lessons", s.handleCreateLesson)
	r.Get("/lessons/{lessonId}", s.handleGetLesson)
	r.Put("/lessons/{lessonId}", s.handleUpdateLesson)
	r.Delete("/lessons/{lessonId}", s.handleDeleteLesson)

	r.Get("/students", s.handleListStudents)

	return r
}

// Handlers

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := s.store.ListLessons(r.Context())
	if err != nil {
		s.serverError(w, "list lessons", err)
		return
	}
	if lessons == nil {
		lessons = []model.Lesson{}
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lessonId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_lesson_id")
		return
	}
	lesson, err := s.store.GetLesson(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lesson_not_found")
			return
		}
		s.serverError(w, "get lesson", err)
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var payload schedule.Payload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	lesson, err := s.validator.ValidatePayload(r.Context(), payload)
	if err != nil {
		s.writeValidationError(w, err)
		return
	}
	created, err := s.store.CreateLesson(r.Context(), lesson)
	if err != nil {
		s.serverError(w, "create lesson", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lessonId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_lesson_id")
		return
	}
	// Existence is checked up front so a bad id and a bad payload report
	// distinct errors.
	if _, err := s.store.GetLesson(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lesson_not_found")
			return
		}
		s.serverError(w, "get lesson", err)
		return
	}

	var payload schedule.Payload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	lesson, err := s.validator.ValidatePayload(r.Context(), payload)
	if err != nil {
		s.writeValidationError(w, err)
		return
	}
	updated, err := s.store.UpdateLesson(r.Context(), id, lesson)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lesson_not_found")
			return
		}
		s.serverError(w, "update lesson", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lessonId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_lesson_id")
		return
	}
	if err := s.store.DeleteLesson(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lesson_not_found")
			return
		}
		s.serverError(w, "delete lesson", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		s.serverError(w, "list students", err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

// Error mapping

func (s *Server) writeValidationError(w http.ResponseWriter, err error) {
	var fieldErr *schedule.FieldError
	if errors.As(err, &fieldErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "missing_fields",
			"required": fieldErr.Required,
		})
		return
	}
	var timeErr *schedule.TimeError
	if errors.As(err, &timeErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid_time",
			"field": timeErr.Field,
		})
		return
	}
	if errors.Is(err, schedule.ErrTimeRange) {
		writeError(w, http.StatusBadRequest, "invalid_time_range")
		return
	}
	if errors.Is(err, schedule.ErrStudentNotFound) {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}
	s.serverError(w, "validate payload", err)
}

// serverError hides the underlying cause from the caller and logs it for
// operators.
func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "server_error")
}

// Middleware

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.ObserveRequest(r.Method, sw.status, time.Since(start))
	})
}

// Utilities

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
