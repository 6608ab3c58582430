// Package handler exposes the JSON API. Every response is an envelope:
// {"success": true, "data": ...} or {"success": false, "message": "..."}.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/apperr"
	"studyhub/internal/confidence"
	"studyhub/internal/exam"
	"studyhub/internal/material"
	"studyhub/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store     *store.Store
	materials *material.Service
	generator *exam.Generator
	scorer    *exam.Scorer
	tracker   *confidence.Tracker
}

// New creates a new Handler.
func New(s *store.Store, materials *material.Service, generator *exam.Generator, scorer *exam.Scorer, tracker *confidence.Tracker) *Handler {
	return &Handler{
		store:     s,
		materials: materials,
		generator: generator,
		scorer:    scorer,
		tracker:   tracker,
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", h.handleListSubjects)
			r.Post("/", h.handleCreateSubject)
			r.Get("/{id}", h.handleGetSubject)
			r.Delete("/{id}", h.handleDeleteSubject)
			r.Get("/{id}/topics", h.handleListSubjectTopics)
			r.Post("/{id}/topics", h.handleCreateSubjectTopic)
		})
		r.Route("/topics", func(r chi.Router) {
			r.Get("/", h.handleListTopics)
			r.Post("/", h.handleCreateTopic)
			r.Get("/{id}", h.handleGetTopic)
			r.Delete("/{id}", h.handleDeleteTopic)
			r.Get("/{id}/materials", h.handleListTopicMaterials)
		})
		r.Route("/revision-materials", func(r chi.Router) {
			r.Get("/", h.handleListMaterials)
			r.Post("/", h.handleCreateMaterial)
			r.Get("/{id}", h.handleGetMaterial)
			r.Delete("/{id}", h.handleDeleteMaterial)
		})
		r.Route("/exams", func(r chi.Router) {
			r.Get("/", h.handleListExams)
			r.Post("/generate", h.handleGenerateExam)
			r.Post("/generate-topic", h.handleGenerateTopicExam)
			r.Post("/generate-subject", h.handleGenerateSubjectExam)
			r.Route("/attempts", func(r chi.Router) {
				r.Get("/", h.handleListAttempts)
				r.Get("/{id}", h.handleGetAttempt)
				r.Delete("/{id}", h.handleDeleteAttempt)
			})
			r.Get("/{id}", h.handleGetExam)
			r.Delete("/{id}", h.handleDeleteExam)
			r.Post("/{id}/attempt", h.handleSubmitAttempt)
		})
		r.Route("/confidence", func(r chi.Router) {
			r.Get("/", h.handleListConfidence)
			r.Post("/", h.handleRecordConfidence)
		})
		r.Get("/performance", h.handleListPerformance)
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.handleListTasks)
			r.Post("/", h.handleCreateTask)
			r.Get("/{id}", h.handleGetTask)
			r.Patch("/{id}", h.handleUpdateTask)
			r.Delete("/{id}", h.handleDeleteTask)
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(); err != nil {
		writeError(w, apperr.Wrap(apperr.KindInternal, err, "database unavailable"))
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.KindValidation, "Invalid ID")
	}
	return id, nil
}

// queryID parses an optional numeric query parameter; 0 means absent.
func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.KindValidation, "Invalid %s", name)
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "Invalid request body")
	}
	return nil
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, envelope{Success: false, Message: apperr.Message(err)})
}
