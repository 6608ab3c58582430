package handler

import (
	"net/http"
	"time"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListTasks()
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tasks)
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskType    string     `json:"task_type"`
		SubjectID   *int64     `json:"subject_id"`
		TopicID     *int64     `json:"topic_id"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		StartDate   *time.Time `json:"start_date"`
		Deadline    *time.Time `json:"deadline"`
		Importance  int        `json:"importance"`
		Notes       string     `json:"notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.TaskType == "" || req.Title == "" {
		writeError(w, apperr.New(apperr.KindValidation, "Task type and title are required"))
		return
	}

	task, err := h.store.CreateTask(model.Task{
		TaskType:    req.TaskType,
		SubjectID:   req.SubjectID,
		TopicID:     req.TopicID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
		Importance:  req.Importance,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, task)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	task, err := h.store.GetTask(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, task)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Status == "" {
		writeError(w, apperr.New(apperr.KindValidation, "Status is required"))
		return
	}

	task, err := h.store.UpdateTaskStatus(id, req.Status, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, task)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.DeleteTask(id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
