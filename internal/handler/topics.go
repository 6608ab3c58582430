package handler

import (
	"net/http"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

func (h *Handler) handleListTopics(w http.ResponseWriter, r *http.Request) {
	subjectID, err := queryID(r, "subject_id")
	if err != nil {
		writeError(w, err)
		return
	}
	topics, err := h.store.ListTopics(subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, topics)
}

func (h *Handler) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubjectID   int64  `json:"subject_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.SubjectID == 0 || req.Name == "" {
		writeError(w, apperr.New(apperr.KindValidation, "Subject ID and topic name are required"))
		return
	}

	topic, err := h.store.CreateTopic(model.Topic{
		SubjectID:   req.SubjectID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, topic)
}

func (h *Handler) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	topic, err := h.store.GetTopic(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, topic)
}

// handleListSubjectTopics serves the nested /subjects/{id}/topics listing.
func (h *Handler) handleListSubjectTopics(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.store.GetSubject(id); err != nil {
		writeError(w, err)
		return
	}
	topics, err := h.store.ListTopics(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, topics)
}

func (h *Handler) handleCreateSubjectTopic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, apperr.New(apperr.KindValidation, "Topic name is required"))
		return
	}

	topic, err := h.store.CreateTopic(model.Topic{
		SubjectID:   id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, topic)
}

func (h *Handler) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.DeleteTopic(id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Topic deleted"})
}
