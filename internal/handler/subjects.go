package handler

import (
	"net/http"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

func (h *Handler) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.store.ListSubjects()
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, subjects)
}

func (h *Handler) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, apperr.New(apperr.KindValidation, "Subject name is required"))
		return
	}

	subject, err := h.store.CreateSubject(model.Subject{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, subject)
}

func (h *Handler) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	subject, err := h.store.GetSubject(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, subject)
}

func (h *Handler) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.DeleteSubject(id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Subject deleted"})
}
