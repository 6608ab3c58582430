package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"studyhub/internal/apperr"
	"studyhub/internal/material"
)

// maxUploadBytes caps multipart uploads at 32 MiB.
const maxUploadBytes = 32 << 20

func (h *Handler) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	topicID, err := queryID(r, "topic_id")
	if err != nil {
		writeError(w, err)
		return
	}
	materials, err := h.store.ListMaterials(topicID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, materials)
}

// handleCreateMaterial accepts either a multipart upload (file + metadata
// fields) or a JSON body with typed-in text content.
func (h *Handler) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.createMaterialFromUpload(w, r)
		return
	}

	var req struct {
		TopicID int64  `json:"topic_id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	m, err := h.materials.Ingest(r.Context(), req.TopicID, req.Title, nil, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, m)
}

func (h *Handler) createMaterialFromUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, apperr.Wrap(apperr.KindValidation, err, "Invalid multipart form"))
		return
	}

	topicID, err := strconv.ParseInt(r.FormValue("topic_id"), 10, 64)
	if err != nil || topicID <= 0 {
		writeError(w, apperr.New(apperr.KindValidation, "Invalid topic_id"))
		return
	}
	title := r.FormValue("title")

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperr.Wrap(apperr.KindValidation, err, "File is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.KindInternal, err, "Failed to read uploaded file"))
		return
	}
	if title == "" {
		title = header.Filename
	}

	m, err := h.materials.Ingest(r.Context(), topicID, title, &material.Upload{
		Name: header.Filename,
		Data: data,
	}, "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, m)
}

// handleListTopicMaterials serves the nested /topics/{id}/materials listing.
func (h *Handler) handleListTopicMaterials(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.store.GetTopic(id); err != nil {
		writeError(w, err)
		return
	}
	materials, err := h.store.ListMaterials(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, materials)
}

func (h *Handler) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.store.GetMaterial(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

func (h *Handler) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.DeleteMaterial(id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Material deleted"})
}
