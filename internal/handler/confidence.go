package handler

import (
	"net/http"

	"studyhub/internal/apperr"
)

func (h *Handler) handleListConfidence(w http.ResponseWriter, r *http.Request) {
	topicID, err := queryID(r, "topic_id")
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.store.ListConfidenceEntries(topicID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

func (h *Handler) handleRecordConfidence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TopicID         int64  `json:"topic_id"`
		ExamAttemptID   *int64 `json:"exam_attempt_id"`
		ConfidenceLevel int    `json:"confidence_level"`
		Notes           string `json:"notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.TopicID == 0 || req.ConfidenceLevel == 0 {
		writeError(w, apperr.New(apperr.KindValidation, "Topic ID and confidence level are required"))
		return
	}

	result, err := h.tracker.Record(r.Context(), req.TopicID, req.ConfidenceLevel, req.ExamAttemptID, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, result)
}
