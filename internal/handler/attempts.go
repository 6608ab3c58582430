package handler

import "net/http"

func (h *Handler) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	examID, err := queryID(r, "exam_id")
	if err != nil {
		writeError(w, err)
		return
	}
	attempts, err := h.store.ListAttempts(examID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, attempts)
}

func (h *Handler) handleGetAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	attempt, err := h.store.GetAttempt(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, attempt)
}

func (h *Handler) handleDeleteAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.DeleteAttempt(id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Attempt deleted"})
}
