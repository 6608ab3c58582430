package handler

import "net/http"

func (h *Handler) handleListPerformance(w http.ResponseWriter, r *http.Request) {
	subjectID, err := queryID(r, "subject_id")
	if err != nil {
		writeError(w, err)
		return
	}
	topicID, err := queryID(r, "topic_id")
	if err != nil {
		writeError(w, err)
		return
	}
	scores, err := h.store.ListPerformanceScores(subjectID, topicID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, scores)
}
