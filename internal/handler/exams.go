package handler

import (
	"net/http"

	"studyhub/internal/apperr"
	"studyhub/internal/exam"
	"studyhub/internal/i18n"
	"studyhub/internal/model"
)

func (h *Handler) handleListExams(w http.ResponseWriter, r *http.Request) {
	topicID, err := queryID(r, "topic_id")
	if err != nil {
		writeError(w, err)
		return
	}
	exams, err := h.store.ListExams(topicID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, exams)
}

func (h *Handler) handleGenerateExam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MaterialID             int64  `json:"material_id"`
		NumQuestions           int    `json:"num_questions"`
		AdditionalInstructions string `json:"additional_instructions"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MaterialID == 0 || req.NumQuestions == 0 {
		writeError(w, apperr.New(apperr.KindValidation, "Material ID and number of questions are required"))
		return
	}

	h.generate(w, r, exam.Scope{Kind: exam.ScopeMaterial, MaterialID: req.MaterialID},
		req.NumQuestions, req.AdditionalInstructions)
}

func (h *Handler) handleGenerateTopicExam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TopicID                int64  `json:"topic_id"`
		NumQuestions           int    `json:"num_questions"`
		AdditionalInstructions string `json:"additional_instructions"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.TopicID == 0 || req.NumQuestions == 0 {
		writeError(w, apperr.New(apperr.KindValidation, "Topic ID and number of questions are required"))
		return
	}

	h.generate(w, r, exam.Scope{Kind: exam.ScopeTopic, TopicID: req.TopicID},
		req.NumQuestions, req.AdditionalInstructions)
}

func (h *Handler) handleGenerateSubjectExam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubjectID              int64  `json:"subject_id"`
		NumQuestions           int    `json:"num_questions"`
		AdditionalInstructions string `json:"additional_instructions"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.SubjectID == 0 || req.NumQuestions == 0 {
		writeError(w, apperr.New(apperr.KindValidation, "Subject ID and number of questions are required"))
		return
	}

	h.generate(w, r, exam.Scope{Kind: exam.ScopeSubject, SubjectID: req.SubjectID},
		req.NumQuestions, req.AdditionalInstructions)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, scope exam.Scope, numQuestions int, instructions string) {
	generated, err := h.generator.Generate(r.Context(), scope, numQuestions, instructions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{
		"exam":      generated,
		"questions": generated.Questions,
		"message":   i18n.Tp(r.Context(), "QuestionsGenerated", len(generated.Questions)),
	})
}

func (h *Handler) handleGetExam(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := h.store.GetExam(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, e)
}

func (h *Handler) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.DeleteExam(id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Exam deleted"})
}

func (h *Handler) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ExamType  model.ExamType    `json:"exam_type"`
		Answers   map[string]string `json:"answers"`
		TimeTaken *int              `json:"time_taken"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.scorer.Score(r.Context(), id, req.ExamType, req.Answers, req.TimeTaken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, result)
}
