package model

import (
	"encoding/json"

	"studyhub/internal/apperr"
)

// questionsEnvelope is the on-disk shape for the exams.questions column.
// The version field lets a future codec change old rows without guessing.
type questionsEnvelope struct {
	V         int        `json:"v"`
	Questions []Question `json:"questions"`
}

const questionsCodecVersion = 1

// EncodeQuestions serializes questions into the versioned envelope stored in
// the exams table.
func EncodeQuestions(questions []Question) ([]byte, error) {
	return json.Marshal(questionsEnvelope{V: questionsCodecVersion, Questions: questions})
}

// DecodeQuestions parses a stored questions column. It accepts the current
// envelope plus two legacy shapes ({"questions": [...]} and a bare array),
// validates every question, and never trusts the stored shape blindly.
func DecodeQuestions(data []byte) ([]Question, error) {
	var env questionsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		// Legacy bare-array shape.
		var list []Question
		if err2 := json.Unmarshal(data, &list); err2 != nil {
			return nil, apperr.Wrap(apperr.KindInvalidQuestions, err, "Failed to parse exam questions")
		}
		env.Questions = list
	}
	if len(env.Questions) == 0 {
		return nil, apperr.New(apperr.KindInvalidQuestions, "Exam has no valid questions")
	}

	valid := make([]Question, 0, len(env.Questions))
	for _, q := range env.Questions {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		return nil, apperr.New(apperr.KindInvalidQuestions, "Exam has no valid questions")
	}
	return valid, nil
}
