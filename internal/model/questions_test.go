package model

import (
	"testing"
)

func sampleQuestions() []Question {
	return []Question{
		{
			ID:            1,
			Type:          MultipleChoice,
			Question:      "What is the capital of France?",
			Options:       []string{"A) London", "B) Paris", "C) Berlin", "D) Madrid"},
			CorrectAnswer: "B",
			Explanation:   "Paris is the capital of France.",
		},
		{
			ID:            2,
			Type:          TrueFalse,
			Question:      "The Earth orbits the Sun.",
			CorrectAnswer: "True",
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data, err := EncodeQuestions(sampleQuestions())
	if err != nil {
		t.Fatalf("EncodeQuestions: %v", err)
	}

	got, err := DecodeQuestions(data)
	if err != nil {
		t.Fatalf("DecodeQuestions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	if got[0].CorrectAnswer != "B" {
		t.Errorf("expected correct answer B, got %q", got[0].CorrectAnswer)
	}
	if got[1].Type != TrueFalse {
		t.Errorf("expected true_false, got %q", got[1].Type)
	}
}

func TestDecodeLegacyObjectShape(t *testing.T) {
	data := []byte(`{"questions":[{"id":1,"type":"short_answer","question":"Define osmosis.","correct_answer":"Movement of water across a membrane"}]}`)

	got, err := DecodeQuestions(data)
	if err != nil {
		t.Fatalf("DecodeQuestions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if got[0].Type != ShortAnswer {
		t.Errorf("expected short_answer, got %q", got[0].Type)
	}
}

func TestDecodeLegacyArrayShape(t *testing.T) {
	data := []byte(`[{"id":1,"type":"true_false","question":"Water boils at 100C at sea level.","correct_answer":"True"}]`)

	got, err := DecodeQuestions(data)
	if err != nil {
		t.Fatalf("DecodeQuestions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
}

func TestDecodeFiltersInvalidQuestions(t *testing.T) {
	data := []byte(`{"v":1,"questions":[
		{"id":1,"type":"true_false","question":"Valid?","correct_answer":"True"},
		{"id":2,"type":"true_false","question":"","correct_answer":"True"},
		{"id":0,"type":"true_false","question":"No ID","correct_answer":"False"}
	]}`)

	got, err := DecodeQuestions(data)
	if err != nil {
		t.Fatalf("DecodeQuestions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 valid question, got %d", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("expected question 1 to survive, got %d", got[0].ID)
	}
}

func TestDecodeRejectsEmptyAndGarbage(t *testing.T) {
	for _, data := range [][]byte{
		[]byte(`{"v":1,"questions":[]}`),
		[]byte(`{}`),
		[]byte(`not json`),
	} {
		if _, err := DecodeQuestions(data); err == nil {
			t.Errorf("DecodeQuestions(%q): expected error", data)
		}
	}
}

func TestQuestionValid(t *testing.T) {
	q := Question{ID: 1, Type: MultipleChoice, Question: "Q?", CorrectAnswer: "A"}
	if !q.Valid() {
		t.Error("complete question should be valid")
	}
	for _, broken := range []Question{
		{Type: MultipleChoice, Question: "Q?", CorrectAnswer: "A"},
		{ID: 1, Question: "Q?", CorrectAnswer: "A"},
		{ID: 1, Type: MultipleChoice, CorrectAnswer: "A"},
		{ID: 1, Type: MultipleChoice, Question: "Q?"},
	} {
		if broken.Valid() {
			t.Errorf("question %+v should be invalid", broken)
		}
	}
}
