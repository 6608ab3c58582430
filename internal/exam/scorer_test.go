package exam

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"studyhub/internal/apperr"
	"studyhub/internal/llm"
	"studyhub/internal/model"
	"studyhub/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedExam(t *testing.T, s *store.Store, questions []model.Question) (model.Topic, model.Exam) {
	t.Helper()
	subject, err := s.CreateSubject(model.Subject{Name: "Geography"})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	topic, err := s.CreateTopic(model.Topic{SubjectID: subject.ID, Name: "Capitals"})
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	content := "capitals of europe"
	m, err := s.CreateMaterial(model.Material{TopicID: topic.ID, Title: "Notes", Content: &content})
	if err != nil {
		t.Fatalf("CreateMaterial: %v", err)
	}
	e, err := s.CreateExam(&m.ID, topic.ID, "Exam - Notes", questions)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	return topic, e
}

// fakeGrader returns a canned result or error.
type fakeGrader struct {
	result llm.GradeResult
	err    error
	calls  int
}

func (f *fakeGrader) GradeShortAnswer(_ context.Context, _, _, _ string) (llm.GradeResult, error) {
	f.calls++
	return f.result, f.err
}

func TestNormalizeChoice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"B", "B"},
		{"b", "B"},
		{"B) Paris", "B"},
		{"b. paris", "B"},
		{"B Paris", "B"},
		{"  C  ", "C"},
		{"True", "T"},
		{"true", "T"},
		{"False", "F"},
		{"Paris", "P"},
		{"42", "42"},
	}
	for _, tt := range tests {
		if got := normalizeChoice(tt.in); got != tt.want {
			t.Errorf("normalizeChoice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoreChoiceQuestions(t *testing.T) {
	s := newTestStore(t)
	questions := []model.Question{
		{ID: 1, Type: model.MultipleChoice, Question: "Capital of France?", Options: []string{"A) London", "B) Paris"}, CorrectAnswer: "B"},
		{ID: 2, Type: model.TrueFalse, Question: "The Earth is flat.", CorrectAnswer: "False"},
		{ID: 3, Type: model.MultipleChoice, Question: "Capital of Spain?", Options: []string{"A) Madrid", "B) Lisbon"}, CorrectAnswer: "A"},
	}
	_, e := seedExam(t, s, questions)

	scorer := NewScorer(s, nil)
	result, err := scorer.Score(context.Background(), e.ID, model.ExamTypeMock, map[string]string{
		"1": "B) Paris", // formatted option, still correct
		"2": "true",     // wrong
		"3": "a",        // lowercase letter, correct
	}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if result.TotalCorrect != 2 {
		t.Errorf("expected 2 correct, got %d", result.TotalCorrect)
	}
	if result.Score != 67 {
		t.Errorf("expected percentage 67, got %d", result.Score)
	}
	if !result.Results[0].IsCorrect || result.Results[0].Score != 100 {
		t.Errorf("formatted answer should match the letter: %+v", result.Results[0])
	}
	if result.Results[1].IsCorrect {
		t.Error("'true' must not match correct answer 'False'")
	}
}

func TestScoreMissingAnswers(t *testing.T) {
	s := newTestStore(t)
	questions := []model.Question{
		{ID: 1, Type: model.TrueFalse, Question: "Q1?", CorrectAnswer: "True"},
		{ID: 2, Type: model.TrueFalse, Question: "Q2?", CorrectAnswer: "False"},
	}
	_, e := seedExam(t, s, questions)

	scorer := NewScorer(s, nil)
	result, err := scorer.Score(context.Background(), e.ID, model.ExamTypeMock, map[string]string{"1": "True"}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.TotalCorrect != 1 {
		t.Errorf("expected 1 correct, got %d", result.TotalCorrect)
	}
	missing := result.Results[1]
	if missing.IsCorrect || missing.Score != 0 || missing.Feedback != "No answer provided" {
		t.Errorf("unexpected result for unanswered question: %+v", missing)
	}
}

func TestScoreAnswersByIndexFallback(t *testing.T) {
	s := newTestStore(t)
	questions := []model.Question{
		{ID: 7, Type: model.TrueFalse, Question: "Q?", CorrectAnswer: "True"},
	}
	_, e := seedExam(t, s, questions)

	scorer := NewScorer(s, nil)
	// Keyed by position 0, not question ID 7.
	result, err := scorer.Score(context.Background(), e.ID, model.ExamTypeMock, map[string]string{"0": "True"}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.TotalCorrect != 1 {
		t.Errorf("positional answer should resolve, got %d correct", result.TotalCorrect)
	}
}

func TestScoreShortAnswerWithGrader(t *testing.T) {
	s := newTestStore(t)
	questions := []model.Question{
		{ID: 1, Type: model.ShortAnswer, Question: "Define photosynthesis.", CorrectAnswer: "Plants convert light into chemical energy"},
	}
	_, e := seedExam(t, s, questions)

	grader := &fakeGrader{result: llm.GradeResult{Score: 85, IsCorrect: true, Feedback: "Good answer"}}
	scorer := NewScorer(s, grader)
	result, err := scorer.Score(context.Background(), e.ID, model.ExamTypeMock, map[string]string{"1": "Plants make food from sunlight"}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if grader.calls != 1 {
		t.Fatalf("expected 1 grader call, got %d", grader.calls)
	}
	if result.Score != 100 || result.AverageScore != 85 {
		t.Errorf("expected percentage 100 and average 85, got %d and %d", result.Score, result.AverageScore)
	}
	if result.Results[0].Feedback != "Good answer" {
		t.Errorf("unexpected feedback %q", result.Results[0].Feedback)
	}
}

func TestScoreShortAnswerFallbackOffline(t *testing.T) {
	s := newTestStore(t)
	questions := []model.Question{
		{ID: 1, Type: model.ShortAnswer, Question: "Capital of France?", CorrectAnswer: "Paris"},
		{ID: 2, Type: model.ShortAnswer, Question: "Capital of Spain?", CorrectAnswer: "Madrid"},
	}
	_, e := seedExam(t, s, questions)

	grader := &fakeGrader{err: apperr.New(apperr.KindNetwork, "connection refused")}
	scorer := NewScorer(s, grader)
	result, err := scorer.Score(context.Background(), e.ID, model.ExamTypeMock, map[string]string{
		"1": "I think it is Paris", // contains correct answer
		"2": "Barcelona",
	}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	first := result.Results[0]
	if !first.IsCorrect || first.Score != 70 {
		t.Errorf("substring fallback should score 70/correct, got %+v", first)
	}
	if !strings.HasPrefix(first.Feedback, "AI scoring unavailable offline") {
		t.Errorf("expected offline feedback, got %q", first.Feedback)
	}
	second := result.Results[1]
	if second.IsCorrect || second.Score != 0 {
		t.Errorf("non-matching fallback should score 0, got %+v", second)
	}
}

func TestScoreRealExamRecordsPerformance(t *testing.T) {
	s := newTestStore(t)
	questions := []model.Question{
		{ID: 1, Type: model.TrueFalse, Question: "Q?", CorrectAnswer: "True"},
	}
	topic, e := seedExam(t, s, questions)

	scorer := NewScorer(s, nil)
	result, err := scorer.Score(context.Background(), e.ID, model.ExamTypeReal, map[string]string{"1": "True"}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	scores, err := s.ListPerformanceScores(topic.SubjectID, topic.ID)
	if err != nil {
		t.Fatalf("ListPerformanceScores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 performance row, got %d", len(scores))
	}
	if scores[0].Score != 100 || *scores[0].AttemptID != result.Attempt.ID {
		t.Errorf("unexpected performance row %+v", scores[0])
	}
}

func TestScoreMockExamSkipsPerformance(t *testing.T) {
	s := newTestStore(t)
	questions := []model.Question{
		{ID: 1, Type: model.TrueFalse, Question: "Q?", CorrectAnswer: "True"},
	}
	_, e := seedExam(t, s, questions)

	scorer := NewScorer(s, nil)
	if _, err := scorer.Score(context.Background(), e.ID, model.ExamTypeMock, map[string]string{"1": "True"}, nil); err != nil {
		t.Fatalf("Score: %v", err)
	}

	scores, err := s.ListPerformanceScores(0, 0)
	if err != nil {
		t.Fatalf("ListPerformanceScores: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("mock attempts must not create history rows, got %d", len(scores))
	}
}

func TestScoreValidation(t *testing.T) {
	s := newTestStore(t)
	scorer := NewScorer(s, nil)

	_, err := scorer.Score(context.Background(), 1, "quiz", map[string]string{}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected Validation for bad exam type, got %v", err)
	}
	_, err = scorer.Score(context.Background(), 1, model.ExamTypeMock, nil, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected Validation for nil answers, got %v", err)
	}
	_, err = scorer.Score(context.Background(), 999, model.ExamTypeMock, map[string]string{}, nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected NotFound for missing exam, got %v", err)
	}
}

func TestFallbackFeedbackGeneric(t *testing.T) {
	got := fallbackFeedback(errors.New("boom"))
	if got != "Automated scoring unavailable. Answer evaluated using text matching." {
		t.Errorf("unexpected feedback %q", got)
	}
}
