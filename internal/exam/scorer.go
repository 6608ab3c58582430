package exam

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"studyhub/internal/apperr"
	"studyhub/internal/llm"
	"studyhub/internal/model"
	"studyhub/internal/store"
)

// AnswerGrader evaluates a free-text answer against the reference answer.
type AnswerGrader interface {
	GradeShortAnswer(ctx context.Context, question, correctAnswer, studentAnswer string) (llm.GradeResult, error)
}

// QuestionResult is the per-question outcome of a scored attempt.
type QuestionResult struct {
	QuestionID    int     `json:"question_id"`
	UserAnswer    *string `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Score         int     `json:"score"`
	Feedback      string  `json:"feedback"`
	Explanation   string  `json:"explanation,omitempty"`
}

// AttemptResult is the full outcome of a scored attempt. Score is the
// percentage of correct answers; AverageScore averages the per-question 0-100
// scores, which differs once partially-correct short answers are involved.
type AttemptResult struct {
	Attempt        model.Attempt    `json:"attempt"`
	Score          int              `json:"score"`
	AverageScore   int              `json:"average_score"`
	TotalCorrect   int              `json:"total_correct"`
	TotalQuestions int              `json:"total_questions"`
	Results        []QuestionResult `json:"results"`
	Exam           model.Exam       `json:"exam"`
}

// Scorer grades submitted answers and records attempts.
type Scorer struct {
	store  *store.Store
	grader AnswerGrader
}

// NewScorer returns a scorer. grader may be nil; short answers then fall back
// to text matching.
func NewScorer(st *store.Store, grader AnswerGrader) *Scorer {
	return &Scorer{store: st, grader: grader}
}

// Score grades an attempt against an exam and persists it. Real exam
// attempts additionally append a performance history row; a failure there is
// logged and never fails the attempt.
func (s *Scorer) Score(ctx context.Context, examID int64, examType model.ExamType, answers map[string]string, timeTaken *int) (AttemptResult, error) {
	if examType != model.ExamTypeReal && examType != model.ExamTypeMock {
		return AttemptResult{}, apperr.New(apperr.KindValidation, "Exam type and answers are required")
	}
	if answers == nil {
		return AttemptResult{}, apperr.New(apperr.KindValidation, "Exam type and answers are required")
	}

	exam, err := s.store.GetExam(examID)
	if err != nil {
		return AttemptResult{}, err
	}
	if len(exam.Questions) == 0 {
		return AttemptResult{}, apperr.New(apperr.KindValidation, "Exam has no valid questions")
	}

	var correctCount, totalScore int
	results := make([]QuestionResult, 0, len(exam.Questions))

	for i, q := range exam.Questions {
		answer, ok := resolveAnswer(answers, q.ID, i)
		if !ok || answer == "" {
			results = append(results, QuestionResult{
				QuestionID:    q.ID,
				CorrectAnswer: q.CorrectAnswer,
				Feedback:      "No answer provided",
				Explanation:   q.Explanation,
			})
			continue
		}

		var res QuestionResult
		if q.Type == model.ShortAnswer {
			res = s.gradeShortAnswer(ctx, q, answer)
		} else {
			res = gradeChoice(q, answer)
		}
		if res.IsCorrect {
			correctCount++
		}
		totalScore += res.Score
		results = append(results, res)
	}

	total := len(exam.Questions)
	percentageScore := int(math.Round(float64(correctCount) / float64(total) * 100))
	averageScore := int(math.Round(float64(totalScore) / float64(total)))

	attempt, err := s.store.CreateAttempt(model.Attempt{
		ExamID:         examID,
		ExamType:       examType,
		Answers:        answers,
		Score:          percentageScore,
		TotalCorrect:   correctCount,
		TotalQuestions: total,
		TimeTaken:      timeTaken,
	})
	if err != nil {
		return AttemptResult{}, err
	}

	if examType == model.ExamTypeReal {
		s.recordPerformance(exam, attempt, percentageScore, correctCount, total)
	}

	return AttemptResult{
		Attempt:        attempt,
		Score:          percentageScore,
		AverageScore:   averageScore,
		TotalCorrect:   correctCount,
		TotalQuestions: total,
		Results:        results,
		Exam:           exam,
	}, nil
}

func (s *Scorer) recordPerformance(exam model.Exam, attempt model.Attempt, score, correct, total int) {
	topic, err := s.store.GetTopic(exam.TopicID)
	if err != nil {
		slog.Warn("topic lookup for performance history failed, skipping", "topic_id", exam.TopicID, "error", err)
		return
	}
	_, err = s.store.CreatePerformanceScore(model.PerformanceScore{
		SubjectID:      &topic.SubjectID,
		TopicID:        &exam.TopicID,
		ExamID:         &exam.ID,
		AttemptID:      &attempt.ID,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
	})
	if err != nil {
		slog.Error("saving performance history failed", "attempt_id", attempt.ID, "error", err)
	}
}

// resolveAnswer looks up a submitted answer by question ID first, then by
// positional index, matching what older clients send.
func resolveAnswer(answers map[string]string, questionID, index int) (string, bool) {
	if a, ok := answers[strconv.Itoa(questionID)]; ok {
		return a, true
	}
	a, ok := answers[strconv.Itoa(index)]
	return a, ok
}

func (s *Scorer) gradeShortAnswer(ctx context.Context, q model.Question, answer string) QuestionResult {
	res := QuestionResult{
		QuestionID:    q.ID,
		UserAnswer:    &answer,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}

	if s.grader != nil {
		grade, err := s.grader.GradeShortAnswer(ctx, q.Question, q.CorrectAnswer, answer)
		if err == nil {
			res.IsCorrect = grade.IsCorrect
			res.Score = grade.Score
			res.Feedback = grade.Feedback
			return res
		}
		slog.Warn("AI grading failed, falling back to text matching", "question_id", q.ID, "error", err)
		res.Feedback = fallbackFeedback(err)
	} else {
		res.Feedback = "Automated scoring unavailable. Answer evaluated using text matching."
	}

	user := strings.ToLower(strings.TrimSpace(answer))
	correct := strings.ToLower(strings.TrimSpace(q.CorrectAnswer))
	if strings.Contains(user, correct) || strings.Contains(correct, user) {
		res.IsCorrect = true
		res.Score = 70
	}
	return res
}

func fallbackFeedback(err error) string {
	if apperr.Is(err, apperr.KindNetwork) {
		return "AI scoring unavailable offline. Answer evaluated using text matching. Please connect to the internet for detailed AI feedback."
	}
	return "Automated scoring unavailable. Answer evaluated using text matching."
}

var (
	choicePattern       = regexp.MustCompile(`(?i)^([A-E])(?:\s*[).]|\s|$)`)
	singleLetterPattern = regexp.MustCompile(`(?i)^([A-Za-z])`)
)

// gradeChoice scores multiple_choice and true_false by comparing normalized
// answers.
func gradeChoice(q model.Question, answer string) QuestionResult {
	res := QuestionResult{
		QuestionID:    q.ID,
		UserAnswer:    &answer,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Feedback:      "Incorrect",
	}
	if strings.EqualFold(normalizeChoice(answer), normalizeChoice(q.CorrectAnswer)) {
		res.IsCorrect = true
		res.Score = 100
		res.Feedback = "Correct!"
	}
	return res
}

// normalizeChoice reduces an answer to a comparable token. "B) Paris",
// "b. Paris", and "B" all normalize to "B"; answers with no leading letter
// fall back to the lowercased full string.
func normalizeChoice(answer string) string {
	answer = strings.TrimSpace(answer)
	if m := choicePattern.FindStringSubmatch(answer); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := singleLetterPattern.FindStringSubmatch(answer); m != nil {
		return strings.ToUpper(m[1])
	}
	return strings.ToLower(answer)
}
