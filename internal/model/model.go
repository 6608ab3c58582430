package model

import "time"

// Subject is a top-level study category owning zero or more topics.
type Subject struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Topic is a sub-category of a subject. Materials, exams, tasks, and
// confidence entries hang off topics.
type Topic struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"subject_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Material is an uploaded or typed chunk of study content. Content is nil
// when local extraction failed at upload time; the raw bytes are kept so a
// later AI pass can recover the text.
type Material struct {
	ID         int64     `json:"id"`
	TopicID    int64     `json:"topic_id"`
	Title      string    `json:"title"`
	Content    *string   `json:"content"`
	FileData   []byte    `json:"-"`
	FileName   string    `json:"file_name,omitempty"`
	FileType   string    `json:"file_type,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// QuestionType discriminates the question variants an exam may contain.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
	TrueFalse      QuestionType = "true_false"
)

// Question is one generated exam question. IDs are scoped to the exam.
// Options is populated only for multiple_choice.
type Question struct {
	ID            int          `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
}

// Valid reports whether the question carries all required fields.
func (q Question) Valid() bool {
	return q.ID != 0 && q.Type != "" && q.Question != "" && q.CorrectAnswer != ""
}

// Exam is a generated, versioned question set. MaterialID is nil for exams
// spanning a whole topic or subject; version numbers are monotonic per scope.
type Exam struct {
	ID             int64      `json:"id"`
	MaterialID     *int64     `json:"revision_material_id"`
	TopicID        int64      `json:"topic_id"`
	VersionNumber  int        `json:"version_number"`
	Title          string     `json:"title"`
	Questions      []Question `json:"questions"`
	TotalQuestions int        `json:"total_questions"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ExamType distinguishes real exams (persisted to performance history) from
// mock runs.
type ExamType string

const (
	ExamTypeReal ExamType = "exam"
	ExamTypeMock ExamType = "mock"
)

// Attempt is one scored submission of answers against an exam. Answers maps
// question id (or positional index) to the raw submitted text. Score is the
// percentage of correct answers.
type Attempt struct {
	ID             int64             `json:"id"`
	ExamID         int64             `json:"exam_id"`
	ExamType       ExamType          `json:"exam_type"`
	Answers        map[string]string `json:"answers"`
	Score          int               `json:"score"`
	TotalCorrect   int               `json:"total_correct"`
	TotalQuestions int               `json:"total_questions"`
	TimeTaken      *int              `json:"time_taken,omitempty"`
	CompletedAt    time.Time         `json:"completed_at"`
}

// PerformanceScore is an append-only history row created for real exam
// attempts. All references are nullable so history survives deletions.
type PerformanceScore struct {
	ID              int64     `json:"id"`
	SubjectID       *int64    `json:"subject_id"`
	TopicID         *int64    `json:"topic_id"`
	ExamID          *int64    `json:"exam_id"`
	AttemptID       *int64    `json:"exam_attempt_id"`
	Score           int       `json:"score"`
	TotalQuestions  int       `json:"total_questions"`
	CorrectAnswers  int       `json:"correct_answers"`
	PerformanceDate time.Time `json:"performance_date"`
}

// ConfidenceEntry is one 1-5 self-rating for a topic. PreviousLevel snapshots
// the prior rating at insert time; the series is append-only.
type ConfidenceEntry struct {
	ID            int64     `json:"id"`
	TopicID       *int64    `json:"topic_id"`
	ExamID        *int64    `json:"exam_id,omitempty"`
	AttemptID     *int64    `json:"exam_attempt_id,omitempty"`
	Level         int       `json:"confidence_level"`
	PreviousLevel *int      `json:"previous_confidence_level,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	TrackedAt     time.Time `json:"tracked_at"`
}

// Task is a study task shown on the calendar.
type Task struct {
	ID          int64      `json:"id"`
	TaskType    string     `json:"task_type"`
	SubjectID   *int64     `json:"subject_id,omitempty"`
	TopicID     *int64     `json:"topic_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      string     `json:"status"`
	Importance  int        `json:"importance"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ServerConfig holds runtime parameters set via CLI flags.
type ServerConfig struct {
	Addr       string
	DBPath     string
	Lang       string
	OpenAIURL  string
	OpenAIKey  string
	GenModel   string
	GradeModel string
}
