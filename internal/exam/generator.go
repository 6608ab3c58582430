// Package exam implements practice exam generation and attempt scoring.
package exam

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"studyhub/internal/apperr"
	"studyhub/internal/llm"
	"studyhub/internal/model"
	"studyhub/internal/store"
)

// ScopeKind selects what a generated exam covers.
type ScopeKind int

const (
	// ScopeMaterial generates from a single revision material.
	ScopeMaterial ScopeKind = iota
	// ScopeTopic generates from every material under one topic.
	ScopeTopic
	// ScopeSubject generates from every material under every topic of a subject.
	ScopeSubject
)

// Scope identifies the source content for one generation request.
type Scope struct {
	Kind       ScopeKind
	MaterialID int64
	TopicID    int64
	SubjectID  int64
}

// QuestionGenerator produces exam questions from assembled material text.
type QuestionGenerator interface {
	GenerateExam(ctx context.Context, req llm.ExamRequest) ([]model.Question, error)
}

// ContentRecoverer recovers text from raw file bytes when local extraction
// failed at upload time.
type ContentRecoverer interface {
	Extract(ctx context.Context, data []byte, fileName, fileType string) (string, error)
}

// Generator assembles material content for a scope, calls the question
// generator, and persists the resulting versioned exam.
type Generator struct {
	store     *store.Store
	questions QuestionGenerator
	recoverer ContentRecoverer
}

// NewGenerator returns an exam generator. recoverer may be nil, in which case
// materials without extracted content are included as failure placeholders.
func NewGenerator(st *store.Store, questions QuestionGenerator, recoverer ContentRecoverer) *Generator {
	return &Generator{store: st, questions: questions, recoverer: recoverer}
}

// Generate builds and stores an exam for the given scope.
func (g *Generator) Generate(ctx context.Context, scope Scope, numQuestions int, instructions string) (model.Exam, error) {
	if numQuestions <= 0 {
		return model.Exam{}, apperr.New(apperr.KindValidation, "Number of questions is required")
	}

	switch scope.Kind {
	case ScopeMaterial:
		return g.generateFromMaterial(ctx, scope.MaterialID, numQuestions, instructions)
	case ScopeTopic:
		return g.generateFromTopic(ctx, scope.TopicID, numQuestions, instructions)
	case ScopeSubject:
		return g.generateFromSubject(ctx, scope.SubjectID, numQuestions, instructions)
	default:
		return model.Exam{}, apperr.New(apperr.KindValidation, "Unknown exam scope")
	}
}

func (g *Generator) generateFromMaterial(ctx context.Context, materialID int64, numQuestions int, instructions string) (model.Exam, error) {
	m, err := g.store.GetMaterial(materialID)
	if err != nil {
		return model.Exam{}, err
	}

	content := g.materialContent(ctx, &m)
	if strings.TrimSpace(content) == "" || strings.HasPrefix(content, "[Content extraction failed") {
		return model.Exam{}, apperr.New(apperr.KindValidation,
			"Material content is empty. Please ensure the material has content.")
	}

	questions, err := g.questions.GenerateExam(ctx, llm.ExamRequest{
		Material:               content,
		NumQuestions:           numQuestions,
		AdditionalInstructions: instructions,
	})
	if err != nil {
		return model.Exam{}, err
	}

	id := m.ID
	return g.store.CreateExam(&id, m.TopicID, "Exam - "+m.Title, questions)
}

func (g *Generator) generateFromTopic(ctx context.Context, topicID int64, numQuestions int, instructions string) (model.Exam, error) {
	topic, err := g.store.GetTopic(topicID)
	if err != nil {
		return model.Exam{}, err
	}
	materials, err := g.store.ListMaterialsForTopics([]int64{topicID})
	if err != nil {
		return model.Exam{}, err
	}
	if len(materials) == 0 {
		return model.Exam{}, apperr.New(apperr.KindValidation,
			"No revision materials found for this topic. Please add materials first.")
	}

	content := g.combineMaterials(ctx, map[int64]string{topicID: topic.Name}, materials)

	questions, err := g.questions.GenerateExam(ctx, llm.ExamRequest{
		Material:               content,
		NumQuestions:           numQuestions,
		AdditionalInstructions: instructions,
	})
	if err != nil {
		return model.Exam{}, err
	}

	return g.store.CreateExam(nil, topicID, "Exam - "+topic.Name, questions)
}

func (g *Generator) generateFromSubject(ctx context.Context, subjectID int64, numQuestions int, instructions string) (model.Exam, error) {
	subject, err := g.store.GetSubject(subjectID)
	if err != nil {
		return model.Exam{}, err
	}
	topics, err := g.store.ListTopics(subjectID)
	if err != nil {
		return model.Exam{}, err
	}
	if len(topics) == 0 {
		return model.Exam{}, apperr.New(apperr.KindValidation,
			"No topics found for this subject. Please add topics and materials first.")
	}

	topicNames := make(map[int64]string, len(topics))
	topicIDs := make([]int64, len(topics))
	for i, t := range topics {
		topicIDs[i] = t.ID
		topicNames[t.ID] = t.Name
	}

	materials, err := g.store.ListMaterialsForTopics(topicIDs)
	if err != nil {
		return model.Exam{}, err
	}
	if len(materials) == 0 {
		return model.Exam{}, apperr.New(apperr.KindValidation,
			"No revision materials found for this subject. Please add materials first.")
	}

	content := g.combineMaterials(ctx, topicNames, materials)

	questions, err := g.questions.GenerateExam(ctx, llm.ExamRequest{
		Material:               content,
		NumQuestions:           numQuestions,
		AdditionalInstructions: instructions,
	})
	if err != nil {
		return model.Exam{}, err
	}

	// Subject-wide exams version against the first topic's scope.
	return g.store.CreateExam(nil, topicIDs[0], fmt.Sprintf("Exam - %s (All Topics)", subject.Name), questions)
}

// combineMaterials concatenates material content grouped under topic headers,
// in stored generation order.
func (g *Generator) combineMaterials(ctx context.Context, topicNames map[int64]string, materials []model.Material) string {
	var sb strings.Builder
	var currentTopic int64 = -1
	for i := range materials {
		m := &materials[i]
		if m.TopicID != currentTopic {
			currentTopic = m.TopicID
			fmt.Fprintf(&sb, "\n=== TOPIC: %s ===\n", topicNames[m.TopicID])
		}
		fmt.Fprintf(&sb, "\n--- %s ---\n", m.Title)
		sb.WriteString(g.materialContent(ctx, m))
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// materialContent returns the material's extracted text, running the AI
// recovery pass when upload-time extraction failed. Recovered text is
// persisted so the next generation skips the recovery call.
func (g *Generator) materialContent(ctx context.Context, m *model.Material) string {
	if m.Content != nil && strings.TrimSpace(*m.Content) != "" {
		return *m.Content
	}
	if g.recoverer == nil || len(m.FileData) == 0 {
		return fmt.Sprintf("[Content extraction failed for %s]", m.FileName)
	}

	text, err := g.recoverer.Extract(ctx, m.FileData, m.FileName, m.FileType)
	if err != nil {
		slog.Warn("content recovery failed", "material_id", m.ID, "file", m.FileName, "error", err)
		return fmt.Sprintf("[Content extraction failed for %s]", m.FileName)
	}

	if err := g.store.UpdateMaterialContent(m.ID, text); err != nil {
		slog.Warn("persisting recovered content failed", "material_id", m.ID, "error", err)
	}
	m.Content = &text
	return text
}
