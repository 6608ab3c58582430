package llm

import (
	"strings"
	"testing"
)

func TestBuildExamUserPrompt(t *testing.T) {
	prompt := buildExamUserPrompt(ExamRequest{
		Material:     "The mitochondria is the powerhouse of the cell.",
		NumQuestions: 7,
	})

	if !strings.Contains(prompt, "generate exactly 7 exam questions") {
		t.Error("prompt should pin the question count")
	}
	if !strings.Contains(prompt, "The mitochondria is the powerhouse of the cell.") {
		t.Error("prompt should contain the material")
	}
	if !strings.Contains(prompt, `"type": "multiple_choice"`) {
		t.Error("prompt should show the JSON question shape")
	}
	if strings.Contains(prompt, "Additional Instructions") {
		t.Error("empty instructions must not add a section")
	}
}

func TestBuildExamUserPromptWithInstructions(t *testing.T) {
	prompt := buildExamUserPrompt(ExamRequest{
		Material:               "content",
		NumQuestions:           3,
		AdditionalInstructions: "  only ask about dates  ",
	})

	if !strings.Contains(prompt, "Additional Instructions:\nonly ask about dates") {
		t.Error("instructions should be trimmed and appended")
	}
}

func TestBuildGradeUserPrompt(t *testing.T) {
	prompt := buildGradeUserPrompt("Define osmosis.", "Movement of water", "Water moves across a membrane")

	for _, want := range []string{
		"Question: Define osmosis.",
		"Correct Answer: Movement of water",
		"Student's Answer: Water moves across a membrane",
		"Score 70+ for correct answers",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSystemPrompts(t *testing.T) {
	if !strings.Contains(examSystemPrompt, "Return valid JSON only") {
		t.Error("exam system prompt must demand JSON")
	}
	if !strings.Contains(gradeSystemPrompt, "Return valid JSON only") {
		t.Error("grade system prompt must demand JSON")
	}
}
