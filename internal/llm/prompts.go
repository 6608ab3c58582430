package llm

import (
	"fmt"
	"strings"
)

const examSystemPrompt = "You are an educational assistant creating practice exam questions for a 15-year-old student. " +
	"Generate questions that test understanding, not just memorization. Return valid JSON only."

const gradeSystemPrompt = "You are an educational assistant grading exam answers for a 15-year-old student. " +
	"Evaluate the accuracy and understanding demonstrated in the student's answer. Return valid JSON only."

func buildExamUserPrompt(req ExamRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on the following revision material, generate exactly %d exam questions.\n\n", req.NumQuestions)
	sb.WriteString("Revision Material:\n")
	sb.WriteString(req.Material)
	sb.WriteString("\n\nRequirements:\n")
	sb.WriteString("- Mix of question types: multiple choice, short answer, and true/false\n")
	sb.WriteString("- Questions should test understanding, not just memorization\n")
	sb.WriteString("- Include answer key with explanations\n")
	sb.WriteString("- Age-appropriate language for a 15-year-old student")

	if instructions := strings.TrimSpace(req.AdditionalInstructions); instructions != "" {
		sb.WriteString("\n\nAdditional Instructions:\n")
		sb.WriteString(instructions)
	}

	sb.WriteString("\n\nReturn questions in JSON format:\n")
	sb.WriteString(`{
  "questions": [
    {
      "id": 1,
      "type": "multiple_choice",
      "question": "...",
      "options": ["A", "B", "C", "D"],
      "correct_answer": "A",
      "explanation": "..."
    }
  ]
}`)
	return sb.String()
}

func buildGradeUserPrompt(question, correctAnswer, studentAnswer string) string {
	var sb strings.Builder
	sb.WriteString("Evaluate this exam answer:\n\n")
	sb.WriteString("Question: " + question + "\n\n")
	sb.WriteString("Correct Answer: " + correctAnswer + "\n\n")
	sb.WriteString("Student's Answer: " + studentAnswer + "\n\n")
	sb.WriteString("Rate the answer on a scale of 0-100 based on:\n")
	sb.WriteString("- Accuracy of the information\n")
	sb.WriteString("- Understanding of the concept\n")
	sb.WriteString("- Completeness of the response\n")
	sb.WriteString("- Use of appropriate terminology\n\n")
	sb.WriteString("Return your evaluation in JSON format:\n")
	sb.WriteString(`{
  "score": 85,
  "isCorrect": true,
  "feedback": "The answer demonstrates good understanding but could be more detailed..."
}`)
	sb.WriteString("\n\nConsider an answer correct (isCorrect: true) if it shows understanding of the concept, ")
	sb.WriteString("even if not word-for-word identical. Score 70+ for correct answers, 40-69 for partially correct, and below 40 for incorrect.")
	return sb.String()
}
