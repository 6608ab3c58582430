// Package llm wraps an OpenAI-compatible API for exam generation, short
// answer grading, and image text extraction.
package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

// GradeResult holds the model's assessment of a single short answer.
type GradeResult struct {
	Score     int    `json:"score"`
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

// ExamRequest describes one exam generation call.
type ExamRequest struct {
	Material               string
	NumQuestions           int
	AdditionalInstructions string
}

// Client wraps an OpenAI-compatible API client. Generation and grading may
// use different models; grading defaults to a cheaper one.
type Client struct {
	api        *openai.Client
	genModel   string
	gradeModel string
}

// New creates a new LLM client. An empty API key is a configuration error
// surfaced on first use rather than at startup.
func New(baseURL, apiKey, genModel, gradeModel string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if gradeModel == "" {
		gradeModel = genModel
	}
	return &Client{
		api:        openai.NewClientWithConfig(config),
		genModel:   genModel,
		gradeModel: gradeModel,
	}
}

// Ping verifies the API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return classifyAPIError(err)
	}
	return nil
}

// GenerateExam asks the model for req.NumQuestions questions over the given
// material and returns the ones that pass shape validation.
func (c *Client) GenerateExam(ctx context.Context, req ExamRequest) ([]model.Question, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.genModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: examSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildExamUserPrompt(req)},
		},
		MaxTokens:   4000,
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperr.New(apperr.KindGenerationFailed, "Failed to generate questions. Please try again.")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("exam generation response", "raw", raw)

	var payload struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, apperr.Wrap(apperr.KindGenerationFailed, err, "Failed to parse exam questions. Please try again.")
	}
	if len(payload.Questions) == 0 {
		return nil, apperr.New(apperr.KindGenerationFailed, "Failed to generate questions. Please try again.")
	}

	valid := payload.Questions[:0]
	for _, q := range payload.Questions {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		return nil, apperr.New(apperr.KindInvalidQuestions, "Generated questions are invalid. Please try again.")
	}
	return valid, nil
}

// GradeShortAnswer evaluates a free-text answer against the reference answer
// on a 0-100 scale.
func (c *Client) GradeShortAnswer(ctx context.Context, question, correctAnswer, studentAnswer string) (GradeResult, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.gradeModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: gradeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildGradeUserPrompt(question, correctAnswer, studentAnswer)},
		},
		MaxTokens:   500,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return GradeResult{}, classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return GradeResult{}, apperr.New(apperr.KindGenerationFailed, "grading returned no choices")
	}

	var result GradeResult
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return GradeResult{}, apperr.Wrap(apperr.KindGenerationFailed, err, "parse grading response")
	}
	result.IsCorrect = result.IsCorrect || result.Score >= 70
	return result, nil
}

// ExtractImageText reads text out of an image via the vision endpoint.
func (c *Client) ExtractImageText(ctx context.Context, mimeType string, data []byte) (string, error) {
	url := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.genModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Extract all text content from this image. Return only the extracted text, preserving structure and formatting.",
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: url},
					},
				},
			},
		},
		MaxTokens: 4000,
	})
	if err != nil {
		return "", classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.KindExtractionFailed, "vision model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyAPIError distinguishes connectivity failures from bad credentials
// so handlers can return offline-specific messages.
func classifyAPIError(err error) error {
	var netErr net.Error
	msg := strings.ToLower(err.Error())
	switch {
	case errors.As(err, &netErr),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "dial tcp"),
		strings.Contains(msg, "network"):
		return apperr.Wrap(apperr.KindNetwork, err,
			"Unable to connect to AI service. Please check your internet connection and try again.")
	case strings.Contains(msg, "api key"), strings.Contains(msg, "401"), strings.Contains(msg, "unauthorized"):
		return apperr.Wrap(apperr.KindConfig, err,
			"OpenAI API key is not configured. Please check your environment variables.")
	default:
		return apperr.Wrap(apperr.KindGenerationFailed, err, "AI request failed")
	}
}
