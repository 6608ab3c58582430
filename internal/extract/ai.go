package extract

import (
	"context"
	"path/filepath"
	"strings"

	"studyhub/internal/apperr"
)

// VisionClient reads text out of an image via a multimodal model.
type VisionClient interface {
	ExtractImageText(ctx context.Context, mimeType string, data []byte) (string, error)
}

var imageMIMETypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// AIExtractor is the fallback path for files local extraction could not
// handle: images go through the vision model, plain text passes through.
type AIExtractor struct {
	vision VisionClient
}

// NewAIExtractor returns an extractor backed by the given vision client.
func NewAIExtractor(vision VisionClient) *AIExtractor {
	return &AIExtractor{vision: vision}
}

// Extract recovers text from raw file bytes using the AI fallback. fileType
// takes precedence over the filename extension when set.
func (a *AIExtractor) Extract(ctx context.Context, data []byte, fileName, fileType string) (string, error) {
	ext := strings.ToLower(fileType)
	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	}

	switch ext {
	case "png", "jpg", "jpeg":
		if a.vision == nil {
			return "", apperr.New(apperr.KindConfig, "AI extraction is not configured")
		}
		text, err := a.vision.ExtractImageText(ctx, imageMIMETypes[ext], data)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", apperr.New(apperr.KindExtractionFailed, "The image contains no readable text")
		}
		return text, nil
	case "pdf":
		// The chat vision endpoint takes images, not documents. PDFs that
		// failed local parsing stay failed until converted by the user.
		return "", apperr.New(apperr.KindNotSupported,
			"AI extraction cannot process PDF files directly. Please convert the PDF to images or DOCX format.")
	case "txt", "text":
		return string(data), nil
	default:
		return "", apperr.Newf(apperr.KindNotImplemented, "AI extraction is not implemented for %s files", ext)
	}
}
