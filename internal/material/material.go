// Package material handles revision material ingestion: validation, text
// extraction from uploads, and persistence.
package material

import (
	"context"
	"log/slog"

	"studyhub/internal/apperr"
	"studyhub/internal/extract"
	"studyhub/internal/model"
	"studyhub/internal/store"
)

// Upload carries the raw bytes of an uploaded file.
type Upload struct {
	Name string
	Data []byte
}

// Service ingests revision materials.
type Service struct {
	store *store.Store
}

// NewService returns a material service over the given store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Ingest stores a new material for a topic. Exactly one of file or content
// must be set. When local extraction of a file fails, including formats the
// local extractor cannot read at all such as images, the material is stored
// anyway with nil content and its raw bytes kept for a later AI pass; an
// upload never bounces on an extraction failure.
func (s *Service) Ingest(ctx context.Context, topicID int64, title string, file *Upload, content string) (model.Material, error) {
	if title == "" {
		return model.Material{}, apperr.New(apperr.KindValidation, "Title is required")
	}
	if file == nil && content == "" {
		return model.Material{}, apperr.New(apperr.KindValidation, "Either a file or text content is required")
	}
	if _, err := s.store.GetTopic(topicID); err != nil {
		return model.Material{}, err
	}

	m := model.Material{TopicID: topicID, Title: title}

	if file != nil {
		m.FileName = file.Name
		m.FileData = file.Data

		res, err := extract.Extract(file.Data, file.Name)
		if err != nil {
			slog.Warn("text extraction failed, storing material without content",
				"file", file.Name, "error", err)
			m.FileType = extract.TypeOf(file.Name)
		} else {
			m.Content = &res.Content
			m.FileType = res.FileType
		}
	} else {
		m.Content = &content
		m.FileType = "text"
	}

	return s.store.CreateMaterial(m)
}
