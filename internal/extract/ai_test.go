package extract

import (
	"context"
	"testing"

	"studyhub/internal/apperr"
)

type fakeVision struct {
	text     string
	err      error
	lastMIME string
	calls    int
}

func (f *fakeVision) ExtractImageText(_ context.Context, mimeType string, _ []byte) (string, error) {
	f.calls++
	f.lastMIME = mimeType
	return f.text, f.err
}

func TestAIExtractImage(t *testing.T) {
	vision := &fakeVision{text: "text from photo"}
	a := NewAIExtractor(vision)

	got, err := a.Extract(context.Background(), []byte("img"), "notes.jpg", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "text from photo" {
		t.Errorf("unexpected text %q", got)
	}
	if vision.lastMIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", vision.lastMIME)
	}
}

func TestAIExtractPrefersFileType(t *testing.T) {
	vision := &fakeVision{text: "ok"}
	a := NewAIExtractor(vision)

	// fileType wins over the misleading extension.
	if _, err := a.Extract(context.Background(), []byte("img"), "download.bin", "png"); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if vision.lastMIME != "image/png" {
		t.Errorf("expected image/png, got %q", vision.lastMIME)
	}
}

func TestAIExtractEmptyImage(t *testing.T) {
	a := NewAIExtractor(&fakeVision{text: "  \n "})
	_, err := a.Extract(context.Background(), []byte("img"), "blank.png", "")
	if !apperr.Is(err, apperr.KindExtractionFailed) {
		t.Errorf("expected ExtractionFailed for blank image, got %v", err)
	}
}

func TestAIExtractPDFNotSupported(t *testing.T) {
	a := NewAIExtractor(&fakeVision{})
	_, err := a.Extract(context.Background(), []byte("%PDF"), "scan.pdf", "")
	if !apperr.Is(err, apperr.KindNotSupported) {
		t.Errorf("expected NotSupported for PDF, got %v", err)
	}
}

func TestAIExtractTextPassthrough(t *testing.T) {
	a := NewAIExtractor(&fakeVision{})
	got, err := a.Extract(context.Background(), []byte("plain text"), "notes.txt", "text")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "plain text" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestAIExtractUnimplementedType(t *testing.T) {
	a := NewAIExtractor(&fakeVision{})
	_, err := a.Extract(context.Background(), []byte("doc"), "essay.docx", "")
	if !apperr.Is(err, apperr.KindNotImplemented) {
		t.Errorf("expected NotImplemented for docx, got %v", err)
	}
}
