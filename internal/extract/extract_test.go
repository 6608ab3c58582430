package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"studyhub/internal/apperr"
)

func TestExtractPlainText(t *testing.T) {
	res, err := Extract([]byte("line one\nline two"), "notes.txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Content != "line one\nline two" {
		t.Errorf("text content must pass through verbatim, got %q", res.Content)
	}
	if res.FileType != "text" {
		t.Errorf("expected file type 'text', got %q", res.FileType)
	}
}

func TestExtractRejectsLegacyDoc(t *testing.T) {
	_, err := Extract([]byte("old word doc"), "essay.doc")
	if !apperr.Is(err, apperr.KindUnsupportedFormat) {
		t.Fatalf("expected UnsupportedFormat, got %v", err)
	}
	if !strings.Contains(apperr.Message(err), "convert to DOCX or PDF") {
		t.Errorf("message should carry conversion guidance, got %q", apperr.Message(err))
	}
}

func TestExtractRejectsUnknownExtension(t *testing.T) {
	_, err := Extract([]byte("data"), "notes.odt")
	if !apperr.Is(err, apperr.KindUnsupportedFormat) {
		t.Errorf("expected UnsupportedFormat, got %v", err)
	}
}

func TestExtractDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := f.Write([]byte(doc)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	res, err := Extract(buf.Bytes(), "notes.docx")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.FileType != "docx" {
		t.Errorf("expected file type docx, got %q", res.FileType)
	}
	if !strings.Contains(res.Content, "First paragraph.") {
		t.Errorf("missing first paragraph in %q", res.Content)
	}
	// Runs split across elements join without separators; paragraphs break lines.
	if !strings.Contains(res.Content, "Second paragraph.") {
		t.Errorf("split runs should join, got %q", res.Content)
	}
	if !strings.Contains(res.Content, "\n") {
		t.Error("paragraph boundary should produce a newline")
	}
}

func TestExtractDOCXWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("word/styles.xml")
	_, _ = f.Write([]byte("<styles/>"))
	_ = zw.Close()

	_, err := Extract(buf.Bytes(), "broken.docx")
	if !apperr.Is(err, apperr.KindExtractionFailed) {
		t.Errorf("expected ExtractionFailed, got %v", err)
	}
}

func TestExtractXLSX(t *testing.T) {
	wb := excelize.NewFile()
	_ = wb.SetCellValue("Sheet1", "A1", "Element")
	_ = wb.SetCellValue("Sheet1", "B1", "Symbol")
	_ = wb.SetCellValue("Sheet1", "A2", "Hydrogen")
	_ = wb.SetCellValue("Sheet1", "B2", "H")
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	res, err := Extract(buf.Bytes(), "elements.xlsx")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.FileType != "xlsx" {
		t.Errorf("expected file type xlsx, got %q", res.FileType)
	}
	if !strings.Contains(res.Content, "=== Sheet: Sheet1 ===") {
		t.Errorf("missing sheet banner in %q", res.Content)
	}
	if !strings.Contains(res.Content, "Hydrogen | H") {
		t.Errorf("missing pipe-joined row in %q", res.Content)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := Extract([]byte("%PDF-1.4 this is not a real pdf"), "scan.pdf")
	if !apperr.Is(err, apperr.KindExtractionFailed) {
		t.Fatalf("expected ExtractionFailed, got %v", err)
	}
}

func TestExtractCorruptXLS(t *testing.T) {
	_, err := Extract([]byte{0xD0, 0xCF, 0x11, 0xE0}, "legacy.xls")
	if !apperr.Is(err, apperr.KindExtractionFailed) {
		t.Fatalf("expected ExtractionFailed, got %v", err)
	}
	if !strings.Contains(apperr.Message(err), "re-save it as XLSX") {
		t.Errorf("message should suggest re-saving, got %q", apperr.Message(err))
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"notes.txt", "text"},
		{"notes.PDF", "pdf"},
		{"photo.JPG", "jpg"},
		{"noext", ""},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.name); got != tt.want {
			t.Errorf("TypeOf(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
