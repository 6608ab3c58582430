// Package extract converts uploaded binaries into plain text. Dispatch is by
// filename extension; failures carry a typed reason and actionable guidance
// so callers can tell a corrupt PDF from an encrypted one.
package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"archive/zip"

	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"studyhub/internal/apperr"
)

// Result holds extracted text and the normalized file-type family.
type Result struct {
	Content  string
	FileType string
}

// TypeOf returns the normalized file-type family for a filename. Plain text
// uploads are recorded as "text"; everything else keeps its extension.
func TypeOf(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "txt" {
		return "text"
	}
	return ext
}

// Extract converts file bytes into plain text based on the filename
// extension. It never retries; the caller decides whether a failure is fatal.
func Extract(data []byte, fileName string) (Result, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))

	switch ext {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	case "doc":
		return Result{}, apperr.New(apperr.KindUnsupportedFormat,
			"DOC files (old Word format) are not supported. Please convert to DOCX or PDF first.")
	case "xls", "xlsx":
		return extractSpreadsheet(data, ext)
	case "txt":
		return Result{Content: string(data), FileType: "text"}, nil
	default:
		return Result{}, apperr.Newf(apperr.KindUnsupportedFormat, "Unsupported file type: %s", ext)
	}
}

func extractPDF(data []byte) (Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, classifyPDFError(err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return Result{}, classifyPDFError(err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return Result{}, classifyPDFError(err)
	}

	content := string(text)
	if strings.TrimSpace(content) == "" {
		return Result{}, apperr.New(apperr.KindExtractionFailed,
			"This PDF file appears to be empty or contains no extractable text. It may be image-based - please copy the text manually or convert to DOCX format.")
	}
	return Result{Content: content, FileType: "pdf"}, nil
}

// classifyPDFError turns parser failures into the specific user-facing
// reasons: corrupt cross-reference structure, password protection, or a
// generic parse failure. It never guesses a success.
func classifyPDFError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "xref") || strings.Contains(msg, "cross-reference"):
		return apperr.Wrap(apperr.KindExtractionFailed, err,
			"This PDF file has structural issues. Please try converting the PDF to DOCX format, copying the text content directly, or re-saving the PDF from the original source.")
	case strings.Contains(msg, "encrypted") || strings.Contains(msg, "password"):
		return apperr.Wrap(apperr.KindExtractionFailed, err,
			"This PDF file is password-protected. Please remove the password protection before uploading.")
	default:
		return apperr.Wrap(apperr.KindExtractionFailed, err,
			"Failed to parse PDF. The document may be fine, but the parser is having issues. Please try converting to DOCX or pasting the text content directly.")
	}
}

// extractDOCX pulls the text runs (<w:t>) out of word/document.xml in the
// OOXML container.
func extractDOCX(data []byte) (Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindExtractionFailed, err, "Failed to parse DOCX")
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return Result{}, apperr.New(apperr.KindExtractionFailed,
			"Failed to parse DOCX: missing word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindExtractionFailed, err, "Failed to parse DOCX")
	}
	defer rc.Close()

	content, err := collectTextRuns(rc)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindExtractionFailed, err, "Failed to parse DOCX")
	}
	return Result{Content: content, FileType: "docx"}, nil
}

// collectTextRuns gathers the contents of every <w:t> element, inserting
// newlines at paragraph boundaries (<w:p>).
func collectTextRuns(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				var v string
				if err := dec.DecodeElement(&v, &el); err != nil {
					return "", err
				}
				sb.WriteString(v)
			}
		case xml.EndElement:
			if el.Name.Local == "p" {
				sb.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// extractSpreadsheet serializes every sheet as pipe-delimited rows under a
// sheet-name banner, matching how materials were captured before.
func extractSpreadsheet(data []byte, ext string) (Result, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		if ext == "xls" {
			// Legacy BIFF workbooks are not readable here; reject with
			// conversion guidance like the old Word format.
			return Result{}, apperr.Wrap(apperr.KindExtractionFailed, err,
				"Failed to parse this XLS file. Please re-save it as XLSX and upload again.")
		}
		return Result{}, apperr.Wrap(apperr.KindExtractionFailed, err, "Failed to parse Excel file")
	}
	defer wb.Close()

	var sb strings.Builder
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return Result{}, apperr.Wrap(apperr.KindExtractionFailed, err, "Failed to parse Excel file")
		}
		fmt.Fprintf(&sb, "\n=== Sheet: %s ===\n", sheet)
		for _, row := range rows {
			sb.WriteString(strings.Join(row, " | "))
			sb.WriteString("\n")
		}
	}
	return Result{Content: strings.TrimSpace(sb.String()), FileType: ext}, nil
}
