package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MIME types accepted for CV uploads.
const (
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDoc  = "application/msword"
)

var (
	// ErrUnsupportedType means the declared type has no extraction backend.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrExtraction means the backend failed on the file contents.
	ErrExtraction = errors.New("text extraction failed")
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Extractor converts an uploaded document into plain text. Backends exist for
// PDF and Word-processing XML; everything else fails with ErrUnsupportedType.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Parse(data []byte, mimeType string) (string, error) {
	switch mimeType {
	case MimePDF:
		return e.extractPDF(data)
	case MimeDocx:
		return e.extractDocx(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}

func (e *Extractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: opening pdf: %v", ErrExtraction, err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: reading pdf text: %v", ErrExtraction, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("%w: buffering pdf text: %v", ErrExtraction, err)
	}

	return normalizeText(buf.String()), nil
}

func (e *Extractor) extractDocx(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: opening docx: %v", ErrExtraction, err)
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			fmt.Fprintln(&b, item)
		}
	}

	return normalizeText(b.String()), nil
}

// normalizeText drops format-class runes left behind by the backends (BOMs,
// zero-width characters) and collapses long blank runs.
func normalizeText(s string) string {
	t := transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Cf)))
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = strings.ReplaceAll(result, "\r\n", "\n")
	result = blankRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
