package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUnsupportedType(t *testing.T) {
	e := New()

	tests := []struct {
		name     string
		mimeType string
	}{
		{name: "plain text", mimeType: "text/plain"},
		{name: "image", mimeType: "image/png"},
		{name: "empty mime", mimeType: ""},
		//legacy .doc has no backend
		{name: "legacy word", mimeType: MimeDoc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Parse([]byte("whatever"), tt.mimeType)
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestParseCorruptPDF(t *testing.T) {
	e := New()

	_, err := e.Parse([]byte("not a pdf at all"), MimePDF)

	assert.ErrorIs(t, err, ErrExtraction)
}

func TestParseCorruptDocx(t *testing.T) {
	e := New()

	_, err := e.Parse([]byte("not a zip archive"), MimeDocx)

	assert.ErrorIs(t, err, ErrExtraction)
}

func TestNormalizeText(t *testing.T) {
	in := "\uFEFFJane Doe\r\nGo Developer\n\n\n\n5 years of experience​"

	out := normalizeText(in)

	assert.Equal(t, "Jane Doe\nGo Developer\n\n5 years of experience", out)
}
