package textextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediscan/internal/domain"
)

func TestExtract_PlainText(t *testing.T) {
	e := New()

	text, fileType, err := e.Extract("report.txt", []byte("Patient presents with fever.\r\nNo known allergies."))

	require.NoError(t, err)
	assert.Equal(t, domain.FileTypeTXT, fileType)
	assert.Equal(t, "Patient presents with fever.\nNo known allergies.", text)
}

func TestExtract_ExtensionCaseInsensitive(t *testing.T) {
	e := New()

	_, fileType, err := e.Extract("REPORT.TXT", []byte("some text"))

	require.NoError(t, err)
	assert.Equal(t, domain.FileTypeTXT, fileType)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := New()

	tests := []string{"report.docx", "report.exe", "report", ".txt.bak", "archive.tar.gz"}
	for _, name := range tests {
		_, _, err := e.Extract(name, []byte("content"))
		assert.ErrorIs(t, err, domain.ErrUnsupportedFileType, name)
	}
}

func TestExtract_PDFNeedsExternalExtractor(t *testing.T) {
	e := New()

	_, _, err := e.Extract("scan.pdf", []byte("%PDF-1.7"))

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"control chars stripped", "fe\x00ver and\x07 chills", "fever and chills"},
		{"crlf to lf", "line one\r\nline two\rline three", "line one\nline two\nline three"},
		{"blank line runs collapsed", "a\n\n\n\n\nb", "a\n\nb"},
		{"inline spacing collapsed", "value:   12.5\tmg/dL", "value: 12.5\tmg/dL"},
		{"tab runs collapsed", "a\t\tb", "a b"},
		{"trimmed", "  \n text \n  ", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
