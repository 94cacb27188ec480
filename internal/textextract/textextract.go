// Package textextract turns uploaded files into normalized plain text.
package textextract

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"

	"mediscan/internal/domain"
	"mediscan/internal/port"
)

var (
	controlRe    = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	lineSpaceRe  = regexp.MustCompile(`[ \t]{2,}`)
)

// Extractor implements port.TextExtractor for plain-text uploads. PDF
// decoding lives outside this core; a PDF upload is rejected as
// unsupported here.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

var _ port.TextExtractor = (*Extractor)(nil)

// Extract decodes content based on the filename extension and returns
// normalized text plus the detected file type.
func (e *Extractor) Extract(filename string, content []byte) (string, domain.FileType, error) {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i+1:])
	}
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", "", domain.ErrUnsupportedFileType
	}

	switch fileType {
	case domain.FileTypeTXT:
		text, err := decodeText(content)
		if err != nil {
			return "", "", fmt.Errorf("decoding text file: %w", err)
		}
		return Normalize(text), fileType, nil
	default:
		// pdf and other formats need an external extractor
		return "", "", domain.ErrUnsupportedFileType
	}
}

// decodeText converts raw bytes to UTF-8, sniffing the source charset.
func decodeText(content []byte) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(content), "text/plain")
	if err != nil {
		return string(content), nil // fall back to raw bytes as UTF-8
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// Normalize prepares extracted text for analysis: strips non-printable
// characters, normalizes line endings, collapses blank-line runs and
// in-line spacing.
func Normalize(text string) string {
	text = controlRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	text = lineSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
