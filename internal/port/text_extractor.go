package port

import "mediscan/internal/domain"

// TextExtractor turns an uploaded file into analyzable plain text.
type TextExtractor interface {
	Extract(filename string, content []byte) (text string, fileType domain.FileType, err error)
}
