package domain

import "errors"

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile           = errors.New("uploaded file is empty")
	ErrTextTooShort        = errors.New("file contains too little text for analysis")
	ErrAnalysisFailed      = errors.New("analysis failed, please try again later")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)
