package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypeTXT FileType = "txt"
	FileTypePDF FileType = "pdf"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"txt": FileTypeTXT,
	"pdf": FileTypePDF,
}

// ReportStatus represents the lifecycle of an uploaded report.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// AnalysisStatus marks whether an analysis produced any usable result.
type AnalysisStatus string

const (
	AnalysisStatusSuccess AnalysisStatus = "success"
	AnalysisStatusFailed  AnalysisStatus = "failed"
)
