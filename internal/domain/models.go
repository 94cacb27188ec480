package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PatientInfo holds demographic details pulled from a transcription.
// Both fields are nil when the document does not mention them.
type PatientInfo struct {
	Age    *string `json:"age"`
	Gender *string `json:"gender"`
}

// Extraction is the structured data produced for one chunk of a medical
// transcription. The merged document-level result has the same shape.
type Extraction struct {
	PatientInfo            PatientInfo `json:"patient_info"`
	Symptoms               []string    `json:"symptoms"`
	Medications            []string    `json:"medications"`
	Procedures             []string    `json:"procedures"`
	LabValues              []string    `json:"lab_values"`
	BodyParts              []string    `json:"body_parts"`
	ClinicalImpression     *string     `json:"clinical_impression"`
	RiskFlags              []string    `json:"risk_flags"`
	Specialty              *string     `json:"specialty_classification"`
	ProfessionalSummary    *string     `json:"professional_summary"`
	PatientFriendlySummary *string     `json:"patient_friendly_summary"`
	ConfidenceScore        float64     `json:"confidence_score"`
}

// Analysis is the merged extraction across all chunks of one document,
// plus provenance about how the merge went.
type Analysis struct {
	Extraction

	Status          AnalysisStatus `json:"status"`
	ChunksTotal     int            `json:"chunks_total"`
	ChunksSucceeded int            `json:"chunks_succeeded"`
	Cached          bool           `json:"cached"`
}

// Report represents an uploaded medical transcription and its analysis.
type Report struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	Filename         string          `db:"filename" json:"filename"`
	FileType         FileType        `db:"file_type" json:"file_type"`
	FileSizeBytes    int64           `db:"file_size_bytes" json:"file_size_bytes"`
	RawText          string          `db:"raw_text" json:"-"`
	Status           ReportStatus    `db:"status" json:"status"`
	ErrorMessage     *string         `db:"error_message" json:"error_message,omitempty"`
	Specialty        *string         `db:"specialty" json:"specialty,omitempty"`
	ConfidenceScore  *float64        `db:"confidence_score" json:"confidence_score,omitempty"`
	Analysis         json.RawMessage `db:"analysis" json:"analysis,omitempty"`
	ProcessingTimeMS float64         `db:"processing_time_ms" json:"processing_time_ms"`
	Cached           bool            `db:"cached" json:"cached"`
	StorageKey       *string         `db:"storage_key" json:"-"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}
