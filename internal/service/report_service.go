package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mediscan/internal/analyzer"
	"mediscan/internal/classify"
	"mediscan/internal/config"
	"mediscan/internal/domain"
	"mediscan/internal/port"
)

// UploadInput is the DTO for uploading a report for analysis.
type UploadInput struct {
	Filename string
	Content  []byte
}

// ReportService defines the report analysis contract.
type ReportService interface {
	UploadAndAnalyze(ctx context.Context, input *UploadInput) (*domain.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	List(ctx context.Context, offset, limit int) ([]domain.Report, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reportService struct {
	repo      port.ReportRepository
	extractor port.TextExtractor
	analyzer  *analyzer.Analyzer
	storage   port.ObjectStorage // nil when archival is disabled
	uploadCfg config.UploadConfig
	minChars  int
}

// NewReportService creates a ReportService. storage may be nil to
// disable raw-file archival.
func NewReportService(
	repo port.ReportRepository,
	extractor port.TextExtractor,
	az *analyzer.Analyzer,
	storage port.ObjectStorage,
	uploadCfg config.UploadConfig,
	minTextChars int,
) ReportService {
	if minTextChars <= 0 {
		minTextChars = 50
	}
	return &reportService{
		repo:      repo,
		extractor: extractor,
		analyzer:  az,
		storage:   storage,
		uploadCfg: uploadCfg,
		minChars:  minTextChars,
	}
}

// UploadAndAnalyze validates the upload, extracts its text, runs the
// analysis pipeline, and persists the outcome. Analysis failure is
// recorded on the report (status failed), not returned as an error;
// validation problems are returned as domain errors before any record
// is created.
func (s *reportService) UploadAndAnalyze(ctx context.Context, input *UploadInput) (*domain.Report, error) {
	if len(input.Content) == 0 {
		return nil, domain.ErrEmptyFile
	}
	if int64(len(input.Content)) > s.uploadCfg.MaxFileSizeBytes() {
		return nil, domain.ErrFileTooLarge
	}

	text, fileType, err := s.extractor.Extract(input.Filename, input.Content)
	if err != nil {
		return nil, err
	}
	if len(text) < s.minChars {
		return nil, domain.ErrTextTooShort
	}

	report := &domain.Report{
		ID:            uuid.New(),
		Filename:      input.Filename,
		FileType:      fileType,
		FileSizeBytes: int64(len(input.Content)),
		RawText:       text,
		Status:        domain.ReportStatusPending,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("creating pending report: %w", err)
	}
	log.Printf("reportService: created pending report %s for %q (%d chars)", report.ID, report.Filename, len(text))

	s.archive(ctx, report, input.Content)

	report.Status = domain.ReportStatusProcessing
	start := time.Now()

	analysis, err := s.analyzer.Analyze(ctx, text)
	report.ProcessingTimeMS = float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		msg := domain.ErrAnalysisFailed.Error()
		report.Status = domain.ReportStatusFailed
		report.ErrorMessage = &msg
		if uerr := s.repo.Update(ctx, report); uerr != nil {
			log.Printf("reportService: persisting failed report %s: %v", report.ID, uerr)
		}
		log.Printf("reportService: report %s failed: %v", report.ID, err)
		return report, nil
	}

	s.backfillClassification(text, analysis)

	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("marshaling analysis: %w", err)
	}

	report.Status = domain.ReportStatusCompleted
	report.Specialty = analysis.Specialty
	report.ConfidenceScore = &analysis.ConfidenceScore
	report.Analysis = analysisJSON
	report.Cached = analysis.Cached

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, fmt.Errorf("persisting completed report: %w", err)
	}
	log.Printf("reportService: report %s completed in %.0fms | cached=%t | confidence=%.2f",
		report.ID, report.ProcessingTimeMS, report.Cached, analysis.ConfidenceScore)
	return report, nil
}

// backfillClassification fills the specialty from keyword scoring when
// the AI left it empty, and augments risk flags with rule-based
// detection.
func (s *reportService) backfillClassification(text string, analysis *domain.Analysis) {
	specialty := classify.Specialty(text, analysis.Specialty)
	analysis.Specialty = &specialty
	analysis.RiskFlags = classify.RiskFlags(text, analysis.RiskFlags)
}

// archive stores the raw upload; failure is logged, never fatal.
func (s *reportService) archive(ctx context.Context, report *domain.Report, content []byte) {
	if s.storage == nil {
		return
	}
	key := fmt.Sprintf("reports/%s/%s", report.ID, report.Filename)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		ContentType: contentTypeFor(report.FileType),
		Body:        bytes.NewReader(content),
	})
	if err != nil {
		log.Printf("reportService: archiving report %s raw file: %v", report.ID, err)
		return
	}
	report.StorageKey = &key
}

func (s *reportService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reportService) List(ctx context.Context, offset, limit int) ([]domain.Report, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *reportService) Delete(ctx context.Context, id uuid.UUID) error {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.storage != nil && report.StorageKey != nil {
		if err := s.storage.Delete(ctx, *report.StorageKey); err != nil {
			log.Printf("reportService: deleting archived file for report %s: %v", id, err)
		}
	}
	return nil
}

func contentTypeFor(ft domain.FileType) string {
	switch ft {
	case domain.FileTypePDF:
		return "application/pdf"
	default:
		return "text/plain"
	}
}
