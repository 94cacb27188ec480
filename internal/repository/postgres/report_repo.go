package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mediscan/internal/domain"
	"mediscan/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *domain.Report) error {
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	query := `INSERT INTO reports (
		id, filename, file_type, file_size_bytes, raw_text,
		status, error_message, specialty, confidence_score, analysis,
		processing_time_ms, cached, storage_key, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15
	)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.Filename, report.FileType, report.FileSizeBytes, report.RawText,
		report.Status, report.ErrorMessage, report.Specialty, report.ConfidenceScore, report.Analysis,
		report.ProcessingTimeMS, report.Cached, report.StorageKey, report.CreatedAt, report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}
	return nil
}

func (r *reportRepo) Update(ctx context.Context, report *domain.Report) error {
	report.UpdatedAt = time.Now().UTC()

	query := `UPDATE reports SET
		status = $2, error_message = $3, specialty = $4, confidence_score = $5,
		analysis = $6, processing_time_ms = $7, cached = $8, storage_key = $9,
		updated_at = $10
	WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		report.ID, report.Status, report.ErrorMessage, report.Specialty, report.ConfidenceScore,
		report.Analysis, report.ProcessingTimeMS, report.Cached, report.StorageKey,
		report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("reportRepo.Update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	var report domain.Report
	err := r.db.GetContext(ctx, &report, "SELECT * FROM reports WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context, offset, limit int) ([]domain.Report, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM reports"); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.List count: %w", err)
	}

	var reports []domain.Report
	err := r.db.SelectContext(ctx, &reports,
		"SELECT * FROM reports ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("reportRepo.List: %w", err)
	}
	return reports, total, nil
}

func (r *reportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("reportRepo.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}
