package port

import (
	"context"

	"github.com/google/uuid"

	"mediscan/internal/domain"
)

// ReportRepository abstracts persistence of medical reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	Update(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	List(ctx context.Context, offset, limit int) ([]domain.Report, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
