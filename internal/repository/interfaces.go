package repository

import (
	"context"

	"github.com/Adina012/multifid-1d-nmr-plot/pkg/models"
	"github.com/google/uuid"
)

// RenderRepository defines the interface for render job data operations
type RenderRepository interface {
	Create(ctx context.Context, job *models.RenderJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RenderJob, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.RenderJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResult(ctx context.Context, result *models.RenderResult) error
	GetResult(ctx context.Context, jobID uuid.UUID) (*models.RenderResult, error)
}
