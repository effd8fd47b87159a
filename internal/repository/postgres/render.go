package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Adina012/multifid-1d-nmr-plot/internal/repository"
	"github.com/Adina012/multifid-1d-nmr-plot/pkg/models"
)

// PostgresRenderRepository implements RenderRepository for PostgreSQL
type PostgresRenderRepository struct {
	db *sql.DB
}

// NewPostgresRenderRepository creates a new PostgreSQL render repository
func NewPostgresRenderRepository(db *sql.DB) repository.RenderRepository {
	return &PostgresRenderRepository{db: db}
}

// Create inserts a new render job record
func (r *PostgresRenderRepository) Create(ctx context.Context, job *models.RenderJob) error {
	dataFiles, err := json.Marshal(job.DataFiles)
	if err != nil {
		return fmt.Errorf("failed to marshal data files: %w", err)
	}

	query := `
		INSERT INTO render_jobs (id, session_id, mode, quality, x_min, x_max, data_files, status, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, query,
		job.ID,
		job.SessionID,
		job.Mode,
		job.Quality,
		job.XMin,
		job.XMax,
		string(dataFiles),
		job.Status,
		job.Progress,
		job.CreatedAt,
		job.UpdatedAt)

	return err
}

// GetByID retrieves a render job by ID
func (r *PostgresRenderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RenderJob, error) {
	query := `
		SELECT id, session_id, mode, quality, x_min, x_max, data_files, status, progress, error_message, created_at, updated_at, completed_at
		FROM render_jobs
		WHERE id = $1`

	return scanRenderJob(r.db.QueryRowContext(ctx, query, id))
}

// GetBySessionID retrieves render jobs by session ID
func (r *PostgresRenderRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.RenderJob, error) {
	query := `
		SELECT id, session_id, mode, quality, x_min, x_max, data_files, status, progress, error_message, created_at, updated_at, completed_at
		FROM render_jobs
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.RenderJob
	for rows.Next() {
		job, err := scanRenderJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRenderJob(s scanner) (*models.RenderJob, error) {
	var job models.RenderJob
	var xMin, xMax sql.NullFloat64
	var dataFiles string
	var errorMsg sql.NullString
	var completedAt sql.NullTime

	err := s.Scan(
		&job.ID,
		&job.SessionID,
		&job.Mode,
		&job.Quality,
		&xMin,
		&xMax,
		&dataFiles,
		&job.Status,
		&job.Progress,
		&errorMsg,
		&job.CreatedAt,
		&job.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if xMin.Valid {
		job.XMin = &xMin.Float64
	}
	if xMax.Valid {
		job.XMax = &xMax.Float64
	}
	if errorMsg.Valid {
		job.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	if err := json.Unmarshal([]byte(dataFiles), &job.DataFiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data files: %w", err)
	}

	return &job, nil
}

// UpdateStatus updates the status and progress of a render job
func (r *PostgresRenderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE render_jobs
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError updates the error message for a render job
func (r *PostgresRenderRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE render_jobs
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreResult stores the output of a completed render job
func (r *PostgresRenderRepository) StoreResult(ctx context.Context, result *models.RenderResult) error {
	spectra, err := json.Marshal(result.Spectra)
	if err != nil {
		return fmt.Errorf("failed to marshal spectrum summaries: %w", err)
	}

	parseErrors, err := json.Marshal(result.ParseErrors)
	if err != nil {
		return fmt.Errorf("failed to marshal parse errors: %w", err)
	}

	query := `
		INSERT INTO render_results (id, job_id, figure_s3_key, spectra, parse_errors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		result.ID,
		result.JobID,
		result.FigureS3Key,
		string(spectra),
		string(parseErrors),
		result.CreatedAt)

	return err
}

// GetResult retrieves the result of a render job
func (r *PostgresRenderRepository) GetResult(ctx context.Context, jobID uuid.UUID) (*models.RenderResult, error) {
	query := `
		SELECT id, job_id, figure_s3_key, spectra, parse_errors, created_at
		FROM render_results
		WHERE job_id = $1`

	var result models.RenderResult
	var spectra string
	var parseErrors sql.NullString

	err := r.db.QueryRowContext(ctx, query, jobID).Scan(
		&result.ID,
		&result.JobID,
		&result.FigureS3Key,
		&spectra,
		&parseErrors,
		&result.CreatedAt)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(spectra), &result.Spectra); err != nil {
		return nil, fmt.Errorf("failed to unmarshal spectrum summaries: %w", err)
	}
	if parseErrors.Valid {
		if err := json.Unmarshal([]byte(parseErrors.String), &result.ParseErrors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parse errors: %w", err)
		}
	}

	return &result, nil
}
