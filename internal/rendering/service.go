package rendering

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Adina012/multifid-1d-nmr-plot/internal/repository"
	"github.com/Adina012/multifid-1d-nmr-plot/internal/storage"
	"github.com/Adina012/multifid-1d-nmr-plot/pkg/models"
	"github.com/Adina012/multifid-1d-nmr-plot/pkg/nmr"
	"github.com/Adina012/multifid-1d-nmr-plot/pkg/plot"
)

// RenderService runs the download-parse-render pipeline for a job.
type RenderService interface {
	ProcessRender(ctx context.Context, jobID uuid.UUID) error
}

type renderService struct {
	s3         storage.S3Service
	repository repository.RenderRepository
}

// NewRenderService creates a new render service
func NewRenderService(s3Service storage.S3Service, repo repository.RenderRepository) RenderService {
	return &renderService{
		s3:         s3Service,
		repository: repo,
	}
}

// ProcessRender downloads the job's data files, parses each into a
// spectrum, renders the figure, uploads the PNG, and stores the result.
//
// Per-file failures (missing upload, malformed file) are recorded as parse
// warnings and the remaining spectra are still rendered; the job only
// fails when no file yields a spectrum or the render itself cannot
// proceed. User-input failures mark the job failed and return nil, as the
// failure is already recorded on the job.
func (s *renderService) ProcessRender(ctx context.Context, jobID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, jobID, "processing", 10); err != nil {
		return err
	}

	// Step 2: Get job details
	job, err := s.repository.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	// Step 3: Download and parse each data file
	if err := s.repository.UpdateStatus(ctx, jobID, "processing", 20); err != nil {
		return err
	}

	spectra := make([]*nmr.Spectrum, 0, len(job.DataFiles))
	var warnings []models.ParseWarning

	for i, file := range job.DataFiles {
		data, err := s.s3.DownloadFile(ctx, file.S3Key)
		if err != nil {
			log.Warn().Err(err).Str("jobID", job.ID).Str("file", file.DisplayName).Msg("Data file download failed")
			warnings = append(warnings, models.ParseWarning{
				Label:   file.DisplayName,
				Message: "file was not uploaded or could not be retrieved",
			})
			continue
		}

		spectrum, err := nmr.Read(bytes.NewReader(data), file.DisplayName)
		if err != nil {
			log.Warn().Err(err).Str("jobID", job.ID).Str("file", file.DisplayName).Msg("Data file parse failed")
			warnings = append(warnings, models.ParseWarning{
				Label:   file.DisplayName,
				Message: err.Error(),
			})
			continue
		}
		spectra = append(spectra, spectrum)

		// Downloads and parsing cover the 20-60 band
		progress := 20 + (40*(i+1))/len(job.DataFiles)
		if err := s.repository.UpdateStatus(ctx, jobID, "processing", progress); err != nil {
			return err
		}
	}

	if len(spectra) == 0 {
		s.repository.UpdateError(ctx, jobID, fmt.Sprintf("No readable spectra: %s", summarizeWarnings(warnings)))
		return nil
	}

	// Step 4: Render the figure
	if err := s.repository.UpdateStatus(ctx, jobID, "processing", 70); err != nil {
		return err
	}

	fig, err := plot.Render(spectra, plot.Options{
		Mode:    plot.Mode(job.Mode),
		Quality: plot.Quality(job.Quality),
		XMin:    job.XMin,
		XMax:    job.XMax,
	})
	if err != nil {
		s.repository.UpdateError(ctx, jobID, fmt.Sprintf("Rendering failed: %v", err))
		return nil
	}

	// Step 5: Upload the PNG
	if err := s.repository.UpdateStatus(ctx, jobID, "processing", 80); err != nil {
		return err
	}

	pngData, err := fig.EncodePNG()
	if err != nil {
		return fmt.Errorf("failed to encode figure: %w", err)
	}

	figureKey := fmt.Sprintf("figures/%s.png", jobID)
	if err := s.s3.UploadFile(ctx, figureKey, pngData, "image/png"); err != nil {
		s.repository.UpdateError(ctx, jobID, "Failed to store rendered figure")
		return nil
	}

	// Step 6: Store the result
	if err := s.repository.UpdateStatus(ctx, jobID, "processing", 90); err != nil {
		return err
	}

	summaries := make([]models.SpectrumSummary, 0, len(spectra))
	for _, spectrum := range spectra {
		summaries = append(summaries, models.SpectrumSummary{
			Label:  spectrum.SourceLabel,
			Points: len(spectrum.Y),
			Left:   spectrum.Header.Left,
			Right:  spectrum.Header.Right,
		})
	}

	result := &models.RenderResult{
		ID:          uuid.New().String(),
		JobID:       job.ID,
		FigureS3Key: figureKey,
		Spectra:     summaries,
		ParseErrors: warnings,
		CreatedAt:   time.Now(),
	}

	if err := s.repository.StoreResult(ctx, result); err != nil {
		return err
	}

	// Step 7: Mark complete
	if err := s.repository.UpdateStatus(ctx, jobID, "completed", 100); err != nil {
		return err
	}

	return nil
}

func summarizeWarnings(warnings []models.ParseWarning) string {
	parts := make([]string, 0, len(warnings))
	for _, w := range warnings {
		parts = append(parts, fmt.Sprintf("%s (%s)", w.Label, w.Message))
	}
	return strings.Join(parts, "; ")
}
