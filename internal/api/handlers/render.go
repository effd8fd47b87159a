package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Adina012/multifid-1d-nmr-plot/internal/config"
	"github.com/Adina012/multifid-1d-nmr-plot/internal/rendering"
	"github.com/Adina012/multifid-1d-nmr-plot/internal/repository"
	"github.com/Adina012/multifid-1d-nmr-plot/internal/storage"
	"github.com/Adina012/multifid-1d-nmr-plot/pkg/models"
)

// RenderHandler handles render-job HTTP requests
type RenderHandler struct {
	repo      repository.RenderRepository
	s3Service storage.S3Service
	renderSvc rendering.RenderService
	renderCfg config.RenderConfig
}

// NewRenderHandler creates a new render handler
func NewRenderHandler(repo repository.RenderRepository, s3Service storage.S3Service, renderSvc rendering.RenderService, renderCfg config.RenderConfig) *RenderHandler {
	return &RenderHandler{
		repo:      repo,
		s3Service: s3Service,
		renderSvc: renderSvc,
		renderCfg: renderCfg,
	}
}

// CreateRender creates a new render job and returns per-file upload URLs
func (h *RenderHandler) CreateRender(ctx context.Context, req *models.CreateRenderRequest) (*models.CreateRenderResponse, error) {
	log.Info().Str("sessionID", req.Body.SessionID).Int("files", len(req.Body.Files)).Str("mode", req.Body.Mode).Msg("Creating new render job")

	if req.Body.XMin != nil && req.Body.XMax != nil && *req.Body.XMin >= *req.Body.XMax {
		return nil, huma.Error400BadRequest("x_min must be less than x_max.", nil)
	}
	if h.renderCfg.MaxFiles > 0 && len(req.Body.Files) > h.renderCfg.MaxFiles {
		return nil, huma.Error400BadRequest(fmt.Sprintf("At most %d files per render job.", h.renderCfg.MaxFiles), nil)
	}

	quality := req.Body.Quality
	if quality == "" {
		quality = h.renderCfg.DefaultQuality
	}

	jobID := uuid.New()

	dataFiles := make([]models.DataFile, 0, len(req.Body.Files))
	uploads := make([]models.FileUpload, 0, len(req.Body.Files))
	for i, file := range req.Body.Files {
		key := fmt.Sprintf("spectra/%s/%02d.txt", jobID, i)

		uploadURL, err := h.s3Service.GenerateUploadURL(ctx, key, "text/plain")
		if err != nil {
			return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
		}

		dataFiles = append(dataFiles, models.DataFile{S3Key: key, DisplayName: file.Name})
		uploads = append(uploads, models.FileUpload{Name: file.Name, UploadURL: uploadURL})
	}

	job := &models.RenderJob{
		ID:        jobID.String(),
		SessionID: req.Body.SessionID,
		Mode:      req.Body.Mode,
		Quality:   quality,
		XMin:      req.Body.XMin,
		XMax:      req.Body.XMax,
		DataFiles: dataFiles,
		Status:    "pending",
		Progress:  0,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(ctx, job); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create render job", err)
	}
	log.Info().Str("jobID", job.ID).Msg("Render job record created")

	return &models.CreateRenderResponse{
		Body: models.CreateRenderResponseBody{
			ID:        job.ID,
			Uploads:   uploads,
			ExpiresIn: int((15 * time.Minute).Seconds()),
		},
	}, nil
}

// GetRenderStatus returns the current status of a render job
func (h *RenderHandler) GetRenderStatus(ctx context.Context, req *models.GetRenderStatusRequest) (*models.GetRenderStatusResponse, error) {
	jobID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid render job ID", err)
	}

	job, err := h.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, huma.Error404NotFound("Render job not found", err)
	}

	message := h.generateStatusMessage(job.Status, job.Progress)
	if job.Status == "failed" && job.ErrorMsg != nil {
		message = *job.ErrorMsg
	}

	var resultID *string
	if job.Status == "completed" {
		result, err := h.repo.GetResult(ctx, jobID)
		if err == nil && result != nil {
			resultID = &result.ID
		}
	}

	return &models.GetRenderStatusResponse{
		Body: models.GetRenderStatusResponseBody{
			ID:       job.ID,
			Status:   job.Status,
			Progress: job.Progress,
			Message:  message,
			ResultID: resultID,
		},
	}, nil
}

// StartRender starts rendering the uploaded data files
func (h *RenderHandler) StartRender(ctx context.Context, req *models.StartRenderRequest) (*models.StartRenderResponse, error) {
	log.Info().Str("jobID", req.ID).Msg("Render start request received")
	jobID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid render job ID", err)
	}

	if _, err := h.repo.GetByID(ctx, jobID); err != nil {
		return nil, huma.Error404NotFound("Render job not found", err)
	}

	// Render in background; client polls status
	go func() {
		if err := h.renderSvc.ProcessRender(context.Background(), jobID); err != nil {
			h.repo.UpdateError(context.Background(), jobID, fmt.Sprintf("Rendering failed: %v", err))
		}
	}()

	return &models.StartRenderResponse{
		Body: struct {
			Message string `json:"message" doc:"Confirmation message"`
		}{
			Message: "Rendering started successfully",
		},
	}, nil
}

// GetFigure returns the rendered figure's download URL and metadata
func (h *RenderHandler) GetFigure(ctx context.Context, req *models.GetFigureRequest) (*models.GetFigureResponse, error) {
	jobID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid render job ID", err)
	}

	job, err := h.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, huma.Error404NotFound("Render job not found", err)
	}

	if job.Status != "completed" {
		return nil, huma.Error409Conflict("Render not yet completed",
			fmt.Errorf("render job status is %s", job.Status))
	}

	result, err := h.repo.GetResult(ctx, jobID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get render result", err)
	}

	figureURL, err := h.s3Service.GenerateDownloadURL(ctx, result.FigureS3Key)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate figure URL", err)
	}

	return &models.GetFigureResponse{
		Body: models.GetFigureResponseBody{
			ID:          result.ID,
			FigureURL:   figureURL,
			Spectra:     result.Spectra,
			ParseErrors: result.ParseErrors,
			CreatedAt:   result.CreatedAt,
		},
	}, nil
}

// generateStatusMessage creates a human-readable status message
func (h *RenderHandler) generateStatusMessage(status string, progress int) string {
	switch status {
	case "pending":
		return "Render queued..."
	case "processing":
		if progress < 20 {
			return "Starting render..."
		} else if progress < 65 {
			return "Reading spectrum files..."
		} else if progress < 85 {
			return "Drawing figure..."
		} else {
			return "Storing figure..."
		}
	case "completed":
		return "Figure ready!"
	case "failed":
		return "Rendering failed. Please try again."
	default:
		return "Unknown status"
	}
}
