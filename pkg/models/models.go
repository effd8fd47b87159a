package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// DataFileRequest describes one spectrum data file the client wants to upload
type DataFileRequest struct {
	Name     string `json:"name" minLength:"1" maxLength:"255" required:"true" doc:"Display name used for legends and subplot titles"`
	FileSize int64  `json:"file_size" minimum:"1" maximum:"10485760" required:"true" doc:"Data file size in bytes"`
}

// CreateRenderRequest represents a request to create a new render job
type CreateRenderRequest struct {
	Body struct {
		SessionID string            `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
		Files     []DataFileRequest `json:"files" minItems:"1" maxItems:"16" required:"true" doc:"Spectrum data files to upload, in display order"`
		Mode      string            `json:"mode" enum:"single,multiple" required:"true" doc:"single: overlay on one axes; multiple: stacked subplots"`
		Quality   string            `json:"quality,omitempty" enum:"publication,preview" doc:"Output quality preset; the server default applies when omitted"`
		XMin      *float64          `json:"x_min,omitempty" doc:"Optional lower ppm bound of the displayed range"`
		XMax      *float64          `json:"x_max,omitempty" doc:"Optional upper ppm bound of the displayed range"`
	}
}

// FileUpload pairs a declared data file with its pre-signed upload URL
type FileUpload struct {
	Name      string `json:"name" doc:"Display name of the file"`
	UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for file upload"`
}

// CreateRenderResponseBody is the body of the create render response
type CreateRenderResponseBody struct {
	ID        string       `json:"id" doc:"Render job unique identifier"`
	Uploads   []FileUpload `json:"uploads" doc:"One upload URL per declared file, in request order"`
	ExpiresIn int          `json:"expires_in" doc:"Upload URL expiration time in seconds"`
}

// CreateRenderResponse represents the response from creating a render job
type CreateRenderResponse struct {
	Body CreateRenderResponseBody
}

// GetRenderStatusRequest represents a request to get render job status
type GetRenderStatusRequest struct {
	ID string `path:"id" doc:"Render job ID"`
}

// GetRenderStatusResponseBody is the body of the status response
type GetRenderStatusResponseBody struct {
	ID       string  `json:"id" doc:"Render job ID"`
	Status   string  `json:"status" enum:"pending,processing,completed,failed" doc:"Render job status"`
	Progress int     `json:"progress" minimum:"0" maximum:"100" doc:"Render progress percentage"`
	Message  string  `json:"message,omitempty" doc:"Human-readable status message"`
	ResultID *string `json:"result_id,omitempty" doc:"Result ID when rendering completes"`
}

// GetRenderStatusResponse represents the current status of a render job
type GetRenderStatusResponse struct {
	Body GetRenderStatusResponseBody
}

// StartRenderRequest represents a request to start rendering uploaded files
type StartRenderRequest struct {
	ID string `path:"id" doc:"Render job ID"`
}

// StartRenderResponse represents the response from starting a render
type StartRenderResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// GetFigureRequest represents a request to fetch the rendered figure
type GetFigureRequest struct {
	ID string `path:"id" doc:"Render job ID"`
}

// GetFigureResponseBody is the body of the figure response
type GetFigureResponseBody struct {
	ID          string            `json:"id" doc:"Result ID"`
	FigureURL   string            `json:"figure_url" doc:"Pre-signed download URL for the rendered PNG"`
	Spectra     []SpectrumSummary `json:"spectra" doc:"Per-file summaries of the rendered spectra"`
	ParseErrors []ParseWarning    `json:"parse_errors,omitempty" doc:"Files that were skipped and why"`
	CreatedAt   time.Time         `json:"created_at" doc:"Render completion timestamp"`
}

// GetFigureResponse represents the rendered figure and its metadata
type GetFigureResponse struct {
	Body GetFigureResponseBody
}
