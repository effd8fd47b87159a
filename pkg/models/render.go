package models

import (
	"time"
)

// DataFile is one input file attached to a render job
type DataFile struct {
	S3Key       string `json:"s3_key"`
	DisplayName string `json:"display_name"`
}

// RenderJob represents the core render job entity (for internal use)
type RenderJob struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	Mode        string     `json:"mode"`    // "single" or "multiple"
	Quality     string     `json:"quality"` // "publication" or "preview"
	XMin        *float64   `json:"x_min,omitempty"`
	XMax        *float64   `json:"x_max,omitempty"`
	DataFiles   []DataFile `json:"data_files"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SpectrumSummary describes one parsed spectrum that made it into a figure
type SpectrumSummary struct {
	Label  string  `json:"label" doc:"Source file display name"`
	Points int     `json:"points" doc:"Number of intensity samples"`
	Left   float64 `json:"left" doc:"Chemical shift of the first sample in ppm"`
	Right  float64 `json:"right" doc:"Chemical shift of the last sample in ppm"`
}

// ParseWarning records an input file that could not be parsed
type ParseWarning struct {
	Label   string `json:"label" doc:"Source file display name"`
	Message string `json:"message" doc:"Parse failure description"`
}

// RenderResult represents the stored output of a completed render job
type RenderResult struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	FigureS3Key string            `json:"figure_s3_key"`
	Spectra     []SpectrumSummary `json:"spectra"`
	ParseErrors []ParseWarning    `json:"parse_errors,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
