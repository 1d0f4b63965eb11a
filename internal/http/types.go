package http

import (
	"time"

	"github.com/masterotaku487-arch/transformar/internal/model"
)

// ErrorResponse is the error envelope: any non-success status carries a
// JSON body with an error text field.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UploadResponse is returned by POST /api/upload on acceptance.
type UploadResponse struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// JobStatusResponse is the job snapshot returned by GET /api/status/:job_id
// and embedded in the jobs listing.
type JobStatusResponse struct {
	JobID       string       `json:"job_id"`
	Filename    string       `json:"filename"`
	Status      string       `json:"status"`
	Progress    int          `json:"progress"`
	Message     string       `json:"message"`
	Stats       *model.Stats `json:"stats,omitempty"`
	Error       string       `json:"error,omitempty"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// JobsListResponse is returned by GET /api/jobs.
type JobsListResponse struct {
	Jobs  []JobStatusResponse `json:"jobs"`
	Total int                 `json:"total"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	DB        string `json:"db,omitempty"`
	Redis     string `json:"redis,omitempty"`
}

func jobToResponse(job model.Job) JobStatusResponse {
	resp := JobStatusResponse{
		JobID:       job.ID.String(),
		Filename:    job.Filename,
		Status:      job.Status,
		Progress:    job.Progress,
		Message:     job.Message,
		Stats:       job.Stats,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.Error != nil {
		resp.Error = *job.Error
	}
	return resp
}
