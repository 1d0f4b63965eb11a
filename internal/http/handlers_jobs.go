package http

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/masterotaku487-arch/transformar/internal/config"
	"github.com/masterotaku487-arch/transformar/internal/model"
	"github.com/masterotaku487-arch/transformar/internal/store"
)

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// secureFilename reduces an uploaded filename to a safe basename.
func secureFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return unsafeFilenameRe.ReplaceAllString(base, "_")
}

// uploadHandler accepts a multipart jar upload, persists it under a
// fresh job directory, and enqueues a conversion job. The worker picks
// the job up on its next poll.
func uploadHandler(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	st := c.Locals("store").(*store.Store)

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "no file provided",
		})
	}

	suffix := cfg.Limits.Suffix()
	if !strings.HasSuffix(strings.ToLower(file.Filename), suffix) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "file must be a " + suffix,
		})
	}

	if file.Size > cfg.Limits.MaxFileSizeBytes() {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "file is too large",
		})
	}

	jobID := uuid.New()
	filename := secureFilename(file.Filename)

	uploadDir := filepath.Join(cfg.Storage.UploadDir, jobID.String())
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to store upload",
		})
	}

	jarPath := filepath.Join(uploadDir, filename)
	if err := c.SaveFile(file, jarPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to store upload",
		})
	}

	if _, err := st.CreateJob(c.Context(), jobID, filename, jarPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to create job",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(UploadResponse{
		JobID:    jobID.String(),
		Filename: filename,
		Message:  "Processing started",
	})
}

// jobStatusHandler returns the current snapshot of a single job.
func jobStatusHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "job not found",
		})
	}

	job, err := st.GetJobByID(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "job lookup failed",
		})
	}

	return c.JSON(jobToResponse(job))
}

// downloadHandler streams the generated .mcaddon for a completed job.
func downloadHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "job not found",
		})
	}

	job, err := st.GetJobByID(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "job lookup failed",
		})
	}

	if job.Status != string(model.StatusCompleted) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "still processing",
		})
	}

	if job.ResultFile == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "result file not found",
		})
	}
	resultFile := *job.ResultFile
	if _, err := os.Stat(resultFile); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "result file not found",
		})
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	return c.Download(resultFile, filepath.Base(resultFile))
}

// jobsListHandler lists the most recent jobs, newest first, capped at 50.
func jobsListHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	list, err := st.ListJobs(c.Context(), 50)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "job listing failed",
		})
	}

	total, err := st.CountJobs(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "job listing failed",
		})
	}

	items := make([]JobStatusResponse, 0, len(list))
	for _, job := range list {
		items = append(items, jobToResponse(job))
	}

	return c.JSON(JobsListResponse{Jobs: items, Total: total})
}
