// Package client implements the job-submission side of the conversion
// API: upload a mod jar, poll the job until it reaches a terminal
// state, and download the resulting addon. A Client tracks at most one
// active watch at a time; submitting while a watch is running is
// rejected with ConcurrentJobError rather than silently replacing it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Job status values as reported by the status endpoint.
const (
	StatusSubmitted  = "submitted"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is the client-side snapshot of a conversion job.
type Job struct {
	JobID       string         `json:"job_id"`
	Filename    string         `json:"filename"`
	Status      string         `json:"status"`
	Progress    int            `json:"progress"`
	Message     string         `json:"message"`
	Stats       map[string]int `json:"stats,omitempty"`
	Error       string         `json:"error,omitempty"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// Terminal reports whether the job can no longer change state.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Health is the response of the health endpoint.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// Client talks to a conversion API server. The exported fields may be
// adjusted before first use; afterwards the Client is safe for
// concurrent use.
type Client struct {
	// BaseURL is the server root, e.g. "http://localhost:8080".
	BaseURL string
	// HTTPClient defaults to a client with a 30s request timeout.
	HTTPClient *http.Client
	// MaxUploadSize caps the payload size checked before uploading.
	MaxUploadSize int64
	// FileSuffix is the accepted filename suffix.
	FileSuffix string
	// PollInterval is the delay between watch ticks.
	PollInterval time.Duration

	mu     sync.Mutex
	active *Watch
}

const (
	defaultMaxUploadSize = 100 * 1024 * 1024
	defaultFileSuffix    = ".jar"
	defaultPollInterval  = time.Second
)

// New creates a Client for the given server with default limits
// (100 MB uploads, ".jar" suffix, 1s poll interval).
func New(baseURL string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
		MaxUploadSize: defaultMaxUploadSize,
		FileSuffix:    defaultFileSuffix,
		PollInterval:  defaultPollInterval,
	}
}

// Submit validates and uploads a payload, returning the server-issued
// job id. Validation failures (wrong suffix, oversize) return a
// ValidationError without touching the network. A Submit while a watch
// is active returns ConcurrentJobError.
func (c *Client) Submit(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	if !strings.HasSuffix(strings.ToLower(filename), c.suffix()) {
		return "", &ValidationError{Reason: "filename must end in " + c.suffix()}
	}
	if size > c.maxUploadSize() {
		return "", &ValidationError{Reason: fmt.Sprintf("file exceeds maximum size of %d bytes", c.maxUploadSize())}
	}

	c.mu.Lock()
	if c.active != nil {
		err := &ConcurrentJobError{ActiveJobID: c.active.jobID}
		c.mu.Unlock()
		return "", err
	}
	c.mu.Unlock()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/upload", pr)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SubmissionError{
			StatusCode: resp.StatusCode,
			Message:    serverError(resp.Body),
		}
	}

	var payload struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &SubmissionError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if payload.JobID == "" {
		return "", &SubmissionError{Err: fmt.Errorf("server did not return a job id")}
	}

	return payload.JobID, nil
}

// SubmitFile uploads the file at path via Submit.
func (c *Client) SubmitFile(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &ValidationError{Reason: err.Error()}
	}

	// Check name and size before opening so validation failures never
	// hold the file open.
	if !strings.HasSuffix(strings.ToLower(path), c.suffix()) {
		return "", &ValidationError{Reason: "filename must end in " + c.suffix()}
	}
	if info.Size() > c.maxUploadSize() {
		return "", &ValidationError{Reason: fmt.Sprintf("file exceeds maximum size of %d bytes", c.maxUploadSize())}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &ValidationError{Reason: err.Error()}
	}
	defer f.Close()

	return c.Submit(ctx, info.Name(), info.Size(), f)
}

// PollStatus performs a single status fetch for the job.
func (c *Client) PollStatus(ctx context.Context, jobID string) (*Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/api/status/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, &PollError{JobID: jobID, Err: err}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &PollError{JobID: jobID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &PollError{
			JobID:      jobID,
			StatusCode: resp.StatusCode,
			Message:    serverError(resp.Body),
		}
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, &PollError{JobID: jobID, Err: fmt.Errorf("decode response: %w", err)}
	}

	return &job, nil
}

// Download retrieves the completed artifact as a byte stream. The
// caller must close the returned reader.
func (c *Client) Download(ctx context.Context, jobID string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/api/download/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("download job %s: %w", jobID, err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("download job %s: %w", jobID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverError(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("download job %s failed (status %d): %s", jobID, resp.StatusCode, msg)
	}

	return resp.Body, nil
}

// Health checks the server health endpoint.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("health check failed (status %d): %s", resp.StatusCode, serverError(resp.Body))
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("health check: decode response: %w", err)
	}
	return &h, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) suffix() string {
	if c.FileSuffix != "" {
		return c.FileSuffix
	}
	return defaultFileSuffix
}

func (c *Client) maxUploadSize() int64 {
	if c.MaxUploadSize > 0 {
		return c.MaxUploadSize
	}
	return defaultMaxUploadSize
}

func (c *Client) pollInterval() time.Duration {
	if c.PollInterval > 0 {
		return c.PollInterval
	}
	return defaultPollInterval
}

// serverError extracts the error text from a non-success response
// body, falling back to a generic message.
func serverError(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 64*1024)).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return "unknown server error"
}
