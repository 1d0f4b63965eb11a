package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// recordingServer wraps an httptest server and records every request
// it receives.
type recordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	handler  http.HandlerFunc
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) *recordingServer {
	t.Helper()
	rs := &recordingServer{handler: handler}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requests = append(rs.requests, r)
		rs.mu.Unlock()
		rs.handler(w, r)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) requestCount() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.requests)
}

func TestSubmitRejectsWrongSuffix(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call expected")
	})
	c := New(srv.URL)

	_, err := c.Submit(context.Background(), "mod.zip", 128, strings.NewReader("data"))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if srv.requestCount() != 0 {
		t.Fatalf("expected no network call, saw %d requests", srv.requestCount())
	}
}

func TestSubmitRejectsOversizePayload(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call expected")
	})
	c := New(srv.URL)
	c.MaxUploadSize = 1024

	_, err := c.Submit(context.Background(), "mod.jar", 2048, strings.NewReader("data"))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if srv.requestCount() != 0 {
		t.Fatalf("expected no network call, saw %d requests", srv.requestCount())
	}
}

func TestSubmitUploadsMultipartFile(t *testing.T) {
	var gotPath, gotField, gotFilename, gotContent string

	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotField = "file"
		gotFilename = header.Filename
		data, _ := io.ReadAll(file)
		gotContent = string(data)

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"job_id":   "job-123",
			"filename": header.Filename,
			"message":  "Processing started",
		})
	})
	c := New(srv.URL)

	jobID, err := c.Submit(context.Background(), "mymod.jar", 9, strings.NewReader("jar-bytes"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if jobID != "job-123" {
		t.Fatalf("expected job-123, got %q", jobID)
	}
	if gotPath != "/api/upload" {
		t.Fatalf("expected POST /api/upload, got %s", gotPath)
	}
	if gotField != "file" || gotFilename != "mymod.jar" || gotContent != "jar-bytes" {
		t.Fatalf("unexpected multipart payload: field=%q filename=%q content=%q", gotField, gotFilename, gotContent)
	}
}

func TestSubmitSurfacesServerError(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "disk full"})
	})
	c := New(srv.URL)

	_, err := c.Submit(context.Background(), "mod.jar", 4, strings.NewReader("data"))

	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if serr.Message != "disk full" {
		t.Fatalf("expected server error text, got %q", serr.Message)
	}
	if serr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", serr.StatusCode)
	}
}

func TestSubmitFallsBackToGenericError(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway</html>"))
	})
	c := New(srv.URL)

	_, err := c.Submit(context.Background(), "mod.jar", 4, strings.NewReader("data"))

	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if serr.Message != "unknown server error" {
		t.Fatalf("expected generic fallback message, got %q", serr.Message)
	}
}

func TestPollStatus(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status/job-7" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"job_id":   "job-7",
			"status":   "processing",
			"progress": 42,
			"message":  "Converting...",
		})
	})
	c := New(srv.URL)

	job, err := c.PollStatus(context.Background(), "job-7")
	if err != nil {
		t.Fatalf("PollStatus: %v", err)
	}
	if job.JobID != "job-7" || job.Status != "processing" || job.Progress != 42 {
		t.Fatalf("unexpected job snapshot: %+v", job)
	}
}

func TestPollStatusError(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "job not found"})
	})
	c := New(srv.URL)

	_, err := c.PollStatus(context.Background(), "missing")

	var perr *PollError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PollError, got %v", err)
	}
	if perr.Message != "job not found" {
		t.Fatalf("expected server error text, got %q", perr.Message)
	}
}

func TestDownloadRequestsExactPathWithNoBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBodyLen int64

	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBodyLen = r.ContentLength
		w.Write([]byte("mcaddon-bytes"))
	})
	c := New(srv.URL)

	body, err := c.Download(context.Background(), "job-9")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "mcaddon-bytes" {
		t.Fatalf("unexpected artifact content: %q", data)
	}
	if gotMethod != http.MethodGet || gotPath != "/api/download/job-9" {
		t.Fatalf("expected GET /api/download/job-9, got %s %s", gotMethod, gotPath)
	}
	if gotBodyLen > 0 {
		t.Fatalf("expected no request body, got %d bytes", gotBodyLen)
	}
}

func TestHealth(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": "2026-01-01T00:00:00Z",
			"version":   "3.1",
		})
	})
	c := New(srv.URL)

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "healthy" || h.Version != "3.1" {
		t.Fatalf("unexpected health response: %+v", h)
	}
}
