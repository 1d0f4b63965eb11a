package client

import "fmt"

// ValidationError reports a payload that was rejected locally before
// any network call was issued. The caller must pick a different file;
// retrying the same payload cannot succeed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// SubmissionError reports a failed upload: either the request itself
// failed or the server answered with a non-success status. Message
// carries the server-provided error text when one was present.
type SubmissionError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return "submission failed: " + e.Err.Error()
	}
	return fmt.Sprintf("submission failed (status %d): %s", e.StatusCode, e.Message)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// PollError reports a failed status check for a job.
type PollError struct {
	JobID      string
	StatusCode int
	Message    string
	Err        error
}

func (e *PollError) Error() string {
	if e.Err != nil {
		return "poll failed for job " + e.JobID + ": " + e.Err.Error()
	}
	return fmt.Sprintf("poll failed for job %s (status %d): %s", e.JobID, e.StatusCode, e.Message)
}

func (e *PollError) Unwrap() error { return e.Err }

// ConcurrentJobError reports a Submit or Watch attempted while another
// watch is still active. A client tracks one job at a time; the prior
// watch must finish or be cancelled first.
type ConcurrentJobError struct {
	ActiveJobID string
}

func (e *ConcurrentJobError) Error() string {
	return "another job is already being watched: " + e.ActiveJobID
}
