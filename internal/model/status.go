package model

// Status represents the lifecycle state of a job in the
// jobs table. These values must match the text values
// stored in the database (jobs.status) and the values
// reported on the status endpoint.
//
// Centralizing these here avoids scattering string
// literals like "submitted" or "completed" across
// packages.
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether s is a final state that can never
// transition again.
func Terminal(s string) bool {
	return s == string(StatusCompleted) || s == string(StatusFailed)
}
