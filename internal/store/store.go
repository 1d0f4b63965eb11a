package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/masterotaku487-arch/transformar/internal/model"
)

// Store wraps access to the jobs table via a shared *sql.DB with pooling.
type Store struct {
	DB *sql.DB
}

// New creates a new Store on top of a shared *sql.DB.
func New(database *sql.DB) *Store {
	return &Store{DB: database}
}

const jobColumns = `id, filename, status, progress, message, error, stats,
	jar_path, result_file, created_at, updated_at, started_at, completed_at`

func scanJob(row interface{ Scan(...any) error }) (model.Job, error) {
	var (
		job        model.Job
		id         string
		errMsg     sql.NullString
		stats      sql.NullString
		resultFile sql.NullString
		startedAt  sql.NullTime
		completed  sql.NullTime
	)

	err := row.Scan(&id, &job.Filename, &job.Status, &job.Progress, &job.Message,
		&errMsg, &stats, &job.JarPath, &resultFile,
		&job.CreatedAt, &job.UpdatedAt, &startedAt, &completed)
	if err != nil {
		return model.Job{}, err
	}

	job.ID, err = uuid.Parse(id)
	if err != nil {
		return model.Job{}, fmt.Errorf("parse job id: %w", err)
	}

	if errMsg.Valid {
		job.Error = &errMsg.String
	}
	if stats.Valid && stats.String != "" {
		var s model.Stats
		if err := json.Unmarshal([]byte(stats.String), &s); err == nil {
			job.Stats = &s
		}
	}
	if resultFile.Valid {
		job.ResultFile = &resultFile.String
	}
	if startedAt.Valid {
		t := startedAt.Time
		job.StartedAt = &t
	}
	if completed.Valid {
		t := completed.Time
		job.CompletedAt = &t
	}

	return job, nil
}

// CreateJob inserts a new conversion job row in the submitted state.
func (s *Store) CreateJob(ctx context.Context, id uuid.UUID, filename, jarPath string) (model.Job, error) {
	now := time.Now().UTC()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO jobs (id, filename, status, progress, message, jar_path, created_at, updated_at)
		VALUES (?, ?, ?, 0, 'Waiting...', ?, ?, ?)`,
		id.String(), filename, string(model.StatusSubmitted), jarPath, now, now)
	if err != nil {
		return model.Job{}, fmt.Errorf("insert job: %w", err)
	}
	return s.GetJobByID(ctx, id)
}

// GetJobByID fetches a single job row. Returns sql.ErrNoRows when the
// job does not exist.
func (s *Store) GetJobByID(ctx context.Context, id uuid.UUID) (model.Job, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id.String())
	return scanJob(row)
}

// MarkProcessing transitions a submitted job to processing and records
// its start time. It doubles as a claim: the returned bool is false when
// another worker already moved the job out of the submitted state.
func (s *Store) MarkProcessing(ctx context.Context, id uuid.UUID, progress int, message string) (bool, error) {
	now := time.Now().UTC()
	res, err := s.DB.ExecContext(ctx, `
		UPDATE jobs SET status = ?, progress = ?, message = ?, started_at = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(model.StatusProcessing), progress, message, now, now,
		id.String(), string(model.StatusSubmitted))
	if err != nil {
		return false, fmt.Errorf("mark processing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark processing: %w", err)
	}
	return n > 0, nil
}

// UpdateProgress updates the progress percentage and status message of a
// non-terminal job. Terminal rows never regress.
func (s *Store) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, message string) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE jobs SET progress = ?, message = ?, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?)`,
		progress, message, time.Now().UTC(),
		id.String(), string(model.StatusCompleted), string(model.StatusFailed))
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// MarkCompleted transitions a job to completed with its result artifact
// and final stats. No-op for rows that are already terminal.
func (s *Store) MarkCompleted(ctx context.Context, id uuid.UUID, resultFile string, stats model.Stats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.DB.ExecContext(ctx, `
		UPDATE jobs SET status = ?, progress = 100, message = 'Completed!',
			result_file = ?, stats = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?)`,
		string(model.StatusCompleted), resultFile, string(payload), now, now,
		id.String(), string(model.StatusCompleted), string(model.StatusFailed))
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// MarkFailed transitions a job to failed with an error message. No-op
// for rows that are already terminal.
func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	now := time.Now().UTC()
	_, err := s.DB.ExecContext(ctx, `
		UPDATE jobs SET status = ?, message = ?, error = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?)`,
		string(model.StatusFailed), "Error: "+errMsg, errMsg, now, now,
		id.String(), string(model.StatusCompleted), string(model.StatusFailed))
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// ListSubmittedJobs returns up to limit jobs waiting to be picked up by
// the worker, oldest first.
func (s *Store) ListSubmittedJobs(ctx context.Context, limit int) ([]model.Job, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE status = ? ORDER BY created_at ASC LIMIT ?`,
		string(model.StatusSubmitted), limit)
	if err != nil {
		return nil, fmt.Errorf("list submitted jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// ListJobs returns the most recently created jobs, newest first.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]model.Job, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM jobs
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// CountJobs returns the total number of job rows.
func (s *Store) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// ListExpiredJobs returns jobs with the given terminal status whose
// completion time is before cutoff.
func (s *Store) ListExpiredJobs(ctx context.Context, status string, cutoff time.Time) ([]model.Job, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE status = ? AND completed_at IS NOT NULL AND completed_at < ?`,
		status, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list expired jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// DeleteJob removes a job row.
func (s *Store) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

func collectJobs(rows *sql.Rows) ([]model.Job, error) {
	var out []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}
