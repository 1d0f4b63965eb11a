package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/masterotaku487-arch/transformar/internal/config"
	"github.com/masterotaku487-arch/transformar/internal/model"
	"github.com/masterotaku487-arch/transformar/internal/store"
)

// ConvertJobExecutor executes a single conversion job to completion,
// updating the job row as it progresses.
type ConvertJobExecutor interface {
	ExecuteConvertJob(ctx context.Context, job model.Job)
}

// Runner polls the jobs table for submitted work and dispatches it to
// the conversion executor. It encapsulates concurrency limits, the
// polling interval, and periodic retention cleanup.
type Runner struct {
	cfg      *config.Config
	store    *store.Store
	executor ConvertJobExecutor
	logger   *slog.Logger
}

// NewRunner constructs a Runner with the given configuration, store,
// and executor.
func NewRunner(cfg *config.Config, st *store.Store, exec ConvertJobExecutor, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		store:    st,
		executor: exec,
		logger:   logger,
	}
}

// Start launches the worker loop in the current goroutine. Callers
// typically run this in its own goroutine and keep the process alive.
func (r *Runner) Start(ctx context.Context) {
	pollInterval := time.Duration(r.cfg.Worker.PollIntervalMs) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	maxJobs := r.cfg.Worker.MaxConcurrentJobs
	if maxJobs <= 0 {
		maxJobs = 4
	}

	sem := make(chan struct{}, maxJobs)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastCleanup time.Time
	cleanupInterval := time.Duration(r.cfg.Retention.CleanupIntervalMinutes) * time.Minute
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// Periodically delete terminal jobs and their working directories.
		if r.cfg.Retention.Enabled {
			now := time.Now().UTC()
			if lastCleanup.IsZero() || now.Sub(lastCleanup) >= cleanupInterval {
				CleanupExpiredJobs(ctx, r.cfg, r.store, r.logger)
				lastCleanup = now
			}
		}

		// Determine how many new jobs we can start based on current concurrency.
		capacity := maxJobs - len(sem)
		if capacity <= 0 {
			continue
		}

		pending, err := r.store.ListSubmittedJobs(ctx, capacity)
		if err != nil {
			r.logger.Error("list submitted jobs failed", "error", err)
			continue
		}

		for _, job := range pending {
			job := job
			sem <- struct{}{}
			go func() {
				defer func() { <-sem }()
				r.executor.ExecuteConvertJob(ctx, job)
			}()
		}
	}
}
