package jobs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/masterotaku487-arch/transformar/internal/config"
	"github.com/masterotaku487-arch/transformar/internal/metrics"
	"github.com/masterotaku487-arch/transformar/internal/model"
	"github.com/masterotaku487-arch/transformar/internal/store"
)

// RetentionStats captures the number of jobs deleted by TTL cleanup,
// keyed by terminal status.
type RetentionStats struct {
	JobsDeleted map[string]int64 `json:"jobsDeleted"`
}

// CleanupExpiredJobs deletes terminal jobs past their retention TTL,
// along with their upload and output directories, so that neither the
// database nor the disk grows without bound. Completed jobs are kept
// long enough for the artifact to be downloaded; failed jobs are
// discarded quickly.
func CleanupExpiredJobs(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger) RetentionStats {
	now := time.Now().UTC()
	stats := RetentionStats{JobsDeleted: make(map[string]int64)}

	applyTTL := func(status string, minutes int) {
		if minutes <= 0 {
			return
		}
		cutoff := now.Add(-time.Duration(minutes) * time.Minute)

		expired, err := st.ListExpiredJobs(ctx, status, cutoff)
		if err != nil {
			logger.Error("list expired jobs failed", "status", status, "error", err)
			return
		}

		for _, job := range expired {
			id := job.ID.String()
			for _, dir := range []string{
				filepath.Join(cfg.Storage.UploadDir, id),
				filepath.Join(cfg.Storage.OutputDir, id),
			} {
				if err := os.RemoveAll(dir); err != nil {
					logger.Error("remove job dir failed", "job_id", id, "dir", dir, "error", err)
				}
			}

			if err := st.DeleteJob(ctx, job.ID); err != nil {
				logger.Error("delete expired job failed", "job_id", id, "error", err)
				continue
			}
			stats.JobsDeleted[status]++
		}

		if n := stats.JobsDeleted[status]; n > 0 {
			metrics.RecordRetentionJobs(status, n)
			logger.Info("retention cleanup", "status", status, "deleted", n)
		}
	}

	completedTTL := cfg.Retention.CompletedTTLMinutes
	if completedTTL <= 0 {
		completedTTL = 60
	}
	failedTTL := cfg.Retention.FailedTTLMinutes
	if failedTTL <= 0 {
		failedTTL = 1
	}

	applyTTL(string(model.StatusCompleted), completedTTL)
	applyTTL(string(model.StatusFailed), failedTTL)

	return stats
}
