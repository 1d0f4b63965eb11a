package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/masterotaku487-arch/transformar/internal/config"
	"github.com/masterotaku487-arch/transformar/internal/metrics"
	"github.com/masterotaku487-arch/transformar/internal/model"
	"github.com/masterotaku487-arch/transformar/internal/store"
	"github.com/masterotaku487-arch/transformar/internal/transpiler"
)

// ConvertExecutor runs the jar-to-addon conversion for a single job,
// moving the job row through its progress stages.
type ConvertExecutor struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewConvertExecutor constructs a ConvertExecutor.
func NewConvertExecutor(cfg *config.Config, st *store.Store, logger *slog.Logger) *ConvertExecutor {
	return &ConvertExecutor{cfg: cfg, store: st, logger: logger}
}

// ExecuteConvertJob claims the job, runs the transpiler, and records the
// outcome. Progress checkpoints mirror the status messages the status
// endpoint exposes to polling clients.
func (e *ConvertExecutor) ExecuteConvertJob(ctx context.Context, job model.Job) {
	claimed, err := e.store.MarkProcessing(ctx, job.ID, 10, "Analyzing JAR...")
	if err != nil {
		e.logger.Error("claim job failed", "job_id", job.ID, "error", err)
		return
	}
	if !claimed {
		return
	}

	e.logger.Info("processing job", "job_id", job.ID, "filename", job.Filename)

	outputDir := filepath.Join(e.cfg.Storage.OutputDir, job.ID.String())
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		e.fail(ctx, job, fmt.Errorf("create output dir: %w", err))
		return
	}

	_ = e.store.UpdateProgress(ctx, job.ID, 30, "Converting...")

	result, err := transpiler.Transpile(job.JarPath, outputDir)
	if err != nil {
		e.fail(ctx, job, err)
		return
	}

	_ = e.store.UpdateProgress(ctx, job.ID, 90, "Finalizing...")

	if _, err := os.Stat(result.OutputFile); err != nil {
		e.fail(ctx, job, fmt.Errorf("mcaddon file was not generated: %w", err))
		return
	}

	stats := model.Stats{
		ItemsProcessed:   result.Stats.Items,
		BlocksProcessed:  result.Stats.Blocks,
		RecipesConverted: result.Stats.Recipes,
		AssetsExtracted:  result.Stats.Textures,
	}
	if err := e.store.MarkCompleted(ctx, job.ID, result.OutputFile, stats); err != nil {
		e.logger.Error("mark completed failed", "job_id", job.ID, "error", err)
		return
	}

	metrics.RecordConversion(string(model.StatusCompleted))
	metrics.RecordConverted(result.Stats.Items, result.Stats.Blocks, result.Stats.Recipes, result.Stats.Textures)

	e.logger.Info("job completed",
		"job_id", job.ID,
		"mod_id", result.ModID,
		"items", result.Stats.Items,
		"blocks", result.Stats.Blocks,
		"recipes", result.Stats.Recipes,
		"elapsed", result.Elapsed,
	)
}

func (e *ConvertExecutor) fail(ctx context.Context, job model.Job, err error) {
	e.logger.Error("job failed", "job_id", job.ID, "error", err)
	if uerr := e.store.MarkFailed(ctx, job.ID, err.Error()); uerr != nil {
		e.logger.Error("mark failed failed", "job_id", job.ID, "error", uerr)
	}
	metrics.RecordConversion(string(model.StatusFailed))
}
