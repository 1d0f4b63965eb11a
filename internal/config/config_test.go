package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	raw := `
server:
  host: "127.0.0.1"
  port: 8090
storage:
  uploadDir: "/data/uploads"
  outputDir: "/data/output"
limits:
  maxFileSizeMB: 50
  fileSuffix: ".jar"
database:
  dsn: "file:jobs.db"
redis:
  url: "redis://localhost:6379/0"
ratelimit:
  defaultPerMinute: 30
worker:
  maxConcurrentJobs: 2
  pollIntervalMs: 500
retention:
  enabled: true
  cleanupIntervalMinutes: 5
  completedTTLMinutes: 60
  failedTTLMinutes: 1
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path)

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8090 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.UploadDir != "/data/uploads" || cfg.Storage.OutputDir != "/data/output" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Limits.MaxFileSizeBytes() != 50*1024*1024 {
		t.Errorf("unexpected size cap: %d", cfg.Limits.MaxFileSizeBytes())
	}
	if cfg.Database.DSN != "file:jobs.db" {
		t.Errorf("unexpected dsn: %q", cfg.Database.DSN)
	}
	if cfg.RateLimit.DefaultPerMinute != 30 {
		t.Errorf("unexpected rate limit: %d", cfg.RateLimit.DefaultPerMinute)
	}
	if cfg.Worker.MaxConcurrentJobs != 2 || cfg.Worker.PollIntervalMs != 500 {
		t.Errorf("unexpected worker config: %+v", cfg.Worker)
	}
	if !cfg.Retention.Enabled || cfg.Retention.FailedTTLMinutes != 1 {
		t.Errorf("unexpected retention config: %+v", cfg.Retention)
	}
}

func TestLimitsDefaults(t *testing.T) {
	var l LimitsConfig
	if l.MaxFileSizeBytes() != 100*1024*1024 {
		t.Errorf("unexpected default size cap: %d", l.MaxFileSizeBytes())
	}
	if l.Suffix() != ".jar" {
		t.Errorf("unexpected default suffix: %q", l.Suffix())
	}
}
