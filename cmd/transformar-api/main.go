package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/masterotaku487-arch/transformar/internal/config"
	server "github.com/masterotaku487-arch/transformar/internal/http"
	"github.com/masterotaku487-arch/transformar/internal/jobs"
	"github.com/masterotaku487-arch/transformar/internal/migrate"
	"github.com/masterotaku487-arch/transformar/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	role := flag.String("role", "all", "process role: api|worker|all")
	flag.Parse()

	cfg := config.Load(*configPath)

	// Make sure the working directories exist before anything touches them
	for _, dir := range []string{cfg.Storage.UploadDir, cfg.Storage.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create dir %s failed: %v", dir, err)
		}
	}

	// Run migrations on a short-lived connection
	if err := migrate.Run(cfg.Database.DSN); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Create a shared *sql.DB with pooling for the Store
	db, err := sql.Open("sqlite", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open db failed: %v", err)
	}
	// Basic pool settings; adjust as needed
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	st := store.New(db)

	// Set up logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	rootCtx := context.Background()

	startWorker := func() {
		exec := jobs.NewConvertExecutor(cfg, st, logger)
		runner := jobs.NewRunner(cfg, st, exec, logger)
		go runner.Start(rootCtx)
	}

	switch *role {
	case "api":
		// API-only: do not start the conversion worker.
		s := server.NewServer(cfg, st, logger)
		if err := s.Listen(); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	case "worker":
		// Worker-only: start the conversion worker and block.
		startWorker()
		select {}
	case "all":
		// Default: run both API and worker in one process.
		startWorker()
		s := server.NewServer(cfg, st, logger)
		if err := s.Listen(); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	default:
		log.Fatalf("invalid role: %s (expected api|worker|all)", *role)
	}
}
