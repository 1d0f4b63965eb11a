package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/masterotaku487-arch/transformar/internal/config"
	"github.com/masterotaku487-arch/transformar/internal/metrics"
	"github.com/masterotaku487-arch/transformar/internal/store"
)

// Version is reported on the health endpoint.
const Version = "3.1"

type Server struct {
	app    *fiber.App
	config *config.Config
	store  *store.Store
	logger *slog.Logger
}

func NewServer(cfg *config.Config, st *store.Store, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		// Multipart framing adds a little overhead on top of the raw
		// file bytes; handlers still enforce the exact file size cap.
		BodyLimit: int(cfg.Limits.MaxFileSizeBytes()) + 1024*1024,
	})

	// Inject config and store into context for handlers
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		c.Locals("store", st)
		return c.Next()
	})

	// Request logging + metrics middleware
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		// Ensure a request ID exists
		reqID := c.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Locals("request_id", reqID)
		if logger != nil {
			c.Locals("logger", logger)
		}

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		method := c.Method()
		path := c.Path()

		metrics.RecordRequest(method, path, status, latency.Milliseconds())

		if logger != nil {
			logger.Info("request",
				"request_id", reqID,
				"method", method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}

		return err
	})

	// Redis client for rate limiting and health checks
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		if opt, err := redis.ParseURL(cfg.Redis.URL); err == nil {
			rdb = redis.NewClient(opt)
		}
	}

	// Health endpoint
	app.Get("/api/health", func(c *fiber.Ctx) error {
		resp := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
		}

		// Shallow health: process is up
		if c.Query("deep") != "true" {
			return c.JSON(resp)
		}

		// Deep health: check DB and Redis connectivity.
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		resp.DB = "ok"
		if err := st.DB.PingContext(ctx); err != nil {
			resp.DB = "error"
			resp.Status = "error"
		}

		resp.Redis = "disabled"
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				resp.Redis = "error"
				resp.Status = "error"
			} else {
				resp.Redis = "ok"
			}
		}

		return c.JSON(resp)
	})

	// Prometheus-style metrics endpoint
	app.Get("/metrics", func(c *fiber.Ctx) error {
		c.Type("text/plain")
		return c.SendString(metrics.Export())
	})

	var rateMw fiber.Handler
	if rdb != nil {
		rateMw = rateLimitMiddleware(cfg, rdb)
	} else {
		rateMw = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := app.Group("/api", rateMw)
	api.Post("/upload", uploadHandler)
	api.Get("/status/:job_id", jobStatusHandler)
	api.Get("/download/:job_id", downloadHandler)
	api.Get("/jobs", jobsListHandler)

	return &Server{
		app:    app,
		config: cfg,
		store:  st,
		logger: logger,
	}
}

func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	return s.app.Listen(addr)
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
