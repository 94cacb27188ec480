package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mediscan/internal/analyzer"
	"mediscan/internal/cache"
	"mediscan/internal/config"
	"mediscan/internal/genai/gemini"
	"mediscan/internal/handler"
	"mediscan/internal/port"
	"mediscan/internal/ratelimit"
	"mediscan/internal/repository/postgres"
	"mediscan/internal/router"
	"mediscan/internal/service"
	s3storage "mediscan/internal/storage/s3"
	"mediscan/internal/textextract"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared pipeline state: built once, passed by reference, torn down
	// with the process.
	resultCache := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	go limiter.Run(ctx, cfg.RateLimit.Window)

	generator := gemini.NewClient(&cfg.AI)
	az := analyzer.New(generator, resultCache, analyzer.Config{
		ChunkMaxChars: cfg.AI.ChunkMaxChars,
		Executor: analyzer.ExecutorConfig{
			MaxAttempts: cfg.AI.MaxAttempts,
			Timeout:     time.Duration(cfg.AI.TimeoutSecs) * time.Second,
			Backoff:     time.Duration(cfg.AI.BackoffSecs) * time.Second,
		},
	})

	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	reportRepo := postgres.NewReportRepo(db)
	reportSvc := service.NewReportService(reportRepo, textextract.New(), az, storage, cfg.Upload, cfg.AI.MinTextChars)

	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(reportH, healthH, limiter, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Printf("Shutdown complete")
	return nil
}
