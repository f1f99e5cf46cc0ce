// The importer daemon runs the worker pool: it resumes pending jobs from the
// ledger, polls for new ones, and executes them until terminated.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"go-csv-importer/internal/config"
	"go-csv-importer/internal/pipeline"
	"go-csv-importer/internal/store"
	"go-csv-importer/internal/worker"
)

const pollInterval = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}
	cfg.ConfigureLogger()

	st, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("opening store")
	}
	defer st.Close()

	pipe := pipeline.New(st, pipeline.Options{
		UploadDir:     cfg.UploadDir,
		ChunkSize:     cfg.ChunkSize,
		SoftTimeLimit: cfg.SoftTimeLimit,
		StrictEnums:   cfg.StrictCategories,
	})
	pool := worker.NewPool(st, pipe, worker.Config{
		Workers:      cfg.Workers,
		MaxRetries:   cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     cfg.MaxRetryWait,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool.Start(ctx)

	// Pick up jobs created by the API process. Re-dispatching a job another
	// worker already took is a no-op.
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if err := pool.Resume(ctx); err != nil {
			log.WithError(err).Error("polling pending jobs")
		}
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			pool.Wait()
			return
		case <-ticker.C:
		}
	}
}
