// The importer-api binary serves the upload and job-enumeration endpoints
// and runs an in-process worker pool, so a single process covers small
// deployments.
package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"go-csv-importer/internal/api"
	"go-csv-importer/internal/api/handler"
	"go-csv-importer/internal/config"
	"go-csv-importer/internal/pipeline"
	"go-csv-importer/internal/store"
	"go-csv-importer/internal/worker"
	"go-csv-importer/pkg/router"
	"go-csv-importer/pkg/utils"
)

// @title Bulk Import API
// @version 1.0
// @description Upload and track bulk file imports into the loan management tables.
// @BasePath /api/v1
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

	uploads := utils.NewUploadManager(cfg.UploadDir)
	if err := uploads.EnsureDirExists(); err != nil {
		log.WithError(err).Fatal("creating upload directory")
	}

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
	if err := pool.Resume(ctx); err != nil {
		log.WithError(err).Error("resuming pending jobs")
	}

	r := router.New()
	api.RegisterRoutes(r, handler.NewImportHandler(st, uploads, pool, cfg.MaxUploadSize))

	if err := r.Start(cfg.ListenAddr); err != nil {
		log.WithError(err).Fatal("http server")
	}
}
