// Package pipeline owns the per-job state machine. It is the only component
// that mutates job status: one Run call takes a pending job through
// acquisition, the read → normalize → resolve → load sequence, and a terminal
// completed or failed state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"go-csv-importer/internal/loader"
	"go-csv-importer/internal/model"
	"go-csv-importer/internal/normalize"
	"go-csv-importer/internal/profile"
	"go-csv-importer/internal/reader"
	"go-csv-importer/internal/resolve"
	"go-csv-importer/internal/store"
)

// ErrJobTimeout marks a soft time-limit breach. The job is already recorded
// as failed when Run returns it; the worker substrate decides whether the
// retry budget allows another attempt.
var ErrJobTimeout = errors.New("job timed out")

// Options tunes one Pipeline instance.
type Options struct {
	UploadDir     string
	ChunkSize     int
	SoftTimeLimit time.Duration
	StrictEnums   bool
}

// Pipeline sequences the import stages for jobs stored in one Store.
type Pipeline struct {
	store *store.Store
	opts  Options
}

func New(st *store.Store, opts Options) *Pipeline {
	if opts.SoftTimeLimit <= 0 {
		opts.SoftTimeLimit = 28 * time.Minute
	}
	return &Pipeline{store: st, opts: opts}
}

// Retryable reports whether a Run error is worth another dispatch: soft
// timeouts and transient store conditions qualify, everything else is final.
func Retryable(err error) bool {
	return errors.Is(err, ErrJobTimeout) || store.IsTransient(err)
}

// Run executes one import job end to end.
//
// It returns nil for every outcome the job row fully accounts for: a
// completed load, a terminal failure already recorded in error_message, and
// the benign no-op when another worker holds the job. A non-nil return means
// the invocation wants the scheduler's attention — a transient store error
// (job left in processing, Requeue before re-dispatch), a canceled dispatch
// (job already back in pending for the next Resume) or ErrJobTimeout.
func (p *Pipeline) Run(ctx context.Context, jobID int64) error {
	logger := log.WithField("job", jobID)

	job, err := p.store.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("loading job %d: %w", jobID, err)
	}
	logger = logger.WithFields(log.Fields{"file": job.FileName, "table": job.TableName})

	// Acquisition comes first: a duplicate dispatch of a job already taken or
	// already terminal must back off here before it can observe anything else
	// about the job, such as a source file the finalizer has deleted.
	ok, err := p.store.TryAcquire(ctx, jobID)
	if err != nil {
		return fmt.Errorf("acquiring job %d: %w", jobID, err)
	}
	if !ok {
		logger.Info("job already taken, skipping dispatch")
		return nil
	}
	logger.Info("job acquired")

	path := filepath.Join(p.opts.UploadDir, job.FileName)
	if _, err := os.Stat(path); err != nil {
		logger.Error("source file missing")
		return p.failTerminal(ctx, jobID, fmt.Sprintf("file not found: %s", job.FileName))
	}

	runCtx, cancel := context.WithTimeout(ctx, p.opts.SoftTimeLimit)
	defer cancel()

	runErr := p.process(runCtx, jobID, job, path)
	if runErr == nil {
		// Finalization must outlive the soft limit.
		finCtx := context.WithoutCancel(ctx)
		if err := p.store.MarkCompleted(finCtx, jobID); err != nil {
			return fmt.Errorf("finalizing job %d: %w", jobID, err)
		}
		p.removeSource(path, logger)
		logger.Info("job completed")
		return nil
	}

	finCtx := context.WithoutCancel(ctx)
	if ctx.Err() != nil {
		// The dispatch context died under us (pool shutdown). The run is
		// interrupted, not failed: hand the job back to pending so the next
		// Resume re-dispatches it, and keep the source file.
		logger.WithError(runErr).Warn("dispatch canceled, requeueing job")
		if err := p.store.Requeue(finCtx, jobID); err != nil {
			logger.WithError(err).Error("requeueing interrupted job")
		}
		return runErr
	}
	if errors.Is(runErr, context.DeadlineExceeded) && runCtx.Err() != nil {
		msg := fmt.Sprintf("timed out after %s", p.opts.SoftTimeLimit)
		logger.Error(msg)
		if err := p.store.MarkFailed(finCtx, jobID, msg); err != nil {
			logger.WithError(err).Error("recording timeout failure")
		}
		return fmt.Errorf("job %d: %w", jobID, ErrJobTimeout)
	}
	if store.IsTransient(runErr) {
		logger.WithError(runErr).Warn("transient failure, leaving job for retry")
		return runErr
	}
	logger.WithError(runErr).Error("job failed")
	if err := p.failTerminal(finCtx, jobID, runErr.Error()); err != nil {
		return err
	}
	p.removeSource(path, logger)
	return nil
}

func (p *Pipeline) process(ctx context.Context, jobID int64, job *model.ImportJob, path string) error {
	prof, err := profile.For(job.TableName)
	if err != nil {
		return err
	}

	table, err := reader.Read(path)
	if err != nil {
		return err
	}
	if err := p.store.SetTotal(ctx, jobID, table.RowCount()); err != nil {
		return fmt.Errorf("recording row count: %w", err)
	}

	records, warnings := normalize.Normalize(table, prof, normalize.Options{
		Strict: p.opts.StrictEnums,
		Now:    time.Now().UTC(),
	})

	resolver, err := resolve.New(ctx, p.store, prof)
	if err != nil {
		return err
	}
	warnings = append(warnings, resolver.Apply(records)...)

	result, loadErr := loader.New(p.store, p.opts.ChunkSize).Load(ctx, jobID, prof, records)
	failed := table.RowCount() - result.Inserted
	if failed > 0 || len(warnings) > 0 {
		log.WithFields(log.Fields{
			"job": jobID, "loaded": result.Inserted, "chunks": result.Chunks,
			"failed": failed, "warnings": len(warnings),
		}).Info("load accounting")
	}
	if err := p.store.SetFailedCount(context.WithoutCancel(ctx), jobID, failed); err != nil {
		return fmt.Errorf("recording failed count: %w", err)
	}
	return loadErr
}

func (p *Pipeline) failTerminal(ctx context.Context, jobID int64, message string) error {
	if err := p.store.MarkFailed(ctx, jobID, message); err != nil {
		return fmt.Errorf("recording failure of job %d: %w", jobID, err)
	}
	return nil
}

// removeSource deletes the consumed upload. Failure is logged, never
// escalated.
func (p *Pipeline) removeSource(path string, logger *log.Entry) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn("could not remove source file")
	}
}
