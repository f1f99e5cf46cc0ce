// Package worker is the task substrate: a fixed pool that executes import
// jobs and re-dispatches retryable failures with capped exponential backoff
// and jitter, up to a bounded retry budget.
package worker

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"go-csv-importer/internal/pipeline"
	"go-csv-importer/internal/store"
)

// Config bounds the pool and its retry policy.
type Config struct {
	Workers      int
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 3
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 5 * time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 300 * time.Second
	}
	return c
}

type task struct {
	jobID   int64
	attempt int
}

// Runner executes one job invocation. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, jobID int64) error
}

// Pool dispatches jobs to a fixed set of workers.
type Pool struct {
	cfg   Config
	store *store.Store
	pipe  Runner
	queue chan task

	ctx context.Context
	wg  sync.WaitGroup
}

func NewPool(st *store.Store, pipe Runner, cfg Config) *Pool {
	return &Pool{
		cfg:   cfg.withDefaults(),
		store: st,
		pipe:  pipe,
		queue: make(chan task, 1000),
	}
}

// Start launches the workers. They drain the queue until ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	p.ctx = ctx
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	log.WithField("workers", p.cfg.Workers).Info("worker pool started")
}

// Wait blocks until every worker has exited after cancellation.
func (p *Pool) Wait() { p.wg.Wait() }

// Dispatch enqueues a job for its first attempt.
func (p *Pool) Dispatch(jobID int64) { p.enqueue(task{jobID: jobID}) }

// Resume enqueues every job still pending in the ledger, picking up work
// left behind by a previous process.
func (p *Pool) Resume(ctx context.Context) error {
	ids, err := p.store.ListPending(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		p.Dispatch(id)
	}
	if len(ids) > 0 {
		log.WithField("jobs", len(ids)).Info("resumed pending jobs")
	}
	return nil
}

func (p *Pool) enqueue(t task) {
	select {
	case <-p.ctx.Done():
	case p.queue <- t:
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	logger := log.WithField("worker", id)
	for {
		select {
		case <-p.ctx.Done():
			return
		case t := <-p.queue:
			p.run(logger, t)
		}
	}
}

func (p *Pool) run(logger *log.Entry, t task) {
	err := p.pipe.Run(p.ctx, t.jobID)
	if err == nil {
		return
	}
	if !pipeline.Retryable(err) {
		logger.WithError(err).WithField("job", t.jobID).Error("job dispatch failed")
		return
	}
	if t.attempt >= p.cfg.MaxRetries {
		logger.WithError(err).WithFields(log.Fields{
			"job": t.jobID, "attempts": t.attempt + 1,
		}).Error("retry budget spent")
		if mErr := p.store.MarkFailed(p.ctx, t.jobID, err.Error()); mErr != nil {
			logger.WithError(mErr).Error("recording exhausted job")
		}
		return
	}

	delay := p.backoff(t.attempt)
	logger.WithFields(log.Fields{
		"job": t.jobID, "attempt": t.attempt + 1, "delay": delay,
	}).Warn("retrying job")
	if rErr := p.store.Requeue(p.ctx, t.jobID); rErr != nil {
		logger.WithError(rErr).WithField("job", t.jobID).Error("requeueing job")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		select {
		case <-p.ctx.Done():
		case <-time.After(delay):
			p.enqueue(task{jobID: t.jobID, attempt: t.attempt + 1})
		}
	}()
}

// backoff doubles the delay per attempt, caps it, and adds up to 50% jitter
// so racing workers spread out.
func (p *Pool) backoff(attempt int) time.Duration {
	d := time.Duration(float64(p.cfg.InitialDelay) * math.Pow(2, float64(attempt)))
	if d > p.cfg.MaxDelay {
		d = p.cfg.MaxDelay
	}
	return d + time.Duration(rand.Int63n(int64(d)/2+1))
}
