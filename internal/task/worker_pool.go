package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/redact"
)

// WorkerPool runs tasks from a queue on a fixed number of goroutines and
// records each outcome in a Store.
type WorkerPool struct {
	queue       QueueReader
	store       Store
	workerCount int
	observer    Observer

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start.
	// If zero or negative, defaults to 1
	WorkerCount int
}

// NewWorkerPool creates a worker pool. Call Start to begin processing.
func NewWorkerPool(queue QueueReader, store Store, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queue:       queue,
		store:       store,
		workerCount: workerCount,
		observer:    nopObserver{},
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger.With("component", "worker_pool"),
	}
}

// SetObserver sets the observer notified of finished jobs. It must be
// called before Start.
func (p *WorkerPool) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	p.observer = o
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", "worker_count", p.workerCount)
}

// Stop cancels running tasks and waits for every worker to return.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-p.queue.Channel():
			if !ok {
				p.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			p.processTask(task, id)
		}
	}
}

func (p *WorkerPool) processTask(task Task, workerID int) {
	ctx := p.ctx
	logger := p.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	if err := p.store.Update(ctx, task.ID(), func(j *Job) { j.Status = StatusProcessing }); err != nil {
		logger.Error("failed to update task status to processing", "error", err)
	}

	logger.Info("processing task")
	start := time.Now()

	out, err := p.execute(ctx, task)
	elapsed := time.Since(start)

	// The pool context may already be canceled; the final status is
	// recorded regardless. Observers hear about a job before its final
	// status becomes visible.
	storeCtx := context.WithoutCancel(ctx)

	if err != nil && out == "" {
		logger.Error("task execution failed",
			"error", redact.Error(err),
			"duration_ms", elapsed.Milliseconds())

		kind := ""
		if genErr, ok := domain.AsGenerationError(err); ok {
			kind = string(genErr.Kind)
		}
		p.observer.JobFinished(task.Type(), string(StatusFailed), elapsed)
		if updateErr := p.store.Update(storeCtx, task.ID(), func(j *Job) {
			j.Status = StatusFailed
			j.Error = redact.Error(err)
			j.ErrorKind = kind
		}); updateErr != nil {
			logger.Error("failed to update task status to failed", "error", updateErr)
		}
		return
	}

	warning := ""
	if err != nil {
		warning = redact.Error(err)
		logger.Warn("task completed with warning", "warning", warning)
	} else {
		logger.Info("task completed successfully", "duration_ms", elapsed.Milliseconds())
	}
	p.observer.JobFinished(task.Type(), string(StatusCompleted), elapsed)
	if updateErr := p.store.Update(storeCtx, task.ID(), func(j *Job) {
		j.Status = StatusCompleted
		j.Result = out
		j.Warning = warning
	}); updateErr != nil {
		logger.Error("failed to update task status to completed", "error", updateErr)
	}
}

// execute runs the task, converting a panic into an error.
func (p *WorkerPool) execute(ctx context.Context, task Task) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Execute(ctx)
}
