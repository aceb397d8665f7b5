package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// Retention is how long finished jobs stay queryable
	Retention time.Duration

	// SweepInterval is how often expired jobs are removed
	SweepInterval time.Duration
}

// DefaultRunnerConfig returns the values NewRunner uses for unset fields.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:   2,
		QueueSize:     100,
		Retention:     time.Hour,
		SweepInterval: time.Minute,
	}
}

// Runner accepts tasks, runs them on a worker pool and answers status
// queries.
type Runner struct {
	store  Store
	queue  *TaskQueue
	pool   *WorkerPool
	config RunnerConfig
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	stopOnce sync.Once
}

// NewRunner creates a Runner backed by store. Zero or negative worker
// count, queue size and sweep interval take their DefaultRunnerConfig
// values. A zero Retention keeps finished jobs forever.
func NewRunner(store Store, config RunnerConfig, logger *slog.Logger) *Runner {
	defaults := DefaultRunnerConfig()
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaults.WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = defaults.SweepInterval
	}

	logger = logger.With("component", "task_runner")
	queue := NewTaskQueue(config.QueueSize, logger)
	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:  store,
		queue:  queue,
		pool:   NewWorkerPool(queue, store, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger),
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetObserver forwards to the worker pool. It must be called before Start.
func (r *Runner) SetObserver(o Observer) {
	r.pool.SetObserver(o)
}

// Submit records task as pending and queues it. A full queue fails the
// job immediately and returns an error wrapping ErrQueueFull.
func (r *Runner) Submit(ctx context.Context, task Task) (Job, error) {
	job := Job{
		ID:     task.ID(),
		Type:   task.Type(),
		Status: StatusPending,
	}
	if l, ok := task.(Labeled); ok {
		job.Labels = l.Labels()
	}

	if err := r.store.Save(ctx, job); err != nil {
		return Job{}, fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.queue.Enqueue(task); err != nil {
		if updateErr := r.store.Update(ctx, job.ID, func(j *Job) {
			j.Status = StatusFailed
			j.Error = err.Error()
		}); updateErr != nil {
			r.logger.ErrorContext(ctx, "failed to mark rejected task as failed",
				"task_id", job.ID,
				"error", updateErr)
		}
		return Job{}, err
	}

	return r.store.Get(ctx, job.ID)
}

// Get returns the current state of a job.
func (r *Runner) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	return r.store.Get(ctx, id)
}

// Start launches the workers and the retention sweeper.
func (r *Runner) Start() {
	r.pool.Start()

	if r.config.Retention > 0 {
		r.wg.Add(1)
		go r.sweeper()
	}
}

// Stop cancels running tasks, fails any still queued and waits for the
// background goroutines. It is safe to call more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.queue.Close()
		r.cancel()
		r.pool.Stop()
		r.wg.Wait()
		r.failQueued()
	})
}

// failQueued marks tasks left in the closed queue as failed.
func (r *Runner) failQueued() {
	ctx := context.Background()
	for task := range r.queue.Channel() {
		if err := r.store.Update(ctx, task.ID(), func(j *Job) {
			j.Status = StatusFailed
			j.Error = "task runner stopped before the task ran"
		}); err != nil && !errors.Is(err, ErrJobNotFound) {
			r.logger.Error("failed to mark queued task as failed",
				"task_id", task.ID(),
				"error", err)
		}
	}
}

// sweeper periodically removes finished jobs older than the retention
// period.
func (r *Runner) sweeper() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			r.Sweep(r.ctx)
		}
	}
}

// Sweep removes finished jobs older than the retention period.
func (r *Runner) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.config.Retention)
	removed, err := r.store.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to remove expired jobs", "error", err)
		return
	}
	if removed > 0 {
		r.logger.InfoContext(ctx, "removed expired jobs", "count", removed)
	}
}
