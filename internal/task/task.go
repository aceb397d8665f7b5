package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a job.
type Status string

// Job states.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Finished reports whether s is a terminal state.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusFailed
}

// TypeGeneration identifies code generation jobs.
const TypeGeneration = "code_generation"

// ErrJobNotFound is returned by a Store for an unknown job ID.
var ErrJobNotFound = errors.New("job not found")

// Task is a unit of background work.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task. A task may return output together with an
	// error; the job then completes and the error is kept as a warning.
	Execute(ctx context.Context) (string, error)
}

// Labeled is implemented by tasks that describe themselves with labels
// copied onto their job record.
type Labeled interface {
	Labels() map[string]string
}

// Job is the tracked state of a submitted task.
type Job struct {
	ID        uuid.UUID         `json:"id"`
	Type      string            `json:"type"`
	Status    Status            `json:"status"`
	Labels    map[string]string `json:"labels,omitempty"`
	Result    string            `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	ErrorKind string            `json:"error_kind,omitempty"`
	Warning   string            `json:"warning,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// QueueReader gives workers read access to queued tasks.
type QueueReader interface {
	Channel() <-chan Task
}

// QueueWriter accepts tasks for processing.
type QueueWriter interface {
	// Enqueue adds a task, failing when the queue is full or closed
	Enqueue(task Task) error

	Close()
}

// Store persists job records.
type Store interface {
	Save(ctx context.Context, job Job) error

	// Update applies fn to the stored job and refreshes UpdatedAt
	Update(ctx context.Context, id uuid.UUID, fn func(*Job)) error

	Get(ctx context.Context, id uuid.UUID) (Job, error)

	// DeleteFinishedBefore removes terminal jobs last updated before cutoff
	// and returns how many were removed
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Observer is notified when a job reaches a terminal state.
type Observer interface {
	JobFinished(taskType, status string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) JobFinished(string, string, time.Duration) {}
