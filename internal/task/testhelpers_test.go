package task

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockTask runs execFn when executed.
type mockTask struct {
	id     uuid.UUID
	execFn func(ctx context.Context) (string, error)
}

func newMockTask() *mockTask {
	return &mockTask{
		id:     uuid.New(),
		execFn: func(context.Context) (string, error) { return "ok", nil },
	}
}

func (m *mockTask) ID() uuid.UUID { return m.id }

func (m *mockTask) Type() string { return "mock_task" }

func (m *mockTask) Execute(ctx context.Context) (string, error) { return m.execFn(ctx) }

// mockTaskQueue implements QueueReader for testing
type mockTaskQueue struct {
	ch chan Task
}

func newMockTaskQueue() *mockTaskQueue {
	return &mockTaskQueue{ch: make(chan Task, 10)}
}

func (m *mockTaskQueue) Channel() <-chan Task { return m.ch }

// recordingObserver captures JobFinished calls.
type recordingObserver struct {
	mu       sync.Mutex
	statuses []string
}

func (o *recordingObserver) JobFinished(_, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, status)
}

func (o *recordingObserver) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.statuses...)
}

// waitForStatus polls the store until the job reaches a terminal state.
func waitForStatus(store Store, id uuid.UUID, timeout time.Duration) (Job, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		job, err := store.Get(context.Background(), id)
		if err == nil && job.Status.Finished() {
			return job, true
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := store.Get(context.Background(), id)
	return job, false
}
