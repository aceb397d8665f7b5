package task

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps jobs in a map. It is safe for concurrent use. Jobs do
// not survive a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]Job
	now  func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[uuid.UUID]Job),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Save inserts or replaces job. Zero timestamps are filled in.
func (s *MemoryStore) Save(_ context.Context, job Job) error {
	now := s.now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = now
	}
	job.Labels = maps.Clone(job.Labels)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

// Update applies fn to a copy of the job and stores the result.
func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	fn(&job)
	job.ID = id
	job.UpdatedAt = s.now()
	s.jobs[id] = job
	return nil
}

// Get returns a copy of the job.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	job.Labels = maps.Clone(job.Labels)
	return job, nil
}

// DeleteFinishedBefore drops completed and failed jobs not updated since
// cutoff.
func (s *MemoryStore) DeleteFinishedBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, job := range s.jobs {
		if job.Status.Finished() && job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked jobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
