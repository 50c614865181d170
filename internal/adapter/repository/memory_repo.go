package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"

	"meraki-api/internal/domain"

	"github.com/google/uuid"
)

// MemoryJobsRepo keeps jobs in process memory. The server falls back to it
// when Postgres is unreachable at startup; jobs do not survive a restart.
type MemoryJobsRepo struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*domain.Job
	now  func() time.Time
}

func NewMemoryJobsRepo() *MemoryJobsRepo {
	return &MemoryJobsRepo{jobs: make(map[uuid.UUID]*domain.Job), now: time.Now}
}

func (r *MemoryJobsRepo) Create(_ context.Context, kind domain.Kind, input map[string]any, owner *uuid.UUID) (uuid.UUID, error) {
	now := r.now().UTC()
	j := &domain.Job{
		ID:        uuid.New(),
		Kind:      kind,
		Input:     maps.Clone(input),
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if owner != nil {
		u := *owner
		j.UserID = &u
	}

	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()
	return j.ID, nil
}

// Get returns a copy of the stored job.
func (r *MemoryJobsRepo) Get(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	cp := *j
	cp.Input = maps.Clone(j.Input)
	if j.Result != nil {
		cp.Result = append(json.RawMessage(nil), j.Result...)
	}
	if j.Error != nil {
		msg := *j.Error
		cp.Error = &msg
	}
	return &cp, nil
}

func (r *MemoryJobsRepo) SetRunning(_ context.Context, id uuid.UUID) error {
	return r.transition(id, domain.StatusRunning, func(*domain.Job) {})
}

func (r *MemoryJobsRepo) SetCompleted(_ context.Context, id uuid.UUID, result json.RawMessage) error {
	return r.transition(id, domain.StatusCompleted, func(j *domain.Job) {
		j.Result = append(json.RawMessage(nil), result...)
		j.Error = nil
	})
}

func (r *MemoryJobsRepo) SetFailed(_ context.Context, id uuid.UUID, msg string) error {
	return r.transition(id, domain.StatusFailed, func(j *domain.Job) {
		j.Error = &msg
	})
}

func (r *MemoryJobsRepo) transition(id uuid.UUID, to domain.JobStatus, apply func(*domain.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if !domain.CanTransition(j.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, j.Status, to)
	}
	apply(j)
	j.Status = to
	j.UpdatedAt = r.now().UTC()
	return nil
}
