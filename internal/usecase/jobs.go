package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/domain"

	"github.com/google/uuid"
)

// Submitter hands a stored job to the executor.
type Submitter interface {
	Submit(id uuid.UUID) error
}

// JobService is what the HTTP layer talks to: it validates and stores a
// request, then hands the job id to the pool.
type JobService struct {
	jobs JobsRepo
	pool Submitter
}

func NewJobService(jobs JobsRepo, pool Submitter) *JobService {
	return &JobService{jobs: jobs, pool: pool}
}

// Start validates req, stores a pending job and queues it. When the pool
// refuses the job it is marked failed and the id is still returned together
// with ErrQueueFull or ErrPoolClosed.
func (s *JobService) Start(ctx context.Context, req domain.Request) (uuid.UUID, error) {
	if err := req.Validate(); err != nil {
		return uuid.Nil, err
	}
	owner, err := domain.OwnerID(req)
	if err != nil {
		return uuid.Nil, err
	}
	input, err := domain.RequestInput(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode request: %w", err)
	}

	id, err := s.jobs.Create(ctx, req.Kind(), input, owner)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.pool.Submit(id); err != nil {
		slog.Warn("job not queued", "job_id", id.String(), "kind", string(req.Kind()), "error", err)
		if ferr := s.jobs.SetFailed(ctx, id, err.Error()); ferr != nil {
			slog.Error("mark unqueued job failed", "job_id", id.String(), "error", ferr)
		}
		return id, err
	}
	slog.Info("job queued", "job_id", id.String(), "kind", string(req.Kind()))
	return id, nil
}

// Get returns the job when it exists and belongs to kind. A job of another
// kind is reported as not found.
func (s *JobService) Get(ctx context.Context, kind domain.Kind, id uuid.UUID) (*domain.Job, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Kind != kind {
		return nil, repo.ErrJobNotFound
	}
	return job, nil
}

// IsUnavailable reports whether err means the job could not be queued.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrQueueFull) || errors.Is(err, ErrPoolClosed)
}
