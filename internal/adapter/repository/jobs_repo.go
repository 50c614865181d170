package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meraki-api/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// JobsRepo stores jobs in the Postgres jobs table.
type JobsRepo struct {
	pool *pgxpool.Pool
}

func NewJobsRepo(pool *pgxpool.Pool) *JobsRepo {
	return &JobsRepo{pool: pool}
}

// Create inserts a pending job and returns its id.
func (r *JobsRepo) Create(ctx context.Context, kind domain.Kind, input map[string]any, owner *uuid.UUID) (uuid.UUID, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode job input: %w", err)
	}

	id := uuid.New()
	_, err = r.pool.Exec(ctx, `INSERT INTO jobs (id, job_type, status, request_data, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`,
		id.String(), string(kind), string(domain.StatusPending), payload, nullableUUID(owner))
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert job: %w", err)
	}
	return id, nil
}

// Get loads a job by id.
func (r *JobsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var (
		jobID, kind, status string
		payload, result     []byte
		errMsg, userID      *string
		j                   domain.Job
	)
	err := r.pool.QueryRow(ctx, `SELECT id::text, job_type, status, request_data, result, error, user_id::text, created_at, updated_at
		FROM jobs WHERE id = $1`, id.String()).
		Scan(&jobID, &kind, &status, &payload, &result, &errMsg, &userID, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select job: %w", err)
	}

	if j.ID, err = uuid.Parse(jobID); err != nil {
		return nil, fmt.Errorf("parse job id: %w", err)
	}
	j.Kind = domain.Kind(kind)
	j.Status = domain.JobStatus(status)
	if !j.Status.Valid() {
		return nil, fmt.Errorf("job %s has unknown status %q", jobID, status)
	}
	j.Error = errMsg
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &j.Input); err != nil {
			return nil, fmt.Errorf("decode job input: %w", err)
		}
	}
	if len(result) > 0 {
		j.Result = json.RawMessage(result)
	}
	if userID != nil {
		if u, err := uuid.Parse(*userID); err == nil {
			j.UserID = &u
		}
	}
	return &j, nil
}

func (r *JobsRepo) SetRunning(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, id, domain.StatusRunning,
		`UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1 AND status = ANY($3)`)
}

func (r *JobsRepo) SetCompleted(ctx context.Context, id uuid.UUID, result json.RawMessage) error {
	return r.transition(ctx, id, domain.StatusCompleted,
		`UPDATE jobs SET status = $2, result = $4, error = NULL, updated_at = now() WHERE id = $1 AND status = ANY($3)`,
		[]byte(result))
}

func (r *JobsRepo) SetFailed(ctx context.Context, id uuid.UUID, msg string) error {
	return r.transition(ctx, id, domain.StatusFailed,
		`UPDATE jobs SET status = $2, error = $4, updated_at = now() WHERE id = $1 AND status = ANY($3)`,
		msg)
}

// transition runs a single guarded UPDATE. The status guard keeps writes
// monotonic even if two writers race on the same id.
func (r *JobsRepo) transition(ctx context.Context, id uuid.UUID, to domain.JobStatus, sql string, extra ...any) error {
	args := append([]any{id.String(), string(to), sourceStatuses(to)}, extra...)
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update job %s to %s: %w", id, to, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id.String()).Scan(&exists); err != nil {
		return fmt.Errorf("check job %s: %w", id, err)
	}
	if !exists {
		return ErrJobNotFound
	}
	return fmt.Errorf("%w: to %s", ErrInvalidTransition, to)
}

// sourceStatuses lists every status a job may leave to reach to.
func sourceStatuses(to domain.JobStatus) []string {
	var from []string
	for _, s := range []domain.JobStatus{domain.StatusPending, domain.StatusRunning, domain.StatusCompleted, domain.StatusFailed} {
		if domain.CanTransition(s, to) {
			from = append(from, string(s))
		}
	}
	return from
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
