package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is absorbing.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether a job may move from one status to another.
// Jobs only move forward: pending -> running -> completed|failed. A job that
// never started may also fail directly, which happens when it cannot be
// dispatched.
func CanTransition(from, to JobStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusRunning || to == StatusFailed
	case StatusRunning:
		return to == StatusCompleted || to == StatusFailed
	}
	return false
}

// Job is one asynchronous crew invocation.
type Job struct {
	ID     uuid.UUID      `json:"id"`
	Kind   Kind           `json:"kind"`
	Input  map[string]any `json:"input"`
	Status JobStatus      `json:"status"`
	// Result is set only once the job completed.
	Result json.RawMessage `json:"result,omitempty"`
	// Error is set only once the job failed.
	Error     *string    `json:"error,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
