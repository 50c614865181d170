package repository

import "errors"

var (
	// ErrJobNotFound is returned when no job row exists for an id.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidTransition is returned when a status update would move a job
	// backwards or out of a terminal state.
	ErrInvalidTransition = errors.New("invalid job status transition")
)
