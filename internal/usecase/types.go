package usecase

import (
	"context"
	"encoding/json"

	"meraki-api/internal/domain"

	"github.com/google/uuid"
)

// JobsRepo is the job store the runner and the HTTP layer share.
type JobsRepo interface {
	Create(ctx context.Context, kind domain.Kind, input map[string]any, owner *uuid.UUID) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	SetRunning(ctx context.Context, id uuid.UUID) error
	SetCompleted(ctx context.Context, id uuid.UUID, result json.RawMessage) error
	SetFailed(ctx context.Context, id uuid.UUID, msg string) error
}

// Pipeline runs a named crew on the agent service.
type Pipeline interface {
	Kickoff(ctx context.Context, crew string, inputs map[string]any) (*domain.CrewOutput, error)
}

// Persister writes reconciled results into the product tables.
type Persister interface {
	SaveHobbyMatches(ctx context.Context, user uuid.UUID, matches []domain.HobbyMatch) error
	SaveSamplingResult(ctx context.Context, user uuid.UUID, slug string, res *domain.SamplingPreviewResult) error
	SaveLocalExperienceResult(ctx context.Context, user uuid.UUID, slug, location string, res *domain.LocalExperiencesResult) error
	SaveFeedback(ctx context.Context, session string, res *domain.PracticeFeedbackResult) error
	SaveChallenge(ctx context.Context, user uuid.UUID, slug string, res *domain.ChallengeResult) (*string, error)
	SaveNudge(ctx context.Context, user uuid.UUID, slug string, res *domain.NudgeResult) (*string, error)
	SaveRoadmap(ctx context.Context, user uuid.UUID, slug string, res *domain.RoadmapResult) (*string, error)
}

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}
