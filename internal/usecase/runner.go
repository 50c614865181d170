package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/domain"
	"meraki-api/internal/reconcile"

	"github.com/google/uuid"
)

// Runner executes one job end to end: it calls the crew, reconciles the
// output, records the result and then persists the domain side effect.
type Runner struct {
	jobs      JobsRepo
	pipeline  Pipeline
	persister Persister
}

// NewRunner builds a runner. persister may be nil, in which case results are
// only stored on the job row.
func NewRunner(jobs JobsRepo, pipeline Pipeline, persister Persister) *Runner {
	return &Runner{jobs: jobs, pipeline: pipeline, persister: persister}
}

// Run drives job id to a terminal status. It never returns an error; every
// failure ends up on the job row or in the log.
func (r *Runner) Run(ctx context.Context, id uuid.UUID) {
	log := slog.With("job_id", id.String())

	job, err := r.jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrJobNotFound) {
			log.Warn("runner: job not found, skipping")
		} else {
			log.Error("runner: load job", "error", err)
		}
		return
	}
	log = log.With("kind", string(job.Kind))

	if err := r.jobs.SetRunning(ctx, id); err != nil {
		log.Error("runner: mark running", "error", err)
		return
	}
	log.Info("runner: job started")

	req, result, err := r.execute(ctx, log, job)
	if err != nil {
		r.fail(ctx, log, id, err)
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		r.fail(ctx, log, id, fmt.Errorf("encode result: %w", err))
		return
	}
	if err := r.jobs.SetCompleted(ctx, id, body); err != nil {
		r.fail(ctx, log, id, fmt.Errorf("store result: %w", err))
		return
	}
	log.Info("runner: job completed")

	r.persist(ctx, log, job, req, result)
}

func (r *Runner) fail(ctx context.Context, log *slog.Logger, id uuid.UUID, cause error) {
	log.Error("runner: job failed", "error", cause)
	if err := r.jobs.SetFailed(ctx, id, cause.Error()); err != nil {
		log.Error("runner: mark failed", "error", err)
	}
}

// execute covers input translation, the crew call and reconciliation. A
// panic anywhere in it becomes an error.
func (r *Runner) execute(ctx context.Context, log *slog.Logger, job *domain.Job) (req domain.Request, result domain.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("runner: panic", "panic", p, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	req, err = domain.DecodeRequest(job.Kind, job.Input)
	if err != nil {
		return nil, nil, err
	}
	inputs, err := crewInputs(req)
	if err != nil {
		return nil, nil, err
	}

	out, err := r.pipeline.Kickoff(ctx, job.Kind.Crew(), inputs)
	if err != nil {
		return nil, nil, err
	}
	if out == nil {
		return nil, nil, errors.New("agent service returned no output")
	}
	log.Debug("runner: crew finished", "tasks", len(out.Tasks))

	result, err = reconcile.Reconcile(job.Kind, *out)
	if err != nil {
		return nil, nil, err
	}
	if local, ok := result.(*domain.LocalExperiencesResult); ok {
		if lr, ok := req.(*domain.LocalExperiencesRequest); ok {
			local.FillRequestDefaults(lr.HobbyName, lr.Location)
		}
	}
	return req, result, nil
}

// persist writes the domain record for result when the request carries
// enough context. Failures are logged and never touch the job row.
func (r *Runner) persist(ctx context.Context, log *slog.Logger, job *domain.Job, req domain.Request, result domain.Result) {
	if r.persister == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			log.Error("runner: persistence panic", "panic", p, "stack", string(debug.Stack()))
		}
	}()

	var (
		saved bool
		ref   *string
		err   error
	)
	user := job.UserID

	switch res := result.(type) {
	case *domain.DiscoveryResult:
		if user != nil && len(res.Matches) > 0 {
			saved, err = true, r.persister.SaveHobbyMatches(ctx, *user, res.Matches)
		}
	case *domain.SamplingPreviewResult:
		if rq, ok := req.(*domain.SamplingPreviewRequest); ok && user != nil && rq.HobbySlug != "" {
			saved, err = true, r.persister.SaveSamplingResult(ctx, *user, rq.HobbySlug, res)
		}
	case *domain.LocalExperiencesResult:
		if rq, ok := req.(*domain.LocalExperiencesRequest); ok && user != nil && rq.HobbySlug != "" {
			saved, err = true, r.persister.SaveLocalExperienceResult(ctx, *user, rq.HobbySlug, rq.Location, res)
		}
	case *domain.PracticeFeedbackResult:
		if rq, ok := req.(*domain.PracticeFeedbackRequest); ok && rq.SessionID != "" {
			saved, err = true, r.persister.SaveFeedback(ctx, rq.SessionID, res)
		}
	case *domain.ChallengeResult:
		if rq, ok := req.(*domain.ChallengeGenerationRequest); ok && user != nil && rq.HobbySlug != "" && res.Title != "" {
			saved = true
			ref, err = r.persister.SaveChallenge(ctx, *user, rq.HobbySlug, res)
		}
	case *domain.NudgeResult:
		if rq, ok := req.(*domain.MotivationCheckRequest); ok && user != nil && res.Message != "" {
			saved = true
			ref, err = r.persister.SaveNudge(ctx, *user, rq.HobbySlug, res)
		}
	case *domain.RoadmapResult:
		if rq, ok := req.(*domain.RoadmapGenerationRequest); ok && user != nil && rq.HobbySlug != "" && len(res.Phases) > 0 {
			saved = true
			ref, err = r.persister.SaveRoadmap(ctx, *user, rq.HobbySlug, res)
		}
	}

	switch {
	case err != nil:
		log.Error("runner: persist result", "error", err)
	case ref != nil:
		log.Info("runner: result persisted", "record_id", *ref)
	case saved:
		log.Info("runner: result persisted")
	}
}
