package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/domain"
	"meraki-api/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type runnerFixture struct {
	jobs      *repo.MemoryJobsRepo
	pipeline  *mocks.MockPipeline
	persister *mocks.MockPersister
	runner    *Runner
}

func newRunnerFixture(t *testing.T) *runnerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &runnerFixture{
		jobs:      repo.NewMemoryJobsRepo(),
		pipeline:  mocks.NewMockPipeline(ctrl),
		persister: mocks.NewMockPersister(ctrl),
	}
	f.runner = NewRunner(f.jobs, f.pipeline, f.persister)
	return f
}

func (f *runnerFixture) create(t *testing.T, req domain.Request) uuid.UUID {
	t.Helper()
	require.NoError(t, req.Validate())
	owner, err := domain.OwnerID(req)
	require.NoError(t, err)
	input, err := domain.RequestInput(req)
	require.NoError(t, err)
	id, err := f.jobs.Create(context.Background(), req.Kind(), input, owner)
	require.NoError(t, err)
	return id
}

func (f *runnerFixture) job(t *testing.T, id uuid.UUID) *domain.Job {
	t.Helper()
	j, err := f.jobs.Get(context.Background(), id)
	require.NoError(t, err)
	return j
}

func TestRunnerDiscoveryCompletesAndPersists(t *testing.T) {
	f := newRunnerFixture(t)
	user := uuid.New()
	id := f.create(t, &domain.DiscoveryRequest{UserID: user.String(), Q1: "30 minutes", Q22: "time"})

	f.pipeline.EXPECT().
		Kickoff(gomock.Any(), "discovery_crew", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, inputs map[string]any) (*domain.CrewOutput, error) {
			assert.Equal(t, "30 minutes", inputs["q1_time_available"])
			assert.Equal(t, "time", inputs["q22_barriers"])
			assert.Len(t, inputs, 22)
			return &domain.CrewOutput{Raw: `Final Answer: {"matches":[{"hobby_slug":"pottery","match_percentage":90}],"encouragement":"go"}`}, nil
		})
	f.persister.EXPECT().
		SaveHobbyMatches(gomock.Any(), user, gomock.Len(1)).
		Return(nil)

	f.runner.Run(context.Background(), id)

	j := f.job(t, id)
	assert.Equal(t, domain.StatusCompleted, j.Status)
	assert.Nil(t, j.Error)
	assert.JSONEq(t, `{"matches":[{"hobby_slug":"pottery","match_percentage":90,"match_tags":[],"reasoning":""}],"encouragement":"go"}`, string(j.Result))
}

func TestRunnerDiscoveryWithoutMatchesSkipsPersistence(t *testing.T) {
	f := newRunnerFixture(t)
	id := f.create(t, &domain.DiscoveryRequest{UserID: uuid.NewString()})

	f.pipeline.EXPECT().Kickoff(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.CrewOutput{Raw: "I could not decide."}, nil)

	f.runner.Run(context.Background(), id)

	j := f.job(t, id)
	assert.Equal(t, domain.StatusCompleted, j.Status)
	assert.JSONEq(t, `{"matches":[],"encouragement":"","raw_output":"I could not decide."}`, string(j.Result))
}

func TestRunnerPipelineErrorFailsJob(t *testing.T) {
	f := newRunnerFixture(t)
	id := f.create(t, &domain.MotivationCheckRequest{UserID: uuid.NewString(), HobbyName: "Chess"})

	f.pipeline.EXPECT().Kickoff(gomock.Any(), "motivation_crew", gomock.Any()).
		Return(nil, errors.New("agent service returned 500"))

	f.runner.Run(context.Background(), id)

	j := f.job(t, id)
	assert.Equal(t, domain.StatusFailed, j.Status)
	require.NotNil(t, j.Error)
	assert.Contains(t, *j.Error, "agent service returned 500")
	assert.Nil(t, j.Result)
}

func TestRunnerRecoversFromPanic(t *testing.T) {
	f := newRunnerFixture(t)
	id := f.create(t, &domain.SamplingPreviewRequest{HobbyName: "Pottery"})

	f.pipeline.EXPECT().Kickoff(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, map[string]any) (*domain.CrewOutput, error) {
			panic("boom")
		})

	f.runner.Run(context.Background(), id)

	j := f.job(t, id)
	assert.Equal(t, domain.StatusFailed, j.Status)
	require.NotNil(t, j.Error)
	assert.Equal(t, "panic: boom", *j.Error)
}

func TestRunnerMissingJobIsSilent(t *testing.T) {
	f := newRunnerFixture(t)
	f.runner.Run(context.Background(), uuid.New())
}

func TestRunnerSkipsJobThatAlreadyFinished(t *testing.T) {
	f := newRunnerFixture(t)
	id := f.create(t, &domain.SamplingPreviewRequest{HobbyName: "Pottery"})
	require.NoError(t, f.jobs.SetFailed(context.Background(), id, "job queue is full"))

	f.runner.Run(context.Background(), id)

	j := f.job(t, id)
	assert.Equal(t, domain.StatusFailed, j.Status)
	assert.Equal(t, "job queue is full", *j.Error)
}

func TestRunnerPracticeFeedbackInputsAndPersistence(t *testing.T) {
	f := newRunnerFixture(t)
	id := f.create(t, &domain.PracticeFeedbackRequest{SessionID: "sess-1", HobbyName: "Watercolor", Duration: 25, Mood: "calm"})

	f.pipeline.EXPECT().
		Kickoff(gomock.Any(), "practice_feedback_crew", map[string]any{
			"hobby_name":           "Watercolor",
			"session_type":         "practice",
			"duration":             "25",
			"mood":                 "calm",
			"notes":                "",
			"image_url":            "",
			"recent_sessions":      "None",
			"completed_challenges": "None",
		}).
		Return(&domain.CrewOutput{Raw: `{"observations":["loose washes"],"growth":[],"suggestions":["try salt"],"celebration":"Nice!"}`}, nil)
	f.persister.EXPECT().
		SaveFeedback(gomock.Any(), "sess-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, res *domain.PracticeFeedbackResult) error {
			assert.Equal(t, "Nice!", res.Celebration)
			return nil
		})

	f.runner.Run(context.Background(), id)
	assert.Equal(t, domain.StatusCompleted, f.job(t, id).Status)
}

func TestRunnerLocalExperiencesFillsDefaults(t *testing.T) {
	f := newRunnerFixture(t)
	user := uuid.New()
	id := f.create(t, &domain.LocalExperiencesRequest{HobbyName: "Pottery", Location: "Lisbon", HobbySlug: "pottery", UserID: user.String()})

	f.pipeline.EXPECT().Kickoff(gomock.Any(), "local_experiences_crew", gomock.Any()).
		Return(&domain.CrewOutput{Raw: `{"local_spots":[{"name":"Barro Studio","url":"https://www.barro.pt/classes"}]}`}, nil)
	f.persister.EXPECT().
		SaveLocalExperienceResult(gomock.Any(), user, "pottery", "Lisbon", gomock.Any()).
		Return(nil)

	f.runner.Run(context.Background(), id)

	var res domain.LocalExperiencesResult
	require.NoError(t, json.Unmarshal(f.job(t, id).Result, &res))
	assert.Equal(t, "Lisbon", res.SearchLocation)
	assert.Equal(t, "Pottery", res.Hobby)
	require.Len(t, res.LocalSpots, 1)
	assert.Equal(t, "barro.pt", res.LocalSpots[0].URLLabel)
}

func TestRunnerPersistenceFailureKeepsJobCompleted(t *testing.T) {
	f := newRunnerFixture(t)
	id := f.create(t, &domain.RoadmapGenerationRequest{UserID: uuid.NewString(), HobbyName: "Chess", HobbySlug: "chess"})

	f.pipeline.EXPECT().Kickoff(gomock.Any(), "roadmap_crew", gomock.Any()).
		Return(&domain.CrewOutput{Raw: `{"title":"Chess","phases":[{"title":"Rules"}]}`}, nil)
	f.persister.EXPECT().SaveRoadmap(gomock.Any(), gomock.Any(), "chess", gomock.Any()).
		Return(nil, errors.New("connection reset"))

	f.runner.Run(context.Background(), id)

	j := f.job(t, id)
	assert.Equal(t, domain.StatusCompleted, j.Status)
	assert.Nil(t, j.Error)
}

func TestRunnerChallengeWithoutSlugSkipsPersistence(t *testing.T) {
	f := newRunnerFixture(t)
	id := f.create(t, &domain.ChallengeGenerationRequest{UserID: uuid.NewString(), HobbyName: "Chess"})

	f.pipeline.EXPECT().Kickoff(gomock.Any(), "challenge_generation_crew", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, inputs map[string]any) (*domain.CrewOutput, error) {
			assert.Equal(t, "0", inputs["session_count"])
			assert.Equal(t, "None", inputs["skipped_challenges"])
			return &domain.CrewOutput{Raw: `{"title":"Blitz ten games"}`}, nil
		})

	f.runner.Run(context.Background(), id)

	var res domain.ChallengeResult
	require.NoError(t, json.Unmarshal(f.job(t, id).Result, &res))
	assert.Equal(t, "Blitz ten games", res.Title)
	assert.Equal(t, "easy", res.Difficulty)
}

func TestRunnerNudgePersistsWithOptionalSlug(t *testing.T) {
	f := newRunnerFixture(t)
	user := uuid.New()
	id := f.create(t, &domain.MotivationCheckRequest{UserID: user.String(), HobbyName: "Chess", ChallengeSkipRate: 0.25})

	f.pipeline.EXPECT().Kickoff(gomock.Any(), "motivation_crew", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, inputs map[string]any) (*domain.CrewOutput, error) {
			assert.Equal(t, "0.25", inputs["challenge_skip_rate"])
			return &domain.CrewOutput{Raw: `{"nudge_type":"streak","message":"One game tonight?","urgency":"loud"}`}, nil
		})
	ref := "nudge-1"
	f.persister.EXPECT().
		SaveNudge(gomock.Any(), user, "", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, _ string, res *domain.NudgeResult) (*string, error) {
			assert.Equal(t, domain.UrgencyGentle, res.Urgency)
			return &ref, nil
		})

	f.runner.Run(context.Background(), id)
	assert.Equal(t, domain.StatusCompleted, f.job(t, id).Status)
}

func TestRunnerWithoutPersister(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := repo.NewMemoryJobsRepo()
	pipeline := mocks.NewMockPipeline(ctrl)
	runner := NewRunner(jobs, pipeline, nil)

	id, err := jobs.Create(context.Background(), domain.KindDiscovery, map[string]any{"user_id": uuid.NewString()}, nil)
	require.NoError(t, err)
	pipeline.EXPECT().Kickoff(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.CrewOutput{Raw: `[{"hobby_slug":"chess"}]`}, nil)

	runner.Run(context.Background(), id)

	j, err := jobs.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, j.Status)
}
