package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidRequest wraps every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// Request is the body of a job-start call for one kind.
type Request interface {
	Kind() Kind
	Validate() error
	// Owner is the raw user_id, possibly empty.
	Owner() string
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
	}
	return nil
}

func optionalUUID(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("%w: %s must be a uuid", ErrInvalidRequest, field)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// DiscoveryRequest carries the 22 quiz answers.
type DiscoveryRequest struct {
	UserID string `json:"user_id"`
	Q1     string `json:"q1"`
	Q2     string `json:"q2"`
	Q3     string `json:"q3"`
	Q4     string `json:"q4"`
	Q5     string `json:"q5"`
	Q6     string `json:"q6"`
	Q7     string `json:"q7"`
	Q8     string `json:"q8"`
	Q9     string `json:"q9"`
	Q10    string `json:"q10"`
	Q11    string `json:"q11"`
	Q12    string `json:"q12"`
	Q13    string `json:"q13"`
	Q14    string `json:"q14"`
	Q15    string `json:"q15"`
	Q16    string `json:"q16"`
	Q17    string `json:"q17"`
	Q18    string `json:"q18"`
	Q19    string `json:"q19"`
	Q20    string `json:"q20"`
	Q21    string `json:"q21"`
	Q22    string `json:"q22"`
}

func (*DiscoveryRequest) Kind() Kind       { return KindDiscovery }
func (r *DiscoveryRequest) Owner() string { return r.UserID }

func (r *DiscoveryRequest) Validate() error {
	return firstErr(required("user_id", r.UserID), optionalUUID("user_id", r.UserID))
}

// Answers returns q1..q22 in order.
func (r *DiscoveryRequest) Answers() [22]string {
	return [22]string{
		r.Q1, r.Q2, r.Q3, r.Q4, r.Q5, r.Q6, r.Q7, r.Q8, r.Q9, r.Q10, r.Q11,
		r.Q12, r.Q13, r.Q14, r.Q15, r.Q16, r.Q17, r.Q18, r.Q19, r.Q20, r.Q21, r.Q22,
	}
}

type SamplingPreviewRequest struct {
	HobbyName string `json:"hobby_name"`
	// QuizAnswers is a preformatted summary of the relevant answers.
	QuizAnswers string `json:"quiz_answers"`
	HobbySlug   string `json:"hobby_slug"`
	UserID      string `json:"user_id"`
}

func (*SamplingPreviewRequest) Kind() Kind       { return KindSamplingPreview }
func (r *SamplingPreviewRequest) Owner() string { return r.UserID }

func (r *SamplingPreviewRequest) Validate() error {
	return firstErr(required("hobby_name", r.HobbyName), optionalUUID("user_id", r.UserID))
}

type LocalExperiencesRequest struct {
	HobbyName string `json:"hobby_name"`
	Location  string `json:"location"`
	HobbySlug string `json:"hobby_slug"`
	UserID    string `json:"user_id"`
}

func (*LocalExperiencesRequest) Kind() Kind       { return KindLocalExperiences }
func (r *LocalExperiencesRequest) Owner() string { return r.UserID }

func (r *LocalExperiencesRequest) Validate() error {
	return firstErr(
		required("hobby_name", r.HobbyName),
		required("location", r.Location),
		optionalUUID("user_id", r.UserID),
	)
}

type PracticeFeedbackRequest struct {
	SessionID           string `json:"session_id"`
	UserID              string `json:"user_id"`
	HobbyName           string `json:"hobby_name"`
	SessionType         string `json:"session_type"`
	Duration            int    `json:"duration"`
	Mood                string `json:"mood"`
	Notes               string `json:"notes"`
	ImageURL            string `json:"image_url"`
	RecentSessions      string `json:"recent_sessions"`
	CompletedChallenges string `json:"completed_challenges"`
}

func (*PracticeFeedbackRequest) Kind() Kind       { return KindPracticeFeedback }
func (r *PracticeFeedbackRequest) Owner() string { return r.UserID }

func (r *PracticeFeedbackRequest) Validate() error {
	if r.SessionType == "" {
		r.SessionType = "practice"
	}
	return firstErr(
		required("session_id", r.SessionID),
		required("hobby_name", r.HobbyName),
		optionalUUID("user_id", r.UserID),
	)
}

type ChallengeGenerationRequest struct {
	UserID              string `json:"user_id"`
	HobbyName           string `json:"hobby_name"`
	HobbySlug           string `json:"hobby_slug"`
	SessionCount        int    `json:"session_count"`
	AvgDuration         int    `json:"avg_duration"`
	MoodDistribution    string `json:"mood_distribution"`
	DaysActive          int    `json:"days_active"`
	CompletedChallenges string `json:"completed_challenges"`
	SkippedChallenges   string `json:"skipped_challenges"`
	RecentFeedback      string `json:"recent_feedback"`
	LastMoodTrend       string `json:"last_mood_trend"`
}

func (*ChallengeGenerationRequest) Kind() Kind       { return KindChallengeGeneration }
func (r *ChallengeGenerationRequest) Owner() string { return r.UserID }

func (r *ChallengeGenerationRequest) Validate() error {
	return firstErr(
		required("user_id", r.UserID),
		required("hobby_name", r.HobbyName),
		optionalUUID("user_id", r.UserID),
	)
}

type MotivationCheckRequest struct {
	UserID                string  `json:"user_id"`
	HobbyName             string  `json:"hobby_name"`
	HobbySlug             string  `json:"hobby_slug"`
	DaysSinceLastSession  int     `json:"days_since_last_session"`
	RecentMoods           string  `json:"recent_moods"`
	ChallengeSkipRate     float64 `json:"challenge_skip_rate"`
	CurrentStreak         int     `json:"current_streak"`
	LongestStreak         int     `json:"longest_streak"`
	SessionFrequencyTrend string  `json:"session_frequency_trend"`
}

func (*MotivationCheckRequest) Kind() Kind       { return KindMotivationCheck }
func (r *MotivationCheckRequest) Owner() string { return r.UserID }

func (r *MotivationCheckRequest) Validate() error {
	return firstErr(
		required("user_id", r.UserID),
		required("hobby_name", r.HobbyName),
		optionalUUID("user_id", r.UserID),
	)
}

type RoadmapGenerationRequest struct {
	UserID              string `json:"user_id"`
	HobbyName           string `json:"hobby_name"`
	HobbySlug           string `json:"hobby_slug"`
	SessionCount        int    `json:"session_count"`
	AvgDuration         int    `json:"avg_duration"`
	DaysActive          int    `json:"days_active"`
	CompletedChallenges string `json:"completed_challenges"`
	UserGoals           string `json:"user_goals"`
}

func (*RoadmapGenerationRequest) Kind() Kind       { return KindRoadmapGeneration }
func (r *RoadmapGenerationRequest) Owner() string { return r.UserID }

func (r *RoadmapGenerationRequest) Validate() error {
	return firstErr(
		required("user_id", r.UserID),
		required("hobby_name", r.HobbyName),
		optionalUUID("user_id", r.UserID),
	)
}

// NewRequest returns an empty request for kind, ready to be decoded into.
func NewRequest(kind Kind) (Request, error) {
	switch kind {
	case KindDiscovery:
		return &DiscoveryRequest{}, nil
	case KindSamplingPreview:
		return &SamplingPreviewRequest{}, nil
	case KindLocalExperiences:
		return &LocalExperiencesRequest{}, nil
	case KindPracticeFeedback:
		return &PracticeFeedbackRequest{}, nil
	case KindChallengeGeneration:
		return &ChallengeGenerationRequest{}, nil
	case KindMotivationCheck:
		return &MotivationCheckRequest{}, nil
	case KindRoadmapGeneration:
		return &RoadmapGenerationRequest{}, nil
	}
	return nil, fmt.Errorf("unknown job kind %q", kind)
}

// DecodeRequest rebuilds the typed request from a stored input payload.
func DecodeRequest(kind Kind, input map[string]any) (Request, error) {
	req, err := NewRequest(kind)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode input: %w", err)
	}
	if err := json.Unmarshal(b, req); err != nil {
		return nil, fmt.Errorf("decode %s input: %w", kind, err)
	}
	return req, nil
}

// RequestInput flattens a request into the payload stored on the job row.
func RequestInput(req Request) (map[string]any, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerID parses the request's user_id. It returns nil for anonymous requests.
func OwnerID(req Request) (*uuid.UUID, error) {
	raw := req.Owner()
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: user_id must be a uuid", ErrInvalidRequest)
	}
	return &id, nil
}
