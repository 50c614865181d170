package domain

import "fmt"

// Kind selects which crew a job runs and which result shape it produces.
type Kind string

const (
	KindDiscovery           Kind = "discovery"
	KindSamplingPreview     Kind = "sampling_preview"
	KindLocalExperiences    Kind = "local_experiences"
	KindPracticeFeedback    Kind = "practice_feedback"
	KindChallengeGeneration Kind = "challenge_generation"
	KindMotivationCheck     Kind = "motivation_check"
	KindRoadmapGeneration   Kind = "roadmap_generation"
)

// Kinds lists every job kind in route registration order.
var Kinds = []Kind{
	KindDiscovery,
	KindSamplingPreview,
	KindLocalExperiences,
	KindPracticeFeedback,
	KindChallengeGeneration,
	KindMotivationCheck,
	KindRoadmapGeneration,
}

type kindInfo struct {
	path string
	crew string
}

var kinds = map[Kind]kindInfo{
	KindDiscovery:           {path: "/discovery", crew: "discovery_crew"},
	KindSamplingPreview:     {path: "/sampling/preview", crew: "sampling_preview_crew"},
	KindLocalExperiences:    {path: "/sampling/local", crew: "local_experiences_crew"},
	KindPracticeFeedback:    {path: "/practice/feedback", crew: "practice_feedback_crew"},
	KindChallengeGeneration: {path: "/challenges/generate", crew: "challenge_generation_crew"},
	KindMotivationCheck:     {path: "/motivation/check", crew: "motivation_crew"},
	KindRoadmapGeneration:   {path: "/roadmap/generate", crew: "roadmap_crew"},
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Path is the HTTP route prefix for the kind.
func (k Kind) Path() string { return kinds[k].path }

// Crew is the name of the crew the agent service runs for the kind.
func (k Kind) Crew() string { return kinds[k].crew }

// ParseKind converts a stored job_type back into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown job kind %q", s)
	}
	return k, nil
}
