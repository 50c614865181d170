package domain

import "encoding/json"

// OutputType tags a structured task output with the shape it carries.
type OutputType string

const (
	OutputMatches          OutputType = "matches"
	OutputRecommendation   OutputType = "recommendation"
	OutputMicroActivity    OutputType = "micro_activity"
	OutputVideos           OutputType = "videos"
	OutputLocalExperiences OutputType = "local_experiences"
	OutputPracticeFeedback OutputType = "practice_feedback"
	OutputChallenge        OutputType = "challenge"
	OutputNudge            OutputType = "nudge"
	OutputRoadmap          OutputType = "roadmap"
)

// OutputTypes lists every tag that has a schema.
var OutputTypes = []OutputType{
	OutputMatches,
	OutputRecommendation,
	OutputMicroActivity,
	OutputVideos,
	OutputLocalExperiences,
	OutputPracticeFeedback,
	OutputChallenge,
	OutputNudge,
	OutputRoadmap,
}

// CrewOutput is what the agent service returns for one kickoff.
type CrewOutput struct {
	// Raw is the final free-text output of the crew.
	Raw   string       `json:"raw"`
	Tasks []TaskOutput `json:"tasks_output"`
}

// TaskOutput is the output of a single step in a crew.
type TaskOutput struct {
	Name string `json:"name,omitempty"`
	// OutputType is empty when the step did not enforce a schema.
	OutputType OutputType      `json:"output_type,omitempty"`
	Structured json.RawMessage `json:"structured,omitempty"`
	Raw        string          `json:"raw"`
}

// HasStructured reports whether the step produced a tagged payload.
func (t TaskOutput) HasStructured() bool {
	return t.OutputType != "" && len(t.Structured) > 0 && string(t.Structured) != "null"
}
