package domain

import "encoding/json"

// Result is the reconciled output of a crew. It is closed over the seven
// shapes below; switch on the concrete type to handle each one.
type Result interface {
	Kind() Kind
	normalize()
}

// Normalize fills defaults so empty results serialize with stable shapes
// (empty lists instead of null, default enum values).
func Normalize(r Result) Result {
	if r != nil {
		r.normalize()
	}
	return r
}

// HobbyMatch is one ranked hobby recommendation from discovery.
type HobbyMatch struct {
	HobbySlug       string   `json:"hobby_slug"`
	MatchPercentage float64  `json:"match_percentage"`
	MatchTags       []string `json:"match_tags"`
	Reasoning       string   `json:"reasoning"`
}

// DiscoveryResult is the output of the discovery crew.
type DiscoveryResult struct {
	Matches       []HobbyMatch `json:"matches"`
	Encouragement string       `json:"encouragement"`
	// RawOutput carries the crew text when nothing in it parsed.
	RawOutput string `json:"raw_output,omitempty"`
}

func (*DiscoveryResult) Kind() Kind { return KindDiscovery }

func (r *DiscoveryResult) normalize() {
	if r.Matches == nil {
		r.Matches = []HobbyMatch{}
	}
	for i := range r.Matches {
		if r.Matches[i].MatchTags == nil {
			r.Matches[i].MatchTags = []string{}
		}
	}
}

// SamplingRecommendation suggests how a beginner should first try a hobby.
type SamplingRecommendation struct {
	// PrimaryPath is one of watch, micro or local.
	PrimaryPath   string `json:"primary_path"`
	Reason        string `json:"reason"`
	WhatToExpect  string `json:"what_to_expect"`
	SecondaryPath string `json:"secondary_path"`
	Encouragement string `json:"encouragement"`
}

type MicroActivity struct {
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
	Duration    string `json:"duration"`
	WhyItWorks  string `json:"why_it_works"`
}

type VideoItem struct {
	Title          string `json:"title"`
	Channel        string `json:"channel"`
	URL            string `json:"url"`
	Thumbnail      string `json:"thumbnail"`
	Duration       string `json:"duration"`
	WhyGood        string `json:"why_good"`
	WhatToWatchFor string `json:"what_to_watch_for"`
}

// SamplingPreviewResult is assembled from three crew steps. A step that
// produced nothing usable leaves its slot null.
type SamplingPreviewResult struct {
	Recommendation *SamplingRecommendation `json:"recommendation"`
	MicroActivity  *MicroActivity          `json:"micro_activity"`
	Videos         []VideoItem             `json:"videos"`
}

func (*SamplingPreviewResult) Kind() Kind { return KindSamplingPreview }

func (*SamplingPreviewResult) normalize() {}

type LocalSpot struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Address      string   `json:"address"`
	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviews_count"`
	Price        string   `json:"price"`
	URL          string   `json:"url"`

	// URLLabel is the registrable domain of URL, for display.
	URLLabel         string `json:"url_label,omitempty"`
	BeginnerFriendly *bool  `json:"beginner_friendly,omitempty"`
	SingleSession    *bool  `json:"single_session,omitempty"`
	Source           string `json:"source"`
}

type GeneralTips struct {
	WhatToWear          string `json:"what_to_wear,omitempty"`
	WhatToBring         string `json:"what_to_bring,omitempty"`
	WhatToExpect        string `json:"what_to_expect,omitempty"`
	HowToNotFeelAwkward string `json:"how_to_not_feel_awkward,omitempty"`
}

type LocalExperiencesResult struct {
	LocalSpots     []LocalSpot `json:"local_spots"`
	GeneralTips    GeneralTips `json:"general_tips"`
	SearchLocation string      `json:"search_location,omitempty"`
	Hobby          string      `json:"hobby,omitempty"`
}

func (*LocalExperiencesResult) Kind() Kind { return KindLocalExperiences }

func (r *LocalExperiencesResult) normalize() {
	if r.LocalSpots == nil {
		r.LocalSpots = []LocalSpot{}
	}
	yes := true
	for i := range r.LocalSpots {
		s := &r.LocalSpots[i]
		if s.BeginnerFriendly == nil {
			s.BeginnerFriendly = &yes
		}
		if s.SingleSession == nil {
			s.SingleSession = &yes
		}
		if s.Source == "" {
			s.Source = "web_search"
		}
	}
}

// FillRequestDefaults copies the requested hobby and location into the
// result when the crew left them blank.
func (r *LocalExperiencesResult) FillRequestDefaults(hobby, location string) {
	if r.Hobby == "" {
		r.Hobby = hobby
	}
	if r.SearchLocation == "" {
		r.SearchLocation = location
	}
}

// PracticeFeedbackResult is coaching feedback on one practice session.
type PracticeFeedbackResult struct {
	Observations []string `json:"observations"`
	Growth       []string `json:"growth"`
	Suggestions  []string `json:"suggestions"`
	Celebration  string   `json:"celebration"`
}

func (*PracticeFeedbackResult) Kind() Kind { return KindPracticeFeedback }

func (r *PracticeFeedbackResult) normalize() {
	r.Observations = nonNil(r.Observations)
	r.Growth = nonNil(r.Growth)
	r.Suggestions = nonNil(r.Suggestions)
}

// ChallengeResult is a generated practice challenge.
type ChallengeResult struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	WhyThisChallenge string   `json:"why_this_challenge"`
	Skills           []string `json:"skills"`
	Difficulty       string   `json:"difficulty"`
	EstimatedTime    string   `json:"estimated_time"`
	Tips             []string `json:"tips"`
	WhatYoullLearn   []string `json:"what_youll_learn"`
}

func (*ChallengeResult) Kind() Kind { return KindChallengeGeneration }

func (r *ChallengeResult) normalize() {
	r.Skills = nonNil(r.Skills)
	r.Tips = nonNil(r.Tips)
	r.WhatYoullLearn = nonNil(r.WhatYoullLearn)
	if r.Difficulty == "" {
		r.Difficulty = "easy"
	}
}

const (
	UrgencyGentle   = "gentle"
	UrgencyCheckIn  = "check_in"
	UrgencyReEngage = "re_engage"
)

// NudgeResult is a motivation nudge for a user drifting away from a hobby.
type NudgeResult struct {
	NudgeType       string `json:"nudge_type"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggested_action"`

	// ActionData is free-form; crews send either a string or an object.
	ActionData json.RawMessage `json:"action_data,omitempty"`

	// Urgency is one of gentle, check_in, re_engage.
	Urgency string `json:"urgency"`
}

func (*NudgeResult) Kind() Kind { return KindMotivationCheck }

func (r *NudgeResult) normalize() {
	switch r.Urgency {
	case UrgencyGentle, UrgencyCheckIn, UrgencyReEngage:
	default:
		r.Urgency = UrgencyGentle
	}
}

type RoadmapPhase struct {
	PhaseNumber         int      `json:"phase_number"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Goals               []string `json:"goals"`
	SuggestedActivities []string `json:"suggested_activities"`
	TimePerWeek         string   `json:"time_per_week"`
}

// RoadmapResult is an ordered learning plan for a hobby.
type RoadmapResult struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Phases      []RoadmapPhase `json:"phases"`
}

func (*RoadmapResult) Kind() Kind { return KindRoadmapGeneration }

func (r *RoadmapResult) normalize() {
	if r.Phases == nil {
		r.Phases = []RoadmapPhase{}
	}
	for i := range r.Phases {
		p := &r.Phases[i]
		if p.PhaseNumber == 0 {
			p.PhaseNumber = i + 1
		}
		p.Goals = nonNil(p.Goals)
		p.SuggestedActivities = nonNil(p.SuggestedActivities)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
