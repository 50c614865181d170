package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsEmptyShapes(t *testing.T) {
	b, err := json.Marshal(Normalize(&DiscoveryResult{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"matches":[],"encouragement":""}`, string(b))

	b, err = json.Marshal(Normalize(&LocalExperiencesResult{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"local_spots":[],"general_tips":{}}`, string(b))

	b, err = json.Marshal(Normalize(&SamplingPreviewResult{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"recommendation":null,"micro_activity":null,"videos":null}`, string(b))
}

func TestNormalizeDefaults(t *testing.T) {
	c := Normalize(&ChallengeResult{Title: "Pinch pot"}).(*ChallengeResult)
	assert.Equal(t, "easy", c.Difficulty)
	assert.Equal(t, []string{}, c.Tips)

	n := Normalize(&NudgeResult{Message: "hi", Urgency: "panic"}).(*NudgeResult)
	assert.Equal(t, UrgencyGentle, n.Urgency)
	n = Normalize(&NudgeResult{Urgency: UrgencyReEngage}).(*NudgeResult)
	assert.Equal(t, UrgencyReEngage, n.Urgency)

	r := Normalize(&RoadmapResult{Phases: []RoadmapPhase{{Title: "Basics"}, {Title: "Glazing"}}}).(*RoadmapResult)
	assert.Equal(t, 1, r.Phases[0].PhaseNumber)
	assert.Equal(t, 2, r.Phases[1].PhaseNumber)
	assert.Equal(t, []string{}, r.Phases[1].Goals)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	r := &LocalExperiencesResult{LocalSpots: []LocalSpot{{Name: "Clay Co", Type: "Studio"}}}
	once, err := json.Marshal(Normalize(r))
	require.NoError(t, err)
	twice, err := json.Marshal(Normalize(r))
	require.NoError(t, err)
	assert.JSONEq(t, string(once), string(twice))
	assert.Equal(t, "web_search", r.LocalSpots[0].Source)
}

func TestFillRequestDefaults(t *testing.T) {
	r := &LocalExperiencesResult{Hobby: "Ceramics"}
	r.FillRequestDefaults("Pottery", "Lyon, France")
	assert.Equal(t, "Ceramics", r.Hobby)
	assert.Equal(t, "Lyon, France", r.SearchLocation)
}
