package usecase

import (
	"testing"

	"meraki-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrewInputsDiscoveryNamesEveryAnswer(t *testing.T) {
	req := &domain.DiscoveryRequest{Q1: "a", Q10: "b", Q21: "c"}
	in, err := crewInputs(req)
	require.NoError(t, err)

	assert.Len(t, in, 22)
	assert.Equal(t, "a", in["q1_time_available"])
	assert.Equal(t, "b", in["q10_social_preference"])
	assert.Equal(t, "c", in["q21_dream_hobby"])
	assert.Equal(t, "", in["q5_structure_preference"])
}

func TestCrewInputsRoadmapDefaults(t *testing.T) {
	in, err := crewInputs(&domain.RoadmapGenerationRequest{HobbyName: "Chess", SessionCount: 12, UserGoals: "tournament"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"hobby_name":           "Chess",
		"session_count":        "12",
		"avg_duration":         "0",
		"days_active":          "0",
		"completed_challenges": "None",
		"user_goals":           "tournament",
	}, in)
}

func TestCrewInputsSamplingAndLocal(t *testing.T) {
	in, err := crewInputs(&domain.SamplingPreviewRequest{HobbyName: "Pottery", QuizAnswers: "likes mess", HobbySlug: "pottery"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"hobby_name": "Pottery", "quiz_answers": "likes mess"}, in)

	in, err = crewInputs(&domain.LocalExperiencesRequest{HobbyName: "Pottery", Location: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"hobby_name": "Pottery", "location": "Lisbon"}, in)
}
