package usecase

import (
	"fmt"
	"strconv"

	"meraki-api/internal/domain"
)

// discoveryInputNames are the crew placeholders for quiz answers q1..q22.
var discoveryInputNames = [22]string{
	"q1_time_available",
	"q2_practice_timing",
	"q3_session_preference",
	"q4_creative_type",
	"q5_structure_preference",
	"q6_mess_tolerance",
	"q7_learning_method",
	"q8_mistake_attitude",
	"q9_practice_location",
	"q10_social_preference",
	"q11_initial_budget",
	"q12_ongoing_costs",
	"q13_try_before_commit",
	"q14_motivations",
	"q15_resonates",
	"q16_learning_curve",
	"q17_sensory_experience",
	"q18_senses_to_engage",
	"q19_physical_constraints",
	"q20_seasonal_preference",
	"q21_dream_hobby",
	"q22_barriers",
}

// noneIfEmpty is what the crews expect for an absent history field.
func noneIfEmpty(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func itoa(n int) string { return strconv.Itoa(n) }

// crewInputs translates a request into the placeholder map its crew's task
// templates reference. Numbers are passed as strings.
func crewInputs(req domain.Request) (map[string]any, error) {
	switch r := req.(type) {
	case *domain.DiscoveryRequest:
		answers := r.Answers()
		in := make(map[string]any, len(answers))
		for i, name := range discoveryInputNames {
			in[name] = answers[i]
		}
		return in, nil

	case *domain.SamplingPreviewRequest:
		return map[string]any{
			"hobby_name":   r.HobbyName,
			"quiz_answers": r.QuizAnswers,
		}, nil

	case *domain.LocalExperiencesRequest:
		return map[string]any{
			"hobby_name": r.HobbyName,
			"location":   r.Location,
		}, nil

	case *domain.PracticeFeedbackRequest:
		sessionType := r.SessionType
		if sessionType == "" {
			sessionType = "practice"
		}
		return map[string]any{
			"hobby_name":           r.HobbyName,
			"session_type":         sessionType,
			"duration":             itoa(r.Duration),
			"mood":                 r.Mood,
			"notes":                r.Notes,
			"image_url":            r.ImageURL,
			"recent_sessions":      noneIfEmpty(r.RecentSessions),
			"completed_challenges": noneIfEmpty(r.CompletedChallenges),
		}, nil

	case *domain.ChallengeGenerationRequest:
		return map[string]any{
			"hobby_name":           r.HobbyName,
			"session_count":        itoa(r.SessionCount),
			"avg_duration":         itoa(r.AvgDuration),
			"mood_distribution":    r.MoodDistribution,
			"days_active":          itoa(r.DaysActive),
			"completed_challenges": noneIfEmpty(r.CompletedChallenges),
			"skipped_challenges":   noneIfEmpty(r.SkippedChallenges),
			"recent_feedback":      noneIfEmpty(r.RecentFeedback),
			"last_mood_trend":      r.LastMoodTrend,
		}, nil

	case *domain.MotivationCheckRequest:
		return map[string]any{
			"hobby_name":              r.HobbyName,
			"days_since_last_session": itoa(r.DaysSinceLastSession),
			"recent_moods":            r.RecentMoods,
			"challenge_skip_rate":     strconv.FormatFloat(r.ChallengeSkipRate, 'f', -1, 64),
			"current_streak":          itoa(r.CurrentStreak),
			"longest_streak":          itoa(r.LongestStreak),
			"session_frequency_trend": r.SessionFrequencyTrend,
		}, nil

	case *domain.RoadmapGenerationRequest:
		return map[string]any{
			"hobby_name":           r.HobbyName,
			"session_count":        itoa(r.SessionCount),
			"avg_duration":         itoa(r.AvgDuration),
			"days_active":          itoa(r.DaysActive),
			"completed_challenges": noneIfEmpty(r.CompletedChallenges),
			"user_goals":           noneIfEmpty(r.UserGoals),
		}, nil
	}
	return nil, fmt.Errorf("no crew inputs for %T", req)
}
