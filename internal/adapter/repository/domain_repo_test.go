package repository

import (
	"context"
	"testing"

	"meraki-api/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHobby(t *testing.T, pool *pgxpool.Pool, slug string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `INSERT INTO hobbies (slug, name) VALUES ($1, $1)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name RETURNING id::text`, slug).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestDomainRepoSaveHobbyMatchesSkipsUnknownSlugs(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	slug := "pottery-" + uuid.NewString()[:8]
	seedHobby(t, pool, slug)

	repo := NewDomainRepo(pool, NewPGHobbyResolver(pool))
	user := uuid.New()
	matches := []domain.HobbyMatch{
		{HobbySlug: slug, MatchPercentage: 91, MatchTags: []string{"calm"}, Reasoning: "hands-on"},
		{HobbySlug: "no-such-hobby", MatchPercentage: 50},
	}
	require.NoError(t, repo.SaveHobbyMatches(ctx, user, matches))
	matches[0].MatchPercentage = 95
	require.NoError(t, repo.SaveHobbyMatches(ctx, user, matches[:1]))

	var n int
	var pct float64
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*), max(match_percentage) FROM hobby_matches WHERE user_id = $1`, user.String()).Scan(&n, &pct))
	assert.Equal(t, 1, n)
	assert.Equal(t, 95.0, pct)
}

func TestDomainRepoSaveChallengeAndRoadmap(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	slug := "chess-" + uuid.NewString()[:8]
	seedHobby(t, pool, slug)

	repo := NewDomainRepo(pool, NewPGHobbyResolver(pool))
	user := uuid.New()

	link, err := repo.SaveChallenge(ctx, user, slug, &domain.ChallengeResult{Title: "Study one opening", Difficulty: "easy"})
	require.NoError(t, err)
	require.NotNil(t, link)

	var status string
	require.NoError(t, pool.QueryRow(ctx, `SELECT status FROM user_challenges WHERE id = $1`, *link).Scan(&status))
	assert.Equal(t, "active", status)

	link, err = repo.SaveChallenge(ctx, user, "no-such-hobby", &domain.ChallengeResult{Title: "x"})
	require.NoError(t, err)
	assert.Nil(t, link)

	roadmap := &domain.RoadmapResult{Title: "Chess in 3 phases", Phases: []domain.RoadmapPhase{{PhaseNumber: 1, Title: "Basics"}}}
	link, err = repo.SaveRoadmap(ctx, user, slug, roadmap)
	require.NoError(t, err)
	require.NotNil(t, link)

	var total, current int
	require.NoError(t, pool.QueryRow(ctx, `SELECT r.total_phases, ur.current_phase FROM user_roadmaps ur
		JOIN roadmaps r ON r.id = ur.roadmap_id WHERE ur.id = $1`, *link).Scan(&total, &current))
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, current)
}

func TestDomainRepoSaveNudgeWithoutHobby(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewDomainRepo(pool, NewPGHobbyResolver(pool))

	id, err := repo.SaveNudge(ctx, uuid.New(), "no-such-hobby", &domain.NudgeResult{Message: "Ten minutes today?", Urgency: domain.UrgencyGentle})
	require.NoError(t, err)
	require.NotNil(t, id)

	var hobbyID *string
	require.NoError(t, pool.QueryRow(ctx, `SELECT hobby_id::text FROM nudges WHERE id = $1`, *id).Scan(&hobbyID))
	assert.Nil(t, hobbyID)
}
