package repository

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"meraki-api/internal/domain"
	"meraki-api/internal/infrastructure/migration"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestPool connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when it is not set.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, migration.RunMigrations(ctx, pool))
	return pool
}

func TestSourceStatuses(t *testing.T) {
	assert.Equal(t, []string{"pending"}, sourceStatuses(domain.StatusRunning))
	assert.Equal(t, []string{"running"}, sourceStatuses(domain.StatusCompleted))
	assert.Equal(t, []string{"pending", "running"}, sourceStatuses(domain.StatusFailed))
	assert.Empty(t, sourceStatuses(domain.StatusPending))
}

func TestJobsRepoLifecycle(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewJobsRepo(pool)
	owner := uuid.New()

	id, err := repo.Create(ctx, domain.KindChallengeGeneration, map[string]any{"hobby_name": "Chess"}, &owner)
	require.NoError(t, err)

	j, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, j.Status)
	assert.Equal(t, "Chess", j.Input["hobby_name"])
	require.NotNil(t, j.UserID)
	assert.Equal(t, owner, *j.UserID)

	assert.ErrorIs(t, repo.SetCompleted(ctx, id, json.RawMessage(`{}`)), ErrInvalidTransition)
	require.NoError(t, repo.SetRunning(ctx, id))
	require.NoError(t, repo.SetCompleted(ctx, id, json.RawMessage(`{"title":"Play a blitz game"}`)))
	assert.ErrorIs(t, repo.SetFailed(ctx, id, "late"), ErrInvalidTransition)

	j, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, j.Status)
	assert.JSONEq(t, `{"title":"Play a blitz game"}`, string(j.Result))
	assert.Nil(t, j.Error)
}

func TestJobsRepoUnknownJob(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewJobsRepo(pool)

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.ErrorIs(t, repo.SetRunning(ctx, uuid.New()), ErrJobNotFound)
}

func TestJobsRepoGetRejectsUnknownStatus(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewJobsRepo(pool)

	id, err := repo.Create(ctx, domain.KindDiscovery, nil, nil)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE jobs SET status = 'queued' WHERE id = $1`, id.String())
	require.NoError(t, err)

	_, err = repo.Get(ctx, id)
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown status "queued"`)
	assert.NotErrorIs(t, err, ErrJobNotFound)
}
