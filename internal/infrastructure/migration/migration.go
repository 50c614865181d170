package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations creates the jobs table and the product tables the persistence
// adapter writes to. Every statement is idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func exec(sql string) func(ctx context.Context, pool *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, sql)
		return err
	}
}

var migrations = []Migration{
	{Name: "create_pgcrypto", Up: createPGCrypto},
	{Name: "create_jobs", Up: exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id uuid PRIMARY KEY,
			job_type text NOT NULL,
			status text NOT NULL DEFAULT 'pending',
			request_data jsonb NOT NULL DEFAULT '{}'::jsonb,
			result jsonb,
			error text,
			user_id uuid,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS jobs_user_id_idx ON jobs (user_id);`)},
	{Name: "create_hobbies", Up: exec(`
		CREATE TABLE IF NOT EXISTS hobbies (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			slug text NOT NULL UNIQUE,
			name text NOT NULL DEFAULT ''
		);`)},
	{Name: "create_hobby_matches", Up: exec(`
		CREATE TABLE IF NOT EXISTS hobby_matches (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id uuid NOT NULL,
			hobby_id uuid NOT NULL REFERENCES hobbies (id),
			match_percentage double precision NOT NULL DEFAULT 0,
			match_tags text[] NOT NULL DEFAULT '{}',
			reasoning text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT now(),
			UNIQUE (user_id, hobby_id)
		);`)},
	{Name: "create_sampling_results", Up: exec(`
		CREATE TABLE IF NOT EXISTS sampling_results (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id uuid NOT NULL,
			hobby_slug text NOT NULL,
			result jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			UNIQUE (user_id, hobby_slug)
		);`)},
	{Name: "create_local_experience_results", Up: exec(`
		CREATE TABLE IF NOT EXISTS local_experience_results (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id uuid NOT NULL,
			hobby_slug text NOT NULL,
			location text NOT NULL,
			result jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			UNIQUE (user_id, hobby_slug, location)
		);`)},
	{Name: "create_ai_feedback", Up: exec(`
		CREATE TABLE IF NOT EXISTS ai_feedback (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			session_id text NOT NULL UNIQUE,
			observations text[] NOT NULL DEFAULT '{}',
			growth text[] NOT NULL DEFAULT '{}',
			suggestions text[] NOT NULL DEFAULT '{}',
			celebration text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT now()
		);`)},
	{Name: "create_challenges", Up: exec(`
		CREATE TABLE IF NOT EXISTS challenges (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			hobby_id uuid NOT NULL REFERENCES hobbies (id),
			title text NOT NULL,
			description text NOT NULL DEFAULT '',
			why_this_challenge text NOT NULL DEFAULT '',
			skills text[] NOT NULL DEFAULT '{}',
			difficulty text NOT NULL DEFAULT 'easy',
			estimated_time text NOT NULL DEFAULT '',
			tips text[] NOT NULL DEFAULT '{}',
			what_youll_learn text[] NOT NULL DEFAULT '{}',
			created_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS user_challenges (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id uuid NOT NULL,
			challenge_id uuid NOT NULL REFERENCES challenges (id),
			status text NOT NULL DEFAULT 'active',
			started_at timestamptz,
			completed_at timestamptz
		);`)},
	{Name: "create_nudges", Up: exec(`
		CREATE TABLE IF NOT EXISTS nudges (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id uuid NOT NULL,
			hobby_id uuid REFERENCES hobbies (id),
			nudge_type text NOT NULL DEFAULT '',
			message text NOT NULL,
			suggested_action text NOT NULL DEFAULT '',
			action_data jsonb,
			urgency text NOT NULL DEFAULT 'gentle',
			created_at timestamptz NOT NULL DEFAULT now()
		);`)},
	{Name: "create_roadmaps", Up: exec(`
		CREATE TABLE IF NOT EXISTS roadmaps (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			hobby_id uuid NOT NULL REFERENCES hobbies (id),
			title text NOT NULL DEFAULT '',
			description text NOT NULL DEFAULT '',
			phases jsonb NOT NULL DEFAULT '[]'::jsonb,
			total_phases integer NOT NULL DEFAULT 0,
			created_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS user_roadmaps (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id uuid NOT NULL,
			roadmap_id uuid NOT NULL REFERENCES roadmaps (id),
			hobby_slug text NOT NULL,
			current_phase integer NOT NULL DEFAULT 0,
			started_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		);`)},
}

// createPGCrypto enables gen_random_uuid on Postgres versions before 13.
func createPGCrypto(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
		// Managed databases often forbid CREATE EXTENSION; gen_random_uuid is
		// built in from Postgres 13 onwards.
		slog.Warn("Error creating pgcrypto extension (continuing)", "error", err)
	}
	return nil
}
