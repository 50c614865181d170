package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"meraki-api/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DomainRepo writes reconciled results into the product tables the frontend
// reads. Every method is an idempotent upsert or a single transaction.
type DomainRepo struct {
	pool    *pgxpool.Pool
	hobbies HobbyResolver
}

func NewDomainRepo(pool *pgxpool.Pool, hobbies HobbyResolver) *DomainRepo {
	return &DomainRepo{pool: pool, hobbies: hobbies}
}

// SaveHobbyMatches upserts one hobby_matches row per match whose slug
// resolves. Unknown slugs are skipped.
func (r *DomainRepo) SaveHobbyMatches(ctx context.Context, user uuid.UUID, matches []domain.HobbyMatch) error {
	for _, m := range matches {
		if m.HobbySlug == "" {
			continue
		}
		hobbyID, ok, err := r.hobbies.HobbyID(ctx, m.HobbySlug)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		_, err = r.pool.Exec(ctx, `INSERT INTO hobby_matches (user_id, hobby_id, match_percentage, match_tags, reasoning, created_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (user_id, hobby_id) DO UPDATE SET match_percentage = EXCLUDED.match_percentage,
				match_tags = EXCLUDED.match_tags, reasoning = EXCLUDED.reasoning, created_at = EXCLUDED.created_at`,
			user.String(), hobbyID, m.MatchPercentage, nonNilStrings(m.MatchTags), m.Reasoning)
		if err != nil {
			return fmt.Errorf("upsert hobby match %s: %w", m.HobbySlug, err)
		}
	}
	return nil
}

func (r *DomainRepo) SaveSamplingResult(ctx context.Context, user uuid.UUID, slug string, res *domain.SamplingPreviewResult) error {
	doc, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO sampling_results (user_id, hobby_slug, result, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, hobby_slug) DO UPDATE SET result = EXCLUDED.result, created_at = EXCLUDED.created_at`,
		user.String(), slug, doc)
	if err != nil {
		return fmt.Errorf("upsert sampling result: %w", err)
	}
	return nil
}

func (r *DomainRepo) SaveLocalExperienceResult(ctx context.Context, user uuid.UUID, slug, location string, res *domain.LocalExperiencesResult) error {
	doc, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO local_experience_results (user_id, hobby_slug, location, result, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id, hobby_slug, location) DO UPDATE SET result = EXCLUDED.result, created_at = EXCLUDED.created_at`,
		user.String(), slug, location, doc)
	if err != nil {
		return fmt.Errorf("upsert local experience result: %w", err)
	}
	return nil
}

func (r *DomainRepo) SaveFeedback(ctx context.Context, session string, res *domain.PracticeFeedbackResult) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO ai_feedback (session_id, observations, growth, suggestions, celebration, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (session_id) DO UPDATE SET observations = EXCLUDED.observations, growth = EXCLUDED.growth,
			suggestions = EXCLUDED.suggestions, celebration = EXCLUDED.celebration, created_at = EXCLUDED.created_at`,
		session, nonNilStrings(res.Observations), nonNilStrings(res.Growth), nonNilStrings(res.Suggestions), res.Celebration)
	if err != nil {
		return fmt.Errorf("upsert ai feedback: %w", err)
	}
	return nil
}

// SaveChallenge inserts the challenge and assigns it to the user. It returns
// the user_challenges id, or nil when the slug does not resolve.
func (r *DomainRepo) SaveChallenge(ctx context.Context, user uuid.UUID, slug string, res *domain.ChallengeResult) (*string, error) {
	hobbyID, ok, err := r.hobbies.HobbyID(ctx, slug)
	if err != nil || !ok {
		return nil, err
	}

	var linkID string
	err = r.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		var challengeID string
		if err := tx.QueryRow(ctx, `INSERT INTO challenges (hobby_id, title, description, why_this_challenge, skills, difficulty,
				estimated_time, tips, what_youll_learn, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now()) RETURNING id::text`,
			hobbyID, res.Title, res.Description, res.WhyThisChallenge, nonNilStrings(res.Skills), res.Difficulty,
			res.EstimatedTime, nonNilStrings(res.Tips), nonNilStrings(res.WhatYoullLearn)).Scan(&challengeID); err != nil {
			return fmt.Errorf("insert challenge: %w", err)
		}
		if err := tx.QueryRow(ctx, `INSERT INTO user_challenges (user_id, challenge_id, status, started_at)
			VALUES ($1, $2, 'active', now()) RETURNING id::text`,
			user.String(), challengeID).Scan(&linkID); err != nil {
			return fmt.Errorf("assign challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &linkID, nil
}

// SaveNudge stores a nudge. The hobby reference is optional and stays NULL
// when the slug is empty or unknown.
func (r *DomainRepo) SaveNudge(ctx context.Context, user uuid.UUID, slug string, res *domain.NudgeResult) (*string, error) {
	var hobbyID any
	if slug != "" {
		id, ok, err := r.hobbies.HobbyID(ctx, slug)
		if err != nil {
			return nil, err
		}
		if ok {
			hobbyID = id
		}
	}

	actionData := []byte(res.ActionData)
	if len(actionData) == 0 {
		actionData = []byte(`""`)
	}

	var id string
	err := r.pool.QueryRow(ctx, `INSERT INTO nudges (user_id, hobby_id, nudge_type, message, suggested_action, action_data, urgency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now()) RETURNING id::text`,
		user.String(), hobbyID, res.NudgeType, res.Message, res.SuggestedAction, actionData, res.Urgency).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert nudge: %w", err)
	}
	return &id, nil
}

// SaveRoadmap inserts the roadmap and assigns it to the user at phase 0. It
// returns the user_roadmaps id, or nil when the slug does not resolve.
func (r *DomainRepo) SaveRoadmap(ctx context.Context, user uuid.UUID, slug string, res *domain.RoadmapResult) (*string, error) {
	hobbyID, ok, err := r.hobbies.HobbyID(ctx, slug)
	if err != nil || !ok {
		return nil, err
	}
	phases, err := json.Marshal(res.Phases)
	if err != nil {
		return nil, err
	}

	var linkID string
	err = r.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		var roadmapID string
		if err := tx.QueryRow(ctx, `INSERT INTO roadmaps (hobby_id, title, description, phases, total_phases, created_at)
			VALUES ($1, $2, $3, $4, $5, now()) RETURNING id::text`,
			hobbyID, res.Title, res.Description, phases, len(res.Phases)).Scan(&roadmapID); err != nil {
			return fmt.Errorf("insert roadmap: %w", err)
		}
		if err := tx.QueryRow(ctx, `INSERT INTO user_roadmaps (user_id, roadmap_id, hobby_slug, current_phase, started_at, updated_at)
			VALUES ($1, $2, $3, 0, now(), now()) RETURNING id::text`,
			user.String(), roadmapID, slug).Scan(&linkID); err != nil {
			return fmt.Errorf("assign roadmap: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &linkID, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
