package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HobbyResolver maps a hobby slug to its catalog id.
type HobbyResolver interface {
	// HobbyID returns ok=false when no hobby has the slug.
	HobbyID(ctx context.Context, slug string) (id string, ok bool, err error)
}

// PGHobbyResolver looks slugs up in the hobbies table.
type PGHobbyResolver struct {
	pool *pgxpool.Pool
}

func NewPGHobbyResolver(pool *pgxpool.Pool) *PGHobbyResolver {
	return &PGHobbyResolver{pool: pool}
}

func (r *PGHobbyResolver) HobbyID(ctx context.Context, slug string) (string, bool, error) {
	var id string
	err := r.pool.QueryRow(ctx, `SELECT id::text FROM hobbies WHERE slug = $1 LIMIT 1`, slug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup hobby %q: %w", slug, err)
	}
	return id, true, nil
}

const hobbyKeyPrefix = "hobby:slug:"

// CachedHobbyResolver is a Redis read-through cache in front of another
// resolver. Only hits are cached so a hobby added later resolves at once.
type CachedHobbyResolver struct {
	next   HobbyResolver
	client redis.UniversalClient
	ttl    time.Duration
}

func NewCachedHobbyResolver(next HobbyResolver, client redis.UniversalClient, ttl time.Duration) *CachedHobbyResolver {
	return &CachedHobbyResolver{next: next, client: client, ttl: ttl}
}

func (r *CachedHobbyResolver) HobbyID(ctx context.Context, slug string) (string, bool, error) {
	key := hobbyKeyPrefix + slug

	id, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return id, true, nil
	case !errors.Is(err, redis.Nil):
		slog.Warn("hobby cache read failed", "slug", slug, "error", err)
	}

	id, ok, err := r.next.HobbyID(ctx, slug)
	if err != nil || !ok {
		return id, ok, err
	}
	if err := r.client.Set(ctx, key, id, r.ttl).Err(); err != nil {
		slog.Warn("hobby cache write failed", "slug", slug, "error", err)
	}
	return id, true, nil
}
