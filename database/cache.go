package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	appErrors "faq-bot/errors"
)

// GetCacheByHash returns the cached answer for a question hash, or ErrNotFound.
func (s *PostgresStore) GetCacheByHash(ctx context.Context, qhash string) (CacheEntry, error) {
	var entry CacheEntry
	query := `
        SELECT id, qhash, answer, created_at, hits
        FROM gpt_cache
        WHERE qhash = $1
    `
	err := s.DB.QueryRowContext(ctx, query, qhash).Scan(
		&entry.ID, &entry.QHash, &entry.Answer, &entry.CreatedAt, &entry.Hits)
	if errors.Is(err, sql.ErrNoRows) {
		return CacheEntry{}, appErrors.ErrNotFound
	}
	if err != nil {
		return CacheEntry{}, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return entry, nil
}

// UpsertCache writes one cache row. fresh=true is the post-generation path:
// the answer and created_at are (re)set. fresh=false is the hit path: the
// stored answer is left alone and only the hit counter moves. A brand new
// fresh row starts at zero hits, so inserting is never counted as a hit on
// itself, while touching an existing row always counts one access.
func (s *PostgresStore) UpsertCache(ctx context.Context, qhash, answer string, fresh bool) (CacheEntry, error) {
	entry, err := s.GetCacheByHash(ctx, qhash)
	switch {
	case err == nil:
		if fresh {
			entry.Answer = answer
			entry.CreatedAt = time.Now().UTC()
		}
		entry.Hits++
		query := `
            UPDATE gpt_cache
            SET answer = $2, created_at = $3, hits = $4
            WHERE qhash = $1
            RETURNING id, qhash, answer, created_at, hits
        `
		err = s.DB.QueryRowContext(ctx, query, qhash, entry.Answer, entry.CreatedAt, entry.Hits).Scan(
			&entry.ID, &entry.QHash, &entry.Answer, &entry.CreatedAt, &entry.Hits)
		if err != nil {
			return CacheEntry{}, fmt.Errorf("failed to update cache entry: %w", err)
		}
		return entry, nil

	case appErrors.IsNotFound(err):
		hits := 1
		if fresh {
			hits = 0
		}
		query := `
            INSERT INTO gpt_cache (qhash, answer, created_at, hits)
            VALUES ($1, $2, $3, $4)
            RETURNING id, qhash, answer, created_at, hits
        `
		err = s.DB.QueryRowContext(ctx, query, qhash, answer, time.Now().UTC(), hits).Scan(
			&entry.ID, &entry.QHash, &entry.Answer, &entry.CreatedAt, &entry.Hits)
		if err != nil {
			return CacheEntry{}, fmt.Errorf("failed to insert cache entry: %w", err)
		}
		return entry, nil

	default:
		return CacheEntry{}, err
	}
}

// CleanupExpiredCache deletes cache rows older than the retention window and
// returns how many were removed. The TTL check at lookup time does not depend
// on this sweep having run.
func (s *PostgresStore) CleanupExpiredCache(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	res, err := s.DB.ExecContext(ctx, `DELETE FROM gpt_cache WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired cache: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, nil
}

// ClearCache removes every cached answer (administrative action).
func (s *PostgresStore) ClearCache(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM gpt_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, nil
}
