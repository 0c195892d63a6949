// Package cache implements the LLM response cache: answers are keyed by a
// hash of the normalized question (optionally qualified by the clarification
// context shown to the user) and reused while they are within TTL.
package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"faq-bot/database"
	appErrors "faq-bot/errors"
	"faq-bot/textnorm"
)

// Store is the backing repository for cached answers.
type Store interface {
	GetCacheByHash(ctx context.Context, qhash string) (database.CacheEntry, error)
	UpsertCache(ctx context.Context, qhash, answer string, fresh bool) (database.CacheEntry, error)
}

// Generator produces an answer when the cache cannot. Typically the LLM
// gateway bound to a question and its context chunks.
type Generator func(ctx context.Context) (string, error)

type ResponseCache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

func New(store Store, ttl time.Duration, logger *zap.Logger) *ResponseCache {
	return &ResponseCache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// DeriveKey builds the cache key for a question. Without context it is the
// fingerprint of the question itself. With context (the ordered FAQ ids shown
// during clarification) the id list is folded into the hashed text, so an
// answer generated against one candidate set is never served for another,
// nor for the bare question.
func DeriveKey(question string, contextIDs []int64) string {
	if len(contextIDs) == 0 {
		return textnorm.Fingerprint(question)
	}

	ids := make([]string, len(contextIDs))
	for i, id := range contextIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return textnorm.Fingerprint(textnorm.Normalize(question) + "::ctx=" + strings.Join(ids, ","))
}

// Lookup returns the cached entry for a key without touching hit counts.
func (c *ResponseCache) Lookup(ctx context.Context, key string) (database.CacheEntry, error) {
	return c.store.GetCacheByHash(ctx, key)
}

// GetOrRefresh returns a cached answer if one exists and is within TTL,
// counting the hit. A stale or missing entry falls through to the generator;
// only a successful generation is written back, so a provider failure can
// never be replayed out of the cache.
func (c *ResponseCache) GetOrRefresh(ctx context.Context, key string, generator Generator) (string, error) {
	entry, err := c.store.GetCacheByHash(ctx, key)
	switch {
	case err == nil:
		age := time.Since(entry.CreatedAt)
		if age <= c.ttl {
			if _, err := c.store.UpsertCache(ctx, key, entry.Answer, false); err != nil {
				// The answer is already in hand; losing a hit count is not
				// worth failing the turn over.
				c.logger.Warn("Failed to record cache hit", zap.String("qhash", key), zap.Error(err))
			}
			c.logger.Debug("Cache hit", zap.String("qhash", key), zap.Duration("age", age))
			return entry.Answer, nil
		}
		c.logger.Debug("Cache entry stale, regenerating",
			zap.String("qhash", key), zap.Duration("age", age))

	case appErrors.IsNotFound(err):
		// miss: fall through to generation

	default:
		return "", appErrors.WrapError(err, "cache lookup")
	}

	answer, err := generator(ctx)
	if err != nil {
		return "", err
	}

	if _, err := c.store.UpsertCache(ctx, key, answer, true); err != nil {
		c.logger.Warn("Failed to store generated answer", zap.String("qhash", key), zap.Error(err))
	}
	return answer, nil
}
