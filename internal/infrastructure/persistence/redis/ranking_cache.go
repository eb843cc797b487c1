package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifebit-hub/ranking-core/internal/application/query"
	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING CACHE
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrStandingsEmpty is returned when no standings are cached.
	ErrStandingsEmpty = errors.New("ranking_cache: standings are empty")

	// ErrInvalidLimit is returned when the requested limit is not positive.
	ErrInvalidLimit = errors.New("ranking_cache: limit must be positive")
)

const topStandingsKey = PrefixRanking + "top"

// RankingCache serves the hot top-N standings from Redis. The recomputation
// job writes a fresh slice after every pass; reads between passes never touch
// PostgreSQL. Implements query.StandingsCache.
type RankingCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewRankingCache creates a RankingCache with the standings TTL.
func NewRankingCache(cache *Cache) *RankingCache {
	return &RankingCache{cache: cache, ttl: TTLRanking}
}

// GetTop returns up to limit cached entries, best first.
// Returns ErrCacheMiss when nothing is cached, so the read path falls
// through to the store.
func (c *RankingCache) GetTop(ctx context.Context, limit int) ([]query.RankingDTO, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var entries []query.RankingDTO
	if err := c.cache.Get(ctx, topStandingsKey, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrStandingsEmpty
	}

	// The cached slice holds up to MaxPageSize entries; a smaller limit
	// takes a prefix, a larger one is a miss.
	if limit > len(entries) && len(entries) < ranking.MaxPageSize {
		return nil, ErrCacheMiss
	}
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// SetTop stores a top-N slice.
func (c *RankingCache) SetTop(ctx context.Context, entries []query.RankingDTO) error {
	if len(entries) == 0 {
		return nil
	}
	return c.cache.Set(ctx, topStandingsKey, entries, c.ttl)
}

// Invalidate drops all cached standings. Called after a recomputation pass
// so the next read sees fresh positions.
func (c *RankingCache) Invalidate(ctx context.Context) error {
	if err := c.cache.Delete(ctx, topStandingsKey); err != nil {
		return fmt.Errorf("ranking_cache: invalidate: %w", err)
	}
	return nil
}
