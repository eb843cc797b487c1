package query

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET TOP RANKINGS QUERY
// Ordered top-N slices of the ranking store: global by score, per season by
// season points, per period window by score. Limits are bounded to avoid
// unbounded result sets. The global top-N read goes through a cache-aside
// standings cache when one is wired.
// ══════════════════════════════════════════════════════════════════════════════

// StandingsCache caches ordered top-N slices of the read path.
// Implemented by the Redis ranking cache; a nil cache disables caching.
type StandingsCache interface {
	// GetTop returns the cached top-N slice, or a cache-miss error.
	GetTop(ctx context.Context, limit int) ([]RankingDTO, error)

	// SetTop stores a top-N slice.
	SetTop(ctx context.Context, entries []RankingDTO) error
}

// GetTopRankingsQuery contains the parameters for a top-N read.
type GetTopRankingsQuery struct {
	// Limit is the number of entries (default 10, max 100).
	Limit int
}

// Validate bounds the limit.
func (q *GetTopRankingsQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = ranking.DefaultPageSize
	}
	if q.Limit > ranking.MaxPageSize {
		q.Limit = ranking.MaxPageSize
	}
	return nil
}

// GetTopRankingsResult contains the ordered slice.
type GetTopRankingsResult struct {
	Entries []RankingDTO `json:"entries"`

	// FromCache reports whether the slice was served from the cache.
	FromCache bool `json:"-"`
}

// GetTopRankingsHandler executes the top-N queries.
type GetTopRankingsHandler struct {
	repo      ranking.Repository
	cache     StandingsCache
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewGetTopRankingsHandler creates a GetTopRankingsHandler.
// cache may be nil, which disables cache-aside reads.
func NewGetTopRankingsHandler(repo ranking.Repository, cache StandingsCache, logger *slog.Logger) *GetTopRankingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetTopRankingsHandler{
		repo:      repo,
		cache:     cache,
		validator: ranking.NewValidator(),
		logger:    logger.With("query", "get_top_rankings"),
	}
}

// Handle returns the global top-N by score. Cache errors degrade to a store
// read; they are logged, never surfaced.
func (h *GetTopRankingsHandler) Handle(ctx context.Context, q GetTopRankingsQuery) (*GetTopRankingsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.cache != nil {
		if cached, err := h.cache.GetTop(ctx, q.Limit); err == nil {
			return &GetTopRankingsResult{Entries: cached, FromCache: true}, nil
		}
	}

	rows, err := h.repo.TopByScore(ctx, q.Limit)
	if err != nil {
		return nil, err
	}

	entries := make([]RankingDTO, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toRankingDTO(row))
	}

	if h.cache != nil {
		if err := h.cache.SetTop(ctx, entries); err != nil {
			h.logger.Warn("failed to cache top rankings", "error", err)
		}
	}

	return &GetTopRankingsResult{Entries: entries}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SEASON / PERIOD STANDINGS
// ══════════════════════════════════════════════════════════════════════════════

// GetSeasonRankingsQuery contains parameters for a season standings read.
type GetSeasonRankingsQuery struct {
	Season ranking.Season
	Limit  int
}

// GetPeriodRankingsQuery contains parameters for a period standings read.
type GetPeriodRankingsQuery struct {
	PeriodType ranking.PeriodType
	Limit      int
}

// HandleSeason returns the top rows of a season ordered by season points.
func (h *GetTopRankingsHandler) HandleSeason(ctx context.Context, q GetSeasonRankingsQuery) (*GetTopRankingsResult, error) {
	if err := h.validator.ValidateSeason(q.Season); err != nil {
		return nil, err
	}
	limit := boundLimit(q.Limit)

	rows, err := h.repo.TopBySeason(ctx, q.Season, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]RankingDTO, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toRankingDTO(row))
	}
	return &GetTopRankingsResult{Entries: entries}, nil
}

// HandlePeriod returns the top rows of a period window ordered by score.
func (h *GetTopRankingsHandler) HandlePeriod(ctx context.Context, q GetPeriodRankingsQuery) (*GetTopRankingsResult, error) {
	if err := h.validator.ValidatePeriodType(q.PeriodType); err != nil {
		return nil, err
	}
	limit := boundLimit(q.Limit)

	rows, err := h.repo.TopByPeriod(ctx, q.PeriodType, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]RankingDTO, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toRankingDTO(row))
	}
	return &GetTopRankingsResult{Entries: entries}, nil
}

// boundLimit applies the default and maximum page sizes.
func boundLimit(limit int) int {
	if limit <= 0 {
		return ranking.DefaultPageSize
	}
	if limit > ranking.MaxPageSize {
		return ranking.MaxPageSize
	}
	return limit
}
