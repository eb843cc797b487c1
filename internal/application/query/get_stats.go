package query

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RANKING STATS QUERY
// Aggregate counts plus the caller's own numbers in one response.
// ══════════════════════════════════════════════════════════════════════════════

// GetStatsResult combines aggregates with the caller's own standing.
type GetStatsResult struct {
	TotalRankings  int    `json:"total_rankings"`
	MyRank         int    `json:"my_rank"`
	MyTotalScore   int    `json:"my_total_score"`
	MyStreakDays   int    `json:"my_streak_days"`
	MySeasonRank   int    `json:"my_season_rank"`
	MySeasonPoints int    `json:"my_season_points"`
	MyPeriodRank   int    `json:"my_period_rank"`
	MyPeriodPoints int    `json:"my_period_points"`
	MyTier         string `json:"my_tier"`
}

// GetStatsHandler executes the stats query.
type GetStatsHandler struct {
	repo      ranking.Repository
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewGetStatsHandler creates a GetStatsHandler.
func NewGetStatsHandler(repo ranking.Repository, logger *slog.Logger) *GetStatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetStatsHandler{
		repo:      repo,
		validator: ranking.NewValidator(),
		logger:    logger.With("query", "get_stats"),
	}
}

// Handle loads the caller's row and the aggregate counts.
func (h *GetStatsHandler) Handle(ctx context.Context, userID uuid.UUID) (*GetStatsResult, error) {
	row, err := h.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := h.validator.ValidateRanking(row); err != nil {
		return nil, err
	}

	total, err := h.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &GetStatsResult{
		TotalRankings:  total,
		MyRank:         int(row.RankPosition),
		MyTotalScore:   row.TotalScore,
		MyStreakDays:   row.StreakDays,
		MySeasonRank:   int(row.SeasonRank),
		MySeasonPoints: row.SeasonPoints,
		MyPeriodRank:   int(row.PeriodRank),
		MyPeriodPoints: row.PeriodPoints,
		MyTier:         string(row.Tier()),
	}, nil
}
