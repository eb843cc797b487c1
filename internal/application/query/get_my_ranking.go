// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET MY RANKING QUERY
// Returns the caller's current ranking row together with a live count of
// active competitors. The caller identity is an explicit parameter supplied
// by the out-of-scope request layer, never an ambient lookup.
// ══════════════════════════════════════════════════════════════════════════════

// RankingDTO is the read-side representation of a ranking row.
type RankingDTO struct {
	UserID        string `json:"user_id"`
	TotalScore    int    `json:"total_score"`
	StreakDays    int    `json:"streak_days"`
	RankPosition  int    `json:"rank_position"`
	PreviousRank  int    `json:"previous_rank"`
	RankChange    int    `json:"rank_change"`
	RankDirection string `json:"rank_direction"`
	Season        int    `json:"season"`
	SeasonRank    int    `json:"season_rank"`
	SeasonPoints  int    `json:"season_points"`
	PeriodType    string `json:"period_type"`
	PeriodRank    int    `json:"period_rank"`
	PeriodPoints  int    `json:"period_points"`
	Tier          string `json:"tier"`
	TierIcon      string `json:"tier_icon"`
	TierColor     string `json:"tier_color"`
}

// toRankingDTO maps a domain row to its read representation.
func toRankingDTO(r *ranking.UserRanking) RankingDTO {
	tier := r.Tier()
	return RankingDTO{
		UserID:        r.UserID.String(),
		TotalScore:    r.TotalScore,
		StreakDays:    r.StreakDays,
		RankPosition:  int(r.RankPosition),
		PreviousRank:  int(r.PreviousRank),
		RankChange:    int(r.RankChange()),
		RankDirection: string(r.RankDirection()),
		Season:        int(r.Season),
		SeasonRank:    int(r.SeasonRank),
		SeasonPoints:  r.SeasonPoints,
		PeriodType:    r.PeriodType.String(),
		PeriodRank:    int(r.PeriodRank),
		PeriodPoints:  r.PeriodPoints,
		Tier:          string(tier),
		TierIcon:      tier.IconName(),
		TierColor:     tier.ColorCode(),
	}
}

// GetMyRankingResult is the response of the my-ranking query.
type GetMyRankingResult struct {
	Ranking RankingDTO `json:"ranking"`

	// TotalActive is the live count of active competitors, read alongside
	// the row (not derived from the possibly stale rank position).
	TotalActive int `json:"total_active"`
}

// GetMyRankingHandler executes the my-ranking query.
type GetMyRankingHandler struct {
	repo      ranking.Repository
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewGetMyRankingHandler creates a GetMyRankingHandler.
func NewGetMyRankingHandler(repo ranking.Repository, logger *slog.Logger) *GetMyRankingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetMyRankingHandler{
		repo:      repo,
		validator: ranking.NewValidator(),
		logger:    logger.With("query", "get_my_ranking"),
	}
}

// Handle loads the caller's row and the active count.
// Fails with shared.ErrNotFound when the caller has no ranking row.
func (h *GetMyRankingHandler) Handle(ctx context.Context, userID uuid.UUID) (*GetMyRankingResult, error) {
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

	return &GetMyRankingResult{
		Ranking:     toRankingDTO(row),
		TotalActive: total,
	}, nil
}
