package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RANKING HISTORY QUERY
// Newest-first history snapshots, filterable by period type, season, or user.
// ══════════════════════════════════════════════════════════════════════════════

// HistoryEntryDTO is the read-side representation of a history snapshot.
type HistoryEntryDTO struct {
	UserID       string    `json:"user_id"`
	TotalScore   int       `json:"total_score"`
	StreakDays   int       `json:"streak_days"`
	RankPosition int       `json:"rank_position"`
	PeriodType   string    `json:"period_type"`
	PeriodRank   int       `json:"period_rank"`
	PeriodPoints int       `json:"period_points"`
	Season       int       `json:"season"`
	SeasonRank   int       `json:"season_rank"`
	SeasonPoints int       `json:"season_points"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// toHistoryDTO maps a history record to its read representation.
func toHistoryDTO(rec *ranking.RankingHistory) HistoryEntryDTO {
	return HistoryEntryDTO{
		UserID:       rec.UserID.String(),
		TotalScore:   rec.TotalScore,
		StreakDays:   rec.StreakDays,
		RankPosition: int(rec.RankPosition),
		PeriodType:   rec.PeriodType.String(),
		PeriodRank:   int(rec.PeriodRank),
		PeriodPoints: rec.PeriodPoints,
		Season:       int(rec.Season),
		SeasonRank:   int(rec.SeasonRank),
		SeasonPoints: rec.SeasonPoints,
		RecordedAt:   rec.RecordedAt,
	}
}

// GetHistoryQuery contains the history filters. Exactly one of PeriodType,
// Season, or UserID should be set; PeriodType wins when several are.
type GetHistoryQuery struct {
	PeriodType ranking.PeriodType
	Season     ranking.Season
	UserID     uuid.UUID
	Limit      int
}

// GetHistoryResult contains the newest-first snapshots.
type GetHistoryResult struct {
	Entries []HistoryEntryDTO `json:"entries"`
}

// GetHistoryHandler executes the history query.
type GetHistoryHandler struct {
	histories ranking.HistoryRepository
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewGetHistoryHandler creates a GetHistoryHandler.
func NewGetHistoryHandler(histories ranking.HistoryRepository, logger *slog.Logger) *GetHistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetHistoryHandler{
		histories: histories,
		validator: ranking.NewValidator(),
		logger:    logger.With("query", "get_history"),
	}
}

// Handle returns snapshots matching the filter, newest first.
func (h *GetHistoryHandler) Handle(ctx context.Context, q GetHistoryQuery) (*GetHistoryResult, error) {
	limit := boundLimit(q.Limit)

	var (
		records []*ranking.RankingHistory
		err     error
	)
	switch {
	case q.PeriodType != "":
		if err := h.validator.ValidatePeriodType(q.PeriodType); err != nil {
			return nil, err
		}
		records, err = h.histories.ListByPeriodType(ctx, q.PeriodType, limit)
	case q.Season != 0:
		if err := h.validator.ValidateSeason(q.Season); err != nil {
			return nil, err
		}
		records, err = h.histories.ListBySeason(ctx, q.Season, limit)
	default:
		records, err = h.histories.ListByUser(ctx, q.UserID, limit)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntryDTO, 0, len(records))
	for _, rec := range records {
		entries = append(entries, toHistoryDTO(rec))
	}
	return &GetHistoryResult{Entries: entries}, nil
}
