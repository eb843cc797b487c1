package command

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PERIOD / SEASON RANK COMMANDS
// Overwrite the per-period and per-season standing of a user. These are
// invoked by rollover orchestration after the next cycle's ranks have been
// computed; global rankPosition is owned by the recomputation job.
// ══════════════════════════════════════════════════════════════════════════════

// UpdatePeriodRankCommand sets a user's rank within a period window.
type UpdatePeriodRankCommand struct {
	UserID     uuid.UUID
	PeriodType ranking.PeriodType
	Rank       ranking.Rank

	// Points is the score accumulated within the period window.
	Points int
}

// UpdateSeasonRankCommand sets a user's rank within a season.
type UpdateSeasonRankCommand struct {
	UserID uuid.UUID
	Season ranking.Season
	Rank   ranking.Rank

	// Points is the score accumulated within the season.
	Points int
}

// UpdateRankHandler executes the period and season rank commands.
type UpdateRankHandler struct {
	repo      ranking.Repository
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewUpdateRankHandler creates an UpdateRankHandler.
func NewUpdateRankHandler(repo ranking.Repository, logger *slog.Logger) *UpdateRankHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateRankHandler{
		repo:      repo,
		validator: ranking.NewValidator(),
		logger:    logger.With("command", "update_rank"),
	}
}

// HandlePeriod validates the period tag and rank, then persists the
// overwrite following the standard load/validate/persist pattern.
func (h *UpdateRankHandler) HandlePeriod(ctx context.Context, cmd UpdatePeriodRankCommand) error {
	if err := h.validator.ValidatePeriodType(cmd.PeriodType); err != nil {
		return err
	}
	if err := h.validator.ValidateRank(cmd.Rank); err != nil {
		return err
	}

	row, err := h.repo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if err := h.validator.ValidateRanking(row); err != nil {
		return err
	}

	row.PeriodType = cmd.PeriodType
	row.PeriodRank = cmd.Rank
	row.PeriodPoints = cmd.Points
	row.Touch()

	if err := h.repo.Update(ctx, row); err != nil {
		return err
	}

	h.logger.Debug("period rank updated",
		"user_id", cmd.UserID,
		"period_type", cmd.PeriodType.String(),
		"rank", int(cmd.Rank),
	)
	return nil
}

// HandleSeason validates the season tag and rank, then persists the
// overwrite.
func (h *UpdateRankHandler) HandleSeason(ctx context.Context, cmd UpdateSeasonRankCommand) error {
	if err := h.validator.ValidateSeason(cmd.Season); err != nil {
		return err
	}
	if err := h.validator.ValidateRank(cmd.Rank); err != nil {
		return err
	}

	row, err := h.repo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if err := h.validator.ValidateRanking(row); err != nil {
		return err
	}

	row.Season = cmd.Season
	row.SeasonRank = cmd.Rank
	row.SeasonPoints = cmd.Points
	row.Touch()

	if err := h.repo.Update(ctx, row); err != nil {
		return err
	}

	h.logger.Debug("season rank updated",
		"user_id", cmd.UserID,
		"season", int(cmd.Season),
		"rank", int(cmd.Rank),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESET RANKING COMMANDS
// Bulk-clear period/season standings at rollover, before the next cycle's
// ranks are computed.
// ══════════════════════════════════════════════════════════════════════════════

// ResetRankingHandler executes the period and season reset commands.
type ResetRankingHandler struct {
	repo      ranking.Repository
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewResetRankingHandler creates a ResetRankingHandler.
func NewResetRankingHandler(repo ranking.Repository, logger *slog.Logger) *ResetRankingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResetRankingHandler{
		repo:      repo,
		validator: ranking.NewValidator(),
		logger:    logger.With("command", "reset_ranking"),
	}
}

// ResetPeriod clears period rank and points for every row tagged with the
// period type.
func (h *ResetRankingHandler) ResetPeriod(ctx context.Context, periodType ranking.PeriodType) error {
	if err := h.validator.ValidatePeriodType(periodType); err != nil {
		return err
	}
	if err := h.repo.ResetPeriodRanking(ctx, periodType); err != nil {
		return err
	}
	h.logger.Info("period ranking reset", "period_type", periodType.String())
	return nil
}

// ResetSeason clears season rank and points for every row of the season.
func (h *ResetRankingHandler) ResetSeason(ctx context.Context, season ranking.Season) error {
	if err := h.validator.ValidateSeason(season); err != nil {
		return err
	}
	if err := h.repo.ResetSeasonRanking(ctx, season); err != nil {
		return err
	}
	h.logger.Info("season ranking reset", "season", int(season))
	return nil
}
