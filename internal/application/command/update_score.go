// Package command contains write operations (CQRS - Commands).
// Commands are the only path by which score, streak, and period/season rank
// fields change. Each mutation loads the row, re-validates, and persists;
// side effects are strictly persistence — notification and reward fan-out
// live behind the event handlers, not here.
package command

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE SCORE COMMAND
// Overwrites the absolute score of a user. Callers compute the new absolute
// value from raw activity data; the engine does not accumulate deltas.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateScoreCommand carries the new absolute score for a user.
type UpdateScoreCommand struct {
	// UserID is the explicit caller-supplied identity. No ambient lookup.
	UserID uuid.UUID

	// NewScore is the absolute replacement value, domain [0, 10000].
	NewScore int
}

// UpdateScoreResult reports the persisted state after the mutation.
type UpdateScoreResult struct {
	UserID   uuid.UUID
	OldScore int
	NewScore int
}

// UpdateScoreHandler executes UpdateScoreCommand.
type UpdateScoreHandler struct {
	repo      ranking.Repository
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewUpdateScoreHandler creates an UpdateScoreHandler.
func NewUpdateScoreHandler(repo ranking.Repository, logger *slog.Logger) *UpdateScoreHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateScoreHandler{
		repo:      repo,
		validator: ranking.NewValidator(),
		logger:    logger.With("command", "update_score"),
	}
}

// Handle loads the row, validates the new score, and persists the overwrite.
// Fails with shared.ErrNotFound when the row is absent, shared.ErrValidation
// when the score is out of domain (the stored score stays unchanged), and
// shared.ErrConflict when the row was modified concurrently.
func (h *UpdateScoreHandler) Handle(ctx context.Context, cmd UpdateScoreCommand) (*UpdateScoreResult, error) {
	if err := h.validator.ValidateScore(cmd.NewScore); err != nil {
		return nil, err
	}

	row, err := h.repo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := h.validator.ValidateRanking(row); err != nil {
		return nil, err
	}

	oldScore := row.TotalScore
	row.TotalScore = cmd.NewScore
	row.Touch()

	if err := h.repo.Update(ctx, row); err != nil {
		return nil, err
	}

	h.logger.Debug("score updated",
		"user_id", cmd.UserID,
		"old_score", oldScore,
		"new_score", cmd.NewScore,
	)

	return &UpdateScoreResult{
		UserID:   cmd.UserID,
		OldScore: oldScore,
		NewScore: cmd.NewScore,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STREAK DAYS COMMAND
// Overwrites the streak counter supplied by the workout/diet collaborators.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStreakDaysCommand carries the new absolute streak length.
type UpdateStreakDaysCommand struct {
	UserID uuid.UUID

	// StreakDays is the absolute replacement value, domain [0, 365].
	StreakDays int
}

// UpdateStreakDaysHandler executes UpdateStreakDaysCommand.
type UpdateStreakDaysHandler struct {
	repo      ranking.Repository
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewUpdateStreakDaysHandler creates an UpdateStreakDaysHandler.
func NewUpdateStreakDaysHandler(repo ranking.Repository, logger *slog.Logger) *UpdateStreakDaysHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateStreakDaysHandler{
		repo:      repo,
		validator: ranking.NewValidator(),
		logger:    logger.With("command", "update_streak_days"),
	}
}

// Handle follows the same load/validate/persist pattern as UpdateScore.
func (h *UpdateStreakDaysHandler) Handle(ctx context.Context, cmd UpdateStreakDaysCommand) error {
	if err := h.validator.ValidateStreakDays(cmd.StreakDays); err != nil {
		return err
	}

	row, err := h.repo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if err := h.validator.ValidateRanking(row); err != nil {
		return err
	}

	row.StreakDays = cmd.StreakDays
	row.Touch()

	if err := h.repo.Update(ctx, row); err != nil {
		return err
	}

	h.logger.Debug("streak updated", "user_id", cmd.UserID, "streak_days", cmd.StreakDays)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER RANKING COMMAND
// Creates a fresh row for a user entering the current season.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterRankingCommand enrolls a user into a season.
type RegisterRankingCommand struct {
	UserID uuid.UUID
	Season ranking.Season
}

// RegisterRankingHandler executes RegisterRankingCommand.
type RegisterRankingHandler struct {
	repo      ranking.Repository
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewRegisterRankingHandler creates a RegisterRankingHandler.
func NewRegisterRankingHandler(repo ranking.Repository, logger *slog.Logger) *RegisterRankingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegisterRankingHandler{
		repo:      repo,
		validator: ranking.NewValidator(),
		logger:    logger.With("command", "register_ranking"),
	}
}

// Handle creates the row. Fails with shared.ErrAlreadyExists when the user
// already has an active row for the season.
func (h *RegisterRankingHandler) Handle(ctx context.Context, cmd RegisterRankingCommand) (*ranking.UserRanking, error) {
	if cmd.UserID == uuid.Nil {
		return nil, shared.WrapError("ranking", "Register", shared.ErrInvalidID, "user id is required", nil)
	}
	if err := h.validator.ValidateSeason(cmd.Season); err != nil {
		return nil, err
	}

	row := ranking.NewUserRanking(cmd.UserID, cmd.Season)
	if err := h.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	h.logger.Info("ranking registered", "user_id", cmd.UserID, "season", int(cmd.Season))
	return row, nil
}
