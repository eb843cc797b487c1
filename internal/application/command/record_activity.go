package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/reward"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
	"github.com/lifebit-hub/ranking-core/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD ACTIVITY COMMAND
// A daily activity tick: accumulates score, advances or resets the streak,
// and fires streak milestone achievements. This is the delta-based
// counterpart to the absolute UpdateScore overwrite.
// ══════════════════════════════════════════════════════════════════════════════

// RecordActivityCommand carries one activity report for a user.
type RecordActivityCommand struct {
	// UserID is the explicit caller-supplied identity.
	UserID uuid.UUID

	// ScorePoints is the score earned by the activity, non-negative.
	// The total is capped at the score ceiling.
	ScorePoints int

	// OccurredAt is when the activity happened. Zero means now.
	OccurredAt time.Time
}

// Validate checks command invariants.
func (c *RecordActivityCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return shared.NewDomainError("ranking", "RecordActivity", shared.ErrInvalidID, "user id is required")
	}
	if c.ScorePoints < 0 {
		return shared.NewDomainError("ranking", "RecordActivity", shared.ErrValueOutOfRange, "score points cannot be negative")
	}
	return nil
}

// RecordActivityResult reports the state after the tick.
type RecordActivityResult struct {
	UserID         uuid.UUID
	TotalScore     int
	StreakDays     int
	StreakExtended bool
	MilestoneBonus int
}

// RecordActivityHandler executes RecordActivityCommand.
type RecordActivityHandler struct {
	repo      ranking.Repository
	publisher shared.EventPublisher
	validator *ranking.Validator
	logger    *slog.Logger
}

// NewRecordActivityHandler creates a RecordActivityHandler.
// publisher may be nil, which disables milestone events.
func NewRecordActivityHandler(repo ranking.Repository, publisher shared.EventPublisher, logger *slog.Logger) *RecordActivityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordActivityHandler{
		repo:      repo,
		publisher: publisher,
		validator: ranking.NewValidator(),
		logger:    logger.With("command", "record_activity"),
	}
}

// Handle applies one activity tick. The streak advances once per UTC day:
// a second activity on the same day only accumulates score, a gap of more
// than one day resets the streak to 1.
func (h *RecordActivityHandler) Handle(ctx context.Context, cmd RecordActivityCommand) (*RecordActivityResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	occurredAt := cmd.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = timeutil.Now()
	}

	row, err := h.repo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	row.TotalScore += cmd.ScorePoints
	if row.TotalScore > ranking.MaxScore {
		row.TotalScore = ranking.MaxScore
	}
	row.PeriodPoints += cmd.ScorePoints
	row.SeasonPoints += cmd.ScorePoints

	// The streak anchors on LastActivityAt, never on LastUpdatedAt:
	// the generic mutation timestamp moves on every score overwrite and
	// rank batch, which would freeze the streak.
	extended := false
	switch {
	case !row.LastActivityAt.IsZero() && timeutil.IsSameDay(row.LastActivityAt, occurredAt):
		// Already counted today.
	case timeutil.IsConsecutiveDay(row.LastActivityAt, occurredAt):
		if row.StreakDays < ranking.MaxStreakDays {
			row.StreakDays++
		}
		extended = true
	default:
		row.StreakDays = 1
		extended = true
	}

	row.LastActivityAt = occurredAt
	row.Touch()

	if err := h.validator.ValidateRanking(row); err != nil {
		return nil, err
	}
	if err := h.repo.Update(ctx, row); err != nil {
		return nil, err
	}

	bonus := 0
	if extended {
		bonus = reward.StreakMilestoneBonus(row.StreakDays)
		if bonus > 0 && h.publisher != nil {
			event := shared.NewAchievementUnlockedEvent(
				row.UserID.String(),
				streakMilestoneTitle(row.StreakDays),
			)
			if err := h.publisher.Publish(event); err != nil {
				h.logger.Error("failed to publish streak milestone", "user_id", row.UserID, "error", err)
			}
		}
	}

	h.logger.Debug("activity recorded",
		"user_id", row.UserID,
		"total_score", row.TotalScore,
		"streak_days", row.StreakDays,
	)

	return &RecordActivityResult{
		UserID:         row.UserID,
		TotalScore:     row.TotalScore,
		StreakDays:     row.StreakDays,
		StreakExtended: extended,
		MilestoneBonus: bonus,
	}, nil
}

func streakMilestoneTitle(days int) string {
	switch days {
	case reward.StreakMilestone7Days:
		return "7-day streak"
	case reward.StreakMilestone30Days:
		return "30-day streak"
	case reward.StreakMilestone100Days:
		return "100-day streak"
	default:
		return "streak milestone"
	}
}
