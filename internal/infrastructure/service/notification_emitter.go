// Package service contains infrastructure services bridging domain events to
// persisted side effects.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/notification"
	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION EMITTER
// ══════════════════════════════════════════════════════════════════════════════

// NotificationEmitter turns ranking events into persisted notification
// records. Delivery is out of scope: external consumers read the records.
type NotificationEmitter struct {
	repo   notification.Repository
	logger *slog.Logger
}

// NewNotificationEmitter creates a NotificationEmitter.
func NewNotificationEmitter(repo notification.Repository, logger *slog.Logger) *NotificationEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationEmitter{
		repo:   repo,
		logger: logger.With(slog.String("component", "notification_emitter")),
	}
}

// RankChanged records a rank change notification. Direction shapes the copy:
// climbs congratulate, drops stay neutral.
func (e *NotificationEmitter) RankChanged(ctx context.Context, userID uuid.UUID, oldRank, newRank int) error {
	var title, message string
	switch {
	case oldRank == ranking.Unranked:
		title = "You are on the board!"
		message = fmt.Sprintf("Your first ranking is in: you start at #%d.", newRank)
	case newRank < oldRank:
		title = "Rank up!"
		message = fmt.Sprintf("You climbed from #%d to #%d. Keep the streak going!", oldRank, newRank)
	default:
		title = "Ranking update"
		message = fmt.Sprintf("Your rank moved from #%d to #%d.", oldRank, newRank)
	}

	return e.emit(ctx, userID, notification.TypeRankChange, title, message)
}

// RewardGranted records a reward notification.
func (e *NotificationEmitter) RewardGranted(ctx context.Context, userID uuid.UUID, rewardTitle string, points int) error {
	message := fmt.Sprintf("You earned %d points: %s.", points, rewardTitle)
	return e.emit(ctx, userID, notification.TypeReward, "Reward earned", message)
}

// AchievementUnlocked records an achievement notification.
func (e *NotificationEmitter) AchievementUnlocked(ctx context.Context, userID uuid.UUID, achievement string) error {
	message := fmt.Sprintf("Achievement unlocked: %s.", achievement)
	return e.emit(ctx, userID, notification.TypeAchievement, "Achievement unlocked", message)
}

// PeriodEnded records a period end notification for each top finisher of
// the closed window, carrying their final standing.
func (e *NotificationEmitter) PeriodEnded(ctx context.Context, finishers []ranking.FinalStanding, periodType ranking.PeriodType) error {
	title := "Period finished"

	for _, f := range finishers {
		message := fmt.Sprintf("The %s ranking period has ended. You finished at #%d!", periodType, f.Rank)
		if err := e.emit(ctx, f.UserID, notification.TypePeriodEnd, title, message); err != nil {
			return err
		}
	}
	return nil
}

// SeasonEnded records a season end notification for each top finisher,
// carrying their final standing.
func (e *NotificationEmitter) SeasonEnded(ctx context.Context, finishers []ranking.FinalStanding, season ranking.Season) error {
	title := "Season finished"

	for _, f := range finishers {
		message := fmt.Sprintf("%s has ended. You finished at #%d. Rewards are in!", season, f.Rank)
		if err := e.emit(ctx, f.UserID, notification.TypeSeasonEnd, title, message); err != nil {
			return err
		}
	}
	return nil
}

func (e *NotificationEmitter) emit(ctx context.Context, userID uuid.UUID, typ notification.Type, title, message string) error {
	n := notification.New(userID, typ, title, message)
	if err := e.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	e.logger.Debug("notification recorded",
		"user_id", userID,
		"type", typ,
	)
	return nil
}
