package eventhandler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON REWARD GRANTED / ACHIEVEMENT UNLOCKED
// ══════════════════════════════════════════════════════════════════════════════

// RewardNotifier persists reward and achievement notifications.
// Implemented by the notification emitter service.
type RewardNotifier interface {
	RewardGranted(ctx context.Context, userID uuid.UUID, rewardTitle string, points int) error
	AchievementUnlocked(ctx context.Context, userID uuid.UUID, achievement string) error
}

// OnRewardGrantedHandler reacts to reward grants and achievement unlocks.
type OnRewardGrantedHandler struct {
	notifier RewardNotifier
	logger   *slog.Logger
}

// NewOnRewardGrantedHandler creates the handler.
func NewOnRewardGrantedHandler(notifier RewardNotifier, logger *slog.Logger) *OnRewardGrantedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnRewardGrantedHandler{
		notifier: notifier,
		logger:   logger.With("handler", "on_reward_granted"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnRewardGrantedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	switch e := event.(type) {
	case shared.RewardGrantedEvent:
		userID, err := uuid.Parse(e.UserID)
		if err != nil {
			h.logger.Error("invalid user id in event", "user_id", e.UserID, "error", err)
			return nil
		}
		return h.notifier.RewardGranted(ctx, userID, e.Title, e.Points)

	case shared.AchievementUnlockedEvent:
		userID, err := uuid.Parse(e.UserID)
		if err != nil {
			h.logger.Error("invalid user id in event", "user_id", e.UserID, "error", err)
			return nil
		}
		return h.notifier.AchievementUnlocked(ctx, userID, e.Title)

	default:
		h.logger.Warn("received unexpected event", "event_type", event.EventType())
		return nil
	}
}
