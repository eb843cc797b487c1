// Package eventhandler contains the domain event handlers. They are the
// reactive part of the engine: recomputation and rollover jobs publish
// events, and the handlers here turn them into persisted notifications.
package eventhandler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON RANK CHANGED HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RankChangeNotifier persists a rank change notification.
// Implemented by the notification emitter service.
type RankChangeNotifier interface {
	RankChanged(ctx context.Context, userID uuid.UUID, oldRank, newRank int) error
}

// OnRankChangedHandler reacts to rank change events.
type OnRankChangedHandler struct {
	notifier RankChangeNotifier
	logger   *slog.Logger
	config   RankChangedConfig
}

// RankChangedConfig contains handler configuration.
type RankChangedConfig struct {
	// MinRankChange is the minimum move to notify about. Small shuffles of
	// one or two positions stay silent.
	MinRankChange int

	// AlwaysNotifyFirstRank notifies newly ranked users regardless of
	// MinRankChange.
	AlwaysNotifyFirstRank bool
}

// DefaultRankChangedConfig returns sensible defaults.
func DefaultRankChangedConfig() RankChangedConfig {
	return RankChangedConfig{
		MinRankChange:         3,
		AlwaysNotifyFirstRank: true,
	}
}

// NewOnRankChangedHandler creates the handler.
func NewOnRankChangedHandler(notifier RankChangeNotifier, logger *slog.Logger, config RankChangedConfig) *OnRankChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnRankChangedHandler{
		notifier: notifier,
		logger:   logger.With("handler", "on_rank_changed"),
		config:   config,
	}
}

// Handle implements shared.EventHandler.
func (h *OnRankChangedHandler) Handle(event shared.Event) error {
	rankEvent, ok := event.(shared.RankChangedEvent)
	if !ok {
		h.logger.Warn("received non-RankChangedEvent", "event_type", event.EventType())
		return nil
	}

	userID, err := uuid.Parse(rankEvent.UserID)
	if err != nil {
		h.logger.Error("invalid user id in event", "user_id", rankEvent.UserID, "error", err)
		return nil
	}

	firstRank := rankEvent.OldRank == 0
	moved := rankEvent.OldRank - rankEvent.NewRank
	if moved < 0 {
		moved = -moved
	}

	if firstRank {
		if !h.config.AlwaysNotifyFirstRank {
			return nil
		}
	} else if moved < h.config.MinRankChange {
		return nil
	}

	ctx := context.Background()
	if err := h.notifier.RankChanged(ctx, userID, rankEvent.OldRank, rankEvent.NewRank); err != nil {
		h.logger.Error("failed to record rank change notification",
			"user_id", userID,
			"error", err,
		)
		return err
	}

	return nil
}
