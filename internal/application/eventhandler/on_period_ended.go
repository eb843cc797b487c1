package eventhandler

import (
	"context"
	"log/slog"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/reward"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON PERIOD / SEASON ENDED
// ══════════════════════════════════════════════════════════════════════════════

// RolloverNotifier persists period and season end notifications, one per
// finisher with their final standing. Implemented by the notification
// emitter service.
type RolloverNotifier interface {
	PeriodEnded(ctx context.Context, finishers []ranking.FinalStanding, periodType ranking.PeriodType) error
	SeasonEnded(ctx context.Context, finishers []ranking.FinalStanding, season ranking.Season) error
}

// OnPeriodEndedHandler notifies the top finishers when a period or season
// closes. The events fire before the rollover reset, so the standings read
// here still show the closed window.
type OnPeriodEndedHandler struct {
	rankings ranking.Repository
	notifier RolloverNotifier
	logger   *slog.Logger
}

// NewOnPeriodEndedHandler creates the handler.
func NewOnPeriodEndedHandler(rankings ranking.Repository, notifier RolloverNotifier, logger *slog.Logger) *OnPeriodEndedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnPeriodEndedHandler{
		rankings: rankings,
		notifier: notifier,
		logger:   logger.With("handler", "on_period_ended"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnPeriodEndedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	switch e := event.(type) {
	case shared.PeriodEndedEvent:
		periodType, err := ranking.ParsePeriodType(e.PeriodType)
		if err != nil {
			h.logger.Error("invalid period type in event", "period_type", e.PeriodType, "error", err)
			return nil
		}

		rows, err := h.rankings.TopByPeriod(ctx, periodType, reward.TopRewardCount)
		if err != nil {
			return err
		}
		return h.notifier.PeriodEnded(ctx, ranking.FinalStandingsOf(rows), periodType)

	case shared.SeasonEndedEvent:
		season := ranking.Season(e.Season)
		if !season.IsValid() {
			h.logger.Error("invalid season in event", "season", e.Season)
			return nil
		}

		rows, err := h.rankings.TopBySeason(ctx, season, reward.TopRewardCount)
		if err != nil {
			return err
		}
		return h.notifier.SeasonEnded(ctx, ranking.FinalStandingsOf(rows), season)

	default:
		h.logger.Warn("received unexpected event", "event_type", event.EventType())
		return nil
	}
}
