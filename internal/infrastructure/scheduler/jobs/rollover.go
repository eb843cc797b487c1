package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/reward"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
	"github.com/lifebit-hub/ranking-core/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERIOD ROLLOVER JOB
// ══════════════════════════════════════════════════════════════════════════════

// PeriodRolloverJob closes a period window: it computes the top-3 period
// rewards, announces the period end, and clears the period rank and points
// of every affected row. Runs on the weekly and monthly cron schedules.
type PeriodRolloverJob struct {
	rankings   ranking.Repository
	rewards    *reward.Calculator
	publisher  shared.EventPublisher
	logger     *slog.Logger
	periodType ranking.PeriodType
	timeout    time.Duration
}

// NewPeriodRolloverJob creates a rollover job for one period type.
// publisher may be nil.
func NewPeriodRolloverJob(
	rankings ranking.Repository,
	rewards *reward.Calculator,
	publisher shared.EventPublisher,
	logger *slog.Logger,
	periodType ranking.PeriodType,
) *PeriodRolloverJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &PeriodRolloverJob{
		rankings:   rankings,
		rewards:    rewards,
		publisher:  publisher,
		logger:     logger.With(slog.String("job", "period_rollover"), slog.String("period_type", string(periodType))),
		periodType: periodType,
		timeout:    2 * time.Minute,
	}
}

// Name returns the job name.
func (j *PeriodRolloverJob) Name() string {
	return fmt.Sprintf("period_rollover_%s", j.periodType)
}

// Description returns a human-readable description.
func (j *PeriodRolloverJob) Description() string {
	return fmt.Sprintf("Grants top-3 rewards and resets %s period standings", j.periodType)
}

// Run executes the rollover.
func (j *PeriodRolloverJob) Run(ctx context.Context) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	j.logger.Info("starting period rollover")

	// Rewards come out of the last written snapshots, before the reset
	// clears the standings they were earned on.
	entries, err := j.rewards.PeriodRewards(ctx, j.periodType)
	if err != nil {
		return fmt.Errorf("failed to compute period rewards: %w", err)
	}

	granted := publishRewards(j.publisher, j.logger, entries, fmt.Sprintf("%s period top %d", j.periodType, reward.TopRewardCount))

	if j.publisher != nil {
		if err := j.publisher.Publish(shared.NewPeriodEndedEvent(string(j.periodType))); err != nil {
			j.logger.Error("failed to publish period end", "error", err)
		}
	}

	// The reset is a plain bulk update; transient failures are retried so
	// a blip does not leave the window half closed.
	err = retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		if err := j.rankings.ResetPeriodRanking(ctx, j.periodType); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset period ranking: %w", err)
	}

	j.logger.Info("period rollover completed", "rewards_granted", granted)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SEASON ROLLOVER JOB
// ══════════════════════════════════════════════════════════════════════════════

// SeasonRolloverJob closes a season: top-3 season rewards, season end
// announcement, then a bulk reset of season rank and points.
type SeasonRolloverJob struct {
	rankings  ranking.Repository
	rewards   *reward.Calculator
	publisher shared.EventPublisher
	logger    *slog.Logger
	timeout   time.Duration

	// currentSeason resolves, at run time, the season being closed.
	currentSeason func() ranking.Season
}

// NewSeasonRolloverJob creates the season rollover job.
// publisher may be nil; currentSeason must not be.
func NewSeasonRolloverJob(
	rankings ranking.Repository,
	rewards *reward.Calculator,
	publisher shared.EventPublisher,
	logger *slog.Logger,
	currentSeason func() ranking.Season,
) *SeasonRolloverJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &SeasonRolloverJob{
		rankings:      rankings,
		rewards:       rewards,
		publisher:     publisher,
		logger:        logger.With(slog.String("job", "season_rollover")),
		timeout:       2 * time.Minute,
		currentSeason: currentSeason,
	}
}

// Name returns the job name.
func (j *SeasonRolloverJob) Name() string {
	return "season_rollover"
}

// Description returns a human-readable description.
func (j *SeasonRolloverJob) Description() string {
	return "Grants top-3 season rewards and resets season standings"
}

// Run executes the rollover for the current season.
func (j *SeasonRolloverJob) Run(ctx context.Context) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	season := j.currentSeason()
	logger := j.logger.With(slog.Int("season", int(season)))
	logger.Info("starting season rollover")

	entries, err := j.rewards.SeasonRewards(ctx, season)
	if err != nil {
		return fmt.Errorf("failed to compute season rewards: %w", err)
	}

	granted := publishRewards(j.publisher, logger, entries, fmt.Sprintf("%s top %d", season, reward.TopRewardCount))

	if j.publisher != nil {
		event := shared.NewSeasonEndedEvent(season.String(), int(season))
		if err := j.publisher.Publish(event); err != nil {
			logger.Error("failed to publish season end", "error", err)
		}
	}

	err = retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		if err := j.rankings.ResetSeasonRanking(ctx, season); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset season ranking: %w", err)
	}

	logger.Info("season rollover completed", "rewards_granted", granted)
	return nil
}

// publishRewards announces one reward grant per entry. Returns the count of
// published grants.
func publishRewards(publisher shared.EventPublisher, logger *slog.Logger, entries []reward.Entry, title string) int {
	if publisher == nil {
		return 0
	}

	granted := 0
	for _, entry := range entries {
		event := shared.NewRewardGrantedEvent(entry.UserID.String(), title, entry.Points)
		if err := publisher.Publish(event); err != nil {
			logger.Error("failed to publish reward grant", "user_id", entry.UserID, "error", err)
			continue
		}
		granted++
	}
	return granted
}
