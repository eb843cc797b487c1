// Package jobs contains the scheduled jobs of the ranking engine.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOMPUTE RANKS JOB
// ══════════════════════════════════════════════════════════════════════════════

// StandingsInvalidator drops cached standings after a recomputation pass.
// Implemented by the Redis ranking cache; nil disables invalidation.
type StandingsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// RecomputeRanksJob recomputes the full ranking table. It reads one
// consistent snapshot of all active rows, sorts them by the total order
// (score, then creation time, then user id), assigns dense positions
// starting at 1, and writes the rank columns back in a single
// all-or-nothing batch. Running it twice on unchanged scores changes
// nothing.
type RecomputeRanksJob struct {
	rankings  ranking.Repository
	histories ranking.HistoryRepository
	publisher shared.EventPublisher
	cache     StandingsInvalidator
	logger    *slog.Logger

	config RecomputeConfig

	lastStats atomic.Value // *RecomputeStats
}

// RecomputeConfig contains configuration for the recompute job.
type RecomputeConfig struct {
	// SnapshotPeriodType tags the history snapshots written by this pass.
	SnapshotPeriodType ranking.PeriodType

	// WriteHistory enables appending a snapshot per row after the batch.
	WriteHistory bool

	// PublishRankChanges enables rank change events for moved rows.
	PublishRankChanges bool

	// Timeout is the maximum duration of one pass.
	Timeout time.Duration
}

// DefaultRecomputeConfig returns the daily pass configuration.
func DefaultRecomputeConfig() RecomputeConfig {
	return RecomputeConfig{
		SnapshotPeriodType: ranking.PeriodDaily,
		WriteHistory:       true,
		PublishRankChanges: true,
		Timeout:            5 * time.Minute,
	}
}

// RecomputeStats contains statistics from one recomputation pass.
type RecomputeStats struct {
	RunID            string
	StartedAt        time.Time
	CompletedAt      time.Time
	Duration         time.Duration
	TotalRows        int
	RankChanges      int
	SnapshotsWritten int
	EventsPublished  int
}

// NewRecomputeRanksJob creates a new recompute job.
// publisher and cache may be nil.
func NewRecomputeRanksJob(
	rankings ranking.Repository,
	histories ranking.HistoryRepository,
	publisher shared.EventPublisher,
	cache StandingsInvalidator,
	logger *slog.Logger,
	config RecomputeConfig,
) *RecomputeRanksJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecomputeRanksJob{
		rankings:  rankings,
		histories: histories,
		publisher: publisher,
		cache:     cache,
		logger:    logger.With(slog.String("job", "recompute_ranks")),
		config:    config,
	}
}

// Name returns the job name.
func (j *RecomputeRanksJob) Name() string {
	return "recompute_ranks"
}

// Description returns a human-readable description.
func (j *RecomputeRanksJob) Description() string {
	return "Recomputes all rank positions from current scores and records history snapshots"
}

// LastStats returns the stats of the most recent pass, or nil.
func (j *RecomputeRanksJob) LastStats() *RecomputeStats {
	if v := j.lastStats.Load(); v != nil {
		return v.(*RecomputeStats)
	}
	return nil
}

// Run executes one recomputation pass.
func (j *RecomputeRanksJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &RecomputeStats{RunID: uuid.NewString(), StartedAt: startedAt}

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	j.logger.Info("starting rank recomputation")

	// Consistent read snapshot of every active row.
	rows, err := j.rankings.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active rankings: %w", err)
	}

	stats.TotalRows = len(rows)
	if len(rows) == 0 {
		j.finish(stats)
		j.logger.Info("no active rankings, nothing to recompute")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Sort and assign positions in memory. Nothing is persisted yet, so a
	// cancellation up to this point leaves the table untouched.
	standings := ranking.NewStandings()
	for _, row := range rows {
		standings.Add(row)
	}
	stats.RankChanges = standings.AssignPositions()

	if err := ctx.Err(); err != nil {
		return err
	}

	// One all-or-nothing batch. A failure here rolls everything back and
	// the previous positions stay visible.
	ranked := standings.Rows()
	if err := j.rankings.SaveRankPositions(ctx, ranked); err != nil {
		return fmt.Errorf("failed to save rank positions: %w", err)
	}

	if j.config.WriteHistory {
		records := make([]*ranking.RankingHistory, 0, len(ranked))
		for _, row := range ranked {
			records = append(records, ranking.SnapshotOf(row, j.config.SnapshotPeriodType))
		}
		if err := j.histories.Append(ctx, records...); err != nil {
			// Positions are already committed; history is a projection and
			// the next pass writes a fresh snapshot.
			j.logger.Error("failed to append history snapshots", "error", err)
		} else {
			stats.SnapshotsWritten = len(records)
		}
	}

	stats.EventsPublished = j.publishChanges(stats.RunID, ranked)

	if j.cache != nil {
		if err := j.cache.Invalidate(ctx); err != nil {
			j.logger.Warn("failed to invalidate standings cache", "error", err)
		}
	}

	j.finish(stats)

	j.logger.Info("rank recomputation completed",
		"total_rows", stats.TotalRows,
		"rank_changes", stats.RankChanges,
		"snapshots", stats.SnapshotsWritten,
		"duration", stats.Duration.String(),
	)

	return nil
}

func (j *RecomputeRanksJob) publishChanges(runID string, ranked []*ranking.UserRanking) int {
	if j.publisher == nil || !j.config.PublishRankChanges {
		return 0
	}

	published := 0
	for _, row := range ranked {
		if row.RankPosition == row.PreviousRank {
			continue
		}
		event := shared.NewRankChangedEvent(row.UserID.String(), int(row.PreviousRank), int(row.RankPosition), row.TotalScore)
		if err := j.publisher.Publish(event); err != nil {
			j.logger.Error("failed to publish rank change", "user_id", row.UserID, "error", err)
			continue
		}
		published++
	}

	event := shared.NewRanksRecomputedEvent(runID, len(ranked), published)
	if err := j.publisher.Publish(event); err != nil {
		j.logger.Error("failed to publish recompute event", "error", err)
	}

	return published
}

func (j *RecomputeRanksJob) finish(stats *RecomputeStats) {
	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastStats.Store(stats)
}
