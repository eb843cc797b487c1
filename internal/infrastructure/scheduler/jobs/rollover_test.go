package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/reward"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/persistence/memory"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/scheduler/jobs"
)

func TestPeriodRollover(t *testing.T) {
	rankings := memory.NewRankingRepository()
	histories := memory.NewHistoryRepository()
	publisher := &capturingPublisher{}
	ctx := context.Background()

	// Active rows with period standings about to be closed.
	row := ranking.NewUserRanking(uuid.New(), ranking.MinSeason)
	row.PeriodType = ranking.PeriodWeekly
	row.PeriodRank = 1
	row.PeriodPoints = 700
	require.NoError(t, rankings.Create(ctx, row))

	// Snapshots of the closing window drive the payouts.
	recorded := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 2; i++ {
		require.NoError(t, histories.Append(ctx, &ranking.RankingHistory{
			ID:           uuid.New(),
			UserID:       uuid.New(),
			RankPosition: ranking.Rank(i),
			PeriodType:   ranking.PeriodWeekly,
			Season:       ranking.MinSeason,
			RecordedAt:   recorded,
		}))
	}

	calc := reward.NewCalculator(rankings, histories)
	job := jobs.NewPeriodRolloverJob(rankings, calc, publisher, nil, ranking.PeriodWeekly)

	assert.Equal(t, "period_rollover_WEEKLY", job.Name())
	require.NoError(t, job.Run(ctx))

	// Two snapshot finishers, two reward grants, one period end.
	assert.Len(t, publisher.byType(shared.EventRewardGranted), 2)
	assert.Len(t, publisher.byType(shared.EventPeriodEnded), 1)

	// The period standings are cleared.
	stored, err := rankings.GetByUserID(ctx, row.UserID)
	require.NoError(t, err)
	assert.Equal(t, ranking.Rank(ranking.Unranked), stored.PeriodRank)
	assert.Equal(t, 0, stored.PeriodPoints)
}

func TestSeasonRollover(t *testing.T) {
	rankings := memory.NewRankingRepository()
	histories := memory.NewHistoryRepository()
	publisher := &capturingPublisher{}
	ctx := context.Background()

	first := ranking.NewUserRanking(uuid.New(), ranking.MinSeason)
	first.SeasonPoints = 900
	first.SeasonRank = 1
	require.NoError(t, rankings.Create(ctx, first))

	second := ranking.NewUserRanking(uuid.New(), ranking.MinSeason)
	second.SeasonPoints = 400
	second.SeasonRank = 2
	require.NoError(t, rankings.Create(ctx, second))

	calc := reward.NewCalculator(rankings, histories)
	job := jobs.NewSeasonRolloverJob(rankings, calc, publisher, nil, func() ranking.Season {
		return ranking.MinSeason
	})

	require.NoError(t, job.Run(ctx))

	grants := publisher.byType(shared.EventRewardGranted)
	require.Len(t, grants, 2)
	firstGrant, ok := grants[0].(shared.RewardGrantedEvent)
	require.True(t, ok)
	assert.Equal(t, first.UserID.String(), firstGrant.UserID)
	assert.Equal(t, 10000, firstGrant.Points)

	assert.Len(t, publisher.byType(shared.EventSeasonEnded), 1)

	stored, err := rankings.GetByUserID(ctx, first.UserID)
	require.NoError(t, err)
	assert.Equal(t, ranking.Rank(ranking.Unranked), stored.SeasonRank)
	assert.Equal(t, 0, stored.SeasonPoints)
}

func TestPeriodRollover_NoSnapshotsNoRewards(t *testing.T) {
	rankings := memory.NewRankingRepository()
	publisher := &capturingPublisher{}

	calc := reward.NewCalculator(rankings, memory.NewHistoryRepository())
	job := jobs.NewPeriodRolloverJob(rankings, calc, publisher, nil, ranking.PeriodMonthly)

	require.NoError(t, job.Run(context.Background()))

	assert.Empty(t, publisher.byType(shared.EventRewardGranted))
	assert.Len(t, publisher.byType(shared.EventPeriodEnded), 1)
}
