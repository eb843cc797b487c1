package reward_test

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
)

func seedRow(t *testing.T, repo *memory.RankingRepository, score, seasonPoints, streak int) *ranking.UserRanking {
	t.Helper()
	row := ranking.NewUserRanking(uuid.New(), ranking.MinSeason)
	row.TotalScore = score
	row.SeasonPoints = seasonPoints
	row.StreakDays = streak
	require.NoError(t, repo.Create(context.Background(), row))
	return row
}

func TestSeasonRewards_PayoutTable(t *testing.T) {
	rankings := memory.NewRankingRepository()
	histories := memory.NewHistoryRepository()

	first := seedRow(t, rankings, 9000, 500, 0)
	second := seedRow(t, rankings, 8000, 400, 0)
	third := seedRow(t, rankings, 7000, 300, 0)
	seedRow(t, rankings, 6000, 200, 0) // fourth place earns nothing

	calc := reward.NewCalculator(rankings, histories)
	entries, err := calc.SeasonRewards(context.Background(), ranking.MinSeason)
	require.NoError(t, err)
	require.Len(t, entries, reward.TopRewardCount)

	assert.Equal(t, first.UserID, entries[0].UserID)
	assert.Equal(t, 10000, entries[0].Points)
	assert.Equal(t, second.UserID, entries[1].UserID)
	assert.Equal(t, 5000, entries[1].Points)
	assert.Equal(t, third.UserID, entries[2].UserID)
	assert.Equal(t, 2000, entries[2].Points)

	for i, e := range entries {
		assert.Equal(t, i+1, e.RankPosition)
		assert.Equal(t, reward.KindSeason, e.Kind)
	}
}

func TestSeasonRewards_InvalidSeason(t *testing.T) {
	calc := reward.NewCalculator(memory.NewRankingRepository(), memory.NewHistoryRepository())

	_, err := calc.SeasonRewards(context.Background(), 0)
	assert.ErrorIs(t, err, shared.ErrInvalidSeason)
}

func TestSeasonRewards_FewerThanThreeFinishers(t *testing.T) {
	rankings := memory.NewRankingRepository()
	seedRow(t, rankings, 5000, 100, 0)

	calc := reward.NewCalculator(rankings, memory.NewHistoryRepository())
	entries, err := calc.SeasonRewards(context.Background(), ranking.MinSeason)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 10000, entries[0].Points)
}

func TestPeriodRewards_FromHistory(t *testing.T) {
	histories := memory.NewHistoryRepository()
	recorded := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		rec := &ranking.RankingHistory{
			ID:           uuid.New(),
			UserID:       uuid.New(),
			TotalScore:   1000 - i,
			RankPosition: ranking.Rank(i),
			PeriodType:   ranking.PeriodWeekly,
			Season:       ranking.MinSeason,
			RecordedAt:   recorded,
		}
		require.NoError(t, histories.Append(context.Background(), rec))
	}

	calc := reward.NewCalculator(memory.NewRankingRepository(), histories)
	entries, err := calc.PeriodRewards(context.Background(), ranking.PeriodWeekly)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 3000, entries[0].Points)
	assert.Equal(t, 2000, entries[1].Points)
	assert.Equal(t, 1000, entries[2].Points)
	assert.Equal(t, reward.KindPeriod, entries[0].Kind)
}

func TestPeriodRewards_InvalidPeriod(t *testing.T) {
	calc := reward.NewCalculator(memory.NewRankingRepository(), memory.NewHistoryRepository())

	_, err := calc.PeriodRewards(context.Background(), ranking.PeriodType("YEARLY"))
	assert.ErrorIs(t, err, shared.ErrInvalidPeriodType)
}

func TestStreakRewards_PayoutTable(t *testing.T) {
	rankings := memory.NewRankingRepository()
	longest := seedRow(t, rankings, 100, 0, 120)
	middle := seedRow(t, rankings, 200, 0, 60)
	shortest := seedRow(t, rankings, 300, 0, 30)

	calc := reward.NewCalculator(rankings, memory.NewHistoryRepository())
	entries, err := calc.StreakRewards(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, longest.UserID, entries[0].UserID)
	assert.Equal(t, 2000, entries[0].Points)
	assert.Equal(t, middle.UserID, entries[1].UserID)
	assert.Equal(t, 1000, entries[1].Points)
	assert.Equal(t, shortest.UserID, entries[2].UserID)
	assert.Equal(t, 500, entries[2].Points)
}

func TestPersonalReward(t *testing.T) {
	rankings := memory.NewRankingRepository()
	row := seedRow(t, rankings, 4000, 0, 0)
	row.RankPosition = 2
	require.NoError(t, rankings.Update(context.Background(), row))

	calc := reward.NewCalculator(rankings, memory.NewHistoryRepository())
	entry, err := calc.PersonalReward(context.Background(), row.UserID)
	require.NoError(t, err)
	assert.Equal(t, 5000, entry.Points)
	assert.Equal(t, 2, entry.RankPosition)
	assert.Equal(t, reward.KindPersonal, entry.Kind)
}

func TestPersonalReward_OutsideTable(t *testing.T) {
	rankings := memory.NewRankingRepository()
	row := seedRow(t, rankings, 4000, 0, 0)
	row.RankPosition = 7
	require.NoError(t, rankings.Update(context.Background(), row))

	calc := reward.NewCalculator(rankings, memory.NewHistoryRepository())
	entry, err := calc.PersonalReward(context.Background(), row.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Points)
	assert.Equal(t, 7, entry.RankPosition)
}

func TestPersonalReward_UnknownUser(t *testing.T) {
	calc := reward.NewCalculator(memory.NewRankingRepository(), memory.NewHistoryRepository())

	userID := uuid.New()
	entry, err := calc.PersonalReward(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, 0, entry.Points)
	assert.Equal(t, 0, entry.RankPosition)
}

func TestCalculator_DoesNotMutateStores(t *testing.T) {
	rankings := memory.NewRankingRepository()
	histories := memory.NewHistoryRepository()
	row := seedRow(t, rankings, 5000, 250, 40)

	calc := reward.NewCalculator(rankings, histories)
	ctx := context.Background()

	before, ok := rankings.Snapshot(row.ID)
	require.True(t, ok)

	for i := 0; i < 2; i++ {
		_, err := calc.SeasonRewards(ctx, ranking.MinSeason)
		require.NoError(t, err)
		_, err = calc.StreakRewards(ctx)
		require.NoError(t, err)
		_, err = calc.PersonalReward(ctx, row.UserID)
		require.NoError(t, err)
	}

	after, ok := rankings.Snapshot(row.ID)
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, 0, histories.Len())
}

func TestStreakMilestoneBonus(t *testing.T) {
	assert.Equal(t, 100, reward.StreakMilestoneBonus(7))
	assert.Equal(t, 500, reward.StreakMilestoneBonus(30))
	assert.Equal(t, 2000, reward.StreakMilestoneBonus(100))

	assert.Equal(t, 0, reward.StreakMilestoneBonus(0))
	assert.Equal(t, 0, reward.StreakMilestoneBonus(6))
	assert.Equal(t, 0, reward.StreakMilestoneBonus(8))
	assert.Equal(t, 0, reward.StreakMilestoneBonus(365))
}
