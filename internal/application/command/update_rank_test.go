package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebit-hub/ranking-core/internal/application/command"
	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/persistence/memory"
)

func TestUpdatePeriodRank(t *testing.T) {
	repo := memory.NewRankingRepository()
	row := registeredRow(t, repo)

	handler := command.NewUpdateRankHandler(repo, nil)
	ctx := context.Background()

	require.NoError(t, handler.HandlePeriod(ctx, command.UpdatePeriodRankCommand{
		UserID:     row.UserID,
		PeriodType: ranking.PeriodMonthly,
		Rank:       3,
		Points:     420,
	}))

	stored, err := repo.GetByUserID(ctx, row.UserID)
	require.NoError(t, err)
	assert.Equal(t, ranking.PeriodMonthly, stored.PeriodType)
	assert.Equal(t, ranking.Rank(3), stored.PeriodRank)
	assert.Equal(t, 420, stored.PeriodPoints)

	err = handler.HandlePeriod(ctx, command.UpdatePeriodRankCommand{
		UserID:     row.UserID,
		PeriodType: "HOURLY",
		Rank:       1,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidPeriodType)

	err = handler.HandlePeriod(ctx, command.UpdatePeriodRankCommand{
		UserID:     row.UserID,
		PeriodType: ranking.PeriodWeekly,
		Rank:       0,
	})
	assert.ErrorIs(t, err, shared.ErrRankOutOfRange)
}

func TestUpdateSeasonRank(t *testing.T) {
	repo := memory.NewRankingRepository()
	row := registeredRow(t, repo)

	handler := command.NewUpdateRankHandler(repo, nil)
	ctx := context.Background()

	require.NoError(t, handler.HandleSeason(ctx, command.UpdateSeasonRankCommand{
		UserID: row.UserID,
		Season: ranking.MinSeason,
		Rank:   1,
		Points: 999,
	}))

	stored, err := repo.GetByUserID(ctx, row.UserID)
	require.NoError(t, err)
	assert.Equal(t, ranking.Rank(1), stored.SeasonRank)
	assert.Equal(t, 999, stored.SeasonPoints)

	err = handler.HandleSeason(ctx, command.UpdateSeasonRankCommand{
		UserID: row.UserID,
		Season: 0,
		Rank:   1,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidSeason)
}

func TestResetRanking(t *testing.T) {
	repo := memory.NewRankingRepository()
	ctx := context.Background()

	first := registeredRow(t, repo)
	second := registeredRow(t, repo)

	rankHandler := command.NewUpdateRankHandler(repo, nil)
	require.NoError(t, rankHandler.HandlePeriod(ctx, command.UpdatePeriodRankCommand{
		UserID:     first.UserID,
		PeriodType: ranking.PeriodWeekly,
		Rank:       1,
		Points:     300,
	}))
	require.NoError(t, rankHandler.HandleSeason(ctx, command.UpdateSeasonRankCommand{
		UserID: second.UserID,
		Season: ranking.MinSeason,
		Rank:   2,
		Points: 500,
	}))

	resetHandler := command.NewResetRankingHandler(repo, nil)

	require.NoError(t, resetHandler.ResetPeriod(ctx, ranking.PeriodWeekly))
	stored, err := repo.GetByUserID(ctx, first.UserID)
	require.NoError(t, err)
	assert.Equal(t, ranking.Rank(ranking.Unranked), stored.PeriodRank)
	assert.Equal(t, 0, stored.PeriodPoints)

	require.NoError(t, resetHandler.ResetSeason(ctx, ranking.MinSeason))
	stored, err = repo.GetByUserID(ctx, second.UserID)
	require.NoError(t, err)
	assert.Equal(t, ranking.Rank(ranking.Unranked), stored.SeasonRank)
	assert.Equal(t, 0, stored.SeasonPoints)
}
