package eventhandler_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebit-hub/ranking-core/internal/application/eventhandler"
	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/persistence/memory"
)

func seedPeriodRow(t *testing.T, repo *memory.RankingRepository, periodPoints, seasonPoints int) *ranking.UserRanking {
	t.Helper()
	row := ranking.NewUserRanking(uuid.New(), ranking.MinSeason)
	row.PeriodPoints = periodPoints
	row.SeasonPoints = seasonPoints
	require.NoError(t, repo.Create(context.Background(), row))
	return row
}

func TestOnPeriodEnded_NotifiesTopFinishers(t *testing.T) {
	repo := memory.NewRankingRepository()
	first := seedPeriodRow(t, repo, 300, 0)
	second := seedPeriodRow(t, repo, 200, 0)
	third := seedPeriodRow(t, repo, 100, 0)
	seedPeriodRow(t, repo, 50, 0) // fourth is not notified

	notifier := &recordingNotifier{}
	handler := eventhandler.NewOnPeriodEndedHandler(repo, notifier, nil)

	require.NoError(t, handler.Handle(shared.NewPeriodEndedEvent(ranking.PeriodWeekly.String())))

	require.Len(t, notifier.periodEnds, 1)
	assert.Equal(t, []ranking.FinalStanding{
		{UserID: first.UserID, Rank: 1},
		{UserID: second.UserID, Rank: 2},
		{UserID: third.UserID, Rank: 3},
	}, notifier.periodEnds[0])
}

func TestOnPeriodEnded_InvalidPeriodSwallowed(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := eventhandler.NewOnPeriodEndedHandler(memory.NewRankingRepository(), notifier, nil)

	require.NoError(t, handler.Handle(shared.NewPeriodEndedEvent("FORTNIGHTLY")))
	assert.Empty(t, notifier.periodEnds)
}

func TestOnSeasonEnded_NotifiesTopFinishers(t *testing.T) {
	repo := memory.NewRankingRepository()
	first := seedPeriodRow(t, repo, 0, 900)
	second := seedPeriodRow(t, repo, 0, 600)

	notifier := &recordingNotifier{}
	handler := eventhandler.NewOnPeriodEndedHandler(repo, notifier, nil)

	season := ranking.Season(1)
	require.NoError(t, handler.Handle(shared.NewSeasonEndedEvent(season.String(), int(season))))

	require.Len(t, notifier.seasonEnds, 1)
	assert.Equal(t, []ranking.FinalStanding{
		{UserID: first.UserID, Rank: 1},
		{UserID: second.UserID, Rank: 2},
	}, notifier.seasonEnds[0])
}

func TestOnSeasonEnded_InvalidSeasonSwallowed(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := eventhandler.NewOnPeriodEndedHandler(memory.NewRankingRepository(), notifier, nil)

	require.NoError(t, handler.Handle(shared.NewSeasonEndedEvent("Season 0", 0)))
	assert.Empty(t, notifier.seasonEnds)
}
