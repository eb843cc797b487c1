package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebit-hub/ranking-core/internal/application/command"
	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/persistence/memory"
)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	events []shared.Event
}

func (p *capturingPublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

func activityRow(t *testing.T, repo *memory.RankingRepository, lastActivity time.Time, streak int) *ranking.UserRanking {
	t.Helper()
	row := registeredRow(t, repo)
	row.StreakDays = streak
	row.LastActivityAt = lastActivity
	require.NoError(t, repo.Update(context.Background(), row))
	return row
}

func TestRecordActivity_ConsecutiveDayExtendsStreak(t *testing.T) {
	repo := memory.NewRankingRepository()
	yesterday := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 30, 7, 30, 0, 0, time.UTC)
	row := activityRow(t, repo, yesterday, 3)

	handler := command.NewRecordActivityHandler(repo, nil, nil)
	result, err := handler.Handle(context.Background(), command.RecordActivityCommand{
		UserID:      row.UserID,
		ScorePoints: 150,
		OccurredAt:  today,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.StreakDays)
	assert.True(t, result.StreakExtended)
	assert.Equal(t, 150, result.TotalScore)
	assert.Equal(t, 0, result.MilestoneBonus)

	stored, err := repo.GetByUserID(context.Background(), row.UserID)
	require.NoError(t, err)
	assert.Equal(t, 150, stored.PeriodPoints)
	assert.Equal(t, 150, stored.SeasonPoints)
}

func TestRecordActivity_SameDayDoesNotExtend(t *testing.T) {
	repo := memory.NewRankingRepository()
	morning := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 30, 21, 0, 0, 0, time.UTC)
	row := activityRow(t, repo, morning, 5)

	handler := command.NewRecordActivityHandler(repo, nil, nil)
	result, err := handler.Handle(context.Background(), command.RecordActivityCommand{
		UserID:      row.UserID,
		ScorePoints: 100,
		OccurredAt:  evening,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.StreakDays)
	assert.False(t, result.StreakExtended)
	assert.Equal(t, 100, result.TotalScore)
}

func TestRecordActivity_GapResetsStreak(t *testing.T) {
	repo := memory.NewRankingRepository()
	lastWeek := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	row := activityRow(t, repo, lastWeek, 50)

	handler := command.NewRecordActivityHandler(repo, nil, nil)
	result, err := handler.Handle(context.Background(), command.RecordActivityCommand{
		UserID:      row.UserID,
		ScorePoints: 80,
		OccurredAt:  today,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.StreakDays)
	assert.True(t, result.StreakExtended)
}

func TestRecordActivity_ScoreUpdateDoesNotMoveStreakAnchor(t *testing.T) {
	repo := memory.NewRankingRepository()
	yesterday := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 30, 7, 30, 0, 0, time.UTC)
	row := activityRow(t, repo, yesterday, 1)

	// A score overwrite between the two activity days refreshes
	// LastUpdatedAt but must leave the streak anchor on yesterday.
	scoreHandler := command.NewUpdateScoreHandler(repo, nil)
	_, err := scoreHandler.Handle(context.Background(), command.UpdateScoreCommand{
		UserID:   row.UserID,
		NewScore: 500,
	})
	require.NoError(t, err)

	handler := command.NewRecordActivityHandler(repo, nil, nil)
	result, err := handler.Handle(context.Background(), command.RecordActivityCommand{
		UserID:      row.UserID,
		ScorePoints: 25,
		OccurredAt:  today,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.StreakDays)
	assert.True(t, result.StreakExtended)

	stored, err := repo.GetByUserID(context.Background(), row.UserID)
	require.NoError(t, err)
	assert.Equal(t, today, stored.LastActivityAt)
}

func TestRecordActivity_FirstActivityStartsStreak(t *testing.T) {
	repo := memory.NewRankingRepository()
	row := registeredRow(t, repo)

	handler := command.NewRecordActivityHandler(repo, nil, nil)
	result, err := handler.Handle(context.Background(), command.RecordActivityCommand{
		UserID:      row.UserID,
		ScorePoints: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.StreakDays)
	assert.True(t, result.StreakExtended)
}

func TestRecordActivity_ScoreCappedAtMax(t *testing.T) {
	repo := memory.NewRankingRepository()
	row := registeredRow(t, repo)

	scoreHandler := command.NewUpdateScoreHandler(repo, nil)
	_, err := scoreHandler.Handle(context.Background(), command.UpdateScoreCommand{
		UserID:   row.UserID,
		NewScore: ranking.MaxScore - 50,
	})
	require.NoError(t, err)

	handler := command.NewRecordActivityHandler(repo, nil, nil)
	result, err := handler.Handle(context.Background(), command.RecordActivityCommand{
		UserID:      row.UserID,
		ScorePoints: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, ranking.MaxScore, result.TotalScore)
}

func TestRecordActivity_MilestonePublishesAchievement(t *testing.T) {
	repo := memory.NewRankingRepository()
	yesterday := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	row := activityRow(t, repo, yesterday, 6)

	publisher := &capturingPublisher{}
	handler := command.NewRecordActivityHandler(repo, publisher, nil)
	result, err := handler.Handle(context.Background(), command.RecordActivityCommand{
		UserID:      row.UserID,
		ScorePoints: 10,
		OccurredAt:  today,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, result.StreakDays)
	assert.Equal(t, 100, result.MilestoneBonus)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventAchievementUnlocked, publisher.events[0].EventType())
	assert.Equal(t, row.UserID.String(), publisher.events[0].AggregateID())
}

func TestRecordActivity_Validation(t *testing.T) {
	handler := command.NewRecordActivityHandler(memory.NewRankingRepository(), nil, nil)

	_, err := handler.Handle(context.Background(), command.RecordActivityCommand{
		ScorePoints: 10,
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}
