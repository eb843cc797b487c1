package query_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebit-hub/ranking-core/internal/application/query"
	"github.com/lifebit-hub/ranking-core/internal/domain/notification"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/persistence/memory"
)

func TestGetNotifications(t *testing.T) {
	repo := memory.NewNotificationRepository()
	owner := uuid.New()
	ctx := context.Background()

	first := notification.New(owner, notification.TypeRankChange, "Rank up!", "You climbed to #2")
	second := notification.New(owner, notification.TypeReward, "Reward", "Weekly top finisher: 3000 points")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.MarkRead(ctx, first.ID))

	// A foreign notification never leaks into the result.
	require.NoError(t, repo.Create(ctx, notification.New(uuid.New(), notification.TypeSeasonEnd, "Season over", "Season 1 has ended")))

	handler := query.NewGetNotificationsHandler(repo, nil)
	result, err := handler.Handle(ctx, query.GetNotificationsQuery{UserID: owner})
	require.NoError(t, err)

	assert.Len(t, result.Notifications, 2)
	assert.Equal(t, 1, result.UnreadCount)
	for _, n := range result.Notifications {
		assert.NotEqual(t, string(notification.TypeSeasonEnd), n.Type)
	}
}

func TestGetNotifications_RequiresUser(t *testing.T) {
	handler := query.NewGetNotificationsHandler(memory.NewNotificationRepository(), nil)

	_, err := handler.Handle(context.Background(), query.GetNotificationsQuery{})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))

	_, err = handler.HandleUnreadCount(context.Background(), uuid.Nil)
	assert.True(t, shared.IsValidation(err))
}

func TestGetNotifications_LimitBounded(t *testing.T) {
	repo := memory.NewNotificationRepository()
	owner := uuid.New()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(ctx, notification.New(owner, notification.TypeRankChange, "Ranking update", "moved")))
	}

	handler := query.NewGetNotificationsHandler(repo, nil)
	result, err := handler.Handle(ctx, query.GetNotificationsQuery{UserID: owner})
	require.NoError(t, err)
	assert.Len(t, result.Notifications, 10)

	// The unread counter covers everything, not just the page.
	assert.Equal(t, 25, result.UnreadCount)
}

func TestHandleUnreadCount(t *testing.T) {
	repo := memory.NewNotificationRepository()
	owner := uuid.New()
	ctx := context.Background()

	n := notification.New(owner, notification.TypeAchievement, "7-day streak", "+100 bonus points")
	require.NoError(t, repo.Create(ctx, n))

	handler := query.NewGetNotificationsHandler(repo, nil)
	count, err := handler.HandleUnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.MarkRead(ctx, n.ID))
	count, err = handler.HandleUnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
