package command_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebit-hub/ranking-core/internal/application/command"
	"github.com/lifebit-hub/ranking-core/internal/domain/notification"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/persistence/memory"
)

func seedNotification(t *testing.T, repo *memory.NotificationRepository, userID uuid.UUID) *notification.Notification {
	t.Helper()
	n := notification.New(userID, notification.TypeRankChange, "Rank up!", "You climbed to #3")
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestMarkNotificationRead(t *testing.T) {
	repo := memory.NewNotificationRepository()
	owner := uuid.New()
	n := seedNotification(t, repo, owner)

	handler := command.NewNotificationHandler(repo, nil)
	ctx := context.Background()

	require.NoError(t, handler.HandleMarkRead(ctx, command.MarkNotificationReadCommand{
		ActorID:        owner,
		NotificationID: n.ID,
	}))

	stored, err := repo.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)

	// Marking again is a no-op, not an error.
	require.NoError(t, handler.HandleMarkRead(ctx, command.MarkNotificationReadCommand{
		ActorID:        owner,
		NotificationID: n.ID,
	}))
}

func TestMarkNotificationRead_ForeignRecordForbidden(t *testing.T) {
	repo := memory.NewNotificationRepository()
	owner := uuid.New()
	n := seedNotification(t, repo, owner)

	handler := command.NewNotificationHandler(repo, nil)
	ctx := context.Background()

	err := handler.HandleMarkRead(ctx, command.MarkNotificationReadCommand{
		ActorID:        uuid.New(),
		NotificationID: n.ID,
	})
	require.Error(t, err)
	assert.True(t, shared.IsForbidden(err))
	assert.False(t, shared.IsNotFound(err))

	// The record is untouched.
	stored, err := repo.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsRead)
}

func TestMarkNotificationRead_Missing(t *testing.T) {
	handler := command.NewNotificationHandler(memory.NewNotificationRepository(), nil)

	err := handler.HandleMarkRead(context.Background(), command.MarkNotificationReadCommand{
		ActorID:        uuid.New(),
		NotificationID: uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.False(t, shared.IsForbidden(err))
}

func TestMarkNotificationRead_Validation(t *testing.T) {
	handler := command.NewNotificationHandler(memory.NewNotificationRepository(), nil)

	err := handler.HandleMarkRead(context.Background(), command.MarkNotificationReadCommand{
		NotificationID: uuid.New(),
	})
	assert.True(t, shared.IsValidation(err))

	err = handler.HandleMarkRead(context.Background(), command.MarkNotificationReadCommand{
		ActorID: uuid.New(),
	})
	assert.True(t, shared.IsValidation(err))
}

func TestMarkAllNotificationsRead(t *testing.T) {
	repo := memory.NewNotificationRepository()
	owner := uuid.New()
	other := uuid.New()

	seedNotification(t, repo, owner)
	seedNotification(t, repo, owner)
	read := seedNotification(t, repo, owner)
	seedNotification(t, repo, other)

	ctx := context.Background()
	require.NoError(t, repo.MarkRead(ctx, read.ID))

	handler := command.NewNotificationHandler(repo, nil)
	changed, err := handler.HandleMarkAllRead(ctx, command.MarkAllNotificationsReadCommand{ActorID: owner})
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	unread, err := repo.CountUnread(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	// The other user's notification stays unread.
	otherUnread, err := repo.CountUnread(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, otherUnread)
}

func TestDeleteNotification(t *testing.T) {
	repo := memory.NewNotificationRepository()
	owner := uuid.New()
	n := seedNotification(t, repo, owner)

	handler := command.NewNotificationHandler(repo, nil)
	ctx := context.Background()

	require.NoError(t, handler.HandleDelete(ctx, command.DeleteNotificationCommand{
		ActorID:        owner,
		NotificationID: n.ID,
	}))

	_, err := repo.Get(ctx, n.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestDeleteNotification_ForeignRecordForbidden(t *testing.T) {
	repo := memory.NewNotificationRepository()
	owner := uuid.New()
	n := seedNotification(t, repo, owner)

	handler := command.NewNotificationHandler(repo, nil)
	ctx := context.Background()

	err := handler.HandleDelete(ctx, command.DeleteNotificationCommand{
		ActorID:        uuid.New(),
		NotificationID: n.ID,
	})
	assert.True(t, shared.IsForbidden(err))

	// Still stored.
	_, err = repo.Get(ctx, n.ID)
	assert.NoError(t, err)
}
