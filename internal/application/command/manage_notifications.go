package command

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/notification"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION COMMANDS
// Ownership is enforced here: every mutation carries the acting user's id
// explicitly, and a foreign record fails as forbidden before anything is
// touched.
// ══════════════════════════════════════════════════════════════════════════════

// MarkNotificationReadCommand marks one notification as read.
type MarkNotificationReadCommand struct {
	// ActorID is the user performing the action.
	ActorID uuid.UUID

	// NotificationID is the target record.
	NotificationID uuid.UUID
}

// Validate checks command invariants.
func (c *MarkNotificationReadCommand) Validate() error {
	if c.ActorID == uuid.Nil {
		return shared.NewDomainError("notification", "MarkRead", shared.ErrInvalidID, "actor id is required")
	}
	if c.NotificationID == uuid.Nil {
		return shared.NewDomainError("notification", "MarkRead", shared.ErrInvalidID, "notification id is required")
	}
	return nil
}

// DeleteNotificationCommand deletes one notification.
type DeleteNotificationCommand struct {
	ActorID        uuid.UUID
	NotificationID uuid.UUID
}

// Validate checks command invariants.
func (c *DeleteNotificationCommand) Validate() error {
	if c.ActorID == uuid.Nil {
		return shared.NewDomainError("notification", "Delete", shared.ErrInvalidID, "actor id is required")
	}
	if c.NotificationID == uuid.Nil {
		return shared.NewDomainError("notification", "Delete", shared.ErrInvalidID, "notification id is required")
	}
	return nil
}

// MarkAllNotificationsReadCommand marks all of the actor's notifications read.
type MarkAllNotificationsReadCommand struct {
	ActorID uuid.UUID
}

// Validate checks command invariants.
func (c *MarkAllNotificationsReadCommand) Validate() error {
	if c.ActorID == uuid.Nil {
		return shared.NewDomainError("notification", "MarkAllRead", shared.ErrInvalidID, "actor id is required")
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// HANDLER
// ──────────────────────────────────────────────────────────────────────────────

// NotificationHandler executes notification mutations.
type NotificationHandler struct {
	repo   notification.Repository
	logger *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(repo notification.Repository, logger *slog.Logger) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationHandler{
		repo:   repo,
		logger: logger.With("command", "notifications"),
	}
}

// HandleMarkRead marks one record read after an ownership check.
// Marking an already-read record again is a no-op, not an error.
func (h *NotificationHandler) HandleMarkRead(ctx context.Context, cmd MarkNotificationReadCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	n, err := h.repo.Get(ctx, cmd.NotificationID)
	if err != nil {
		return err
	}
	if !n.OwnedBy(cmd.ActorID) {
		return shared.ErrNotificationForbidden
	}
	if n.IsRead {
		return nil
	}

	if err := h.repo.MarkRead(ctx, cmd.NotificationID); err != nil {
		return err
	}

	h.logger.Debug("notification marked read", "notification_id", cmd.NotificationID, "actor_id", cmd.ActorID)
	return nil
}

// HandleMarkAllRead marks every unread record of the actor as read.
func (h *NotificationHandler) HandleMarkAllRead(ctx context.Context, cmd MarkAllNotificationsReadCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	changed, err := h.repo.MarkAllRead(ctx, cmd.ActorID)
	if err != nil {
		return 0, err
	}

	h.logger.Debug("notifications marked read", "actor_id", cmd.ActorID, "changed", changed)
	return changed, nil
}

// HandleDelete deletes one record after an ownership check.
func (h *NotificationHandler) HandleDelete(ctx context.Context, cmd DeleteNotificationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	n, err := h.repo.Get(ctx, cmd.NotificationID)
	if err != nil {
		return err
	}
	if !n.OwnedBy(cmd.ActorID) {
		return shared.ErrNotificationForbidden
	}

	if err := h.repo.Delete(ctx, cmd.NotificationID); err != nil {
		return err
	}

	h.logger.Debug("notification deleted", "notification_id", cmd.NotificationID, "actor_id", cmd.ActorID)
	return nil
}
