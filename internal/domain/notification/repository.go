package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the contract for the notification store.
// Ownership checks live in the service layer: the repository's Get returns
// the record regardless of owner so the service can distinguish a foreign
// record (Forbidden) from an absent one (NotFound).
type Repository interface {
	// Create persists a new notification.
	Create(ctx context.Context, n *Notification) error

	// Get returns a notification by id.
	// Fails with shared.ErrNotFound when absent.
	Get(ctx context.Context, id uuid.UUID) (*Notification, error)

	// ListByUser returns a user's notifications, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error)

	// CountUnread returns the number of unread notifications for a user.
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)

	// MarkRead flips the read flag of a single notification.
	MarkRead(ctx context.Context, id uuid.UUID) error

	// MarkAllRead flips the read flag of all of a user's unread
	// notifications and returns the number of records changed.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)

	// Delete removes a notification.
	Delete(ctx context.Context, id uuid.UUID) error
}
