package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/notification"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// NotificationDTO is the read model of a notification.
type NotificationDTO struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationDTO(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// GetNotificationsQuery lists a user's notifications.
type GetNotificationsQuery struct {
	// UserID is the acting user; results are always scoped to them.
	UserID uuid.UUID

	// Limit bounds the page (default 10, max 100).
	Limit int
}

// GetNotificationsResult is the notification list plus the unread counter.
type GetNotificationsResult struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int               `json:"unread_count"`
}

// GetNotificationsHandler executes the notification queries.
type GetNotificationsHandler struct {
	repo   notification.Repository
	logger *slog.Logger
}

// NewGetNotificationsHandler creates a GetNotificationsHandler.
func NewGetNotificationsHandler(repo notification.Repository, logger *slog.Logger) *GetNotificationsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetNotificationsHandler{
		repo:   repo,
		logger: logger.With("query", "get_notifications"),
	}
}

// Handle returns the user's notifications, newest first, with the unread
// counter.
func (h *GetNotificationsHandler) Handle(ctx context.Context, q GetNotificationsQuery) (*GetNotificationsResult, error) {
	if q.UserID == uuid.Nil {
		return nil, shared.NewDomainError("notification", "List", shared.ErrInvalidID, "user id is required")
	}
	limit := boundLimit(q.Limit)

	records, err := h.repo.ListByUser(ctx, q.UserID, limit)
	if err != nil {
		return nil, err
	}

	unread, err := h.repo.CountUnread(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]NotificationDTO, 0, len(records))
	for _, n := range records {
		dtos = append(dtos, toNotificationDTO(n))
	}

	return &GetNotificationsResult{
		Notifications: dtos,
		UnreadCount:   unread,
	}, nil
}

// HandleUnreadCount returns only the unread counter.
func (h *GetNotificationsHandler) HandleUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, shared.NewDomainError("notification", "CountUnread", shared.ErrInvalidID, "user id is required")
	}
	return h.repo.CountUnread(ctx, userID)
}
