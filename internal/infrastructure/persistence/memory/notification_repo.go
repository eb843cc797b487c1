package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/notification"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// NotificationRepository is a mutex-guarded in-memory notification store.
type NotificationRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*notification.Notification
}

// NewNotificationRepository creates an empty in-memory notification store.
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		records: make(map[uuid.UUID]*notification.Notification),
	}
}

// Create stores a notification record.
func (r *NotificationRepository) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *n
	r.records[n.ID] = &clone
	return nil
}

// Get returns a notification by id regardless of owner. Ownership is the
// caller's check, so Forbidden and NotFound stay distinguishable.
func (r *NotificationRepository) Get(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotificationNotFound
	}
	clone := *n
	return &clone, nil
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*notification.Notification, 0)
	for _, n := range r.records {
		if n.UserID == userID {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.records {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkRead flips the read flag of one record.
func (r *NotificationRepository) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.records[id]
	if !ok {
		return shared.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

// MarkAllRead flips the read flag of all of a user's unread records and
// returns how many changed.
func (r *NotificationRepository) MarkAllRead(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := 0
	for _, n := range r.records {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

// Delete removes a record.
func (r *NotificationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return shared.ErrNotificationNotFound
	}
	delete(r.records, id)
	return nil
}
