// Package notification contains the domain model for user-visible ranking
// notifications. The engine only persists notification records; actual
// delivery (push, sockets) is an external consumer that polls or subscribes
// to newly created records.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type classifies a ranking notification.
type Type string

const (
	TypeRankChange  Type = "RANK_CHANGE"
	TypeReward      Type = "REWARD"
	TypeAchievement Type = "ACHIEVEMENT"
	TypePeriodEnd   Type = "PERIOD_END"
	TypeSeasonEnd   Type = "SEASON_END"
)

// ParseType parses a persisted notification type tag. Unrecognized values
// fail loudly rather than mapping to a default bucket.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeRankChange, TypeReward, TypeAchievement, TypePeriodEnd, TypeSeasonEnd:
		return Type(s), nil
	default:
		return "", fmt.Errorf("notification: unrecognized type %q", s)
	}
}

// IsValid reports whether the type is one of the known tags.
func (t Type) IsValid() bool {
	switch t {
	case TypeRankChange, TypeReward, TypeAchievement, TypePeriodEnd, TypeSeasonEnd:
		return true
	}
	return false
}

// Notification is a persisted, user-visible ranking notification.
// Append-only until read or deleted: the only legal mutation is flipping
// IsRead, and deletion happens only by explicit owner action.
type Notification struct {
	// ID is the internal identifier.
	ID uuid.UUID

	// UserID is the owner. Ownership gates mark-read and delete.
	UserID uuid.UUID

	// Type classifies the triggering ranking event.
	Type Type

	// Title is the short display headline.
	Title string

	// Message is the formatted body.
	Message string

	// IsRead tracks the read/unread state.
	IsRead bool

	// CreatedAt is set once at creation.
	CreatedAt time.Time
}

// New creates an unread notification.
func New(userID uuid.UUID, typ Type, title, message string) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
}

// OwnedBy reports whether the actor owns this notification.
func (n *Notification) OwnedBy(actorID uuid.UUID) bool {
	return n.UserID == actorID
}

// MarkRead flips the read flag.
func (n *Notification) MarkRead() {
	n.IsRead = true
}
