// Package shared contains common domain types, errors, and events that are
// used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Ranking events
	EventScoreUpdated      EventType = "ranking.score_updated"
	EventStreakUpdated     EventType = "ranking.streak_updated"
	EventRankChanged       EventType = "ranking.rank_changed"
	EventRanksRecomputed   EventType = "ranking.recomputed"
	EventPeriodRankUpdated EventType = "ranking.period_rank_updated"
	EventSeasonRankUpdated EventType = "ranking.season_rank_updated"

	// Rollover events
	EventPeriodEnded EventType = "ranking.period_ended"
	EventSeasonEnded EventType = "ranking.season_ended"

	// Reward events
	EventRewardGranted EventType = "reward.granted"

	// Achievement events
	EventAchievementUnlocked EventType = "achievement.unlocked"

	// Notification events
	EventNotificationCreated EventType = "notification.created"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes domain events.
type EventHandler interface {
	Handle(event Event) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(event Event) error

// Handle implements EventHandler.
func (f EventHandlerFunc) Handle(event Event) error {
	return f(event)
}

// EventPublisher publishes domain events to subscribers.
type EventPublisher interface {
	Publish(event Event) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// RankChangedEvent is emitted when a recomputation pass moves a user to a
// different rank position.
type RankChangedEvent struct {
	BaseEvent
	UserID  string `json:"user_id"`
	OldRank int    `json:"old_rank"`
	NewRank int    `json:"new_rank"`
	Score   int    `json:"score"`
}

// Payload implements Event interface.
func (e RankChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":  e.UserID,
		"old_rank": e.OldRank,
		"new_rank": e.NewRank,
		"score":    e.Score,
	}
}

// NewRankChangedEvent creates a RankChangedEvent.
func NewRankChangedEvent(userID string, oldRank, newRank, score int) RankChangedEvent {
	return RankChangedEvent{
		BaseEvent: NewBaseEvent(EventRankChanged, userID),
		UserID:    userID,
		OldRank:   oldRank,
		NewRank:   newRank,
		Score:     score,
	}
}

// RanksRecomputedEvent is emitted after a full recomputation pass commits.
type RanksRecomputedEvent struct {
	BaseEvent
	TotalRows   int `json:"total_rows"`
	RankChanges int `json:"rank_changes"`
}

// Payload implements Event interface.
func (e RanksRecomputedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"total_rows":   e.TotalRows,
		"rank_changes": e.RankChanges,
	}
}

// NewRanksRecomputedEvent creates a RanksRecomputedEvent.
func NewRanksRecomputedEvent(runID string, totalRows, rankChanges int) RanksRecomputedEvent {
	return RanksRecomputedEvent{
		BaseEvent:   NewBaseEvent(EventRanksRecomputed, runID),
		TotalRows:   totalRows,
		RankChanges: rankChanges,
	}
}

// PeriodEndedEvent is emitted when a ranking period rolls over.
type PeriodEndedEvent struct {
	BaseEvent
	PeriodType string `json:"period_type"`
}

// Payload implements Event interface.
func (e PeriodEndedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"period_type": e.PeriodType,
	}
}

// NewPeriodEndedEvent creates a PeriodEndedEvent.
func NewPeriodEndedEvent(periodType string) PeriodEndedEvent {
	return PeriodEndedEvent{
		BaseEvent:  NewBaseEvent(EventPeriodEnded, periodType),
		PeriodType: periodType,
	}
}

// SeasonEndedEvent is emitted when a competitive season closes.
type SeasonEndedEvent struct {
	BaseEvent
	Season int `json:"season"`
}

// Payload implements Event interface.
func (e SeasonEndedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"season": e.Season,
	}
}

// NewSeasonEndedEvent creates a SeasonEndedEvent.
func NewSeasonEndedEvent(aggregateID string, season int) SeasonEndedEvent {
	return SeasonEndedEvent{
		BaseEvent: NewBaseEvent(EventSeasonEnded, aggregateID),
		Season:    season,
	}
}

// RewardGrantedEvent is emitted when a reward payout is recorded for a user.
type RewardGrantedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Points int    `json:"points"`
}

// Payload implements Event interface.
func (e RewardGrantedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id": e.UserID,
		"title":   e.Title,
		"points":  e.Points,
	}
}

// NewRewardGrantedEvent creates a RewardGrantedEvent.
func NewRewardGrantedEvent(userID, title string, points int) RewardGrantedEvent {
	return RewardGrantedEvent{
		BaseEvent: NewBaseEvent(EventRewardGranted, userID),
		UserID:    userID,
		Title:     title,
		Points:    points,
	}
}

// AchievementUnlockedEvent is emitted when an external collaborator reports
// an unlocked achievement that should surface as a ranking notification.
type AchievementUnlockedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

// Payload implements Event interface.
func (e AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id": e.UserID,
		"title":   e.Title,
	}
}

// NewAchievementUnlockedEvent creates an AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(userID, title string) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent: NewBaseEvent(EventAchievementUnlocked, userID),
		UserID:    userID,
		Title:     title,
	}
}
