// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConflict       = errors.New("conflict")
	ErrOptimisticLock = errors.New("optimistic lock failure")

	// Storage errors
	ErrStorage = errors.New("storage error")
	ErrTimeout = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "ranking", "notification", "reward"
	Op      string // Operation that failed, e.g., "UpdateScore", "MarkRead"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Ranking domain errors
var (
	ErrRankingNotFound   = NewDomainError("ranking", "Find", ErrNotFound, "ranking not found")
	ErrRankingExists     = NewDomainError("ranking", "Create", ErrAlreadyExists, "ranking already exists for user")
	ErrRankingNil        = NewDomainError("ranking", "Validate", ErrInvalidEntity, "ranking is nil")
	ErrScoreOutOfRange   = NewDomainError("ranking", "Validate", ErrValueOutOfRange, "score outside allowed range")
	ErrRankOutOfRange    = NewDomainError("ranking", "Validate", ErrValueOutOfRange, "rank must be at least 1")
	ErrStreakOutOfRange  = NewDomainError("ranking", "Validate", ErrValueOutOfRange, "streak days outside allowed range")
	ErrInvalidPeriodType = NewDomainError("ranking", "Validate", ErrInvalidInput, "unrecognized period type")
	ErrInvalidSeason     = NewDomainError("ranking", "Validate", ErrInvalidInput, "season must be at least 1")
	ErrInvalidTier       = NewDomainError("ranking", "Validate", ErrInvalidInput, "unrecognized tier")
	ErrRankingConflict   = NewDomainError("ranking", "Update", ErrConflict, "ranking modified concurrently")
)

// History domain errors
var (
	ErrHistoryNotFound = NewDomainError("history", "Find", ErrNotFound, "history record not found")
)

// Notification domain errors
var (
	ErrNotificationNotFound  = NewDomainError("notification", "Find", ErrNotFound, "notification not found")
	ErrNotificationForbidden = NewDomainError("notification", "Access", ErrForbidden, "notification belongs to another user")
	ErrInvalidNotifType      = NewDomainError("notification", "Validate", ErrInvalidInput, "unrecognized notification type")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidEntity)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsConflict checks if the error is an optimistic concurrency failure.
// Conflicts are safe to retry at the single-mutation level.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrOptimisticLock)
}
