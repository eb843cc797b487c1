package ranking

import (
	"context"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines the contract for the durable ranking store.
// Implementations live in the infrastructure layer (PostgreSQL; in-memory
// fakes for tests).
type Repository interface {
	// ──────────────────────────────────────────────────────────────────────────
	// ROW OPERATIONS
	// ──────────────────────────────────────────────────────────────────────────

	// Create inserts a new ranking row. Fails with shared.ErrAlreadyExists
	// when an active row already exists for the user and season.
	Create(ctx context.Context, row *UserRanking) error

	// GetByUserID returns the active row for a user.
	// Fails with shared.ErrNotFound when absent.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*UserRanking, error)

	// Update persists a mutated row using optimistic concurrency: the write
	// only applies when the stored version matches row.Version, and the
	// version is incremented on success. A stale version fails with
	// shared.ErrConflict; the caller retries the single mutation.
	Update(ctx context.Context, row *UserRanking) error

	// ──────────────────────────────────────────────────────────────────────────
	// ORDERED READS (snapshot queries)
	// ──────────────────────────────────────────────────────────────────────────

	// ListActive returns all active rows ordered by the documented total
	// order (score desc, createdAt asc, user id asc). This is the consistent
	// read snapshot of a recomputation pass.
	ListActive(ctx context.Context) ([]*UserRanking, error)

	// TopByScore returns up to limit active rows by score, best first.
	TopByScore(ctx context.Context, limit int) ([]*UserRanking, error)

	// TopBySeason returns up to limit active rows of a season ordered by
	// season points, best first.
	TopBySeason(ctx context.Context, season Season, limit int) ([]*UserRanking, error)

	// TopByPeriod returns up to limit active rows of a period window ordered
	// by score, best first.
	TopByPeriod(ctx context.Context, periodType PeriodType, limit int) ([]*UserRanking, error)

	// TopByStreak returns up to limit active rows ordered by streak days,
	// longest first.
	TopByStreak(ctx context.Context, limit int) ([]*UserRanking, error)

	// CountActive returns the number of active rows.
	CountActive(ctx context.Context) (int, error)

	// ──────────────────────────────────────────────────────────────────────────
	// BATCH OPERATIONS
	// ──────────────────────────────────────────────────────────────────────────

	// SaveRankPositions persists the rank columns (rankPosition,
	// previousRank) of all given rows as one all-or-nothing batch. Score and
	// streak columns are never written by this call, so a mutation racing
	// the batch can lose the ordering race but never its own write.
	SaveRankPositions(ctx context.Context, rows []*UserRanking) error

	// ResetPeriodRanking clears period rank and period points for every row
	// tagged with the period type. Used at period rollover.
	ResetPeriodRanking(ctx context.Context, periodType PeriodType) error

	// ResetSeasonRanking clears season rank and season points for every row
	// of the season. Used at season rollover.
	ResetSeasonRanking(ctx context.Context, season Season) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HISTORY REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// HistoryRepository defines the contract for the append-only history store.
// There is deliberately no update or delete: snapshots are immutable facts.
type HistoryRepository interface {
	// Append records snapshots. Appending is the only mutation.
	Append(ctx context.Context, records ...*RankingHistory) error

	// ListByPeriodType returns snapshots for a period type, newest first.
	ListByPeriodType(ctx context.Context, periodType PeriodType, limit int) ([]*RankingHistory, error)

	// ListBySeason returns snapshots for a season, newest first.
	ListBySeason(ctx context.Context, season Season, limit int) ([]*RankingHistory, error)

	// ListByUser returns a user's snapshots, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*RankingHistory, error)
}
