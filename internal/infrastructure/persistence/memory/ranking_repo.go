// Package memory provides in-memory implementations of the domain
// repositories. They honor the same contracts as the PostgreSQL
// implementations (optimistic concurrency, documented ordering, sentinel
// errors) and back the test suites and local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// RankingRepository is a mutex-guarded in-memory ranking store.
type RankingRepository struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*ranking.UserRanking // keyed by row ID
}

// NewRankingRepository creates an empty in-memory ranking store.
func NewRankingRepository() *RankingRepository {
	return &RankingRepository{
		rows: make(map[uuid.UUID]*ranking.UserRanking),
	}
}

// Create inserts a new row, rejecting a second active row for the same user
// and season.
func (r *RankingRepository) Create(_ context.Context, row *ranking.UserRanking) error {
	if row == nil {
		return shared.ErrRankingNil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rows {
		if existing.IsActive && existing.UserID == row.UserID && existing.Season == row.Season {
			return shared.ErrRankingExists
		}
	}
	r.rows[row.ID] = row.Clone()
	return nil
}

// GetByUserID returns the active row for a user, preferring the latest season.
func (r *RankingRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*ranking.UserRanking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *ranking.UserRanking
	for _, row := range r.rows {
		if !row.IsActive || row.UserID != userID {
			continue
		}
		if found == nil || row.Season > found.Season {
			found = row
		}
	}
	if found == nil {
		return nil, shared.ErrRankingNotFound
	}
	return found.Clone(), nil
}

// Update applies an optimistic write: stale versions fail with a conflict and
// the stored version is incremented on success, mirrored onto the argument.
func (r *RankingRepository) Update(_ context.Context, row *ranking.UserRanking) error {
	if row == nil {
		return shared.ErrRankingNil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[row.ID]
	if !ok {
		return shared.ErrRankingNotFound
	}
	if stored.Version != row.Version {
		return shared.ErrRankingConflict
	}

	updated := row.Clone()
	updated.Version++
	r.rows[row.ID] = updated
	row.Version = updated.Version
	return nil
}

// ListActive returns active rows in the documented total order.
func (r *RankingRepository) ListActive(_ context.Context) ([]*ranking.UserRanking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.activeRows()
	sort.Slice(out, func(i, j int) bool {
		return ranking.Less(out[i], out[j])
	})
	return out, nil
}

// TopByScore returns up to limit active rows, best score first.
func (r *RankingRepository) TopByScore(ctx context.Context, limit int) ([]*ranking.UserRanking, error) {
	rows, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return truncate(rows, limit), nil
}

// TopBySeason returns up to limit active rows of a season by season points.
func (r *RankingRepository) TopBySeason(_ context.Context, season ranking.Season, limit int) ([]*ranking.UserRanking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ranking.UserRanking, 0)
	for _, row := range r.activeRows() {
		if row.Season == season {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeasonPoints != out[j].SeasonPoints {
			return out[i].SeasonPoints > out[j].SeasonPoints
		}
		return ranking.Less(out[i], out[j])
	})
	return truncate(out, limit), nil
}

// TopByPeriod returns up to limit active rows of a period window by period
// points.
func (r *RankingRepository) TopByPeriod(_ context.Context, periodType ranking.PeriodType, limit int) ([]*ranking.UserRanking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ranking.UserRanking, 0)
	for _, row := range r.activeRows() {
		if row.PeriodType == periodType {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PeriodPoints != out[j].PeriodPoints {
			return out[i].PeriodPoints > out[j].PeriodPoints
		}
		return ranking.Less(out[i], out[j])
	})
	return truncate(out, limit), nil
}

// TopByStreak returns up to limit active rows, longest streak first.
func (r *RankingRepository) TopByStreak(_ context.Context, limit int) ([]*ranking.UserRanking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.activeRows()
	sort.Slice(out, func(i, j int) bool {
		if out[i].StreakDays != out[j].StreakDays {
			return out[i].StreakDays > out[j].StreakDays
		}
		return ranking.Less(out[i], out[j])
	})
	return truncate(out, limit), nil
}

// CountActive returns the number of active rows.
func (r *RankingRepository) CountActive(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, row := range r.rows {
		if row.IsActive {
			count++
		}
	}
	return count, nil
}

// SaveRankPositions writes only the rank columns of the given rows, all or
// nothing. An unknown row fails the whole batch before any write applies.
func (r *RankingRepository) SaveRankPositions(_ context.Context, rows []*ranking.UserRanking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		if _, ok := r.rows[row.ID]; !ok {
			return shared.ErrRankingNotFound
		}
	}
	now := time.Now().UTC()
	for _, row := range rows {
		stored := r.rows[row.ID]
		stored.RankPosition = row.RankPosition
		stored.PreviousRank = row.PreviousRank
		stored.LastUpdatedAt = now
	}
	return nil
}

// ResetPeriodRanking clears period rank and points for all rows of the
// period type.
func (r *RankingRepository) ResetPeriodRanking(_ context.Context, periodType ranking.PeriodType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, row := range r.rows {
		if row.IsActive && row.PeriodType == periodType {
			row.PeriodRank = ranking.Unranked
			row.PeriodPoints = 0
			row.LastUpdatedAt = now
		}
	}
	return nil
}

// ResetSeasonRanking clears season rank and points for all rows of the
// season.
func (r *RankingRepository) ResetSeasonRanking(_ context.Context, season ranking.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, row := range r.rows {
		if row.IsActive && row.Season == season {
			row.SeasonRank = ranking.Unranked
			row.SeasonPoints = 0
			row.LastUpdatedAt = now
		}
	}
	return nil
}

// Snapshot returns a copy of the stored row, bypassing the active filter.
// Test helper.
func (r *RankingRepository) Snapshot(id uuid.UUID) (*ranking.UserRanking, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, false
	}
	return row.Clone(), true
}

func (r *RankingRepository) activeRows() []*ranking.UserRanking {
	out := make([]*ranking.UserRanking, 0, len(r.rows))
	for _, row := range r.rows {
		if row.IsActive {
			out = append(out, row.Clone())
		}
	}
	return out
}

func truncate(rows []*ranking.UserRanking, limit int) []*ranking.UserRanking {
	if limit <= 0 {
		return nil
	}
	if limit > len(rows) {
		limit = len(rows)
	}
	return rows[:limit]
}
