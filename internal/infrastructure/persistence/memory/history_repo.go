package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
)

// HistoryRepository is a mutex-guarded in-memory history store. Append-only,
// like its PostgreSQL counterpart.
type HistoryRepository struct {
	mu      sync.RWMutex
	records []*ranking.RankingHistory
}

// NewHistoryRepository creates an empty in-memory history store.
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

// Append records snapshots.
func (r *HistoryRepository) Append(_ context.Context, records ...*ranking.RankingHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		if rec == nil {
			continue
		}
		clone := *rec
		r.records = append(r.records, &clone)
	}
	return nil
}

// ListByPeriodType returns snapshots for a period type, newest first and
// best rank first within the same instant.
func (r *HistoryRepository) ListByPeriodType(_ context.Context, periodType ranking.PeriodType, limit int) ([]*ranking.RankingHistory, error) {
	return r.list(limit, func(rec *ranking.RankingHistory) bool {
		return rec.PeriodType == periodType
	}), nil
}

// ListBySeason returns snapshots for a season, newest first.
func (r *HistoryRepository) ListBySeason(_ context.Context, season ranking.Season, limit int) ([]*ranking.RankingHistory, error) {
	return r.list(limit, func(rec *ranking.RankingHistory) bool {
		return rec.Season == season
	}), nil
}

// ListByUser returns a user's snapshots, newest first.
func (r *HistoryRepository) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*ranking.RankingHistory, error) {
	return r.list(limit, func(rec *ranking.RankingHistory) bool {
		return rec.UserID == userID
	}), nil
}

// Len returns the number of stored snapshots. Test helper.
func (r *HistoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func (r *HistoryRepository) list(limit int, match func(*ranking.RankingHistory) bool) []*ranking.RankingHistory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ranking.RankingHistory, 0)
	for _, rec := range r.records {
		if match(rec) {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].RankPosition < out[j].RankPosition
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
