package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
)

// ══════════════════════════════════════════════════════════════════════════════
// HISTORY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// HistoryRepository implements ranking.HistoryRepository for PostgreSQL.
// The table is append-only: no UPDATE or DELETE statement exists here.
type HistoryRepository struct {
	conn *Connection
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(conn *Connection) *HistoryRepository {
	return &HistoryRepository{conn: conn}
}

const historyColumns = `
	id, user_ranking_id, user_id, total_score, streak_days, rank_position,
	period_type, period_rank, period_points,
	season, season_rank, season_points,
	recorded_at
`

// Append records snapshots as one all-or-nothing batch.
func (r *HistoryRepository) Append(ctx context.Context, records ...*ranking.RankingHistory) error {
	if len(records) == 0 {
		return nil
	}

	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(`
				INSERT INTO ranking_histories (`+historyColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			`,
				rec.ID,
				rec.UserRankingID,
				rec.UserID,
				rec.TotalScore,
				rec.StreakDays,
				int64(rec.RankPosition),
				string(rec.PeriodType),
				int64(rec.PeriodRank),
				rec.PeriodPoints,
				int(rec.Season),
				int64(rec.SeasonRank),
				rec.SeasonPoints,
				rec.RecordedAt,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for range records {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to append history record: %w", err)
			}
		}

		return nil
	})
}

// ListByPeriodType returns snapshots for a period type, newest first.
func (r *HistoryRepository) ListByPeriodType(ctx context.Context, periodType ranking.PeriodType, limit int) ([]*ranking.RankingHistory, error) {
	return r.queryHistories(ctx, `
		SELECT `+historyColumns+`
		FROM ranking_histories
		WHERE period_type = $1
		ORDER BY recorded_at DESC, rank_position ASC
		LIMIT $2
	`, string(periodType), limit)
}

// ListBySeason returns snapshots for a season, newest first.
func (r *HistoryRepository) ListBySeason(ctx context.Context, season ranking.Season, limit int) ([]*ranking.RankingHistory, error) {
	return r.queryHistories(ctx, `
		SELECT `+historyColumns+`
		FROM ranking_histories
		WHERE season = $1
		ORDER BY recorded_at DESC, rank_position ASC
		LIMIT $2
	`, int(season), limit)
}

// ListByUser returns a user's snapshots, newest first.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*ranking.RankingHistory, error) {
	return r.queryHistories(ctx, `
		SELECT `+historyColumns+`
		FROM ranking_histories
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`, userID, limit)
}

// ─────────────────────────────────────────────────────────────────────────────
// SCANNING
// ─────────────────────────────────────────────────────────────────────────────

func (r *HistoryRepository) queryHistories(ctx context.Context, sql string, args ...interface{}) ([]*ranking.RankingHistory, error) {
	pgRows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query histories: %w", err)
	}
	defer pgRows.Close()

	var records []*ranking.RankingHistory
	for pgRows.Next() {
		rec, err := scanHistory(pgRows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := pgRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read histories: %w", err)
	}
	return records, nil
}

func scanHistory(row pgx.Row) (*ranking.RankingHistory, error) {
	var (
		rec        ranking.RankingHistory
		rankPos    int64
		periodType string
		periodRank int64
		season     int
		seasonRank int64
	)

	err := row.Scan(
		&rec.ID,
		&rec.UserRankingID,
		&rec.UserID,
		&rec.TotalScore,
		&rec.StreakDays,
		&rankPos,
		&periodType,
		&periodRank,
		&rec.PeriodPoints,
		&season,
		&seasonRank,
		&rec.SeasonPoints,
		&rec.RecordedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.RankPosition = ranking.Rank(rankPos)
	rec.PeriodType = ranking.PeriodType(periodType)
	rec.PeriodRank = ranking.Rank(periodRank)
	rec.Season = ranking.Season(season)
	rec.SeasonRank = ranking.Rank(seasonRank)

	return &rec, nil
}
