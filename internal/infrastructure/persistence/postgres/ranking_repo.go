package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RankingRepository implements ranking.Repository for PostgreSQL.
type RankingRepository struct {
	conn *Connection
}

// NewRankingRepository creates a new RankingRepository.
func NewRankingRepository(conn *Connection) *RankingRepository {
	return &RankingRepository{conn: conn}
}

const rankingColumns = `
	id, user_id, total_score, streak_days, rank_position, previous_rank,
	period_type, period_rank, period_points,
	season, season_rank, season_points,
	is_active, version, created_at, last_updated_at, last_activity_at
`

// ─────────────────────────────────────────────────────────────────────────────
// ROW OPERATIONS
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a new ranking row.
func (r *RankingRepository) Create(ctx context.Context, row *ranking.UserRanking) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO user_rankings (`+rankingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`,
		row.ID,
		row.UserID,
		row.TotalScore,
		row.StreakDays,
		int64(row.RankPosition),
		int64(row.PreviousRank),
		string(row.PeriodType),
		int64(row.PeriodRank),
		row.PeriodPoints,
		int(row.Season),
		int64(row.SeasonRank),
		row.SeasonPoints,
		row.IsActive,
		row.Version,
		row.CreatedAt,
		row.LastUpdatedAt,
		row.LastActivityAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrRankingExists
		}
		return fmt.Errorf("failed to insert ranking: %w", err)
	}
	return nil
}

// GetByUserID returns the active ranking row for a user.
func (r *RankingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*ranking.UserRanking, error) {
	row, err := scanRanking(r.conn.QueryRow(ctx, `
		SELECT `+rankingColumns+`
		FROM user_rankings
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY season DESC
		LIMIT 1
	`, userID))
	if IsNoRows(err) {
		return nil, shared.ErrRankingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking: %w", err)
	}
	return row, nil
}

// Update persists a mutated row with an optimistic version check.
func (r *RankingRepository) Update(ctx context.Context, row *ranking.UserRanking) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE user_rankings SET
			total_score      = $1,
			streak_days      = $2,
			rank_position    = $3,
			previous_rank    = $4,
			period_type      = $5,
			period_rank      = $6,
			period_points    = $7,
			season           = $8,
			season_rank      = $9,
			season_points    = $10,
			is_active        = $11,
			version          = version + 1,
			last_updated_at  = $12,
			last_activity_at = $13
		WHERE id = $14 AND version = $15
	`,
		row.TotalScore,
		row.StreakDays,
		int64(row.RankPosition),
		int64(row.PreviousRank),
		string(row.PeriodType),
		int64(row.PeriodRank),
		row.PeriodPoints,
		int(row.Season),
		int64(row.SeasonRank),
		row.SeasonPoints,
		row.IsActive,
		row.LastUpdatedAt,
		row.LastActivityAt,
		row.ID,
		row.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update ranking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or someone updated it first.
		var exists bool
		checkErr := r.conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM user_rankings WHERE id = $1)`,
			row.ID,
		).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("failed to check ranking existence: %w", checkErr)
		}
		if !exists {
			return shared.ErrRankingNotFound
		}
		return shared.ErrRankingConflict
	}

	row.Version++
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ORDERED READS
// ─────────────────────────────────────────────────────────────────────────────

// standingsOrder matches ranking.Less: score descending, ties broken by
// creation time, then user id.
const standingsOrder = `ORDER BY total_score DESC, created_at ASC, user_id ASC`

// ListActive returns all active rows in standings order.
func (r *RankingRepository) ListActive(ctx context.Context) ([]*ranking.UserRanking, error) {
	return r.queryRankings(ctx, `
		SELECT `+rankingColumns+`
		FROM user_rankings
		WHERE is_active = TRUE
		`+standingsOrder)
}

// TopByScore returns up to limit active rows by score, best first.
func (r *RankingRepository) TopByScore(ctx context.Context, limit int) ([]*ranking.UserRanking, error) {
	return r.queryRankings(ctx, `
		SELECT `+rankingColumns+`
		FROM user_rankings
		WHERE is_active = TRUE
		`+standingsOrder+`
		LIMIT $1
	`, limit)
}

// TopBySeason returns up to limit active rows of a season by season points.
func (r *RankingRepository) TopBySeason(ctx context.Context, season ranking.Season, limit int) ([]*ranking.UserRanking, error) {
	return r.queryRankings(ctx, `
		SELECT `+rankingColumns+`
		FROM user_rankings
		WHERE is_active = TRUE AND season = $1
		ORDER BY season_points DESC, created_at ASC, user_id ASC
		LIMIT $2
	`, int(season), limit)
}

// TopByPeriod returns up to limit active rows of a period window by score.
func (r *RankingRepository) TopByPeriod(ctx context.Context, periodType ranking.PeriodType, limit int) ([]*ranking.UserRanking, error) {
	return r.queryRankings(ctx, `
		SELECT `+rankingColumns+`
		FROM user_rankings
		WHERE is_active = TRUE AND period_type = $1
		ORDER BY period_points DESC, created_at ASC, user_id ASC
		LIMIT $2
	`, string(periodType), limit)
}

// TopByStreak returns up to limit active rows by streak days, longest first.
func (r *RankingRepository) TopByStreak(ctx context.Context, limit int) ([]*ranking.UserRanking, error) {
	return r.queryRankings(ctx, `
		SELECT `+rankingColumns+`
		FROM user_rankings
		WHERE is_active = TRUE
		ORDER BY streak_days DESC, created_at ASC, user_id ASC
		LIMIT $1
	`, limit)
}

// CountActive returns the number of active rows.
func (r *RankingRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_rankings WHERE is_active = TRUE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rankings: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// BATCH OPERATIONS
// ─────────────────────────────────────────────────────────────────────────────

// SaveRankPositions writes the rank columns of all given rows in one
// transaction. Score, streak and last_activity_at are never touched here,
// so a user mutation racing the batch keeps its own write and the streak
// anchor stays where the last activity put it.
func (r *RankingRepository) SaveRankPositions(ctx context.Context, rows []*ranking.UserRanking) error {
	if len(rows) == 0 {
		return nil
	}

	return r.conn.WithTx(ctx, RepeatableReadTxOptions(), func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(`
				UPDATE user_rankings SET
					rank_position   = $1,
					previous_rank   = $2,
					last_updated_at = NOW()
				WHERE id = $3
			`,
				int64(row.RankPosition),
				int64(row.PreviousRank),
				row.ID,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for range rows {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to save rank position: %w", err)
			}
		}

		return nil
	})
}

// ResetPeriodRanking clears period rank and points for all rows of a period type.
func (r *RankingRepository) ResetPeriodRanking(ctx context.Context, periodType ranking.PeriodType) error {
	_, err := r.conn.Exec(ctx, `
		UPDATE user_rankings SET
			period_rank     = 0,
			period_points   = 0,
			last_updated_at = NOW()
		WHERE period_type = $1 AND is_active = TRUE
	`, string(periodType))
	if err != nil {
		return fmt.Errorf("failed to reset period ranking: %w", err)
	}
	return nil
}

// ResetSeasonRanking clears season rank and points for all rows of a season.
func (r *RankingRepository) ResetSeasonRanking(ctx context.Context, season ranking.Season) error {
	_, err := r.conn.Exec(ctx, `
		UPDATE user_rankings SET
			season_rank     = 0,
			season_points   = 0,
			last_updated_at = NOW()
		WHERE season = $1 AND is_active = TRUE
	`, int(season))
	if err != nil {
		return fmt.Errorf("failed to reset season ranking: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SCANNING
// ─────────────────────────────────────────────────────────────────────────────

func (r *RankingRepository) queryRankings(ctx context.Context, sql string, args ...interface{}) ([]*ranking.UserRanking, error) {
	pgRows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer pgRows.Close()

	var rows []*ranking.UserRanking
	for pgRows.Next() {
		row, err := scanRanking(pgRows)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := pgRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rankings: %w", err)
	}
	return rows, nil
}

func scanRanking(row pgx.Row) (*ranking.UserRanking, error) {
	var (
		ur         ranking.UserRanking
		rankPos    int64
		prevRank   int64
		periodType string
		periodRank int64
		season     int
		seasonRank int64
	)

	err := row.Scan(
		&ur.ID,
		&ur.UserID,
		&ur.TotalScore,
		&ur.StreakDays,
		&rankPos,
		&prevRank,
		&periodType,
		&periodRank,
		&ur.PeriodPoints,
		&season,
		&seasonRank,
		&ur.SeasonPoints,
		&ur.IsActive,
		&ur.Version,
		&ur.CreatedAt,
		&ur.LastUpdatedAt,
		&ur.LastActivityAt,
	)
	if err != nil {
		return nil, err
	}

	ur.RankPosition = ranking.Rank(rankPos)
	ur.PreviousRank = ranking.Rank(prevRank)
	ur.PeriodType = ranking.PeriodType(periodType)
	ur.PeriodRank = ranking.Rank(periodRank)
	ur.Season = ranking.Season(season)
	ur.SeasonRank = ranking.Rank(seasonRank)

	return &ur, nil
}
