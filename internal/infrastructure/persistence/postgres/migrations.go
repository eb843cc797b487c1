package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEMA MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Migration represents a single schema migration.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// migrations is the ordered list of schema migrations.
var migrations = []Migration{
	{Version: 1, Name: "create_user_rankings", Up: migration001Up, Down: migration001Down},
	{Version: 2, Name: "create_ranking_histories", Up: migration002Up, Down: migration002Down},
	{Version: 3, Name: "create_ranking_notifications", Up: migration003Up, Down: migration003Down},
}

// ──────────────────────────────────────────────────────────────────────────────
// 001: user rankings
// ──────────────────────────────────────────────────────────────────────────────

const migration001Up = `
CREATE TABLE IF NOT EXISTS user_rankings (
    id              UUID PRIMARY KEY,
    user_id         UUID NOT NULL,
    total_score     BIGINT NOT NULL DEFAULT 0
                    CHECK (total_score >= 0 AND total_score <= 10000),
    streak_days     INT NOT NULL DEFAULT 0
                    CHECK (streak_days >= 0 AND streak_days <= 365),
    rank_position   BIGINT NOT NULL DEFAULT 0 CHECK (rank_position >= 0),
    previous_rank   BIGINT NOT NULL DEFAULT 0 CHECK (previous_rank >= 0),
    period_type     VARCHAR(16) NOT NULL DEFAULT 'WEEKLY',
    period_rank     BIGINT NOT NULL DEFAULT 0 CHECK (period_rank >= 0),
    period_points   BIGINT NOT NULL DEFAULT 0,
    season          INT NOT NULL DEFAULT 1 CHECK (season >= 1),
    season_rank     BIGINT NOT NULL DEFAULT 0 CHECK (season_rank >= 0),
    season_points   BIGINT NOT NULL DEFAULT 0,
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    version         BIGINT NOT NULL DEFAULT 1,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    -- Streak anchor. Only activity ticks move it; the zero value means
    -- no activity has been recorded yet.
    last_activity_at TIMESTAMPTZ NOT NULL DEFAULT '0001-01-01T00:00:00Z'
);

-- One active ranking row per user per season.
CREATE UNIQUE INDEX IF NOT EXISTS idx_user_rankings_user_season_active
    ON user_rankings (user_id, season)
    WHERE is_active = TRUE;

-- Recomputation order: score descending, then creation time, then user id.
CREATE INDEX IF NOT EXISTS idx_user_rankings_standings
    ON user_rankings (total_score DESC, created_at ASC, user_id ASC)
    WHERE is_active = TRUE;

CREATE INDEX IF NOT EXISTS idx_user_rankings_season_points
    ON user_rankings (season_points DESC)
    WHERE is_active = TRUE;

CREATE INDEX IF NOT EXISTS idx_user_rankings_period_points
    ON user_rankings (period_points DESC)
    WHERE is_active = TRUE;

CREATE INDEX IF NOT EXISTS idx_user_rankings_streak
    ON user_rankings (streak_days DESC)
    WHERE is_active = TRUE;
`

const migration001Down = `
DROP TABLE IF EXISTS user_rankings;
`

// ──────────────────────────────────────────────────────────────────────────────
// 002: ranking histories (append-only)
// ──────────────────────────────────────────────────────────────────────────────

const migration002Up = `
CREATE TABLE IF NOT EXISTS ranking_histories (
    id              UUID PRIMARY KEY,
    user_ranking_id UUID NOT NULL,
    user_id         UUID NOT NULL,
    total_score     BIGINT NOT NULL CHECK (total_score >= 0 AND total_score <= 10000),
    streak_days     INT NOT NULL CHECK (streak_days >= 0 AND streak_days <= 365),
    rank_position   BIGINT NOT NULL CHECK (rank_position >= 0),
    period_type     VARCHAR(16) NOT NULL,
    period_rank     BIGINT NOT NULL DEFAULT 0,
    period_points   BIGINT NOT NULL DEFAULT 0,
    season          INT NOT NULL CHECK (season >= 1),
    season_rank     BIGINT NOT NULL DEFAULT 0,
    season_points   BIGINT NOT NULL DEFAULT 0,
    recorded_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ranking_histories_user
    ON ranking_histories (user_id, recorded_at DESC);

CREATE INDEX IF NOT EXISTS idx_ranking_histories_period
    ON ranking_histories (period_type, recorded_at DESC);

CREATE INDEX IF NOT EXISTS idx_ranking_histories_season
    ON ranking_histories (season, recorded_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS ranking_histories;
`

// ──────────────────────────────────────────────────────────────────────────────
// 003: notifications
// ──────────────────────────────────────────────────────────────────────────────

const migration003Up = `
CREATE TABLE IF NOT EXISTS ranking_notifications (
    id         UUID PRIMARY KEY,
    user_id    UUID NOT NULL,
    type       VARCHAR(32) NOT NULL,
    title      VARCHAR(255) NOT NULL,
    message    TEXT NOT NULL,
    is_read    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ranking_notifications_user
    ON ranking_notifications (user_id, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_ranking_notifications_unread
    ON ranking_notifications (user_id)
    WHERE is_read = FALSE;
`

const migration003Down = `
DROP TABLE IF EXISTS ranking_notifications;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION RUNNER
// ══════════════════════════════════════════════════════════════════════════════

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INT PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate applies all pending migrations in order. Each migration runs in
// its own transaction together with its schema_migrations record.
func Migrate(ctx context.Context, conn *Connection, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "postgres.migrate"))

	if _, err := conn.Pool().Exec(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("%w: create schema_migrations: %v", ErrMigrationFailed, err)
	}

	for _, m := range migrations {
		applied, err := migrationApplied(ctx, conn, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.Up); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMigrationFailed, m.Name, err)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				m.Version, m.Name,
			); err != nil {
				return fmt.Errorf("%w: record %s: %v", ErrMigrationFailed, m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.Info("migration applied",
			slog.Int("version", m.Version),
			slog.String("name", m.Name),
		)
	}

	return nil
}

func migrationApplied(ctx context.Context, conn *Connection, version int) (bool, error) {
	var exists bool
	err := conn.Pool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`,
		version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: check version %d: %v", ErrMigrationFailed, version, err)
	}
	return exists, nil
}
