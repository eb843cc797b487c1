package ranking

import (
	"time"

	"github.com/google/uuid"
)

// RankingHistory is an append-only snapshot of a user's ranking state at a
// point in time, tagged by period type and season. History rows are created
// by period/season boundary events and by the scheduled recomputation pass;
// they are never updated or deleted by normal operation.
type RankingHistory struct {
	// ID is the internal identifier of the snapshot.
	ID uuid.UUID

	// UserRankingID references the owning UserRanking row.
	UserRankingID uuid.UUID

	// UserID duplicates the external identity for query convenience.
	UserID uuid.UUID

	TotalScore   int
	StreakDays   int
	RankPosition Rank

	PeriodType   PeriodType
	PeriodRank   Rank
	PeriodPoints int

	Season       Season
	SeasonRank   Rank
	SeasonPoints int

	// RecordedAt is set once at creation.
	RecordedAt time.Time
}

// SnapshotOf captures the current state of a ranking row as a history record
// tagged with the given period type.
func SnapshotOf(r *UserRanking, periodType PeriodType) *RankingHistory {
	return &RankingHistory{
		ID:            uuid.New(),
		UserRankingID: r.ID,
		UserID:        r.UserID,
		TotalScore:    r.TotalScore,
		StreakDays:    r.StreakDays,
		RankPosition:  r.RankPosition,
		PeriodType:    periodType,
		PeriodRank:    r.PeriodRank,
		PeriodPoints:  r.PeriodPoints,
		Season:        r.Season,
		SeasonRank:    r.SeasonRank,
		SeasonPoints:  r.SeasonPoints,
		RecordedAt:    time.Now().UTC(),
	}
}
