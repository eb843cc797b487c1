// Package ranking contains the domain model of the competitive ranking engine.
// A UserRanking row is the unit of competition: one active row per user per
// season, holding the score, streak, and the periodically refreshed rank
// position. Rank positions are a cache of order, rewritten only by the
// recomputation job, never by individual mutations.
package ranking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

// Score, rank and streak domains. Values outside these ranges are rejected by
// the validator, never clamped.
const (
	MinScore = 0
	MaxScore = 10000

	MinRank = 1

	MinStreakDays = 0
	MaxStreakDays = 365

	// Unranked marks a rank position that has not been assigned yet.
	Unranked = 0

	// MinSeason is the first competitive season.
	MinSeason = 1
)

// Pagination bounds for read projections.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// PeriodType identifies a recurring ranking window. SEASON is tracked
// separately from the calendar periods but shares the snapshot machinery.
type PeriodType string

const (
	PeriodDaily   PeriodType = "DAILY"
	PeriodWeekly  PeriodType = "WEEKLY"
	PeriodMonthly PeriodType = "MONTHLY"
	PeriodSeason  PeriodType = "SEASON"
)

// ParsePeriodType parses a persisted period tag. Unrecognized values fail
// loudly rather than falling back to a default bucket.
func ParsePeriodType(s string) (PeriodType, error) {
	switch PeriodType(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodSeason:
		return PeriodType(s), nil
	default:
		return "", fmt.Errorf("ranking: unrecognized period type %q", s)
	}
}

// IsValid reports whether the period type is one of the known tags.
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodSeason:
		return true
	}
	return false
}

// String returns the persisted representation.
func (p PeriodType) String() string {
	return string(p)
}

// Season identifies a competitive epoch. Seasons start at 1.
type Season int

// IsValid reports whether the season identifier is usable.
func (s Season) IsValid() bool {
	return s >= MinSeason
}

// String returns a display representation such as "Season 3".
func (s Season) String() string {
	return fmt.Sprintf("Season %d", int(s))
}

// Rank is a 1-based standing among active users. Zero means unranked.
type Rank int

// IsAssigned reports whether the rank has been assigned by a recomputation
// pass.
func (r Rank) IsAssigned() bool {
	return r >= MinRank
}

// String returns a display representation such as "#4".
func (r Rank) String() string {
	if !r.IsAssigned() {
		return "unranked"
	}
	return fmt.Sprintf("#%d", int(r))
}

// RankChange is the movement between two recomputation passes.
// Positive = climbed, negative = dropped.
type RankChange int

// RankDirection describes the direction of a rank change.
type RankDirection string

const (
	RankDirectionUp     RankDirection = "up"
	RankDirectionDown   RankDirection = "down"
	RankDirectionStable RankDirection = "stable"
	RankDirectionNew    RankDirection = "new"
)

// Direction returns the direction of the change.
func (rc RankChange) Direction() RankDirection {
	switch {
	case rc > 0:
		return RankDirectionUp
	case rc < 0:
		return RankDirectionDown
	default:
		return RankDirectionStable
	}
}

// Abs returns the absolute movement in positions.
func (rc RankChange) Abs() int {
	if rc < 0 {
		return int(-rc)
	}
	return int(rc)
}

// ══════════════════════════════════════════════════════════════════════════════
// TIER
// ══════════════════════════════════════════════════════════════════════════════

// Tier is a cosmetic bucket derived from score, used for display badges.
type Tier string

const (
	TierUnrank      Tier = "UNRANK"
	TierBronze      Tier = "BRONZE"
	TierSilver      Tier = "SILVER"
	TierGold        Tier = "GOLD"
	TierPlatinum    Tier = "PLATINUM"
	TierDiamond     Tier = "DIAMOND"
	TierMaster      Tier = "MASTER"
	TierGrandmaster Tier = "GRANDMASTER"
	TierChallenger  Tier = "CHALLENGER"
)

// tierThresholds maps minimum score to tier, highest first.
var tierThresholds = []struct {
	minScore int
	tier     Tier
}{
	{9000, TierChallenger},
	{8000, TierGrandmaster},
	{7000, TierMaster},
	{5500, TierDiamond},
	{4000, TierPlatinum},
	{2500, TierGold},
	{1000, TierSilver},
	{0, TierBronze},
}

// TierFor derives the tier for a ranked row. Users without an assigned rank
// position stay UNRANK regardless of score.
func TierFor(score int, rank Rank) Tier {
	if !rank.IsAssigned() {
		return TierUnrank
	}
	for _, t := range tierThresholds {
		if score >= t.minScore {
			return t.tier
		}
	}
	return TierBronze
}

// ParseTier parses a persisted tier tag, failing on unrecognized values.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierUnrank, TierBronze, TierSilver, TierGold, TierPlatinum,
		TierDiamond, TierMaster, TierGrandmaster, TierChallenger:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("ranking: unrecognized tier %q", s)
	}
}

// IconName returns the badge icon identifier for display.
func (t Tier) IconName() string {
	switch t {
	case TierBronze:
		return "bronze-medal"
	case TierSilver:
		return "silver-medal"
	case TierGold:
		return "gold-medal"
	case TierPlatinum:
		return "platinum-medal"
	case TierDiamond:
		return "diamond-medal"
	case TierMaster:
		return "master-medal"
	case TierGrandmaster:
		return "grandmaster-medal"
	case TierChallenger:
		return "challenger-medal"
	default:
		return "unranked-medal"
	}
}

// ColorCode returns the badge color for display.
func (t Tier) ColorCode() string {
	switch t {
	case TierBronze:
		return "#cd7f32"
	case TierSilver:
		return "#c0c0c0"
	case TierGold:
		return "#ffd700"
	case TierPlatinum:
		return "#e5e4e2"
	case TierDiamond:
		return "#00bfff"
	case TierMaster:
		return "#a020f0"
	case TierGrandmaster:
		return "#ff4500"
	case TierChallenger:
		return "#ff1493"
	default:
		return "#bdbdbd"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// USER RANKING
// ══════════════════════════════════════════════════════════════════════════════

// UserRanking is the mutable per-user ranking row owned by the engine.
type UserRanking struct {
	// ID is the internal identifier of the row.
	ID uuid.UUID

	// UserID is the external identity reference. Exactly one active row
	// exists per user per season.
	UserID uuid.UUID

	// TotalScore is the absolute competitive score, domain [0, 10000].
	TotalScore int

	// StreakDays is the consecutive-day streak supplied by an external
	// collaborator, domain [0, 365].
	StreakDays int

	// RankPosition is the 1-based standing from the last recomputation pass.
	// Zero until the first pass includes this row.
	RankPosition Rank

	// PreviousRank is the standing from the pass before last.
	PreviousRank Rank

	// PeriodType tags the periodic window this row currently competes in.
	PeriodType PeriodType

	// PeriodRank and PeriodPoints track standing within the current period.
	PeriodRank   Rank
	PeriodPoints int

	// Season identifies the competitive epoch of this row.
	Season Season

	// SeasonRank and SeasonPoints track standing within the season.
	SeasonRank   Rank
	SeasonPoints int

	// IsActive excludes a row from ordering and rewards when false.
	IsActive bool

	// Version supports optimistic concurrency. Incremented on every persist.
	Version int64

	// CreatedAt is set once at creation and drives the tie-break rule.
	CreatedAt time.Time

	// LastUpdatedAt is refreshed on every mutation.
	LastUpdatedAt time.Time

	// LastActivityAt anchors the streak. Only an activity tick moves it;
	// score overwrites and the nightly rank batches must not, or a
	// consecutive-day activity would be mistaken for a repeat of today.
	// Zero until the first activity.
	LastActivityAt time.Time
}

// NewUserRanking creates a fresh, unranked row for a user in a season.
func NewUserRanking(userID uuid.UUID, season Season) *UserRanking {
	now := time.Now().UTC()
	return &UserRanking{
		ID:            uuid.New(),
		UserID:        userID,
		TotalScore:    MinScore,
		StreakDays:    MinStreakDays,
		RankPosition:  Unranked,
		PreviousRank:  Unranked,
		PeriodType:    PeriodWeekly,
		Season:        season,
		IsActive:      true,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
}

// Tier derives the display tier of the row.
func (r *UserRanking) Tier() Tier {
	return TierFor(r.TotalScore, r.RankPosition)
}

// RankChange returns the movement since the previous recomputation pass.
func (r *UserRanking) RankChange() RankChange {
	if !r.RankPosition.IsAssigned() || !r.PreviousRank.IsAssigned() {
		return 0
	}
	return RankChange(int(r.PreviousRank) - int(r.RankPosition))
}

// RankDirection returns the display direction of the last movement.
// A row ranked for the first time reports "new".
func (r *UserRanking) RankDirection() RankDirection {
	if r.RankPosition.IsAssigned() && !r.PreviousRank.IsAssigned() {
		return RankDirectionNew
	}
	return r.RankChange().Direction()
}

// Touch refreshes LastUpdatedAt. Called by every mutation before persisting.
func (r *UserRanking) Touch() {
	r.LastUpdatedAt = time.Now().UTC()
}

// Clone returns a copy of the row. Used by in-memory stores and the
// recomputation job to compute new positions off the live set.
func (r *UserRanking) Clone() *UserRanking {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// String returns a compact representation for logging.
func (r *UserRanking) String() string {
	return fmt.Sprintf("UserRanking{User: %s, Score: %d, Rank: %s, Streak: %d}",
		r.UserID, r.TotalScore, r.RankPosition, r.StreakDays)
}
