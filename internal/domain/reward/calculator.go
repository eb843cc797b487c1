// Package reward derives reward entries from ordered slices of the ranking
// and history stores. The calculator is a pure projection: it never mutates
// ranking or history state, and the same inputs always yield the same
// outputs. Recording "reward granted" as a durable fact to prevent double
// payout is a caller responsibility layered on top.
package reward

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PAYOUT TABLES (policy constants)
// ══════════════════════════════════════════════════════════════════════════════

// TopRewardCount is how many finishers receive a positional payout.
const TopRewardCount = 3

// Positional payout tables, index 0 = first place.
var (
	seasonPayouts   = [TopRewardCount]int{10000, 5000, 2000}
	periodPayouts   = [TopRewardCount]int{3000, 2000, 1000}
	streakPayouts   = [TopRewardCount]int{2000, 1000, 500}
	personalPayouts = [TopRewardCount]int{10000, 5000, 2000}
)

// Streak milestone payouts: reaching a milestone pays its bonus once per
// milestone, recorded by the caller.
const (
	StreakMilestone7Days   = 7
	StreakMilestone30Days  = 30
	StreakMilestone100Days = 100

	StreakBonus7Days   = 100
	StreakBonus30Days  = 500
	StreakBonus100Days = 2000
)

// Kind names the reward class on an Entry.
type Kind string

const (
	KindSeason   Kind = "season"
	KindPeriod   Kind = "period"
	KindStreak   Kind = "streak"
	KindPersonal Kind = "personal"
)

// Entry is a derived reward: who earns what and why.
type Entry struct {
	UserID       uuid.UUID `json:"user_id"`
	RankPosition int       `json:"rank_position"`
	TotalScore   int       `json:"total_score"`
	Kind         Kind      `json:"kind"`
	Points       int       `json:"points"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CALCULATOR
// ══════════════════════════════════════════════════════════════════════════════

// Calculator computes reward entries from read-only standings.
type Calculator struct {
	rankings  ranking.Repository
	histories ranking.HistoryRepository
	validator *ranking.Validator
}

// NewCalculator creates a Calculator over the given read stores.
func NewCalculator(rankings ranking.Repository, histories ranking.HistoryRepository) *Calculator {
	return &Calculator{
		rankings:  rankings,
		histories: histories,
		validator: ranking.NewValidator(),
	}
}

// SeasonRewards returns payouts for the top finishers of a season, ordered
// by season standing.
func (c *Calculator) SeasonRewards(ctx context.Context, season ranking.Season) ([]Entry, error) {
	if err := c.validator.ValidateSeason(season); err != nil {
		return nil, err
	}

	rows, err := c.rankings.TopBySeason(ctx, season, TopRewardCount)
	if err != nil {
		return nil, shared.WrapError("reward", "SeasonRewards", shared.ErrStorage, "failed to load season standings", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, Entry{
			UserID:       row.UserID,
			RankPosition: i + 1,
			TotalScore:   row.TotalScore,
			Kind:         KindSeason,
			Points:       seasonPayouts[i],
		})
	}
	return entries, nil
}

// PeriodRewards returns payouts for the top finishers of the most recent
// history snapshots of a period type.
func (c *Calculator) PeriodRewards(ctx context.Context, periodType ranking.PeriodType) ([]Entry, error) {
	if err := c.validator.ValidatePeriodType(periodType); err != nil {
		return nil, err
	}

	records, err := c.histories.ListByPeriodType(ctx, periodType, TopRewardCount)
	if err != nil {
		return nil, shared.WrapError("reward", "PeriodRewards", shared.ErrStorage, "failed to load period history", err)
	}

	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		entries = append(entries, Entry{
			UserID:       rec.UserID,
			RankPosition: int(rec.RankPosition),
			TotalScore:   rec.TotalScore,
			Kind:         KindPeriod,
			Points:       periodPayouts[i],
		})
	}
	return entries, nil
}

// StreakRewards returns payouts for the longest active streaks.
func (c *Calculator) StreakRewards(ctx context.Context) ([]Entry, error) {
	rows, err := c.rankings.TopByStreak(ctx, TopRewardCount)
	if err != nil {
		return nil, shared.WrapError("reward", "StreakRewards", shared.ErrStorage, "failed to load streak standings", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, Entry{
			UserID:       row.UserID,
			RankPosition: i + 1,
			TotalScore:   row.TotalScore,
			Kind:         KindStreak,
			Points:       streakPayouts[i],
		})
	}
	return entries, nil
}

// PersonalReward derives the caller's own payout from their current rank
// position alone. Positions outside the payout table earn zero points; a
// user without a ranking row gets a zero entry rather than an error.
func (c *Calculator) PersonalReward(ctx context.Context, userID uuid.UUID) (Entry, error) {
	entry := Entry{UserID: userID, Kind: KindPersonal}

	row, err := c.rankings.GetByUserID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return entry, nil
		}
		return Entry{}, shared.WrapError("reward", "PersonalReward", shared.ErrStorage, "failed to load ranking", err)
	}

	entry.RankPosition = int(row.RankPosition)
	entry.TotalScore = row.TotalScore
	if pos := int(row.RankPosition); pos >= 1 && pos <= TopRewardCount {
		entry.Points = personalPayouts[pos-1]
	}
	return entry, nil
}

// StreakMilestoneBonus returns the one-time bonus for a streak length, or
// zero when the length is not a milestone.
func StreakMilestoneBonus(streakDays int) int {
	switch streakDays {
	case StreakMilestone7Days:
		return StreakBonus7Days
	case StreakMilestone30Days:
		return StreakBonus30Days
	case StreakMilestone100Days:
		return StreakBonus100Days
	default:
		return 0
	}
}
