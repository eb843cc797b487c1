package ranking

import (
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

// Validator guards the score/rank/streak domains before any write.
// All methods are pure: no side effects, no I/O. Failures carry the
// shared.ErrValidation kind and are surfaced to the caller immediately,
// never retried and never clamped.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateScore fails when the score falls outside [MinScore, MaxScore].
func (v *Validator) ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return shared.WrapError("ranking", "ValidateScore", shared.ErrValueOutOfRange,
			"score must be within [0, 10000]", shared.ErrScoreOutOfRange)
	}
	return nil
}

// ValidateRank fails when the rank is below MinRank.
func (v *Validator) ValidateRank(rank Rank) error {
	if rank < MinRank {
		return shared.WrapError("ranking", "ValidateRank", shared.ErrValueOutOfRange,
			"rank must be at least 1", shared.ErrRankOutOfRange)
	}
	return nil
}

// ValidateStreakDays fails when the streak falls outside [0, MaxStreakDays].
func (v *Validator) ValidateStreakDays(days int) error {
	if days < MinStreakDays || days > MaxStreakDays {
		return shared.WrapError("ranking", "ValidateStreakDays", shared.ErrValueOutOfRange,
			"streak days must be within [0, 365]", shared.ErrStreakOutOfRange)
	}
	return nil
}

// ValidatePeriodType fails on an empty or unrecognized period tag.
func (v *Validator) ValidatePeriodType(pt PeriodType) error {
	if !pt.IsValid() {
		return shared.ErrInvalidPeriodType
	}
	return nil
}

// ValidateSeason fails when the season identifier is below the first season.
func (v *Validator) ValidateSeason(season Season) error {
	if !season.IsValid() {
		return shared.ErrInvalidSeason
	}
	return nil
}

// ValidateRanking is the composite guard: fails when the row is absent or
// when any of its validated fields is out of domain. Rank position zero is
// allowed here because unranked rows are legal until the first recompute.
func (v *Validator) ValidateRanking(r *UserRanking) error {
	if r == nil {
		return shared.ErrRankingNil
	}
	if err := v.ValidateScore(r.TotalScore); err != nil {
		return err
	}
	if err := v.ValidateStreakDays(r.StreakDays); err != nil {
		return err
	}
	if r.RankPosition != Unranked {
		if err := v.ValidateRank(r.RankPosition); err != nil {
			return err
		}
	}
	if err := v.ValidatePeriodType(r.PeriodType); err != nil {
		return err
	}
	return v.ValidateSeason(r.Season)
}
