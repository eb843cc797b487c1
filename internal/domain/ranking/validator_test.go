package ranking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
)

func TestValidator_Score(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateScore(MinScore))
	assert.NoError(t, v.ValidateScore(5000))
	assert.NoError(t, v.ValidateScore(MaxScore))

	err := v.ValidateScore(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrScoreOutOfRange)
	assert.True(t, shared.IsValidation(err))

	assert.ErrorIs(t, v.ValidateScore(MaxScore+1), shared.ErrScoreOutOfRange)
}

func TestValidator_StreakDays(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateStreakDays(0))
	assert.NoError(t, v.ValidateStreakDays(MaxStreakDays))

	assert.ErrorIs(t, v.ValidateStreakDays(-1), shared.ErrStreakOutOfRange)
	assert.ErrorIs(t, v.ValidateStreakDays(MaxStreakDays+1), shared.ErrStreakOutOfRange)
}

func TestValidator_Rank(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateRank(MinRank))
	assert.NoError(t, v.ValidateRank(100))

	assert.ErrorIs(t, v.ValidateRank(0), shared.ErrRankOutOfRange)
	assert.ErrorIs(t, v.ValidateRank(-3), shared.ErrRankOutOfRange)
}

func TestValidator_PeriodAndSeason(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidatePeriodType(PeriodWeekly))
	assert.ErrorIs(t, v.ValidatePeriodType(PeriodType("HOURLY")), shared.ErrInvalidPeriodType)
	assert.ErrorIs(t, v.ValidatePeriodType(PeriodType("")), shared.ErrInvalidPeriodType)

	assert.NoError(t, v.ValidateSeason(MinSeason))
	assert.ErrorIs(t, v.ValidateSeason(0), shared.ErrInvalidSeason)
}

func TestValidator_Ranking(t *testing.T) {
	v := NewValidator()

	assert.ErrorIs(t, v.ValidateRanking(nil), shared.ErrRankingNil)

	r := NewUserRanking(uuid.New(), MinSeason)
	assert.NoError(t, v.ValidateRanking(r))

	// Unranked position is legal before the first recomputation pass.
	r.RankPosition = Unranked
	assert.NoError(t, v.ValidateRanking(r))

	r.RankPosition = 3
	assert.NoError(t, v.ValidateRanking(r))

	r.TotalScore = MaxScore + 1
	assert.ErrorIs(t, v.ValidateRanking(r), shared.ErrScoreOutOfRange)
	r.TotalScore = 100

	r.StreakDays = MaxStreakDays + 1
	assert.ErrorIs(t, v.ValidateRanking(r), shared.ErrStreakOutOfRange)
	r.StreakDays = 10

	r.RankPosition = -1
	assert.ErrorIs(t, v.ValidateRanking(r), shared.ErrRankOutOfRange)
	r.RankPosition = 1

	r.PeriodType = "QUARTERLY"
	assert.ErrorIs(t, v.ValidateRanking(r), shared.ErrInvalidPeriodType)
	r.PeriodType = PeriodWeekly

	r.Season = 0
	assert.ErrorIs(t, v.ValidateRanking(r), shared.ErrInvalidSeason)
}
