package ranking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowWith(score int, createdAt time.Time) *UserRanking {
	r := NewUserRanking(uuid.New(), MinSeason)
	r.TotalScore = score
	r.CreatedAt = createdAt
	return r
}

func TestStandings_DeterministicOrdering(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	a := rowWith(50, base)
	b := rowWith(90, base.Add(1*time.Hour))
	c := rowWith(90, base.Add(2*time.Hour))
	d := rowWith(10, base.Add(3*time.Hour))

	s := NewStandings()
	// Insertion order must not matter.
	s.Add(d)
	s.Add(a)
	s.Add(c)
	s.Add(b)

	changed := s.AssignPositions()
	assert.Equal(t, 4, changed)

	rows := s.Rows()
	require.Len(t, rows, 4)

	// b and c share a score; b was created earlier so b wins the tie.
	assert.Equal(t, b.UserID, rows[0].UserID)
	assert.Equal(t, c.UserID, rows[1].UserID)
	assert.Equal(t, a.UserID, rows[2].UserID)
	assert.Equal(t, d.UserID, rows[3].UserID)

	for i, row := range rows {
		assert.Equal(t, Rank(i+1), row.RankPosition)
	}
}

func TestStandings_UUIDTieBreak(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := rowWith(500, now)
	b := rowWith(500, now)
	a.UserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b.UserID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	s := NewStandings()
	s.Add(b)
	s.Add(a)
	s.AssignPositions()

	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, a.UserID, rows[0].UserID)
	assert.Equal(t, b.UserID, rows[1].UserID)
}

func TestStandings_Idempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	s := NewStandings()
	s.Add(rowWith(300, base))
	s.Add(rowWith(700, base.Add(time.Minute)))
	s.Add(rowWith(100, base.Add(2*time.Minute)))

	first := s.AssignPositions()
	assert.Equal(t, 3, first)

	second := s.AssignPositions()
	assert.Equal(t, 0, second)

	for _, row := range s.Rows() {
		assert.Equal(t, row.RankPosition, row.PreviousRank)
	}
}

func TestStandings_TracksPreviousRank(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	a := rowWith(900, base)
	b := rowWith(400, base.Add(time.Minute))

	s := NewStandings()
	s.Add(a)
	s.Add(b)
	s.AssignPositions()

	assert.Equal(t, Rank(1), a.RankPosition)
	assert.Equal(t, Rank(2), b.RankPosition)

	// b overtakes a before the next pass.
	b.TotalScore = 950
	changed := s.AssignPositions()
	assert.Equal(t, 2, changed)

	assert.Equal(t, Rank(1), b.RankPosition)
	assert.Equal(t, Rank(2), b.PreviousRank)
	assert.Equal(t, Rank(2), a.RankPosition)
	assert.Equal(t, Rank(1), a.PreviousRank)
}

func TestStandings_AddSkipsUnusableRows(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	active := rowWith(100, base)
	inactive := rowWith(200, base)
	inactive.IsActive = false

	duplicate := active.Clone()

	s := NewStandings()
	s.Add(nil)
	s.Add(active)
	s.Add(inactive)
	s.Add(duplicate)

	assert.Equal(t, 1, s.Len())
	got := s.Get(active.UserID.String())
	require.NotNil(t, got)
	assert.Equal(t, active.UserID, got.UserID)
}

func TestStandings_Top(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	s := NewStandings()
	for i := 0; i < 5; i++ {
		s.Add(rowWith(i*100, base.Add(time.Duration(i)*time.Minute)))
	}
	s.AssignPositions()

	top := s.Top(3)
	require.Len(t, top, 3)
	assert.Equal(t, 400, top[0].TotalScore)
	assert.Equal(t, 300, top[1].TotalScore)
	assert.Equal(t, 200, top[2].TotalScore)

	assert.Len(t, s.Top(50), 5)
	assert.Empty(t, s.Top(0))
}

func TestLess_TotalOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	higher := rowWith(800, base)
	lower := rowWith(200, base)
	assert.True(t, Less(higher, lower))
	assert.False(t, Less(lower, higher))

	older := rowWith(500, base)
	newer := rowWith(500, base.Add(time.Second))
	assert.True(t, Less(older, newer))
	assert.False(t, Less(newer, older))

	x := rowWith(500, base)
	y := rowWith(500, base)
	x.UserID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	y.UserID = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")
	assert.True(t, Less(x, y))
	assert.False(t, Less(y, x))

	// A row never sorts before itself.
	assert.False(t, Less(x, x))
}
