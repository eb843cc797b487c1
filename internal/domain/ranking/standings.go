package ranking

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// STANDINGS (total order over active rows)
// ══════════════════════════════════════════════════════════════════════════════

// Standings is an ordered collection of active ranking rows. It is the
// in-memory working set of a recomputation pass: rows are collected from a
// consistent read snapshot, ordered, assigned positions, and written back as
// one batch.
type Standings struct {
	rows   []*UserRanking
	byUser map[string]*UserRanking
}

// NewStandings creates empty Standings.
func NewStandings() *Standings {
	return &Standings{
		rows:   make([]*UserRanking, 0),
		byUser: make(map[string]*UserRanking),
	}
}

// Add appends a row to the working set. Inactive rows and duplicate users are
// silently skipped: the snapshot query should already exclude them, this is
// the last line of defense against a duplicate rank assignment.
func (s *Standings) Add(row *UserRanking) {
	if row == nil || !row.IsActive {
		return
	}
	key := row.UserID.String()
	if _, exists := s.byUser[key]; exists {
		return
	}
	s.rows = append(s.rows, row)
	s.byUser[key] = row
}

// Less is the documented total order: higher score first; on equal scores the
// earlier CreatedAt wins; if those are equal too, the lexicographically lower
// user id wins. The order is deterministic for any fixed snapshot and does
// not depend on read order or sort stability.
func Less(a, b *UserRanking) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return strings.Compare(a.UserID.String(), b.UserID.String()) < 0
}

// AssignPositions orders the working set and rewrites rank positions:
// previousRank takes the current rankPosition, then rankPosition becomes the
// 1-based index in the new order. Running it twice with no intervening score
// change yields identical positions and previousRank == rankPosition.
// Returns the number of rows whose position changed.
func (s *Standings) AssignPositions() int {
	sort.Slice(s.rows, func(i, j int) bool {
		return Less(s.rows[i], s.rows[j])
	})

	changed := 0
	for i, row := range s.rows {
		newRank := Rank(i + 1)
		row.PreviousRank = row.RankPosition
		if row.RankPosition != newRank {
			changed++
		}
		row.RankPosition = newRank
	}
	return changed
}

// Rows returns the rows in their current order.
func (s *Standings) Rows() []*UserRanking {
	out := make([]*UserRanking, len(s.rows))
	copy(out, s.rows)
	return out
}

// Top returns the first n rows of the current order.
func (s *Standings) Top(n int) []*UserRanking {
	if n <= 0 {
		return nil
	}
	if n > len(s.rows) {
		n = len(s.rows)
	}
	out := make([]*UserRanking, n)
	copy(out, s.rows[:n])
	return out
}

// Get returns the row for a user, or nil.
func (s *Standings) Get(userID string) *UserRanking {
	return s.byUser[userID]
}

// Len returns the number of rows in the working set.
func (s *Standings) Len() int {
	return len(s.rows)
}

// FinalStanding pairs a user with their final rank in a closed period or
// season window. Position comes from the ordered read of the closed
// standings, not from a possibly stale rank column.
type FinalStanding struct {
	UserID uuid.UUID
	Rank   Rank
}

// FinalStandingsOf builds FinalStanding pairs from rows already ordered
// best-first.
func FinalStandingsOf(rows []*UserRanking) []FinalStanding {
	out := make([]FinalStanding, 0, len(rows))
	for i, row := range rows {
		out = append(out, FinalStanding{UserID: row.UserID, Rank: Rank(i + 1)})
	}
	return out
}
