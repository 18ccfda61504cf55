package sim

import "fmt"

// Admiral is a player slot (human or AI); owns ships, has a score and
// cash. AdmiralByID returns (*Admiral, error) rather than a bool-ok pair
// or a panic.
type Admiral struct {
	ID         int32
	Name       string
	IsHuman    bool
	Score      int64
	Cash       int64
	ShipsBuilt int32
}

// ShipsLeft counts admiralID's live OccupiesSpace objects, consumed by
// the NoShipsLeft condition predicate. Computed by scanning the
// active list rather than an incremental counter, since ship ownership
// can change via AlterOwner independent of create/destroy.
func (s *Session) ShipsLeft(admiralID int32) int32 {
	var n int32
	for cur := s.Arena.ActiveHead(); cur != -1; {
		o := s.Arena.Slot(cur)
		if o.Owner == admiralID && o.Base != nil && o.Base.Attrs&OccupiesSpace != 0 {
			n++
		}
		cur = o.Next
	}
	return n
}

// AdmiralByID returns the admiral with the given id, or an error if none
// exists.
func (s *Session) AdmiralByID(id int32) (*Admiral, error) {
	for i := range s.Admirals {
		if s.Admirals[i].ID == id {
			return &s.Admirals[i], nil
		}
	}
	return nil, fmt.Errorf("antares: admiral %d not found", id)
}

// creditScore adds delta to admiral id's score, flags a condition
// re-check (since a score change can make a score-threshold condition
// newly true before the next scheduled sweep), and repositions the
// admiral in the rank leaderboard.
func (s *Session) creditScore(admiralID int32, delta int64) {
	if a, err := s.AdmiralByID(admiralID); err == nil {
		a.Score += delta
		s.conditionDirty = true
		s.leaderboard.Insert(admiralKey(admiralID), float64(a.Score))
	}
}

// creditCash adds delta to admiral id's cash pool; an unknown id is
// ignored. Energy released on destruction is paid into cash by
// releaseEnergy directly, not through this function.
func (s *Session) creditCash(admiralID int32, delta int64) {
	if a, err := s.AdmiralByID(admiralID); err == nil {
		a.Cash += delta
	}
}
