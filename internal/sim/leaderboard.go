package sim

import (
	"strconv"

	"antares/internal/sim/spatial"
)

// admiralKey turns an admiral id into the string key the skip list
// leaderboard indexes on.
func admiralKey(admiralID int32) string {
	return strconv.Itoa(int(admiralID))
}

// AdmiralRank returns id's 1-indexed rank by Score (1 = highest score),
// or 0 if id isn't on the leaderboard.
func (s *Session) AdmiralRank(admiralID int32) int {
	return s.leaderboard.GetRank(admiralKey(admiralID))
}

// LeaderboardEntry pairs an admiral id with its current rank, for
// reporting a whole standings table at once.
type LeaderboardEntry struct {
	AdmiralID int32
	Score     int64
	Rank      int
}

// Leaderboard returns every admiral in rank order, highest score first.
func (s *Session) Leaderboard() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, s.leaderboard.Length())
	s.leaderboard.ForEach(func(rank int, e spatial.SkipListEntry) bool {
		id, err := strconv.Atoi(e.Key)
		if err != nil {
			return true
		}
		entries = append(entries, LeaderboardEntry{
			AdmiralID: int32(id),
			Score:     int64(e.Score),
			Rank:      rank,
		})
		return true
	})
	return entries
}
