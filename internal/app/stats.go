package app

import (
	"math"
	"sync"
)

// PlayerStats is a process-lifetime record keyed by display name, independent
// of player object identity across rounds and reconnects.
type PlayerStats struct {
	Wins        int `json:"wins"`
	GamesPlayed int `json:"games_played"`
}

// WinPercent returns the rounded win percentage, 0 before any games.
func (s PlayerStats) WinPercent() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return int(math.Round(float64(s.Wins) / float64(s.GamesPlayed) * 100))
}

// StatsBook is shared across all rooms in the process, so unlike room state
// it needs its own lock.
type StatsBook struct {
	mu     sync.Mutex
	byName map[string]PlayerStats
}

func NewStatsBook() *StatsBook {
	return &StatsBook{byName: make(map[string]PlayerStats)}
}

// Get returns the stats for a display name, zero-valued if never seen.
func (b *StatsBook) Get(name string) PlayerStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.byName[name]
}

// RecordWin increments both wins and games played for the round winner.
func (b *StatsBook) RecordWin(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.byName[name]
	s.Wins++
	s.GamesPlayed++
	b.byName[name] = s
}

// RecordGame increments games played for a non-winning participant.
func (b *StatsBook) RecordGame(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.byName[name]
	s.GamesPlayed++
	b.byName[name] = s
}

var (
	sharedStats     *StatsBook
	sharedStatsOnce sync.Once
)

// SharedStats returns the process-wide stats book used by every room.
func SharedStats() *StatsBook {
	sharedStatsOnce.Do(func() {
		sharedStats = NewStatsBook()
	})
	return sharedStats
}
