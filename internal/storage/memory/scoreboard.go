package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cory-johannsen/adventure/internal/game/encounter"
)

var _ encounter.Scoreboard = (*Scoreboard)(nil)

// WeeklyEntry is one row of the weekly leaderboard.
type WeeklyEntry struct {
	UserID string
	Score  int64
}

// Scoreboard tallies adventures in memory with the same shape as the Redis
// implementation: per-user category counters plus a weekly score set.
type Scoreboard struct {
	mu      sync.Mutex
	tallies map[string]map[string]int64
	weekly  map[string]int64
}

// NewScoreboard creates an empty scoreboard.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{
		tallies: make(map[string]map[string]int64),
		weekly:  make(map[string]int64),
	}
}

// RecordAdventure bumps the user's counter for every category plus the
// wins-or-loses counter.
func (b *Scoreboard) RecordAdventure(_ context.Context, userID string, categories []string, won bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	user, ok := b.tallies[userID]
	if !ok {
		user = make(map[string]int64)
		b.tallies[userID] = user
	}
	for _, cat := range categories {
		user[cat]++
	}
	if won {
		user["wins"]++
	} else {
		user["loses"]++
	}
	return nil
}

// AddWeekly adds n to the user's weekly score.
func (b *Scoreboard) AddWeekly(_ context.Context, userID string, n int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.weekly[userID] += n
	return nil
}

// Tally returns the user's counter for one category.
func (b *Scoreboard) Tally(userID, category string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tallies[userID][category]
}

// Weekly returns the user's weekly score.
func (b *Scoreboard) Weekly(userID string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.weekly[userID]
}

// TopWeekly returns the n highest weekly scores, best first. Ties order by
// user id so the board is stable.
func (b *Scoreboard) TopWeekly(_ context.Context, n int) ([]WeeklyEntry, error) {
	b.mu.Lock()
	entries := make([]WeeklyEntry, 0, len(b.weekly))
	for id, score := range b.weekly {
		entries = append(entries, WeeklyEntry{UserID: id, Score: score})
	}
	b.mu.Unlock()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	if n >= 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}
