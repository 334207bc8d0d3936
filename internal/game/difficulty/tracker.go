// Package difficulty adapts monster strength to a guild's recent encounter
// outcomes. Each guild keeps a bounded FIFO of raid results; the estimator
// derives a target stat band from the surviving window.
package difficulty

import (
	"sync"
)

// Action is the dominant damage category of a finished raid.
type Action string

const (
	// ActionAttack marks raids decided by physical and magical damage.
	ActionAttack Action = "attack"
	// ActionTalk marks raids decided by diplomacy.
	ActionTalk Action = "talk"
)

// StatType selects which monster stat the estimator band applies to.
type StatType string

const (
	// StatHP targets the monster hit-point stat.
	StatHP StatType = "hp"
	// StatDipl targets the monster diplomacy stat.
	StatDipl StatType = "dipl"
)

// Raid is one recorded encounter outcome. Running parties record a zero
// amount.
type Raid struct {
	Action  Action
	Amount  float64
	People  int
	Success bool
}

// StatRange is the estimator's target band for the next monster.
type StatRange struct {
	StatType   StatType
	MinStat    float64
	MaxStat    float64
	WinPercent float64
}

// soloScale boosts solo raid amounts so a lone raider cannot tune the pool
// to exactly their own damage.
const soloScale = 0.25

// Tracker keeps per-guild raid history. Guild entries lock independently so
// unrelated guilds never serialize.
type Tracker struct {
	capacity int

	mu     sync.RWMutex
	guilds map[string]*history
}

type history struct {
	mu    sync.Mutex
	raids []Raid
}

// NewTracker creates a Tracker bounding each guild's history at capacity.
//
// Precondition: capacity >= 1. Panics with
// "difficulty: NewTracker: precondition violated: capacity must be >= 1" otherwise.
func NewTracker(capacity int) *Tracker {
	if capacity < 1 {
		panic("difficulty: NewTracker: precondition violated: capacity must be >= 1")
	}
	return &Tracker{
		capacity: capacity,
		guilds:   make(map[string]*history),
	}
}

func (t *Tracker) guild(guildID string) *history {
	t.mu.RLock()
	h, ok := t.guilds[guildID]
	t.mu.RUnlock()
	if ok {
		return h
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok = t.guilds[guildID]; ok {
		return h
	}
	h = &history{}
	t.guilds[guildID] = h
	return h
}

// AddResult appends a raid outcome to the guild's history, evicting the
// oldest entry when the window is full.
//
// Postcondition: The guild's history length never exceeds the capacity.
func (t *Tracker) AddResult(guildID string, raid Raid) {
	h := t.guild(guildID)
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.raids) >= t.capacity {
		h.raids = h.raids[1:]
	}
	h.raids = append(h.raids, raid)
}

// Len returns the guild's current history length.
func (t *Tracker) Len(guildID string) int {
	h := t.guild(guildID)
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.raids)
}

// History returns a copy of the guild's raid window, oldest first.
func (t *Tracker) History(guildID string) []Raid {
	h := t.guild(guildID)
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Raid, len(h.raids))
	copy(out, h.raids)
	return out
}

// StatRange derives the target stat band for the guild's next monster.
// With no recorded history the estimator is neutral: a 50% win rate and a
// zero band, which selection treats as unconstrained.
//
// Postcondition: 0 <= WinPercent <= 1; MinStat <= MaxStat.
func (t *Tracker) StatRange(guildID string) StatRange {
	h := t.guild(guildID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.raids) == 0 {
		return StatRange{StatType: StatHP, WinPercent: 0.5}
	}

	var (
		numAttack  int
		numTalk    int
		numWins    int
		dmgAmount  float64
		talkAmount float64
	)
	for _, raid := range h.raids {
		if raid.Action == ActionAttack {
			numAttack++
			dmgAmount += raid.Amount
			if raid.People == 1 {
				dmgAmount += raid.Amount * soloScale
			}
		} else {
			numTalk++
			talkAmount += raid.Amount
			if raid.People == 1 {
				talkAmount += raid.Amount * soloScale
			}
		}
		if raid.Success {
			numWins++
		}
	}

	statType := StatHP
	var avg float64
	if numAttack > 0 {
		avg = dmgAmount / float64(numAttack)
	}
	if dmgAmount < talkAmount {
		statType = StatDipl
		avg = talkAmount / float64(numTalk)
	}

	win := float64(numWins) / float64(len(h.raids))
	minStat := avg * 0.75
	maxStat := avg * 2
	// Keep the win rate near even: struggling guilds get an easier band.
	if win < 0.5 {
		minStat = avg * win
		maxStat = avg * 1.5
	}

	return StatRange{
		StatType:   statType,
		MinStat:    minStat,
		MaxStat:    maxStat,
		WinPercent: win,
	}
}
