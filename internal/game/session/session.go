// Package session holds per-guild encounter state: who joined which action
// list, the drawn monster, the countdown, and the Open -> Resolving ->
// Terminal lifecycle.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/adventure/internal/game/monster"
)

// Action is one of the five ways a player can join an encounter.
type Action string

const (
	ActionFight Action = "fight"
	ActionMagic Action = "magic"
	ActionTalk  Action = "talk"
	ActionPray  Action = "pray"
	ActionRun   Action = "run"
)

// Actions lists every join action in resolution order.
var Actions = [...]Action{ActionFight, ActionMagic, ActionTalk, ActionPray, ActionRun}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionFight, ActionMagic, ActionTalk, ActionPray, ActionRun:
		return true
	}
	return false
}

// State is the session lifecycle phase.
type State int

const (
	// StateOpen accepts joins.
	StateOpen State = iota
	// StateResolving is the one-shot resolution phase.
	StateResolving
	// StateTerminal is fully resolved.
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateResolving:
		return "resolving"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNotOpen rejects joins and insight rolls once resolution has begun.
var ErrNotOpen = errors.New("session: no longer accepting actions")

// Params carries the immutable setup for a new session.
type Params struct {
	GuildID        string
	Challenge      string // display name; empty while hidden or on a trap
	Attribute      string
	AttributeMults [2]float64 // [hp multiplier, dipl multiplier]

	Monster         monster.Monster // base stat block
	ModifiedMonster monster.Monster // after dynamic scaling
	MonsterStats    float64         // global scalar, >= 1
	Boss            bool
	Miniboss        *monster.MiniBoss

	NoMonster   bool
	Transcended bool
	EasyMode    bool

	Timer     time.Duration
	StartTime time.Time
}

// Session is one guild's live encounter. The fields copied from Params are
// set once at creation and read-only afterwards; the member lists, insight
// pair, and state advance under the session mutex. All methods are safe for
// concurrent use.
type Session struct {
	ID string
	Params

	mu            sync.Mutex
	state         State
	lists         map[Action][]string
	exposed       bool
	reacted       bool
	insightRoll   float64
	insightHolder string
}

// New creates an open session for the guild described by p. A zero
// MonsterStats becomes the neutral 1, and a zero StartTime becomes now.
//
// Precondition: p.GuildID must be non-empty. Panics otherwise.
func New(p Params) *Session {
	if p.GuildID == "" {
		panic("session: New called with empty guild id")
	}
	if p.MonsterStats == 0 {
		p.MonsterStats = 1
	}
	if p.StartTime.IsZero() {
		p.StartTime = time.Now()
	}
	return &Session{
		ID:     uuid.New().String(),
		Params: p,
		lists:  make(map[Action][]string, len(Actions)),
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Join places userID on the action's list, removing it from any other list
// first.
//
// Precondition: userID must be non-empty.
// Postcondition: userID appears on exactly one list; returns ErrNotOpen once
// resolution has begun, or an error for an unknown action.
func (s *Session) Join(userID string, action Action) error {
	if userID == "" {
		panic("session: Join called with empty user id")
	}
	if !action.Valid() {
		return fmt.Errorf("session: unknown action %q", action)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return ErrNotOpen
	}
	for _, a := range Actions {
		if a == action {
			continue
		}
		s.lists[a] = remove(s.lists[a], userID)
	}
	if !contains(s.lists[action], userID) {
		s.lists[action] = append(s.lists[action], userID)
	}
	return nil
}

func remove(list []string, userID string) []string {
	for i, id := range list {
		if id == userID {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func contains(list []string, userID string) bool {
	for _, id := range list {
		if id == userID {
			return true
		}
	}
	return false
}

// Members returns a copy of the action's join list in join order.
func (s *Session) Members(action Action) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lists[action]))
	copy(out, s.lists[action])
	return out
}

// Participants returns the union of the four combat lists in list order.
// Lists are mutually exclusive, so the union carries no duplicates.
func (s *Session) Participants() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, a := range Actions {
		if a == ActionRun {
			continue
		}
		out = append(out, s.lists[a]...)
	}
	return out
}

// AllMembers returns every joined user, runners included.
func (s *Session) AllMembers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, a := range Actions {
		out = append(out, s.lists[a]...)
	}
	return out
}

// Empty reports whether nobody has joined any list.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range Actions {
		if len(s.lists[a]) > 0 {
			return false
		}
	}
	return true
}

// BeginResolve attempts the one-shot Open -> Resolving transition.
//
// Postcondition: Returns true exactly once per session; later callers and
// callers on a terminal session get false.
func (s *Session) BeginResolve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return false
	}
	s.state = StateResolving
	return true
}

// Finish moves Resolving -> Terminal.
//
// Precondition: BeginResolve must have returned true. Panics when the
// session is not resolving.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateResolving {
		panic("session: Finish called before BeginResolve")
	}
	s.state = StateTerminal
}

// RecordInsight stores the psychic's roll when it beats the current best.
// Only open sessions accept rolls.
//
// Postcondition: Returns true when the pair was replaced; the stored roll
// never decreases.
func (s *Session) RecordInsight(roll float64, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen || roll <= s.insightRoll {
		return false
	}
	s.insightRoll = roll
	s.insightHolder = userID
	return true
}

// Insight returns the best recorded roll and its holder. The holder is empty
// until the first successful RecordInsight.
func (s *Session) Insight() (float64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insightRoll, s.insightHolder
}

// Expose marks the monster's identity revealed to the party.
func (s *Session) Expose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exposed = true
}

// Exposed reports whether the monster's identity has been revealed.
func (s *Session) Exposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exposed
}

// React satisfies the session's reaction gate.
func (s *Session) React() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reacted = true
}

// Reacted reports whether the reaction gate was satisfied.
func (s *Session) Reacted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reacted
}

// Age reports how long the session has existed as of now.
func (s *Session) Age(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}
