// Package encounter implements the outcome side of an adventure: per-action
// roll mechanics, the miniboss requirement gate, loot tables, penalties,
// reward math, and the resolution pipeline that ties them together over a
// finished session.
package encounter

import (
	"context"
	"errors"
	"sync"

	"github.com/cory-johannsen/adventure/internal/game/character"
)

// ErrCharacterNotFound is returned by CharacterStore implementations when no
// record exists for a user. The pipeline skips such participants instead of
// aborting.
var ErrCharacterNotFound = errors.New("encounter: character not found")

// ErrAlreadyResolving rejects a second resolution of the same session.
var ErrAlreadyResolving = errors.New("encounter: session already resolving")

// CharacterStore loads and persists character records. Load hydrates the
// record completely, including gear set bonuses, so stat totals are ready to
// read.
type CharacterStore interface {
	Load(ctx context.Context, userID string) (*character.Character, error)
	Save(ctx context.Context, c *character.Character) error
}

// Ledger manages player currency. Deposit clamps at the ledger's maximum
// balance and reports the amount actually credited.
type Ledger interface {
	Balance(ctx context.Context, userID string) (int64, error)
	CanSpend(ctx context.Context, userID string, amount int64) (bool, error)
	Withdraw(ctx context.Context, userID string, amount int64) error
	Deposit(ctx context.Context, userID string, amount int64) (int64, error)
}

// Scoreboard mirrors adventure bookkeeping into the leaderboard store.
// Implementations must tolerate repeated categories and treat errors as
// non-fatal; the pipeline logs and keeps going.
type Scoreboard interface {
	RecordAdventure(ctx context.Context, userID string, categories []string, won bool) error
	AddWeekly(ctx context.Context, userID string, n int64) error
}

// UserLocks serializes read-modify-write cycles on character records by user
// id. The zero value is not usable; construct with NewUserLocks. The engine
// shares one table with its resolver so no two code paths ever mutate the
// same character concurrently.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUserLocks returns an empty lock table.
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the user's mutex and returns the release function.
//
// Precondition: userID must be non-empty. Panics otherwise.
func (l *UserLocks) Lock(userID string) func() {
	if userID == "" {
		panic("encounter: Lock called with empty user id")
	}
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
