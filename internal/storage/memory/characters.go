// Package memory provides map-backed implementations of every store the
// engine consumes. They carry the same contracts as the Postgres and Redis
// implementations and exist for tests and the simulator, where a database
// would be dead weight.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/encounter"
	"github.com/cory-johannsen/adventure/internal/game/equipment"
)

var _ encounter.CharacterStore = (*CharacterStore)(nil)

// CharacterStore keeps characters keyed by user id. Load returns a copy and
// applies set bonuses when the store holds bonus tables, so totals are ready
// to read; Save replaces the stored record.
type CharacterStore struct {
	tables map[string][]equipment.SetBonus

	mu    sync.RWMutex
	chars map[string]*character.Character
}

// NewCharacterStore seeds a store with the given characters. A non-nil
// tables map makes every Load hydrate gear set bonuses.
func NewCharacterStore(tables map[string][]equipment.SetBonus, chars ...*character.Character) *CharacterStore {
	s := &CharacterStore{
		tables: tables,
		chars:  make(map[string]*character.Character, len(chars)),
	}
	for _, c := range chars {
		cp := *c
		s.chars[c.ID] = &cp
	}
	return s
}

// Load returns a copy of the user's character.
//
// Postcondition: Returns an error wrapping encounter.ErrCharacterNotFound
// when no record exists.
func (s *CharacterStore) Load(_ context.Context, userID string) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chars[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", encounter.ErrCharacterNotFound, userID)
	}
	cp := *c
	if s.tables != nil {
		cp.ApplySetBonuses(s.tables)
	}
	return &cp, nil
}

// Save stores a copy of c, replacing any existing record.
func (s *CharacterStore) Save(_ context.Context, c *character.Character) error {
	if c == nil {
		return errors.New("memory: cannot save a nil character")
	}
	if c.ID == "" {
		return errors.New("memory: cannot save a character without an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.chars[c.ID] = &cp
	return nil
}

// Len returns the number of stored characters.
func (s *CharacterStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chars)
}
