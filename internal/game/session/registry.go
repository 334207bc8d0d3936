// Package session — the per-guild session registry.
package session

import (
	"errors"
	"sync"
	"time"
)

// ErrSessionConflict rejects a new adventure while the guild already has a
// live one.
var ErrSessionConflict = errors.New("session: guild already has an active adventure")

// Registry tracks at most one live session per guild. The registry lock
// covers only map membership; each session's state advances under its own
// lock, so distinct guilds never serialize on one another.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// TryCreate installs a new session for the guild described by p.
//
// Postcondition: Returns ErrSessionConflict and leaves the existing session
// untouched when a non-terminal one is registered; otherwise the new session
// is registered and returned.
func (r *Registry) TryCreate(p Params) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[p.GuildID]; ok && existing.State() != StateTerminal {
		return nil, ErrSessionConflict
	}
	s := New(p)
	r.sessions[p.GuildID] = s
	return s, nil
}

// Get returns the guild's session, if any.
func (r *Registry) Get(guildID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// Remove drops the guild's session. Removing an absent guild is a no-op.
func (r *Registry) Remove(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes every session older than maxAge as of now, regardless of
// state, and returns the removed sessions.
func (r *Registry) Sweep(now time.Time, maxAge time.Duration) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []*Session
	for guildID, s := range r.sessions {
		if s.Age(now) > maxAge {
			removed = append(removed, s)
			delete(r.sessions, guildID)
		}
	}
	return removed
}
