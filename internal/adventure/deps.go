// Package adventure is the orchestration layer of the encounter engine. It
// gates and starts per-guild sessions, collects player actions while the
// window is open, hands finished sessions to the resolution pipeline, and
// broadcasts every beat on a non-blocking notice feed for the host to
// render.
package adventure

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoAdventure rejects operations on a guild without a live session.
var ErrNoAdventure = errors.New("adventure: no active adventure")

// ErrNotInAdventure rejects ability use by a player who never joined.
var ErrNotInAdventure = errors.New("adventure: user has not joined the adventure")

// ErrInsufficientFunds rejects players whose balance cannot cover the entry
// fee.
var ErrInsufficientFunds = errors.New("adventure: entry fee not met")

// ErrNotPsychic rejects an insight reading from every other hero class.
var ErrNotPsychic = errors.New("adventure: insight requires a psychic")

// ErrAbilityActive rejects a second ability use before the post-adventure
// reset.
var ErrAbilityActive = errors.New("adventure: ability already in use")

// ErrOnCooldown marks a start or ability attempt made while the subject is
// still resting. Match with errors.Is; errors.As with *CooldownError yields
// the retry time.
var ErrOnCooldown = errors.New("adventure: still resting")

// CooldownError reports when a rejected operation may be retried.
type CooldownError struct {
	Until time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("adventure: still resting until %s", e.Until.Format(time.RFC3339))
}

// Unwrap lets errors.Is match ErrOnCooldown.
func (e *CooldownError) Unwrap() error { return ErrOnCooldown }

// GuildStore persists per-guild settings: the adventure cooldown stamp and
// the operator overrides. Implementations return zero values, never errors,
// for guilds that have stored nothing yet.
type GuildStore interface {
	// Cooldown returns when the guild's last adventure ended. The zero
	// time means the guild has never adventured or the gate was cleared.
	Cooldown(ctx context.Context, guildID string) (time.Time, error)
	// SetCooldown stamps the end of an adventure; the zero time clears
	// the gate.
	SetCooldown(ctx context.Context, guildID string, at time.Time) error
	// CooldownTime returns the guild's rest-period override; zero falls
	// back to the configured default.
	CooldownTime(ctx context.Context, guildID string) (time.Duration, error)
	// GodName returns the guild's deity override; empty falls back to the
	// configured default.
	GodName(ctx context.Context, guildID string) (string, error)
	// EasyMode returns the guild's difficulty override and whether one is
	// set.
	EasyMode(ctx context.Context, guildID string) (easy, set bool, err error)
}
