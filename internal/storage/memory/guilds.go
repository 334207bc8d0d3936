package memory

import (
	"context"
	"sync"
	"time"
)

type guildSettings struct {
	cooldown     time.Time
	cooldownTime time.Duration
	godName      string
	easyMode     *bool
}

// GuildStore keeps per-guild settings in a map. Guilds that never stored
// anything read back zero values, which the engine treats as "use the
// configured default".
type GuildStore struct {
	mu     sync.Mutex
	guilds map[string]*guildSettings
}

// NewGuildStore creates an empty guild settings store.
func NewGuildStore() *GuildStore {
	return &GuildStore{guilds: make(map[string]*guildSettings)}
}

func (g *GuildStore) guild(guildID string) *guildSettings {
	s, ok := g.guilds[guildID]
	if !ok {
		s = &guildSettings{}
		g.guilds[guildID] = s
	}
	return s
}

// Cooldown returns when the guild's last adventure ended; the zero time
// means never.
func (g *GuildStore) Cooldown(_ context.Context, guildID string) (time.Time, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.guild(guildID).cooldown, nil
}

// SetCooldown stamps the end of an adventure; the zero time clears the gate.
func (g *GuildStore) SetCooldown(_ context.Context, guildID string, at time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guild(guildID).cooldown = at
	return nil
}

// CooldownTime returns the guild's rest-period override; zero means the
// configured default applies.
func (g *GuildStore) CooldownTime(_ context.Context, guildID string) (time.Duration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.guild(guildID).cooldownTime, nil
}

// SetCooldownTime stores a rest-period override; zero removes it.
func (g *GuildStore) SetCooldownTime(_ context.Context, guildID string, d time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guild(guildID).cooldownTime = d
	return nil
}

// GodName returns the guild's deity override; empty means the configured
// default applies.
func (g *GuildStore) GodName(_ context.Context, guildID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.guild(guildID).godName, nil
}

// SetGodName stores a deity override; empty removes it.
func (g *GuildStore) SetGodName(_ context.Context, guildID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guild(guildID).godName = name
	return nil
}

// EasyMode returns the guild's difficulty override and whether one is set.
func (g *GuildStore) EasyMode(_ context.Context, guildID string) (easy, set bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	override := g.guild(guildID).easyMode
	if override == nil {
		return false, false, nil
	}
	return *override, true, nil
}

// SetEasyMode stores a difficulty override.
func (g *GuildStore) SetEasyMode(_ context.Context, guildID string, easy bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guild(guildID).easyMode = &easy
	return nil
}

// ClearEasyMode removes the difficulty override.
func (g *GuildStore) ClearEasyMode(_ context.Context, guildID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guild(guildID).easyMode = nil
	return nil
}
