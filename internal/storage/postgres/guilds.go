package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/adventure/internal/adventure"
)

var _ adventure.GuildStore = (*GuildRepository)(nil)

// GuildRepository persists per-guild settings: the adventure cooldown stamp
// and the operator overrides. Guilds that never stored anything read back
// zero values.
type GuildRepository struct {
	db *pgxpool.Pool
}

// NewGuildRepository creates a GuildRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewGuildRepository(db *pgxpool.Pool) *GuildRepository {
	return &GuildRepository{db: db}
}

// Cooldown returns when the guild's last adventure ended.
//
// Postcondition: Returns the zero time for guilds without a stamp.
func (r *GuildRepository) Cooldown(ctx context.Context, guildID string) (time.Time, error) {
	var at *time.Time
	err := r.db.QueryRow(ctx,
		`SELECT cooldown FROM guild_settings WHERE guild_id = $1`,
		guildID,
	).Scan(&at)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying guild cooldown: %w", err)
	}
	if at == nil {
		return time.Time{}, nil
	}
	return *at, nil
}

// SetCooldown stamps the end of an adventure; the zero time clears the gate.
func (r *GuildRepository) SetCooldown(ctx context.Context, guildID string, at time.Time) error {
	var stamp *time.Time
	if !at.IsZero() {
		stamp = &at
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO guild_settings (guild_id, cooldown)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET cooldown = EXCLUDED.cooldown, updated_at = NOW()`,
		guildID, stamp,
	)
	if err != nil {
		return fmt.Errorf("stamping guild cooldown: %w", err)
	}
	return nil
}

// CooldownTime returns the guild's rest-period override.
//
// Postcondition: Returns zero when no override is stored, meaning the
// configured default applies.
func (r *GuildRepository) CooldownTime(ctx context.Context, guildID string) (time.Duration, error) {
	var secs int64
	err := r.db.QueryRow(ctx,
		`SELECT cooldown_secs FROM guild_settings WHERE guild_id = $1`,
		guildID,
	).Scan(&secs)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying guild rest period: %w", err)
	}
	return time.Duration(secs) * time.Second, nil
}

// SetCooldownTime stores a rest-period override, rounded down to whole
// seconds; zero removes it.
func (r *GuildRepository) SetCooldownTime(ctx context.Context, guildID string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("postgres: rest period must be >= 0, got %s", d)
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO guild_settings (guild_id, cooldown_secs)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET cooldown_secs = EXCLUDED.cooldown_secs, updated_at = NOW()`,
		guildID, int64(d/time.Second),
	)
	if err != nil {
		return fmt.Errorf("storing guild rest period: %w", err)
	}
	return nil
}

// GodName returns the guild's deity override.
//
// Postcondition: Returns the empty string when no override is stored.
func (r *GuildRepository) GodName(ctx context.Context, guildID string) (string, error) {
	var name string
	err := r.db.QueryRow(ctx,
		`SELECT god_name FROM guild_settings WHERE guild_id = $1`,
		guildID,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying guild deity: %w", err)
	}
	return name, nil
}

// SetGodName stores a deity override; empty removes it.
func (r *GuildRepository) SetGodName(ctx context.Context, guildID, name string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO guild_settings (guild_id, god_name)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET god_name = EXCLUDED.god_name, updated_at = NOW()`,
		guildID, name,
	)
	if err != nil {
		return fmt.Errorf("storing guild deity: %w", err)
	}
	return nil
}

// EasyMode returns the guild's difficulty override and whether one is set.
func (r *GuildRepository) EasyMode(ctx context.Context, guildID string) (easy, set bool, err error) {
	var override *bool
	err = r.db.QueryRow(ctx,
		`SELECT easy_mode FROM guild_settings WHERE guild_id = $1`,
		guildID,
	).Scan(&override)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("querying guild difficulty: %w", err)
	}
	if override == nil {
		return false, false, nil
	}
	return *override, true, nil
}

// SetEasyMode stores a difficulty override.
func (r *GuildRepository) SetEasyMode(ctx context.Context, guildID string, easy bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO guild_settings (guild_id, easy_mode)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET easy_mode = EXCLUDED.easy_mode, updated_at = NOW()`,
		guildID, easy,
	)
	if err != nil {
		return fmt.Errorf("storing guild difficulty: %w", err)
	}
	return nil
}

// ClearEasyMode removes the difficulty override.
func (r *GuildRepository) ClearEasyMode(ctx context.Context, guildID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO guild_settings (guild_id, easy_mode)
		VALUES ($1, NULL)
		ON CONFLICT (guild_id) DO UPDATE SET easy_mode = NULL, updated_at = NOW()`,
		guildID,
	)
	if err != nil {
		return fmt.Errorf("clearing guild difficulty: %w", err)
	}
	return nil
}
