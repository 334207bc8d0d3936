package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/encounter"
	"github.com/cory-johannsen/adventure/internal/game/equipment"
)

var _ encounter.CharacterStore = (*CharacterRepository)(nil)

// CharacterRepository persists character sheets as jsonb documents keyed by
// user id. The sheet is the single source of truth; level, rebirth, and
// experience columns are denormalised copies kept for leaderboard queries.
type CharacterRepository struct {
	db     *pgxpool.Pool
	tables map[string][]equipment.SetBonus
}

// NewCharacterRepository creates a CharacterRepository backed by the given
// pool. A non-nil tables map makes every Load hydrate gear set bonuses.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool, tables map[string][]equipment.SetBonus) *CharacterRepository {
	return &CharacterRepository{db: db, tables: tables}
}

// Load returns the user's character with set bonuses applied.
//
// Postcondition: Returns an error wrapping encounter.ErrCharacterNotFound
// when no record exists.
func (r *CharacterRepository) Load(ctx context.Context, userID string) (*character.Character, error) {
	var sheet []byte
	err := r.db.QueryRow(ctx,
		`SELECT sheet FROM characters WHERE user_id = $1`,
		userID,
	).Scan(&sheet)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", encounter.ErrCharacterNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying character: %w", err)
	}

	var c character.Character
	if err := json.Unmarshal(sheet, &c); err != nil {
		return nil, fmt.Errorf("decoding character sheet: %w", err)
	}
	if r.tables != nil {
		c.ApplySetBonuses(r.tables)
	}
	return &c, nil
}

// Save upserts the character sheet, replacing any existing record.
//
// Precondition: c must be non-nil with a non-empty ID.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	if c == nil {
		return errors.New("postgres: cannot save a nil character")
	}
	if c.ID == "" {
		return errors.New("postgres: cannot save a character without an id")
	}

	sheet, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding character sheet: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO characters (user_id, sheet, rebirths, lvl, exp)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			sheet = EXCLUDED.sheet,
			rebirths = EXCLUDED.rebirths,
			lvl = EXCLUDED.lvl,
			exp = EXCLUDED.exp,
			updated_at = NOW()`,
		c.ID, sheet, c.Rebirths, c.Lvl, c.Exp,
	)
	if err != nil {
		return fmt.Errorf("upserting character: %w", err)
	}
	return nil
}

// Delete removes the user's character.
//
// Postcondition: Returns an error wrapping encounter.ErrCharacterNotFound
// when no record existed.
func (r *CharacterRepository) Delete(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM characters WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", encounter.ErrCharacterNotFound, userID)
	}
	return nil
}

// TopByExp returns up to n characters ordered by experience, best first.
// Ties order by user id so the board is stable.
func (r *CharacterRepository) TopByExp(ctx context.Context, n int) ([]*character.Character, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT sheet FROM characters ORDER BY exp DESC, user_id ASC LIMIT $1`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters by experience: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0, n)
	for rows.Next() {
		var sheet []byte
		if err := rows.Scan(&sheet); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		var c character.Character
		if err := json.Unmarshal(sheet, &c); err != nil {
			return nil, fmt.Errorf("decoding character sheet: %w", err)
		}
		if r.tables != nil {
			c.ApplySetBonuses(r.tables)
		}
		chars = append(chars, &c)
	}
	return chars, rows.Err()
}
