// Package character defines the adventurer model: stats, hero classes,
// progression, and the derived totals the encounter resolvers consume.
package character

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cory-johannsen/adventure/internal/game/equipment"
	"github.com/cory-johannsen/adventure/internal/game/treasure"
)

const (
	// rebirthLevel is the starting level cap for characters with at least
	// one rebirth.
	rebirthLevel = 20
	// rebirthStep is the cap increase granted per rebirth past the
	// twentieth.
	rebirthStep = 10
	// levelCap is the absolute level ceiling.
	levelCap = 10000
)

// SkillPoints tracks allocated skill points and the unspent pool.
type SkillPoints struct {
	Att  int `json:"att" yaml:"att"`
	Cha  int `json:"cha" yaml:"cha"`
	Int  int `json:"int" yaml:"int"`
	Pool int `json:"pool" yaml:"pool"`
}

// Record tallies a character's adventure history.
type Record struct {
	Fight   int `json:"fight" yaml:"fight"`
	Spell   int `json:"spell" yaml:"spell"`
	Talk    int `json:"talk" yaml:"talk"`
	Pray    int `json:"pray" yaml:"pray"`
	Run     int `json:"run" yaml:"run"`
	Fumbles int `json:"fumbles" yaml:"fumbles"`
	Wins    int `json:"wins" yaml:"wins"`
	Loses   int `json:"loses" yaml:"loses"`
}

// Character is an adventurer. Base stats are fully derived from rebirths
// and worn gear; only skill points are allocated directly.
//
// Invariant: Lvl never exceeds MaxLevel().
type Character struct {
	ID            string               `json:"id" yaml:"id"`
	Name          string               `json:"name" yaml:"name"`
	HeroClass     HeroClass            `json:"hero_class" yaml:"hero_class"`
	Rebirths      int                  `json:"rebirths" yaml:"rebirths"`
	Exp           int64                `json:"exp" yaml:"exp"`
	Lvl           int                  `json:"lvl" yaml:"lvl"`
	Skill         SkillPoints          `json:"skill" yaml:"skill"`
	Equipment     *equipment.Equipment `json:"equipment" yaml:"equipment"`
	Treasure      treasure.Treasure    `json:"treasure" yaml:"treasure"`
	Adventures    Record               `json:"adventures" yaml:"adventures"`
	WeeklyScore   int                  `json:"weekly_score" yaml:"weekly_score"`
	AbilityActive bool                 `json:"ability_active" yaml:"ability_active"`
	CooldownUntil time.Time            `json:"cooldown_until" yaml:"cooldown_until"`
	Pet           *Pet                 `json:"pet,omitempty" yaml:"pet,omitempty"`

	// gearBonus caches the set-bonus aggregate for the current equipment.
	// It is recomputed by ApplySetBonuses and excluded from persistence.
	gearBonus    equipment.SetBonus
	bonusApplied bool
}

// Validate checks model invariants, accumulating all violations.
//
// Postcondition: Returns nil when the character is internally consistent.
func (c *Character) Validate() error {
	var errs []string
	if c.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if !c.HeroClass.Valid() {
		errs = append(errs, fmt.Sprintf("unknown hero class %q", c.HeroClass))
	}
	if c.Rebirths < 0 {
		errs = append(errs, fmt.Sprintf("rebirths must be >= 0, got %d", c.Rebirths))
	}
	if c.Lvl < 0 || c.Lvl > c.MaxLevel() {
		errs = append(errs, fmt.Sprintf("lvl %d outside [0, %d]", c.Lvl, c.MaxLevel()))
	}
	if !c.Treasure.Valid() {
		errs = append(errs, "treasure has a negative counter")
	}
	if c.Pet != nil && c.HeroClass != ClassRanger {
		errs = append(errs, fmt.Sprintf("class %s cannot keep a pet", c.HeroClass))
	}
	if c.Equipment != nil {
		if err := c.Equipment.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New("invalid character: " + strings.Join(errs, "; "))
	}
	return nil
}

// ApplySetBonuses recomputes the cached gear set bonus from the theme's set
// tables. Must be called after loading a character or changing equipment and
// before reading stat totals.
func (c *Character) ApplySetBonuses(tables map[string][]equipment.SetBonus) {
	c.gearBonus = equipment.ComputeSetBonus(c.Equipment, tables)
	c.bonusApplied = true
}

// GearBonus returns the cached set-bonus aggregate.
//
// Postcondition: Returns the neutral bonus when ApplySetBonuses has not run.
func (c *Character) GearBonus() equipment.SetBonus {
	if !c.bonusApplied {
		return equipment.NeutralBonus()
	}
	return c.gearBonus
}

// rebirthPoints is the stat floor every rebirth grants, identical for all
// five stats.
func rebirthPoints(rebirths int) int {
	if rebirths < 0 {
		rebirths = 0
	}
	points := rebirths / 10 * 5
	for r := rebirths; r > 0; r-- {
		switch {
		case r >= 30:
			points += 3
		case r >= 20:
			points += 5
		case r >= 10:
			points++
		default:
			points += 2
		}
	}
	return points
}

// statCapped reports whether the pre-rebirth cap nerf applies: characters
// parked at the first level cap without rebirthing play with floor stats
// until they rebirth.
func (c *Character) statCapped() bool {
	return c.Rebirths < 1 && c.Lvl >= c.MaxLevel()
}

func (c *Character) rawStat(gearStat func(equipment.Stats) int) int {
	base := rebirthPoints(c.Rebirths)
	if c.Equipment != nil {
		base += gearStat(c.Equipment.StatTotals())
	}
	return base
}

func (c *Character) stat(gearStat func(equipment.Stats) int, flat func(equipment.SetBonus) int) int {
	bonus := c.GearBonus()
	value := int(float64(c.rawStat(gearStat))*bonus.StatMult) + flat(bonus)
	if c.statCapped() && value > 5 {
		value = 5
	}
	return value
}

// Att returns the attack stat before skill points.
func (c *Character) Att() int {
	return c.stat(func(s equipment.Stats) int { return s.Att }, func(b equipment.SetBonus) int { return b.Att })
}

// Cha returns the charisma stat before skill points.
func (c *Character) Cha() int {
	return c.stat(func(s equipment.Stats) int { return s.Cha }, func(b equipment.SetBonus) int { return b.Cha })
}

// Int returns the intelligence stat before skill points.
func (c *Character) Int() int {
	return c.stat(func(s equipment.Stats) int { return s.Int }, func(b equipment.SetBonus) int { return b.Int })
}

// Dex returns the dexterity stat. Dexterity has no skill component.
func (c *Character) Dex() int {
	return c.stat(func(s equipment.Stats) int { return s.Dex }, func(b equipment.SetBonus) int { return b.Dex })
}

// Luck returns the luck stat. Luck has no skill component.
func (c *Character) Luck() int {
	return c.stat(func(s equipment.Stats) int { return s.Luck }, func(b equipment.SetBonus) int { return b.Luck })
}

// Raw stats come from rebirth points and worn gear alone, with no set
// bonuses and no level-cap clamp. Reward scaling and repair bills read
// these.

// RawAtt returns the unmodified attack stat.
func (c *Character) RawAtt() int {
	return c.rawStat(func(s equipment.Stats) int { return s.Att })
}

// RawInt returns the unmodified intelligence stat.
func (c *Character) RawInt() int {
	return c.rawStat(func(s equipment.Stats) int { return s.Int })
}

// RawDex returns the unmodified dexterity stat.
func (c *Character) RawDex() int {
	return c.rawStat(func(s equipment.Stats) int { return s.Dex })
}

// RawLuck returns the unmodified luck stat.
func (c *Character) RawLuck() int {
	return c.rawStat(func(s equipment.Stats) int { return s.Luck })
}

func (c *Character) skillPoints() SkillPoints {
	if c.statCapped() {
		return SkillPoints{Att: 1, Cha: 1, Int: 1}
	}
	return c.Skill
}

// TotalAtt returns attack including allocated skill points.
func (c *Character) TotalAtt() int { return c.Att() + c.skillPoints().Att }

// TotalCha returns charisma including allocated skill points.
func (c *Character) TotalCha() int { return c.Cha() + c.skillPoints().Cha }

// TotalInt returns intelligence including allocated skill points.
func (c *Character) TotalInt() int { return c.Int() + c.skillPoints().Int }

// TotalStats returns the combined stat line used for fallback monster
// selection.
func (c *Character) TotalStats() int {
	return c.TotalAtt() + c.TotalCha() + c.TotalInt() + c.Dex() + c.Luck()
}

// MaxLevel returns the level cap for the character's rebirth count. The cap
// starts at 5, jumps to 20 on the first rebirth, and then climbs per rebirth
// in decreasing steps.
//
// Postcondition: 5 <= result <= 10000.
func (c *Character) MaxLevel() int {
	rebirths := c.Rebirths
	if rebirths < 0 {
		rebirths = 0
	}
	if rebirths == 0 {
		return 5
	}
	maxLevel := rebirthLevel
	for r := rebirths; r > 0; r-- {
		switch {
		case r >= 20:
			maxLevel += rebirthStep
		case r >= 10:
			maxLevel += 10
		default:
			maxLevel += 5
		}
	}
	if maxLevel > levelCap {
		maxLevel = levelCap
	}
	return maxLevel
}

// LevelForExp returns the level reached at the given experience total,
// before the rebirth cap is applied.
func LevelForExp(exp int64) int {
	if exp < 0 {
		exp = 0
	}
	return int(math.Pow(float64(exp), 1.0/3.5))
}

// SkillPointsAt returns the cumulative skill points earned by a character
// of the given level and rebirth count.
func SkillPointsAt(lvl, rebirths int) int {
	points := float64(rebirths * 10)
	for l := lvl; l > 0; l-- {
		switch {
		case l >= 300:
			points++
		case l >= 200:
			points += 5
		case l >= 100:
			points++
		default:
			points += 0.5
		}
	}
	return int(points)
}

// GainExp adds experience, recomputes the level against the rebirth cap,
// and credits the unspent skill pool for any levels gained. The level never
// decreases, even when the stored level exceeds what the total warrants.
//
// Precondition: exp >= 0.
// Postcondition: c.Lvl <= max(previous Lvl, c.MaxLevel()); returns the number
// of levels gained.
func (c *Character) GainExp(exp int64) int {
	if exp < 0 {
		panic("character: GainExp: precondition violated: exp must be >= 0")
	}
	before := c.Lvl
	c.Exp += exp
	level := LevelForExp(c.Exp)
	if limit := c.MaxLevel(); level > limit {
		level = limit
	}
	if level <= before {
		return 0
	}
	c.Lvl = level
	if c.Skill.Pool < 0 {
		c.Skill.Pool = 0
	}
	gained := SkillPointsAt(c.Lvl, c.Rebirths) - SkillPointsAt(before, c.Rebirths)
	if gained > 0 {
		c.Skill.Pool += gained
	}
	return c.Lvl - before
}

// AtMaxLevel reports whether the character sits at the rebirth level cap.
func (c *Character) AtMaxLevel() bool {
	return c.Lvl >= c.MaxLevel()
}

// ResetAbility deactivates the class ability. Ranger pets stay tamed.
func (c *Character) ResetAbility() {
	if c.HeroClass != ClassRanger {
		c.AbilityActive = false
	}
}
