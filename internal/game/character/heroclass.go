package character

// HeroClass identifies a character's class. Classes shape encounter rolls:
// some convert fumbles, some always crit on their signature action, and the
// psychic can expose a hidden monster.
type HeroClass string

const (
	// ClassHero is the default class with no special ability.
	ClassHero HeroClass = "hero"
	// ClassBerserker rages: always crits on fight rolls and converts fight
	// fumbles while raging.
	ClassBerserker HeroClass = "berserker"
	// ClassWizard focuses: always crits on magic rolls and converts magic
	// fumbles while focused.
	ClassWizard HeroClass = "wizard"
	// ClassTinkerer forges unique gear outside of encounters.
	ClassTinkerer HeroClass = "tinkerer"
	// ClassCleric blesses: prays with the tiered roll instead of the flat
	// gamble.
	ClassCleric HeroClass = "cleric"
	// ClassRanger tames a pet that can improve the owner's rolls.
	ClassRanger HeroClass = "ranger"
	// ClassBard performs: always crits on talk rolls and converts talk
	// fumbles while performing.
	ClassBard HeroClass = "bard"
	// ClassPsychic reads the enemy: can expose hidden monsters and grant
	// the party an insight bonus.
	ClassPsychic HeroClass = "psychic"
)

// AllClasses lists every defined hero class.
var AllClasses = []HeroClass{
	ClassHero, ClassBerserker, ClassWizard, ClassTinkerer,
	ClassCleric, ClassRanger, ClassBard, ClassPsychic,
}

var abilityNames = map[HeroClass]string{
	ClassBerserker: "rage",
	ClassWizard:    "focus",
	ClassCleric:    "bless",
	ClassRanger:    "pet",
	ClassBard:      "music",
	ClassPsychic:   "insight",
}

// Valid reports whether h is a defined class.
func (h HeroClass) Valid() bool {
	for _, known := range AllClasses {
		if h == known {
			return true
		}
	}
	return false
}

// AbilityName returns the class ability label used in narration, or the
// empty string for classes without an activatable ability.
func (h HeroClass) AbilityName() string {
	return abilityNames[h]
}

// Pet is a ranger companion. Bonus scales the owner's rewards; CritChance
// is the lower bound of the pet's crit assist draw, zero when the pet
// cannot assist.
type Pet struct {
	Name       string  `json:"name" yaml:"name"`
	Bonus      float64 `json:"bonus" yaml:"bonus"`
	CritChance int     `json:"crit_chance" yaml:"crit_chance"`
	// Always forces the pet bonus on every reward instead of the 1-in-5
	// draw.
	Always bool `json:"always,omitempty" yaml:"always,omitempty"`
}
