package encounter

import (
	"fmt"

	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/treasure"
)

// EventKind labels one narrative beat of a resolution.
type EventKind int

const (
	// EventRun marks a participant who fled before the fight.
	EventRun EventKind = iota
	// EventFumble marks a failed action roll.
	EventFumble
	// EventCrit marks a roll above the crit band.
	EventCrit
	// EventConverted marks a fumble a class ability turned into a
	// contribution.
	EventConverted
	// EventBlessed marks a successful prayer buffing the other parties.
	EventBlessed
	// EventAvatar marks the cleric's perfect 50 prayer.
	EventAvatar
	// EventOffended marks a cleric prayer fumble.
	EventOffended
	// EventUnanswered marks a lay prayer that went nowhere.
	EventUnanswered
	// EventLonePrayer marks a prayer with nobody else to bless.
	EventLonePrayer
	// EventPetBoon marks a ranger pet boosting its owner's reward.
	EventPetBoon
	// EventCountered marks a miniboss whose special was countered but who
	// beat the party anyway.
	EventCountered
	// EventDefeat marks a party that met neither threshold.
	EventDefeat
)

var eventKindNames = [...]string{
	EventRun:        "run",
	EventFumble:     "fumble",
	EventCrit:       "crit",
	EventConverted:  "converted",
	EventBlessed:    "blessed",
	EventAvatar:     "avatar",
	EventOffended:   "offended",
	EventUnanswered: "unanswered",
	EventLonePrayer: "lone_prayer",
	EventPetBoon:    "pet_boon",
	EventCountered:  "countered",
	EventDefeat:     "defeat",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("eventkind(%d)", int(k))
}

// Event is one renderable beat. UserID and Action are empty for party-wide
// beats; Amount carries the bonus or penalty magnitude where one exists.
type Event struct {
	Kind   EventKind
	UserID string
	Action session.Action
	Amount float64
}

// Reward is one participant's computed share, not yet applied to their
// record. Every recipient of the same resolution gets an identical Treasure
// bundle; veteran bonus chests are added per user at distribution time.
type Reward struct {
	UserID   string
	XP       int64
	CP       int64
	Treasure treasure.Treasure
}

// Loss is one participant's repair bill, already withdrawn.
type Loss struct {
	UserID string
	Amount int64
}

// LevelUp reports a character reaching a new level during distribution.
type LevelUp struct {
	UserID string
	Level  int
}

// Result aggregates everything a resolution decided. The pipeline applies
// penalties and bookkeeping before returning; rewards are computed here and
// applied by Distribute.
type Result struct {
	GuildID   string
	SessionID string

	Trap      bool // the lure had no monster behind it
	Failed    bool // miniboss requirement unmet
	Slain     bool
	Persuaded bool
	Lost      bool
	Success   bool

	People      int
	DamageDealt int64
	Diplomacy   int64
	HP          int64
	Dipl        int64

	// RewardModifier is the legacy success-ratio figure carried for
	// presentation; it does not change the payout.
	RewardModifier int64

	Treasure     treasure.Treasure
	Participants []string
	Crits        []string
	Fumbles      []string
	Rewards      []Reward
	Losses       []Loss
	Events       []Event
}
