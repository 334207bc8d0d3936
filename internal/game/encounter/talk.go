package encounter

import (
	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/session"
)

// resolveTalk rolls the talk list into the diplomacy pool against the
// monster's charisma defense. Bards always crit and can charm their way out
// of a fumble with a flat bonus; unlike fight, the per-roll rebirth bonus
// divides with the rest of the numerator, and pets sit this one out.
func (r *Resolver) resolveTalk(res *resolution) {
	talkers := res.list(session.ActionTalk)
	if len(talkers) == 0 {
		return
	}

	for _, id := range talkers {
		c, ok := res.chars[id]
		if !ok {
			continue
		}
		critMod := max(max(c.Dex(), floorDiv(c.Luck(), 2))+floorDiv(c.TotalInt(), 50)+floorDiv(c.TotalCha(), 20), 0)
		out := rollAction(r.src, critMod, c.Rebirths, nil)
		perc := out.perc()
		cha := c.TotalCha()
		rb := c.Rebirths
		if c.HeroClass == character.ClassBard {
			rb = c.Rebirths * 3
		}
		switch {
		case perc < fumbleBand:
			if c.HeroClass == character.ClassBard && c.AbilityActive {
				bonus := dice.Between(r.src, 5, 15)
				res.diplomacy += float64(int64(float64(out.Roll-bonus+cha+rb) / res.cdef))
				res.event(EventConverted, id, session.ActionTalk, float64(bonus))
			} else {
				res.fumble(id)
				res.event(EventFumble, id, session.ActionTalk, 0)
			}
		case perc > critBand || c.HeroClass == character.ClassBard:
			base := dice.Between(r.src, 5, 10) + rb
			critBonus := 0
			if perc > critBand {
				res.crits = append(res.crits, id)
				critBonus = dice.Between(r.src, 5, 20) + rb*2
				res.event(EventCrit, id, session.ActionTalk, float64(critBonus))
			}
			if c.HeroClass == character.ClassBard && c.AbilityActive {
				base = (dice.Between(r.src, 1, 10) + 5) * (rb / 2)
			}
			res.diplomacy += float64(int64(float64(out.Roll+base+critBonus+cha) / res.cdef))
		default:
			res.diplomacy += float64(int64(float64(out.Roll+cha+c.Rebirths/5) / res.cdef))
		}
		if !res.fumbled[id] {
			res.insightBoost(id, session.ActionTalk)
		}
	}
}
