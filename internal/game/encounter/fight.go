package encounter

import (
	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/session"
)

// resolveFight rolls the fight list into the attack pool and the magic list
// into the magic pool. Berserkers crit on every non-fumble swing and rage
// through fumbles; wizards do the same for spells, though a converted spell
// fumble still counts as a fumble. Rebirth scaling is asymmetric on purpose:
// swings carry triple rebirths for everyone but berserkers, spells only for
// wizards.
func (r *Resolver) resolveFight(res *resolution) {
	fight := res.list(session.ActionFight)
	spells := res.list(session.ActionMagic)
	if len(fight)+len(spells) == 0 {
		return
	}

	for _, id := range fight {
		c, ok := res.chars[id]
		if !ok {
			continue
		}
		critMod := max(max(c.Dex(), floorDiv(c.Luck(), 2))+floorDiv(c.TotalAtt(), 20), 0)
		out := rollAction(r.src, critMod, c.Rebirths, c.Pet)
		perc := out.perc()
		att := c.TotalAtt()
		rb := c.Rebirths * 3
		if c.HeroClass == character.ClassBerserker {
			rb = c.Rebirths
		}
		switch {
		case perc < fumbleBand:
			if c.HeroClass == character.ClassBerserker && c.AbilityActive {
				bonus := convertedBonus(r.src, out.Roll, att, rb)
				res.attack += float64(int64(float64(out.Roll-bonus+att) / res.pdef))
				res.event(EventConverted, id, session.ActionFight, float64(bonus))
			} else {
				res.fumble(id)
				res.event(EventFumble, id, session.ActionFight, 0)
			}
		case perc > critBand || c.HeroClass == character.ClassBerserker:
			base := dice.Between(r.src, 5, 10) + rb
			critBonus := 0
			if perc > critBand {
				res.crits = append(res.crits, id)
				critBonus = dice.Between(r.src, 5, 20) + rb*2
				res.event(EventCrit, id, session.ActionFight, float64(critBonus))
			}
			if c.HeroClass == character.ClassBerserker && c.AbilityActive {
				base = (dice.Between(r.src, 1, 10) + 5) * (rb / 2)
			}
			res.attack += float64(int64(float64(out.Roll+base+critBonus+att) / res.pdef))
		default:
			res.attack += float64(int64(float64(out.Roll+att)/res.pdef) + int64(rb))
		}
		if !res.fumbled[id] {
			res.insightBoost(id, session.ActionFight)
		}
	}

	for _, id := range spells {
		c, ok := res.chars[id]
		if !ok {
			continue
		}
		critMod := max(max(c.Dex(), floorDiv(c.Luck(), 2))+floorDiv(c.TotalInt(), 20), 0)
		out := rollAction(r.src, critMod, c.Rebirths, c.Pet)
		perc := out.perc()
		intel := c.TotalInt()
		rb := c.Rebirths
		if c.HeroClass == character.ClassWizard {
			rb = c.Rebirths * 3
		}
		switch {
		case perc < fumbleBand:
			// A focused wizard salvages the cast but is still marked a
			// fumbler.
			res.fumble(id)
			res.event(EventFumble, id, session.ActionMagic, 0)
			if c.HeroClass == character.ClassWizard && c.AbilityActive {
				bonus := convertedBonus(r.src, out.Roll, intel, rb)
				res.magic += float64(int64(float64(out.Roll-bonus+intel) / res.mdef))
				res.event(EventConverted, id, session.ActionMagic, float64(bonus))
			}
		case perc > critBand || c.HeroClass == character.ClassWizard:
			base := dice.Between(r.src, 5, 10) + rb
			critBonus := 0
			if perc > critBand {
				res.crits = append(res.crits, id)
				critBonus = dice.Between(r.src, 5, 20) + rb*2
				res.event(EventCrit, id, session.ActionMagic, float64(critBonus))
			}
			if c.HeroClass == character.ClassWizard && c.AbilityActive {
				base = (dice.Between(r.src, 1, 10) + 5) * (rb / 2)
			}
			res.magic += float64(int64(float64(out.Roll+base+critBonus+intel) / res.mdef))
		default:
			res.magic += float64(int64(float64(out.Roll+intel)/res.mdef) + int64(c.Rebirths/5))
		}
		if !res.fumbled[id] {
			res.insightBoost(id, session.ActionMagic)
		}
	}
}
