package encounter

import (
	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/session"
)

// resolvePray buffs or burns the other parties. Clerics pray with the full
// tiered roll and scale with the assisted list sizes; everyone else gambles
// on a flat 1-in-10 blessing. Buff and penalty amounts keep the legacy
// shapes, including the fumble "penalty" that nets out as a small boost at
// low rebirth counts.
func (r *Resolver) resolvePray(res *resolution) {
	prayers := res.list(session.ActionPray)
	if len(prayers) == 0 {
		return
	}
	nFight := len(res.list(session.ActionFight))
	nTalk := len(res.list(session.ActionTalk))
	nMagic := len(res.list(session.ActionMagic))
	assisted := nFight + nTalk + nMagic

	for _, id := range prayers {
		c, ok := res.chars[id]
		if !ok {
			continue
		}
		if c.HeroClass == character.ClassCleric {
			rb := c.Rebirths * 2
			critMod := max(max(c.Dex(), floorDiv(c.Luck(), 2))+floorDiv(c.TotalInt(), 20), 0)
			out := rollAction(r.src, critMod, c.Rebirths, nil)
			if assisted == 0 {
				res.event(EventLonePrayer, id, session.ActionPray, 0)
			}
			if out.perc() < prayFumbleBand {
				// The legacy penalty shape: 5n minus 5n times a factor
				// floored at 1.5, subtracted from the pool. A lone cleric
				// still fumbles with nothing to burn.
				factor := max(float64(rb)*0.01, 1.5)
				var attPen, diploPen, magicPen float64
				if nFight > 0 {
					attPen = float64(5*nFight) - float64(5*nFight)*factor
				}
				if nTalk > 0 {
					diploPen = float64(5*nTalk) - float64(5*nTalk)*factor
				}
				if nMagic > 0 {
					magicPen = float64(5*nMagic) - float64(5*nMagic)*factor
				}
				res.attack -= attPen
				res.diplomacy -= diploPen
				res.magic -= magicPen
				res.fumble(id)
				res.event(EventOffended, id, session.ActionPray, attPen+diploPen+magicPen)
			} else {
				mod := out.Roll / 3
				if c.AbilityActive {
					mod = out.Roll
				}
				factor := max(float64(rb)*0.05, 1.5)
				var attBonus, diploBonus, magicBonus int64
				if nFight > 0 {
					attBonus = int64(float64(mod*nFight) + float64(mod*nFight)*factor)
				}
				if nTalk > 0 {
					diploBonus = int64(float64(mod*nTalk) + float64(mod*nTalk)*factor)
				}
				if nMagic > 0 {
					magicBonus = int64(float64(mod*nMagic) + float64(mod*nMagic)*factor)
				}
				res.attack += float64(attBonus)
				res.magic += float64(magicBonus)
				res.diplomacy += float64(diploBonus)
				kind := EventBlessed
				if out.Roll == 50 {
					kind = EventAvatar
				}
				res.event(kind, id, session.ActionPray, float64(attBonus+diploBonus+magicBonus))
			}
			continue
		}

		roll := dice.Between(r.src, 1, 10)
		if assisted == 0 {
			res.event(EventLonePrayer, id, session.ActionPray, 0)
		} else if roll == 5 {
			var attBuff, talkBuff, magicBuff int
			if nFight > 0 {
				attBuff = 10 * (nFight + c.Rebirths/15)
			}
			if nTalk > 0 {
				talkBuff = 10 * (nTalk + c.Rebirths/15)
			}
			if nMagic > 0 {
				magicBuff = 10 * (nMagic + c.Rebirths/15)
			}
			res.attack += float64(attBuff)
			res.magic += float64(magicBuff)
			res.diplomacy += float64(talkBuff)
			res.event(EventBlessed, id, session.ActionPray, float64(attBuff+talkBuff+magicBuff))
		} else {
			res.fumble(id)
			res.event(EventUnanswered, id, session.ActionPray, 0)
		}
	}
}
