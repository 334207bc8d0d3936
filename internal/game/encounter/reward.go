package encounter

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/treasure"
)

// rewardParty computes every recipient's share of the pool. XP scales with
// rebirths and intelligence, currency with luck and attack; gear set
// multipliers, the weekday bonus, and the hard-mode bonus stack on top, and
// a ranger's pet may pile its own cut on the result. Amounts are computed
// here and applied later by Distribute.
func (r *Resolver) rewardParty(ctx context.Context, res *resolution, recipients []string, amount float64, bundle treasure.Treasure) []Reward {
	_ = ctx
	xp := roundHalfEven(amount)
	if xp < 1 {
		xp = 1
	}
	cp := xp
	dayMult := r.game.DayMultiplier(time.Now())
	sessionBonus := 1.0
	if res.sess.EasyMode {
		sessionBonus = 0
	}

	rewards := make([]Reward, 0, len(recipients))
	for _, id := range recipients {
		c, ok := res.chars[id]
		if !ok {
			continue
		}
		userXP := int64(float64(xp) + float64(xp)*0.5*float64(c.Rebirths) +
			math.Max(float64(xp)*0.1*math.Min(250, float64(c.RawInt())/10), 0))
		userCP := int64(float64(cp) +
			math.Max(float64(cp)*0.1*math.Min(1000, float64(c.RawLuck()+c.RawAtt())/10), 0))
		bonus := c.GearBonus()
		userXP = int64(float64(userXP) * (bonus.XPMult + dayMult + sessionBonus))
		userCP = int64(float64(userCP) * (bonus.CPMult + dayMult))

		petRoll := dice.Between(r.src, 1, 5)
		if c.Pet != nil && c.Pet.Always {
			petRoll = 5
		}
		if petRoll == 5 && c.HeroClass == character.ClassRanger && c.Pet != nil {
			petXP := int64(float64(userXP) * c.Pet.Bonus)
			userXP += petXP
			petCP := int64(float64(userCP) * c.Pet.Bonus)
			userCP += petCP
			res.event(EventPetBoon, id, "", c.Pet.Bonus)
		}
		rewards = append(rewards, Reward{UserID: id, XP: userXP, CP: userCP, Treasure: bundle})
	}
	return rewards
}

// Distribute applies a Result's rewards: experience and levels, the
// currency deposit, chest bundles with per-user veteran bonus rolls, and
// finally the ability reset for every non-ranger participant. Each character
// is updated under its user lock. Failures are logged per user and never
// block the rest of the payout. The returned slice lists every character
// that reached a new level.
//
// Precondition: result is non-nil. Panics otherwise.
func (r *Resolver) Distribute(ctx context.Context, result *Result) []LevelUp {
	if result == nil {
		panic("encounter: Distribute called with nil result")
	}
	var ups []LevelUp
	for _, rw := range result.Rewards {
		if up, ok := r.applyReward(ctx, rw); ok {
			ups = append(ups, up)
		}
	}
	for _, id := range result.Participants {
		unlock := r.locks.Lock(id)
		c, err := r.chars.Load(ctx, id)
		if err != nil {
			unlock()
			r.log.Error("loading character for ability reset", zap.String("user", id), zap.Error(err))
			continue
		}
		if c.AbilityActive && c.HeroClass != character.ClassRanger {
			c.ResetAbility()
			if err := r.chars.Save(ctx, c); err != nil {
				r.log.Error("saving ability reset", zap.String("user", id), zap.Error(err))
			}
		}
		unlock()
	}
	return ups
}

func (r *Resolver) applyReward(ctx context.Context, rw Reward) (LevelUp, bool) {
	unlock := r.locks.Lock(rw.UserID)
	defer unlock()
	c, err := r.chars.Load(ctx, rw.UserID)
	if err != nil {
		r.log.Error("loading character for reward", zap.String("user", rw.UserID), zap.Error(err))
		return LevelUp{}, false
	}
	levels := c.GainExp(rw.XP)
	if rw.CP > 0 {
		if _, err := r.ledger.Deposit(ctx, rw.UserID, rw.CP); err != nil {
			r.log.Error("depositing reward", zap.String("user", rw.UserID), zap.Error(err))
		}
	}
	bundle := rw.Treasure
	if c.Rebirths > 1 {
		bundle = bundle.Add(r.veteranChests(c))
	}
	if !bundle.IsZero() {
		c.Treasure = c.Treasure.Add(bundle)
	}
	if err := r.chars.Save(ctx, c); err != nil {
		r.log.Error("saving reward", zap.String("user", rw.UserID), zap.Error(err))
		return LevelUp{}, false
	}
	r.log.Debug("reward applied",
		zap.String("user", rw.UserID),
		zap.Int64("xp", rw.XP),
		zap.Int64("cp", rw.CP),
		zap.Int("levels", levels),
	)
	if levels > 0 {
		return LevelUp{UserID: rw.UserID, Level: c.Lvl}, true
	}
	return LevelUp{}, false
}

// veteranChests rolls the bonus chests a rebirthed character turns up. At
// the level cap the second die lands the roll above every threshold, so
// nothing extra drops.
//
// Precondition: c.Rebirths > 1.
func (r *Resolver) veteranChests(c *character.Character) treasure.Treasure {
	var extra treasure.Treasure
	roll := dice.Between(r.src, 1, 100)
	if c.AtMaxLevel() {
		roll += dice.Between(r.src, 50, 100)
	}
	if roll < 50 {
		extra.Normal++
	}
	if c.Rebirths > 5 && roll < 30 {
		extra.Rare++
	}
	if c.Rebirths > 10 && roll < 10 {
		extra.Epic++
	}
	if c.Rebirths > 15 && roll < 5 {
		extra.Legendary++
	}
	return extra
}
