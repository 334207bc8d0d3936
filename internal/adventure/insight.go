package adventure

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/session"
)

// DefenseHint is one revealed defense factor. Value is the scaled factor,
// not a band label; hosts bucket it however they narrate.
type DefenseHint struct {
	Revealed bool
	Value    float64
}

// InsightReading is what a psychic learns from one use of insight. Fields
// unlock cumulatively with the roll: the name above 0.5, the attribute above
// 0.75, the fight threshold at 0.90, the talk threshold at 0.95, and the
// transcended marker only on a perfect roll. The defense hints unlock on
// independent per-focus thresholds. A reading that is not Best, or whose
// roll is 0.4 or under, reveals nothing.
type InsightReading struct {
	Roll float64
	Best bool

	// Struggling is the trap tell: the psychic sensed no monster at all.
	Struggling bool

	Monster     string
	Image       string
	Attribute   string
	HP          int64
	Dipl        int64
	Transcended bool

	PDef DefenseHint
	MDef DefenseHint
	CDef DefenseHint
}

// UseInsight spends the psychic's class ability on the guild's open session.
// The ability is burned and the rest period starts whether or not the roll
// beats the session's current best.
//
// Precondition: guildID and userID must be non-empty. Panics otherwise.
func (e *Engine) UseInsight(ctx context.Context, guildID, userID string) (*InsightReading, error) {
	if guildID == "" {
		panic("adventure: UseInsight called with empty guild id")
	}
	if userID == "" {
		panic("adventure: UseInsight called with empty user id")
	}
	sess, ok := e.registry.Get(guildID)
	if !ok {
		return nil, ErrNoAdventure
	}
	unlock := e.locks.Lock(userID)
	defer unlock()

	c, err := e.chars.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading psychic: %w", err)
	}
	if c.HeroClass != character.ClassPsychic {
		return nil, ErrNotPsychic
	}
	if !memberOf(sess, userID) {
		return nil, ErrNotInAdventure
	}
	if c.AbilityActive {
		return nil, ErrAbilityActive
	}
	now := e.now()
	if now.Before(c.CooldownUntil) {
		return nil, &CooldownError{Until: c.CooldownUntil}
	}

	roll := e.rollInsight(c)
	best := sess.RecordInsight(roll, userID)

	c.AbilityActive = true
	c.CooldownUntil = now.Add(insightRest(c))
	if err := e.chars.Save(ctx, c); err != nil {
		e.log.Error("saving psychic after insight", zap.String("user", userID), zap.Error(err))
	}

	reading := e.read(sess, roll, best)
	e.notices.Publish(Notice{Kind: NoticeInsight, GuildID: guildID, UserID: userID, Reading: reading})
	return reading, nil
}

func memberOf(sess *session.Session, userID string) bool {
	for _, id := range sess.AllMembers() {
		if id == userID {
			return true
		}
	}
	return false
}

// rollInsight draws the reading quality. Rebirths raise both the die size
// and its floor; below thirteen rebirths the floor is negative, so a bad
// draw can land under zero.
func (e *Engine) rollInsight(c *character.Character) float64 {
	max := 20
	switch {
	case c.Rebirths >= 30:
		max = 100
	case c.Rebirths >= 15:
		max = 50
	}
	lo := c.Rebirths - 12
	if lo > max/2 {
		lo = max / 2
	}
	return float64(dice.Between(e.src, lo, max)) / float64(max)
}

// insightRest is the rest period after one use: fifteen minutes, shaved by
// charm and luck, floored at five.
func insightRest(c *character.Character) time.Duration {
	shave := (c.Luck() + c.TotalCha()) * 2
	if shave < 0 {
		shave = 0
	}
	secs := 900 - shave
	if secs < 300 {
		secs = 300
	}
	return time.Duration(secs) * time.Second
}

// read turns a recorded roll into the reading the psychic reports. Only the
// best roll of the session reveals anything, and revealing the name marks
// the session exposed for the host's renderer.
func (e *Engine) read(sess *session.Session, roll float64, best bool) *InsightReading {
	r := &InsightReading{Roll: roll, Best: best}
	if !best || roll <= 0.4 {
		return r
	}
	if sess.NoMonster {
		r.Struggling = true
		return r
	}
	focus := dice.Choice(e.src, []string{"physical", "magic", "diplomacy"})
	var pAt, mAt, cAt float64
	switch focus {
	case "physical":
		pAt, mAt, cAt = 0.4, 0.6, 0.8
	case "magic":
		pAt, mAt, cAt = 0.8, 0.4, 0.6
	default:
		pAt, mAt, cAt = 0.8, 0.6, 0.4
	}
	name := sess.Challenge
	if name == "" {
		name = displayChallenge(sess.Monster.Name, sess.Transcended, false)
	}
	md := sess.ModifiedMonster
	r.Image = sess.Monster.Image
	if roll > 0.5 {
		r.Monster = name
		sess.Expose()
	}
	if roll > 0.75 {
		r.Attribute = sess.Attribute
	}
	if roll >= 0.90 {
		r.HP = threshold(md.HP, sess.AttributeMults[0], sess.MonsterStats)
	}
	if roll >= 0.95 {
		r.Dipl = threshold(md.Dipl, sess.AttributeMults[1], sess.MonsterStats)
	}
	if roll == 1 {
		r.Transcended = sess.Transcended
	}
	if roll >= pAt {
		r.PDef = DefenseHint{Revealed: true, Value: md.PDef}
	}
	if roll >= mAt {
		r.MDef = DefenseHint{Revealed: true, Value: md.MDef}
	}
	if roll >= cAt {
		r.CDef = DefenseHint{Revealed: true, Value: md.CDef}
	}
	return r
}

// threshold is a displayed stat gate: base times attribute multiplier times
// the global scalar, floored at 1.
func threshold(stat, mult, scale float64) int64 {
	v := int64(stat * mult * scale)
	if v < 1 {
		v = 1
	}
	return v
}
