package encounter

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/difficulty"
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/session"
)

// defenseFloor is the minimum divisor a scaled defense can present; softened
// monsters never amplify a contribution by more than double.
const defenseFloor = 0.5

// Config wires a Resolver's collaborators.
type Config struct {
	Characters CharacterStore
	Ledger     Ledger
	Scoreboard Scoreboard
	Tracker    *difficulty.Tracker
	Game       *config.GameConfig
	Source     dice.Source
	// Locks may be shared with the engine; a fresh table is created when
	// nil.
	Locks *UserLocks
	// Log may be nil for a no-op logger.
	Log *zap.Logger
}

// Resolver turns a finished session into a Result: it runs the action
// resolvers, applies penalties and bookkeeping, and computes rewards for
// Distribute to apply.
type Resolver struct {
	chars   CharacterStore
	ledger  Ledger
	board   Scoreboard
	tracker *difficulty.Tracker
	game    *config.GameConfig
	src     dice.Source
	locks   *UserLocks
	log     *zap.Logger
}

// New validates cfg and builds a Resolver.
//
// Postcondition: Returns an error naming every missing collaborator.
func New(cfg Config) (*Resolver, error) {
	var missing []string
	if cfg.Characters == nil {
		missing = append(missing, "characters")
	}
	if cfg.Ledger == nil {
		missing = append(missing, "ledger")
	}
	if cfg.Scoreboard == nil {
		missing = append(missing, "scoreboard")
	}
	if cfg.Tracker == nil {
		missing = append(missing, "tracker")
	}
	if cfg.Game == nil {
		missing = append(missing, "game config")
	}
	if cfg.Source == nil {
		missing = append(missing, "source")
	}
	if len(missing) > 0 {
		return nil, errors.New("encounter: config missing " + strings.Join(missing, ", "))
	}
	if cfg.Locks == nil {
		cfg.Locks = NewUserLocks()
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	return &Resolver{
		chars:   cfg.Characters,
		ledger:  cfg.Ledger,
		board:   cfg.Scoreboard,
		tracker: cfg.Tracker,
		game:    cfg.Game,
		src:     cfg.Source,
		locks:   cfg.Locks,
		log:     cfg.Log,
	}, nil
}

// resolution is the working state of one Resolve call. Member lists are
// captured once at the start; the resolvers only ever read them.
type resolution struct {
	sess  *session.Session
	lists map[session.Action][]string
	chars map[string]*character.Character

	// Scaled defenses with the working floor applied.
	pdef, mdef, cdef float64

	insightRoll   float64
	insightHolder *character.Character

	attack    float64
	magic     float64
	diplomacy float64

	hp   int64
	dipl int64

	fumbled map[string]bool
	fumbles []string
	crits   []string
	events  []Event
}

func (res *resolution) list(a session.Action) []string {
	return res.lists[a]
}

// fumble marks the user once; repeat calls are no-ops.
func (res *resolution) fumble(userID string) {
	if res.fumbled[userID] {
		return
	}
	res.fumbled[userID] = true
	res.fumbles = append(res.fumbles, userID)
}

func (res *resolution) event(kind EventKind, userID string, action session.Action, amount float64) {
	res.events = append(res.events, Event{Kind: kind, UserID: userID, Action: action, Amount: amount})
}

// insightBoost credits a fifth of the insight holder's matching stat to the
// actor's own pool. Nothing happens unless the insight roll was perfect, and
// the holder never boosts their own action.
func (res *resolution) insightBoost(userID string, action session.Action) {
	if res.insightRoll != 1 || res.insightHolder == nil || res.insightHolder.ID == userID {
		return
	}
	switch action {
	case session.ActionFight:
		res.attack += float64(int64(float64(res.insightHolder.TotalAtt()) * 0.2))
	case session.ActionMagic:
		res.magic += float64(int64(float64(res.insightHolder.TotalInt()) * 0.2))
	case session.ActionTalk:
		res.diplomacy += float64(int64(float64(res.insightHolder.TotalCha()) * 0.2))
	}
}

// participants returns the four non-run lists in resolver order. Fumblers
// are members of these lists already.
func (res *resolution) participants() []string {
	var ids []string
	for _, a := range []session.Action{session.ActionFight, session.ActionTalk, session.ActionPray, session.ActionMagic} {
		ids = append(ids, res.lists[a]...)
	}
	return ids
}

// allMembers returns every list's members, runners included.
func (res *resolution) allMembers() []string {
	var ids []string
	for _, a := range session.Actions {
		ids = append(ids, res.lists[a]...)
	}
	return ids
}

// nonFumbled filters the given lists, in order, down to reward recipients.
func (res *resolution) nonFumbled(actions ...session.Action) []string {
	var ids []string
	for _, a := range actions {
		for _, id := range res.lists[a] {
			if !res.fumbled[id] {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func (r *Resolver) newResolution(ctx context.Context, sess *session.Session) *resolution {
	res := &resolution{
		sess:    sess,
		lists:   make(map[session.Action][]string, len(session.Actions)),
		chars:   make(map[string]*character.Character),
		fumbled: make(map[string]bool),
	}
	for _, a := range session.Actions {
		res.lists[a] = sess.Members(a)
	}
	for _, id := range res.allMembers() {
		c, err := r.chars.Load(ctx, id)
		if err != nil {
			r.log.Error("loading character for resolution",
				zap.String("guild", sess.GuildID), zap.String("user", id), zap.Error(err))
			continue
		}
		res.chars[id] = c
	}
	md := sess.ModifiedMonster
	res.pdef = math.Max(md.PDef, defenseFloor)
	res.mdef = math.Max(md.MDef, defenseFloor)
	res.cdef = math.Max(md.CDef, defenseFloor)
	roll, holder := sess.Insight()
	res.insightRoll = roll
	if roll == 1 && holder != "" {
		if c, ok := res.chars[holder]; ok {
			res.insightHolder = c
		} else if c, err := r.chars.Load(ctx, holder); err == nil {
			res.insightHolder = c
		} else {
			r.log.Error("loading insight holder", zap.String("user", holder), zap.Error(err))
		}
	}
	return res
}

// Resolve runs the full resolution of a session: action resolvers in order,
// thresholds, the difficulty estimator, loot, penalties, reward computation,
// and bookkeeping. It transitions the session to resolving and leaves it
// terminal. Per-record failures are logged and skipped; the pipeline never
// aborts for one bad character.
//
// Precondition: sess is non-nil. Panics otherwise.
func (r *Resolver) Resolve(ctx context.Context, sess *session.Session) (*Result, error) {
	if sess == nil {
		panic("encounter: Resolve called with nil session")
	}
	if !sess.BeginResolve() {
		return nil, ErrAlreadyResolving
	}
	defer sess.Finish()

	res := r.newResolution(ctx, sess)
	result := &Result{GuildID: sess.GuildID, SessionID: sess.ID}

	for _, id := range res.list(session.ActionRun) {
		res.event(EventRun, id, session.ActionRun, 0)
	}
	people := 0
	for _, a := range session.Actions {
		people += len(res.list(a))
	}
	result.People = people

	if sess.NoMonster {
		return r.resolveTrap(ctx, res, result)
	}

	failed := false
	if sess.Miniboss != nil {
		failed = r.minibossGate(res)
	}
	r.resolvePray(res)
	r.resolveTalk(res)
	r.resolveFight(res)

	mults := sess.AttributeMults
	md := sess.ModifiedMonster
	res.hp = int64(md.HP * mults[0] * sess.MonsterStats)
	if res.hp < 1 {
		res.hp = 1
	}
	res.dipl = int64(md.Dipl * mults[1] * sess.MonsterStats)
	if res.dipl < 1 {
		res.dipl = 1
	}

	dmg := int64(res.attack + res.magic)
	diplo := int64(res.diplomacy)
	slain := dmg >= res.hp
	persuaded := diplo >= res.dipl
	crit := len(res.crits) > 0

	if dmg >= diplo {
		r.tracker.AddResult(sess.GuildID, difficulty.Raid{
			Action: difficulty.ActionAttack, Amount: float64(dmg), People: people, Success: slain,
		})
	} else {
		r.tracker.AddResult(sess.GuildID, difficulty.Raid{
			Action: difficulty.ActionTalk, Amount: float64(diplo), People: people, Success: persuaded,
		})
	}

	result.DamageDealt = dmg
	result.Diplomacy = diplo
	result.HP = res.hp
	result.Dipl = res.dipl
	result.Slain = slain
	result.Persuaded = persuaded
	result.Failed = failed
	result.Success = (slain || persuaded) && !failed
	result.Treasure = r.rollLoot(res, slain, persuaded, failed, crit)

	if failed {
		// The requirement was unmet: the special goes off and the party
		// loses outright, with no category tallies and no reward step.
		result.Lost = true
		res.event(EventDefeat, "", "", 0)
		result.Losses = r.penalize(ctx, res, true)
		r.bookkeepDefeat(ctx, res)
		result.Participants = res.participants()
		r.finishResult(res, result)
		return result, nil
	}

	lost := false
	if sess.Miniboss != nil && !slain && !persuaded {
		lost = true
		res.event(EventCountered, "", "", 0)
	}

	amount := sess.MonsterStats
	switch {
	case slain && persuaded:
		amount *= float64(res.hp + res.dipl)
	case slain:
		amount *= float64(res.hp)
	default:
		amount *= float64(res.dipl)
	}
	amount += float64(int64(amount * (0.25 * float64(people))))

	if people == 1 {
		if slain {
			pool := res.attack
			if len(res.list(session.ActionFight)) != 1 {
				pool = res.magic
			}
			result.RewardModifier = roundHalfEven(pool / float64(res.hp) * 0.25)
			result.Rewards = r.rewardParty(ctx, res,
				res.nonFumbled(session.ActionFight, session.ActionMagic, session.ActionPray), amount, result.Treasure)
		}
		if persuaded {
			result.RewardModifier = roundHalfEven(res.diplomacy / float64(res.dipl) * 0.25)
			result.Rewards = r.rewardParty(ctx, res,
				res.nonFumbled(session.ActionTalk, session.ActionPray), amount, result.Treasure)
		}
		if !slain && !persuaded {
			lost = true
			res.event(EventDefeat, "", "", 0)
		}
	} else {
		switch {
		case slain && persuaded:
			result.RewardModifier = roundHalfEven((float64(dmg)/float64(res.hp) + float64(diplo)/float64(res.dipl)) * 0.25)
			result.Rewards = r.rewardParty(ctx, res,
				res.nonFumbled(session.ActionFight, session.ActionMagic, session.ActionPray, session.ActionTalk),
				amount, result.Treasure)
		case persuaded:
			result.RewardModifier = roundHalfEven(float64(diplo) / float64(res.dipl) * 0.25)
			result.Rewards = r.rewardParty(ctx, res,
				res.nonFumbled(session.ActionTalk, session.ActionPray), amount, result.Treasure)
		case slain:
			result.RewardModifier = roundHalfEven(float64(dmg) / float64(res.hp) * 0.25)
			result.Rewards = r.rewardParty(ctx, res,
				res.nonFumbled(session.ActionFight, session.ActionMagic, session.ActionPray), amount, result.Treasure)
		default:
			lost = true
			res.event(EventDefeat, "", "", 0)
		}
	}

	result.Lost = lost
	result.Losses = r.penalize(ctx, res, lost)
	r.bookkeep(ctx, res, lost)
	result.Participants = res.allMembers()
	r.finishResult(res, result)
	return result, nil
}

// resolveTrap handles the monster-less lure: a generous chest for everyone
// who stood their ground, shame for the runners, and the usual tallies.
func (r *Resolver) resolveTrap(ctx context.Context, res *resolution, result *Result) (*Result, error) {
	result.Trap = true
	result.Treasure = dice.Choice(r.src, trapLoot)

	pool := 500 + int64(500*(0.25*float64(result.People)))
	recipients := res.nonFumbled(session.ActionFight, session.ActionMagic, session.ActionPray, session.ActionTalk)
	result.Rewards = r.rewardParty(ctx, res, recipients, float64(pool), result.Treasure)

	r.bookkeep(ctx, res, false)
	result.Participants = res.allMembers()
	r.finishResult(res, result)
	return result, nil
}

// finishResult copies the resolver tallies into the result.
func (r *Resolver) finishResult(res *resolution, result *Result) {
	result.Crits = res.crits
	result.Fumbles = res.fumbles
	result.Events = res.events
	r.log.Info("encounter resolved",
		zap.String("guild", result.GuildID),
		zap.Bool("trap", result.Trap),
		zap.Bool("success", result.Success),
		zap.Bool("lost", result.Lost),
		zap.Int("people", result.People),
		zap.Int64("damage", result.DamageDealt),
		zap.Int64("diplomacy", result.Diplomacy),
	)
}

// bookkeep writes per-category adventure tallies, the single win-or-loss
// increment, and the weekly counter for every member, mirroring each into
// the scoreboard. Runners and full party losses count as losses.
func (r *Resolver) bookkeep(ctx context.Context, res *resolution, lost bool) {
	type category struct {
		name string
		list []string
		bump func(*character.Record)
	}
	cats := []category{
		{"fight", res.list(session.ActionFight), func(rec *character.Record) { rec.Fight++ }},
		{"spell", res.list(session.ActionMagic), func(rec *character.Record) { rec.Spell++ }},
		{"talk", res.list(session.ActionTalk), func(rec *character.Record) { rec.Talk++ }},
		{"pray", res.list(session.ActionPray), func(rec *character.Record) { rec.Pray++ }},
		{"run", res.list(session.ActionRun), func(rec *character.Record) { rec.Run++ }},
		{"fumbles", res.fumbles, func(rec *character.Record) { rec.Fumbles++ }},
	}
	ran := make(map[string]bool, len(res.list(session.ActionRun)))
	for _, id := range res.list(session.ActionRun) {
		ran[id] = true
	}
	var order []string
	bumps := make(map[string][]func(*character.Record))
	names := make(map[string][]string)
	for _, cat := range cats {
		for _, id := range cat.list {
			if _, seen := bumps[id]; !seen {
				order = append(order, id)
			}
			bumps[id] = append(bumps[id], cat.bump)
			names[id] = append(names[id], cat.name)
		}
	}
	for _, id := range order {
		won := !(lost || ran[id])
		unlock := r.locks.Lock(id)
		c, err := r.chars.Load(ctx, id)
		if err != nil {
			unlock()
			r.log.Error("loading character for bookkeeping", zap.String("user", id), zap.Error(err))
			continue
		}
		for _, bump := range bumps[id] {
			bump(&c.Adventures)
		}
		if won {
			c.Adventures.Wins++
		} else {
			c.Adventures.Loses++
		}
		c.WeeklyScore++
		if err := r.chars.Save(ctx, c); err != nil {
			r.log.Error("saving adventure tallies", zap.String("user", id), zap.Error(err))
		}
		unlock()
		if err := r.board.RecordAdventure(ctx, id, names[id], won); err != nil {
			r.log.Warn("recording adventure on scoreboard", zap.String("user", id), zap.Error(err))
		}
		if err := r.board.AddWeekly(ctx, id, 1); err != nil {
			r.log.Warn("recording weekly score", zap.String("user", id), zap.Error(err))
		}
	}
}

// bookkeepDefeat records the miniboss special wipe: participants only take a
// loss and a weekly tick, with no category tallies. Runners are not tallied
// at all on this path.
func (r *Resolver) bookkeepDefeat(ctx context.Context, res *resolution) {
	seen := make(map[string]bool)
	for _, id := range res.participants() {
		if seen[id] {
			continue
		}
		seen[id] = true
		unlock := r.locks.Lock(id)
		c, err := r.chars.Load(ctx, id)
		if err != nil {
			unlock()
			r.log.Error("loading character for defeat bookkeeping", zap.String("user", id), zap.Error(err))
			continue
		}
		c.Adventures.Loses++
		c.WeeklyScore++
		if err := r.chars.Save(ctx, c); err != nil {
			r.log.Error("saving defeat tallies", zap.String("user", id), zap.Error(err))
		}
		unlock()
		if err := r.board.RecordAdventure(ctx, id, nil, false); err != nil {
			r.log.Warn("recording defeat on scoreboard", zap.String("user", id), zap.Error(err))
		}
		if err := r.board.AddWeekly(ctx, id, 1); err != nil {
			r.log.Warn("recording weekly score", zap.String("user", id), zap.Error(err))
		}
	}
}
