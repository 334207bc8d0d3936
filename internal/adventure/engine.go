package adventure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/difficulty"
	"github.com/cory-johannsen/adventure/internal/game/encounter"
	"github.com/cory-johannsen/adventure/internal/game/monster"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/theme"
)

// lureRoll is the single winning value of the hard-mode 0..100 trap draw.
const lureRoll = 25

// Config wires an Engine's collaborators.
type Config struct {
	Characters encounter.CharacterStore
	Ledger     encounter.Ledger
	Scoreboard encounter.Scoreboard
	Guilds     GuildStore
	Theme      *theme.Theme
	Tracker    *difficulty.Tracker
	Game       *config.GameConfig
	Source     dice.Source
	// Log may be nil for a no-op logger.
	Log *zap.Logger
}

// Engine drives adventures end to end. It owns the session registry, the
// per-user lock table, and the resolver; hosts call StartEncounter,
// SubmitAction, React, and UseInsight, and listen on Notices for everything
// that happens after the countdown fires.
type Engine struct {
	chars    encounter.CharacterStore
	ledger   encounter.Ledger
	guilds   GuildStore
	theme    *theme.Theme
	tracker  *difficulty.Tracker
	game     *config.GameConfig
	src      dice.Source
	log      *zap.Logger
	locks    *encounter.UserLocks
	resolver *encounter.Resolver

	registry *session.Registry
	notices  *Events
	now      func() time.Time

	mu         sync.Mutex
	countdowns map[string]*session.Countdown
}

// New validates cfg and builds an Engine with its own registry, lock table,
// and resolver. The lock table is shared with the resolver so no two code
// paths ever mutate the same character concurrently.
//
// Postcondition: Returns an error naming every missing collaborator.
func New(cfg Config) (*Engine, error) {
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
	if cfg.Guilds == nil {
		missing = append(missing, "guilds")
	}
	if cfg.Theme == nil {
		missing = append(missing, "theme")
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
		return nil, errors.New("adventure: config missing " + strings.Join(missing, ", "))
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	locks := encounter.NewUserLocks()
	resolver, err := encounter.New(encounter.Config{
		Characters: cfg.Characters,
		Ledger:     cfg.Ledger,
		Scoreboard: cfg.Scoreboard,
		Tracker:    cfg.Tracker,
		Game:       cfg.Game,
		Source:     cfg.Source,
		Locks:      locks,
		Log:        cfg.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("building resolver: %w", err)
	}
	return &Engine{
		chars:      cfg.Characters,
		ledger:     cfg.Ledger,
		guilds:     cfg.Guilds,
		theme:      cfg.Theme,
		tracker:    cfg.Tracker,
		game:       cfg.Game,
		src:        cfg.Source,
		log:        cfg.Log,
		locks:      locks,
		resolver:   resolver,
		registry:   session.NewRegistry(),
		notices:    NewEvents(),
		now:        time.Now,
		countdowns: make(map[string]*session.Countdown),
	}, nil
}

// Notices returns the engine's broadcast feed.
func (e *Engine) Notices() *Events {
	return e.notices
}

// Session returns the guild's live session, if any.
func (e *Engine) Session(guildID string) (*session.Session, bool) {
	return e.registry.Get(guildID)
}

// GodName resolves the deity the guild's pray narration invokes.
func (e *Engine) GodName(ctx context.Context, guildID string) string {
	name, err := e.guilds.GodName(ctx, guildID)
	if err != nil {
		e.log.Warn("reading guild god name", zap.String("guild", guildID), zap.Error(err))
		name = ""
	}
	if name == "" {
		name = e.game.GodName
	}
	return name
}

// StartOptions carries operator overrides for a start. Hosts gate these to
// privileged users; an unknown name falls back to a random draw.
type StartOptions struct {
	Challenge string
	Attribute string
}

// StartResult reports what a start decided plus the narration drawn for the
// announcement. Challenge, Attribute, Boss, Miniboss, and Transcended are
// filled only when the spawn is announced openly; hard-mode spawns stay
// hidden until a psychic exposes them.
type StartResult struct {
	Session *session.Session

	Challenge   string
	Attribute   string
	Location    string
	Reason      string
	Threatened  string // empty in hard mode
	Timer       time.Duration
	EasyMode    bool
	Boss        bool
	Miniboss    bool
	Transcended bool
}

// StartEncounter opens a new adventure for the guild. The guild must have no
// live session and be off cooldown, and the starter must be able to cover
// the entry fee (checked, not withdrawn). The drawn spawn decides the action
// window; when it closes the session resolves and the outcome arrives on the
// notice feed.
//
// Precondition: guildID and userID must be non-empty. Panics otherwise.
// Postcondition: On success the guild has an open session and an armed
// countdown; on any error the registry is unchanged.
func (e *Engine) StartEncounter(ctx context.Context, guildID, userID string, opts StartOptions) (*StartResult, error) {
	if guildID == "" {
		panic("adventure: StartEncounter called with empty guild id")
	}
	if userID == "" {
		panic("adventure: StartEncounter called with empty user id")
	}
	if s, ok := e.registry.Get(guildID); ok && s.State() != session.StateTerminal {
		return nil, session.ErrSessionConflict
	}
	ok, err := e.ledger.CanSpend(ctx, userID, e.game.EntryFee)
	if err != nil {
		return nil, fmt.Errorf("checking entry fee: %w", err)
	}
	if !ok {
		return nil, ErrInsufficientFunds
	}
	if err := e.checkCooldown(ctx, guildID); err != nil {
		return nil, err
	}
	starter, err := e.chars.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading starter: %w", err)
	}
	easy, err := e.easyMode(ctx, guildID, starter.Rebirths)
	if err != nil {
		return nil, err
	}

	params := e.draw(guildID, starter, easy, opts)
	sess, err := e.registry.TryCreate(params)
	if err != nil {
		return nil, err
	}

	start := &StartResult{
		Session:  sess,
		Location: e.theme.RandomLocation(e.src),
		Reason:   e.theme.RandomReason(e.src),
		Timer:    params.Timer,
		EasyMode: easy,
	}
	if easy {
		start.Threatened = e.theme.RandomThreatened(e.src)
		start.Challenge = params.Challenge
		start.Attribute = params.Attribute
		start.Boss = params.Boss
		start.Miniboss = params.Miniboss != nil
		start.Transcended = params.Transcended
	}

	cd := session.StartCountdown(params.Timer, func() { e.finish(guildID) })
	e.mu.Lock()
	e.countdowns[guildID] = cd
	e.mu.Unlock()

	e.log.Info("adventure started",
		zap.String("guild", guildID),
		zap.String("starter", userID),
		zap.String("session", sess.ID),
		zap.Bool("easy", easy),
		zap.String("challenge", params.Challenge),
		zap.Duration("timer", params.Timer),
	)
	e.notices.Publish(Notice{Kind: NoticeStarted, GuildID: guildID, UserID: userID, Start: start})
	return start, nil
}

// checkCooldown rejects starts made before the guild's rest period has
// elapsed. A zero stamp means the guild is free.
func (e *Engine) checkCooldown(ctx context.Context, guildID string) error {
	last, err := e.guilds.Cooldown(ctx, guildID)
	if err != nil {
		return fmt.Errorf("reading guild cooldown: %w", err)
	}
	if last.IsZero() {
		return nil
	}
	rest, err := e.guilds.CooldownTime(ctx, guildID)
	if err != nil {
		return fmt.Errorf("reading guild rest override: %w", err)
	}
	if rest == 0 {
		rest = e.game.Cooldown
	}
	if until := last.Add(rest); e.now().Before(until) {
		return &CooldownError{Until: until}
	}
	return nil
}

// easyMode resolves a session's difficulty: the guild override when set,
// otherwise the global flag; a hard result is then softened by the starter's
// rebirths. Thirty rebirths stay hard, twenty flip a coin, everyone else
// adventures easy.
func (e *Engine) easyMode(ctx context.Context, guildID string, rebirths int) (bool, error) {
	easy := e.game.EasyMode
	override, set, err := e.guilds.EasyMode(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("reading guild difficulty: %w", err)
	}
	if set {
		easy = override
	}
	if easy {
		return true, nil
	}
	switch {
	case rebirths >= 30:
		return false, nil
	case rebirths >= 20:
		return e.src.Intn(2) == 1, nil
	default:
		return true, nil
	}
}

// draw assembles the spawn: the transcendence roll, the challenge pick, the
// attribute, the hard-mode lure draw, and dynamic scaling, in that order. A
// lure keeps only the window and difficulty; every other field stays zero so
// the announcement cannot give it away.
func (e *Engine) draw(guildID string, starter *character.Character, easy bool, opts StartOptions) session.Params {
	band := e.tracker.StatRange(guildID)
	tr := monster.RollTranscendence(starter.Rebirths, e.src)

	base, forced := e.theme.Monster(opts.Challenge)
	if !forced {
		base = monster.PickChallenge(e.theme.Monsters, band, starter, e.src)
	}
	attr, ok := e.theme.Attribute(strings.ToLower(opts.Attribute))
	if !ok {
		attr = e.theme.RandomAttribute(e.src)
	}

	p := session.Params{
		GuildID:   guildID,
		EasyMode:  easy,
		StartTime: e.now(),
	}
	noMonster := false
	if easy {
		switch {
		case base.Boss:
			p.Timer = e.game.BossTimer
		case base.Miniboss != nil:
			p.Timer = e.game.MinibossTimer
		default:
			p.Timer = e.game.NormalTimer
		}
	} else {
		p.Timer = e.game.HardTimer
		noMonster = dice.Between(e.src, 0, 100) == lureRoll
	}
	scaled := monster.ScaleStats(base, band.WinPercent, e.src)
	if noMonster {
		p.NoMonster = true
		return p
	}
	if easy {
		p.Challenge = displayChallenge(base.Name, tr.Transcended, true)
	}
	p.Attribute = attr.Name
	p.AttributeMults = [2]float64{attr.HP, attr.Dipl}
	p.Monster = base
	p.ModifiedMonster = scaled
	p.MonsterStats = tr.Stats
	p.Boss = base.Boss
	p.Miniboss = base.Miniboss
	p.Transcended = tr.Transcended
	return p
}

// displayChallenge is the announced monster name. Transcended spawns shed
// the Ascended marker; only an open announcement carries the Transcended
// prefix.
func displayChallenge(name string, transcended, easy bool) string {
	if !transcended {
		return name
	}
	stripped := strings.Join(strings.Fields(strings.ReplaceAll(name, "Ascended", "")), " ")
	if easy {
		return "Transcended " + stripped
	}
	return stripped
}

// SubmitAction places the player on one of the five action lists, moving
// them from any other list first. The entry fee must be coverable but is not
// withdrawn.
//
// Precondition: guildID and userID must be non-empty. Panics otherwise.
func (e *Engine) SubmitAction(ctx context.Context, guildID, userID string, action session.Action) error {
	if guildID == "" {
		panic("adventure: SubmitAction called with empty guild id")
	}
	if userID == "" {
		panic("adventure: SubmitAction called with empty user id")
	}
	sess, ok := e.registry.Get(guildID)
	if !ok {
		return ErrNoAdventure
	}
	canSpend, err := e.ledger.CanSpend(ctx, userID, e.game.EntryFee)
	if err != nil {
		return fmt.Errorf("checking entry fee: %w", err)
	}
	if !canSpend {
		return ErrInsufficientFunds
	}
	if err := sess.Join(userID, action); err != nil {
		return err
	}
	e.notices.Publish(Notice{Kind: NoticeJoined, GuildID: guildID, UserID: userID, Action: action})
	return nil
}

// React satisfies the session's reaction gate for emoji miniboss
// requirements.
func (e *Engine) React(guildID string) error {
	sess, ok := e.registry.Get(guildID)
	if !ok {
		return ErrNoAdventure
	}
	sess.React()
	return nil
}

// finish resolves the guild's session once the window closes. A session that
// disappeared first (swept or aborted) is skipped. A fault escaping the
// pipeline tears the session down and clears the guild cooldown so a system
// error never locks a guild out.
func (e *Engine) finish(guildID string) {
	sess, ok := e.registry.Get(guildID)
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.abort(guildID, fmt.Errorf("resolving session: %v", r))
		}
	}()
	ctx := context.Background()
	result, err := e.resolver.Resolve(ctx, sess)
	if err != nil {
		e.abort(guildID, err)
		return
	}
	ups := e.resolver.Distribute(ctx, result)
	e.dropCountdown(guildID)
	e.registry.Remove(guildID)

	stamp := e.now()
	if len(result.Participants) == 0 && len(result.Rewards) == 0 {
		// An adventure nobody joined does not cost the guild its rest.
		stamp = time.Time{}
	}
	if err := e.guilds.SetCooldown(ctx, guildID, stamp); err != nil {
		e.log.Error("stamping guild cooldown", zap.String("guild", guildID), zap.Error(err))
	}
	e.log.Info("adventure finished",
		zap.String("guild", guildID),
		zap.String("session", sess.ID),
		zap.Bool("success", result.Success),
		zap.Bool("lost", result.Lost),
		zap.Int("people", result.People),
		zap.Int("level_ups", len(ups)),
	)
	e.notices.Publish(Notice{Kind: NoticeResolved, GuildID: guildID, Result: result, LevelUps: ups})
}

// abort tears a session down without rewards and clears the guild cooldown,
// leaving the guild immediately retryable after a fault.
func (e *Engine) abort(guildID string, cause error) {
	e.dropCountdown(guildID)
	e.registry.Remove(guildID)
	if err := e.guilds.SetCooldown(context.Background(), guildID, time.Time{}); err != nil {
		e.log.Error("clearing guild cooldown", zap.String("guild", guildID), zap.Error(err))
	}
	e.log.Error("adventure aborted", zap.String("guild", guildID), zap.Error(cause))
	e.notices.Publish(Notice{Kind: NoticeAborted, GuildID: guildID, Err: cause})
}

func (e *Engine) dropCountdown(guildID string) {
	e.mu.Lock()
	cd, ok := e.countdowns[guildID]
	delete(e.countdowns, guildID)
	e.mu.Unlock()
	if ok {
		cd.Stop()
	}
}

// sweep reaps sessions older than the configured maximum age, stopping their
// countdowns. Reaped guilds keep whatever cooldown stamp they had.
func (e *Engine) sweep() {
	now := e.now()
	removed := e.registry.Sweep(now, e.game.SessionMaxAge)
	for _, s := range removed {
		e.dropCountdown(s.GuildID)
		e.log.Warn("reaped stale session",
			zap.String("guild", s.GuildID),
			zap.String("session", s.ID),
			zap.Duration("age", s.Age(now)),
		)
		e.notices.Publish(Notice{Kind: NoticeExpired, GuildID: s.GuildID})
	}
}
