// Package main provides a headless adventure simulator. It drives the full
// engine (theme, difficulty tracker, resolver, sweeper) against in-memory
// stores with a seeded dice source, so encounter balance can be inspected
// without a chat host or a database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/adventure"
	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/difficulty"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/theme"
	"github.com/cory-johannsen/adventure/internal/observability"
	"github.com/cory-johannsen/adventure/internal/server"
	"github.com/cory-johannsen/adventure/internal/storage/memory"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	adventures := flag.Int("adventures", 25, "number of encounters to run")
	party := flag.Int("party", 6, "party members joining each encounter")
	window := flag.Duration("window", 200*time.Millisecond, "compressed action window")
	seed := flag.Int64("seed", 1, "dice seed; the same seed replays the same run")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting adventure simulator",
		zap.Int("adventures", *adventures),
		zap.Int("party", *party),
		zap.Int64("seed", *seed),
	)

	themeStart := time.Now()
	th, err := theme.Load(cfg.Theme.Path())
	if err != nil {
		logger.Fatal("loading theme", zap.Error(err))
	}
	logger.Info("theme loaded",
		zap.String("theme", th.Name),
		zap.Int("monsters", len(th.Monsters)),
		zap.Int("attributes", len(th.Attributes)),
		zap.Duration("elapsed", time.Since(themeStart)),
	)

	// Compress the timing knobs so a run finishes in seconds; everything
	// else plays by the configured rules.
	game := cfg.Game
	game.BossTimer = *window
	game.MinibossTimer = *window
	game.NormalTimer = *window
	game.HardTimer = *window
	game.Cooldown = 0

	roster := buildRoster(*party)
	var src dice.Source = dice.NewSeededSource(*seed)
	if cfg.Logging.Level == "debug" {
		src = dice.NewLoggedSource(src, logger)
	}

	chars := memory.NewCharacterStore(th.SetBonuses, roster...)
	ledger := memory.NewLedger(0)
	for _, c := range roster {
		ledger.SetBalance(c.ID, 25_000)
	}
	board := memory.NewScoreboard()
	guilds := memory.NewGuildStore()
	tracker := difficulty.NewTracker(game.HistoryCapacity)

	engine, err := adventure.New(adventure.Config{
		Characters: chars,
		Ledger:     ledger,
		Scoreboard: board,
		Guilds:     guilds,
		Theme:      th,
		Tracker:    tracker,
		Game:       &game,
		Source:     src,
		Log:        logger,
	})
	if err != nil {
		logger.Fatal("building engine", zap.Error(err))
	}

	sim := &simulation{
		engine:  engine,
		roster:  roster,
		src:     src,
		guildID: "sim",
		rounds:  *adventures,
		log:     logger,
		halt:    make(chan struct{}),
	}
	for _, c := range roster {
		if c.HeroClass == character.ClassPsychic {
			sim.psychicID = c.ID
			break
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("sweeper", adventure.NewSweeper(engine))
	lifecycle.Add("simulator", &server.FuncService{
		StartFn: func() error {
			defer cancel()
			return sim.run(ctx)
		},
		StopFn: func() { sim.stop() },
	})

	logger.Info("simulator initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("simulation error", zap.Error(err))
	}

	sim.report(board)
}

// simulation drives scripted encounters through the engine and tallies what
// comes back on the notice feed.
type simulation struct {
	engine    *adventure.Engine
	roster    []*character.Character
	src       dice.Source
	guildID   string
	psychicID string
	rounds    int
	log       *zap.Logger

	stopOnce sync.Once
	halt     chan struct{}

	wins, losses, traps, gateFails, aborted int
	slain, persuaded, levelUps              int
}

func (s *simulation) run(ctx context.Context) error {
	notices, cancel := s.engine.Notices().Subscribe(64)
	defer cancel()

	for i := 0; i < s.rounds; i++ {
		select {
		case <-s.halt:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		starter := s.roster[i%len(s.roster)]
		start, err := s.engine.StartEncounter(ctx, s.guildID, starter.ID, adventure.StartOptions{})
		if err != nil {
			return fmt.Errorf("starting adventure %d: %w", i+1, err)
		}
		s.joinParty(ctx, start)
		if err := s.await(notices); err != nil {
			return fmt.Errorf("adventure %d: %w", i+1, err)
		}
	}
	return nil
}

// joinParty puts every roster member on a drawn action list, answers
// reaction gates half the time, and lets the psychic read hidden spawns.
func (s *simulation) joinParty(ctx context.Context, start *adventure.StartResult) {
	for _, member := range s.roster {
		action := session.Actions[s.src.Intn(len(session.Actions))]
		if err := s.engine.SubmitAction(ctx, s.guildID, member.ID, action); err != nil {
			s.log.Warn("join refused",
				zap.String("user", member.ID),
				zap.Error(err),
			)
		}
	}
	if start.Miniboss && s.src.Intn(2) == 1 {
		_ = s.engine.React(s.guildID)
	}
	if !start.EasyMode && s.psychicID != "" && s.src.Intn(2) == 1 {
		if _, err := s.engine.UseInsight(ctx, s.guildID, s.psychicID); err != nil {
			s.log.Debug("insight unavailable", zap.Error(err))
		}
	}
}

// await blocks until the current encounter resolves, aborts, or is reaped.
func (s *simulation) await(notices <-chan adventure.Notice) error {
	timeout := time.NewTimer(30 * time.Second)
	defer timeout.Stop()
	for {
		select {
		case n := <-notices:
			switch n.Kind {
			case adventure.NoticeResolved:
				s.record(n)
				return nil
			case adventure.NoticeAborted:
				s.aborted++
				return nil
			case adventure.NoticeExpired:
				return nil
			}
		case <-timeout.C:
			return fmt.Errorf("no resolution within 30s")
		case <-s.halt:
			return nil
		}
	}
}

func (s *simulation) record(n adventure.Notice) {
	r := n.Result
	switch {
	case r.Trap:
		s.traps++
	case r.Failed:
		s.gateFails++
	case r.Success:
		s.wins++
	case r.Lost:
		s.losses++
	}
	if r.Slain {
		s.slain++
	}
	if r.Persuaded {
		s.persuaded++
	}
	s.levelUps += len(n.LevelUps)
	s.log.Debug("round recorded",
		zap.Bool("success", r.Success),
		zap.Int("people", r.People),
		zap.Int64("damage", r.DamageDealt),
		zap.Int64("diplomacy", r.Diplomacy),
	)
}

func (s *simulation) stop() {
	s.stopOnce.Do(func() { close(s.halt) })
}

// report prints the run summary and the weekly leaderboard to stdout.
func (s *simulation) report(board *memory.Scoreboard) {
	fmt.Printf("\nadventures %d  wins %d  losses %d  traps %d  gate failures %d  aborted %d\n",
		s.rounds, s.wins, s.losses, s.traps, s.gateFails, s.aborted)
	fmt.Printf("slain %d  persuaded %d  level-ups %d\n", s.slain, s.persuaded, s.levelUps)

	top, err := board.TopWeekly(context.Background(), 5)
	if err != nil || len(top) == 0 {
		return
	}
	fmt.Println("weekly leaderboard:")
	for i, entry := range top {
		fmt.Printf("%2d. %-12s %6d\n", i+1, entry.UserID, entry.Score)
	}
}

// buildRoster assembles a mixed party: varied classes and rebirth tiers,
// plus a ranger pet so crit bonuses show up in runs. Levels stay under each
// member's rebirth cap.
func buildRoster(n int) []*character.Character {
	if n < 1 {
		n = 1
	}
	classes := []character.HeroClass{
		character.ClassBerserker,
		character.ClassWizard,
		character.ClassCleric,
		character.ClassBard,
		character.ClassRanger,
		character.ClassPsychic,
		character.ClassTinkerer,
		character.ClassHero,
	}
	roster := make([]*character.Character, 0, n)
	for i := 0; i < n; i++ {
		hc := classes[i%len(classes)]
		rebirths := (i * 7) % 35
		lvl := 5 + rebirths*2
		b := character.NewBuilder(fmt.Sprintf("sim-%02d", i+1), fmt.Sprintf("Simulant %02d", i+1)).
			Class(hc).
			Rebirths(rebirths).
			Level(lvl).
			Exp(int64(math.Pow(float64(lvl), 3.5))).
			Skill(i%5, (i+2)%5, (i+1)%4, 0)
		if hc == character.ClassRanger {
			b = b.WithPet(&character.Pet{Name: "drill sparrow", Bonus: 1.1, CritChance: 4})
		}
		roster = append(roster, b.MustBuild())
	}
	return roster
}
