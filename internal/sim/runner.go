package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/rogue/internal/config"
	"github.com/cory-johannsen/rogue/internal/game/ai"
	"github.com/cory-johannsen/rogue/internal/game/character"
	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/dice"
	"github.com/cory-johannsen/rogue/internal/game/inventory"
	"github.com/cory-johannsen/rogue/internal/game/reward"
	"github.com/cory-johannsen/rogue/internal/scripting"
)

// scriptPack is the pack id enemy AI scripts are loaded under.
const scriptPack = "enemies"

// Options selects what a run fights.
type Options struct {
	Encounter string
	// LevelBonus is added to every enemy group's level.
	LevelBonus int
	// Difficulty overrides battle.difficulty when > 0.
	Difficulty float64
	// Boss forces a boss battle (no fleeing).
	Boss bool
	// Observer receives every event of the run.
	Observer func(combat.Event)
}

// Report is the result of one simulated battle.
type Report struct {
	BattleID     string
	Seed         int64
	State        combat.State
	Outcome      combat.Outcome
	PlayerHealth int
	ItemsUsed    int
	// TurnLimitHit is set when the battle was aborted for running too long.
	TurnLimitHit bool
}

// Runner drives battles through a shared combat.Engine. It is safe for
// concurrent use; every run owns its own dice source, Lua VM and combatants.
type Runner struct {
	content *Content
	cfg     config.Config
	engine  *combat.Engine
	pilot   Autopilot
	logger  *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: content must be non-nil and cfg valid.
func NewRunner(content *Content, cfg config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		content: content,
		cfg:     cfg,
		engine:  combat.NewEngine(),
		pilot:   DefaultAutopilot(),
		logger:  logger,
	}
}

// Engine returns the registry battles are started in.
func (r *Runner) Engine() *combat.Engine { return r.engine }

func (r *Runner) source(seed int64, logger *zap.Logger) dice.Source {
	var src dice.Source
	if seed == 0 {
		src = dice.NewCryptoSource()
	} else {
		src = dice.NewSeededSource(seed)
	}
	if r.cfg.Battle.LogRolls {
		src = dice.NewLoggedSource(src, logger)
	}
	return src
}

// Driver acts for the player. It is called again for as long as the battle
// stays in PlayerTurn.
type Driver func(b *combat.Battle, bp *inventory.Backpack) error

// RunOne plays a full battle with the autopilot. A seed of 0 uses crypto
// randomness.
//
// Postcondition: The battle is terminal and unregistered from the engine.
func (r *Runner) RunOne(ctx context.Context, seed int64, opts Options) (Report, error) {
	return r.Play(ctx, seed, opts, func(b *combat.Battle, bp *inventory.Backpack) error {
		_, err := r.pilot.Act(b, bp)
		return err
	})
}

// Play plays a full battle, asking drive for every player turn. Enemy turns
// run to completion between player turns.
//
// Postcondition: The battle is terminal and unregistered from the engine.
func (r *Runner) Play(ctx context.Context, seed int64, opts Options, drive Driver) (Report, error) {
	enc, ok := r.content.Encounters[opts.Encounter]
	if !ok {
		return Report{}, fmt.Errorf("unknown encounter %q", opts.Encounter)
	}
	difficulty := r.cfg.Battle.Difficulty
	if opts.Difficulty > 0 {
		difficulty = opts.Difficulty
	}
	logger := r.logger.With(zap.String("encounter", enc.ID), zap.Int64("seed", seed))
	src := r.source(seed, logger)

	player, err := character.Build(r.content.Profile, r.content.Skills)
	if err != nil {
		return Report{}, err
	}
	enemies, boss, err := r.content.Bestiary.Build(enc, opts.LevelBonus, difficulty)
	if err != nil {
		return Report{}, err
	}
	bp := inventory.NewBackpack(r.content.Items)
	if err := bp.Fill(r.content.Profile.Backpack); err != nil {
		return Report{}, err
	}

	var selector combat.ActionSelector = ai.NewRandomSelector(src, r.cfg.Battle.BossSkillChance, r.cfg.Battle.SkillChance)
	if r.content.ScriptsDir != "" {
		mgr := scripting.NewManager(src, logger, r.cfg.Scripting.InstructionLimit)
		defer mgr.Close()
		if err := mgr.LoadPack(scriptPack, r.content.ScriptsDir); err != nil {
			return Report{}, err
		}
		selector = ai.NewScriptedSelector(mgr, scriptPack, selector, logger)
	}

	b, err := r.engine.StartBattle(combat.Setup{
		Player:     player,
		Enemies:    enemies,
		BossBattle: boss || opts.Boss,
		CritChance: r.cfg.Battle.CritChance,
		Elements:   r.content.Elements,
		Source:     src,
		Selector:   selector,
		Rewards:    reward.NewCalculator(r.cfg.Rewards.Calculator(), src, reward.WithLogger(logger)),
		Logger:     logger,
		Observer:   opts.Observer,
	})
	if err != nil {
		return Report{}, err
	}

	rep := Report{BattleID: b.ID(), Seed: seed}
	itemsBefore := usableCount(bp)
	for !b.State().Terminal() {
		if err := ctx.Err(); err != nil {
			_, _ = b.Abort()
			break
		}
		if b.Outcome().TurnCount > r.cfg.Sim.MaxTurns {
			rep.TurnLimitHit = true
			_, _ = b.Abort()
			break
		}
		switch b.State() {
		case combat.StatePlayerTurn:
			err = drive(b, bp)
		case combat.StateEnemyTurn:
			_, err = b.RunEnemyTurn()
		default:
			err = fmt.Errorf("battle %q stuck in %s", b.ID(), b.State())
		}
		if err != nil {
			_, _ = r.engine.EndBattle(b.ID())
			return Report{}, fmt.Errorf("battle %q: %w", b.ID(), err)
		}
	}

	outcome, err := r.engine.EndBattle(b.ID())
	if err != nil {
		return Report{}, err
	}
	rep.ItemsUsed = itemsBefore - usableCount(bp)
	if skipped := bp.AddDrops(outcome.Rewards.Items); len(skipped) > 0 {
		logger.Warn("dropped items missing from catalog", zap.Strings("items", skipped))
	}
	rep.State = b.State()
	rep.Outcome = outcome
	rep.PlayerHealth = b.Player().Health
	return rep, ctx.Err()
}

// RunMany plays runs battles on at most workers goroutines. Run i uses seed
// baseSeed+i, or crypto randomness for every run when baseSeed is 0. The
// observer in opts is ignored.
//
// Postcondition: Reports are in run order; the first error cancels the rest.
func (r *Runner) RunMany(ctx context.Context, baseSeed int64, runs, workers int, opts Options) ([]Report, error) {
	opts.Observer = nil
	reports := make([]Report, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := 0; i < runs; i++ {
		seed := int64(0)
		if baseSeed != 0 {
			seed = baseSeed + int64(i)
		}
		i := i
		g.Go(func() error {
			rep, err := r.RunOne(ctx, seed, opts)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func usableCount(bp *inventory.Backpack) int {
	n := 0
	for _, id := range bp.Usable() {
		n += bp.Count(id)
	}
	return n
}
