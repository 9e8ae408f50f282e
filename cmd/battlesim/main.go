// Package main provides battlesim, a command-line driver that plays battles
// against content encounters, either autopiloted in bulk or interactively
// from standard input, and reports the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue/internal/config"
	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/observability"
	"github.com/cory-johannsen/rogue/internal/sim"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	encounter := flag.String("encounter", "forest_path", "encounter id to fight")
	levelBonus := flag.Int("level-bonus", 0, "added to every enemy group's level")
	difficulty := flag.Float64("difficulty", 0, "enemy stat difficulty; 0 = battle.difficulty from config")
	boss := flag.Bool("boss", false, "force a boss battle (fleeing forbidden)")
	runs := flag.Int("runs", 0, "number of battles; 0 = sim.runs from config")
	workers := flag.Int("workers", 0, "parallel battles; 0 = sim.workers from config")
	seed := flag.Int64("seed", 0, "base seed; 0 = battle.seed from config")
	list := flag.Bool("list", false, "list encounter ids and exit")
	interactive := flag.Bool("interactive", false, "read player commands from stdin instead of using the autopilot")
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

	start := time.Now()
	content, err := sim.LoadContent(cfg.Content)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("encounters", len(content.Encounters)),
		zap.Strings("enemies", content.Bestiary.IDs()),
		zap.Duration("duration", time.Since(start)),
	)

	if *list {
		for _, id := range content.EncounterIDs() {
			fmt.Printf("%-16s %s\n", id, content.Encounters[id].Name)
		}
		return
	}

	if *runs <= 0 {
		*runs = cfg.Sim.Runs
	}
	if *workers <= 0 {
		*workers = cfg.Sim.Workers
	}
	if *seed == 0 {
		*seed = cfg.Battle.Seed
	}
	opts := sim.Options{
		Encounter:  *encounter,
		LevelBonus: *levelBonus,
		Difficulty: *difficulty,
		Boss:       *boss,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := sim.NewRunner(content, cfg, logger)
	if *interactive {
		opts.Observer = func(ev combat.Event) { fmt.Println(sim.Describe(ev)) }
		fmt.Println(`type "help" for commands`)
		rep, err := runner.Play(ctx, *seed, opts, sim.Console(os.Stdin, os.Stdout))
		if err != nil {
			logger.Error("battle failed", zap.Error(err))
			os.Exit(1)
		}
		fmt.Println()
		fmt.Print(sim.Summarize([]sim.Report{rep}))
		return
	}
	if *runs == 1 {
		opts.Observer = func(ev combat.Event) { fmt.Println(sim.Describe(ev)) }
		rep, err := runner.RunOne(ctx, *seed, opts)
		if err != nil {
			logger.Error("battle failed", zap.Error(err))
			os.Exit(1)
		}
		fmt.Println()
		fmt.Print(sim.Summarize([]sim.Report{rep}))
		fmt.Printf("player hp:   %d\n", rep.PlayerHealth)
		return
	}

	simStart := time.Now()
	reports, err := runner.RunMany(ctx, *seed, *runs, *workers, opts)
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("simulation complete",
		zap.Int("runs", len(reports)),
		zap.Duration("duration", time.Since(simStart)),
	)
	fmt.Print(sim.Summarize(reports))
}
