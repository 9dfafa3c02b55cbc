package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mshel/mineopoly/internal/arena"
	"github.com/Mshel/mineopoly/internal/game"
	"github.com/Mshel/mineopoly/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func main() {
	configPath := flag.String("config", "", "arena YAML file (built-in board when empty)")
	headless := flag.Bool("headless", false, "play without the TUI and only log results")
	rounds := flag.Int("rounds", 0, "rounds to play (overrides the config)")
	opponent := flag.String("opponent", game.StrategyName, "blue strategy for headless matches")
	flag.Parse()

	cfg := arena.Default()
	if *configPath != "" {
		loaded, err := arena.Load(*configPath)
		if err != nil {
			log.Fatal("Could not load config", "path", *configPath, "error", err)
		}
		cfg = loaded
	}
	if *rounds > 0 {
		cfg.Rounds = *rounds
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn("Unknown log level, using info", "level", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *headless, *opponent); err != nil {
		fmt.Fprintf(os.Stderr, "error %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg arena.Config, headless bool, opponent string) error {
	roster, err := arena.NewRoster(cfg.Scripts, log.Default())
	if err != nil {
		return err
	}

	history, err := arena.OpenRoundHistory(cfg.DatabasePath, log.Default())
	if err != nil {
		return err
	}
	defer history.Close()

	recorder := arena.NewResultRecorder(history, log.Default())
	defer recorder.Close()

	newMatch := func(seed int64, opponent string) (*arena.Match, error) {
		matchCfg := cfg
		matchCfg.Seed = seed
		return roster.NewMatch(matchCfg, game.StrategyName, opponent,
			arena.WithRoundRecorder(recorder.Record))
	}

	if headless {
		return playHeadless(ctx, cfg, newMatch, opponent)
	}

	// Log lines would tear the alt screen.
	if f, err := tea.LogToFile("mineopoly.log", "runner"); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	model := ui.NewControllerModel(ctx, newMatch, history, roster.Names(), cfg.Rounds, cfg.Seed, 0, 0)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func playHeadless(ctx context.Context, cfg arena.Config, newMatch ui.MatchFactory, opponent string) error {
	match, err := newMatch(cfg.Seed, opponent)
	if err != nil {
		return err
	}
	defer match.Close()

	for r := 0; r < cfg.Rounds; r++ {
		if _, err := match.PlayRound(ctx); err != nil {
			return err
		}
	}

	red, blue := match.Red(), match.Blue()
	log.Info("Match finished",
		"red", red.Name, "red_wins", red.Wins,
		"blue", blue.Name, "blue_wins", blue.Wins,
		"rounds", cfg.Rounds)
	return nil
}
