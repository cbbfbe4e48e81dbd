package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/great-transit/internal/config"
	"github.com/jwebster45206/great-transit/internal/events"
	"github.com/jwebster45206/great-transit/internal/logger"
	"github.com/jwebster45206/great-transit/internal/storage"
	"github.com/jwebster45206/great-transit/pkg/engine"
	"github.com/jwebster45206/great-transit/pkg/layout"
)

const startupTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.LogFile, err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close()
	}()
	log := logger.Setup(cfg, logFile)

	game, err := newGame(cfg, log)
	if err != nil {
		log.Error("Startup failed", "error", err)
		fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := game.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	game.Start()
	p := tea.NewProgram(NewConsoleUI(game),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error("Console exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func newGame(cfg *config.Config, log *slog.Logger) (*Game, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Store, err)
	}

	var bc *events.Broadcaster
	if cfg.Broadcast {
		client, err := storage.NewRedisClient(cfg.RedisURL)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		bc = events.NewBroadcaster(client, log)
		log.Info("Broadcasting session events", "redis_url", cfg.RedisURL)
	}

	opts := sessionOptions(cfg)
	if cfg.LayoutFile != "" {
		l, err := layout.LoadFile(cfg.LayoutFile)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		log.Info("Using custom ship layout", "path", cfg.LayoutFile, "compartments", len(l.IDs()))
		opts = append(opts, engine.WithLayout(l))
	}
	return NewGame(store, bc, log, opts...), nil
}

func sessionOptions(cfg *config.Config) []engine.Option {
	decay, recharge := cfg.DilationRates()
	opts := []engine.Option{
		engine.WithTickInterval(cfg.TickInterval),
		engine.WithRates(cfg.ShipRates()),
		engine.WithDilationRates(decay, recharge),
		engine.WithFavoredSerials(cfg.FavoredSerials),
		engine.WithPioneerSerial(cfg.PioneerSerial),
	}
	if cfg.Seed != 0 {
		opts = append(opts, engine.WithSeed(cfg.Seed))
	}
	return opts
}
