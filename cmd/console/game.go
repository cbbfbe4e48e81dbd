package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/great-transit/internal/events"
	"github.com/jwebster45206/great-transit/pkg/command"
	"github.com/jwebster45206/great-transit/pkg/engine"
	"github.com/jwebster45206/great-transit/pkg/ship"
	"github.com/jwebster45206/great-transit/pkg/storage"
)

const (
	tickBuffer     = 8
	publishTimeout = 2 * time.Second
)

type tickMsg struct {
	sessionID uuid.UUID
	systems   ship.Systems
	alerts    []string
}

// Game owns the running session and the collaborators around it. The UI
// talks to it; nothing else touches the session.
type Game struct {
	mu      sync.Mutex
	session *engine.Session

	opts   []engine.Option
	store  storage.Storage
	events *events.Broadcaster
	logger *slog.Logger
	ticks  chan tickMsg
}

// NewGame creates a fresh session. events may be nil.
func NewGame(store storage.Storage, bc *events.Broadcaster, logger *slog.Logger, opts ...engine.Option) *Game {
	opts = append([]engine.Option{engine.WithLogger(logger)}, opts...)
	return &Game{
		session: engine.New(opts...),
		opts:    opts,
		store:   store,
		events:  bc,
		logger:  logger,
		ticks:   make(chan tickMsg, tickBuffer),
	}
}

func (g *Game) Session() *engine.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Ticks delivers tick results. Ticks are dropped while the UI is behind.
func (g *Game) Ticks() <-chan tickMsg {
	return g.ticks
}

func (g *Game) Start() {
	s := g.Session()
	id := s.ID()
	s.Start(func(systems ship.Systems, alerts []string) {
		select {
		case g.ticks <- tickMsg{sessionID: id, systems: systems, alerts: alerts}:
		default:
		}
		g.publish(func(ctx context.Context) error {
			return g.events.PublishTick(ctx, id, s.View().GameTime, systems, alerts)
		})
	})
}

func (g *Game) Stop() {
	g.Session().Stop()
}

func (g *Game) Submit(input string) command.Result {
	s := g.Session()
	res := s.Submit(input)

	verb := command.Verb(input)
	g.logger.Debug("Command submitted", "session_id", s.ID().String(), "verb", verb, "success", res.Success)
	g.publish(func(ctx context.Context) error {
		return g.events.PublishCommand(ctx, s.ID(), s.View().GameTime, verb, res.Success)
	})
	if res.Choice != nil {
		choiceID := res.Choice.ID
		g.publish(func(ctx context.Context) error {
			return g.events.PublishChoiceOffered(ctx, s.ID(), s.View().GameTime, choiceID)
		})
	}
	if res.Updates != nil && res.Updates.Feedback != nil {
		entry := *res.Updates.Feedback
		g.publish(func(ctx context.Context) error {
			return g.events.PublishFeedback(ctx, s.ID(), entry)
		})
	}
	return res
}

func (g *Game) Save(ctx context.Context) (storage.Summary, error) {
	snap := g.Session().Snapshot()
	if err := g.store.SaveSnapshot(ctx, snap); err != nil {
		return storage.Summary{}, fmt.Errorf("failed to save session: %w", err)
	}
	g.logger.Info("Session saved", "session_id", snap.ID.String(), "game_time", snap.Game.GameTime)
	g.publish(func(ctx context.Context) error {
		return g.events.PublishSaved(ctx, snap.ID, snap.Game.GameTime)
	})
	return storage.SummaryOf(snap), nil
}

// Load replaces the running session with a stored one. An empty id loads
// the most recent save; a prefix of an ID is accepted.
func (g *Game) Load(ctx context.Context, id string) (storage.Summary, error) {
	snap, err := g.find(ctx, strings.TrimSpace(id))
	if err != nil {
		return storage.Summary{}, err
	}
	restored, err := engine.Restore(snap, g.opts...)
	if err != nil {
		return storage.Summary{}, fmt.Errorf("failed to restore session: %w", err)
	}
	g.replace(restored)
	g.logger.Info("Session loaded", "session_id", snap.ID.String())
	return storage.SummaryOf(snap), nil
}

// Reset starts over with a new session.
func (g *Game) Reset() {
	g.replace(engine.New(g.opts...))
}

func (g *Game) replace(s *engine.Session) {
	old := g.Session()
	running := old.Running()
	old.Stop()

	g.mu.Lock()
	g.session = s
	g.mu.Unlock()

	if running {
		g.Start()
	}
}

func (g *Game) List(ctx context.Context) ([]storage.Summary, error) {
	return g.store.ListSnapshots(ctx)
}

func (g *Game) find(ctx context.Context, id string) (engine.Snapshot, error) {
	if id == "" {
		return storage.Latest(ctx, g.store)
	}
	if parsed, err := uuid.Parse(id); err == nil {
		return g.store.LoadSnapshot(ctx, parsed)
	}
	list, err := g.store.ListSnapshots(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	var match *storage.Summary
	for i := range list {
		if strings.HasPrefix(list[i].ID.String(), id) {
			if match != nil {
				return engine.Snapshot{}, fmt.Errorf("more than one save matches %q", id)
			}
			match = &list[i]
		}
	}
	if match == nil {
		return engine.Snapshot{}, storage.ErrNotFound
	}
	return g.store.LoadSnapshot(ctx, match.ID)
}

// publish sends an event in the background. It is a no-op without a
// broadcaster.
func (g *Game) publish(fn func(ctx context.Context) error) {
	if g.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			g.logger.Warn("Event publish failed", "error", err)
		}
	}()
}

func (g *Game) Close() error {
	g.Stop()
	return g.store.Close()
}
