// Package engine ties the ship, the dilation resource and the command set
// into one playable session.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/great-transit/pkg/command"
	"github.com/jwebster45206/great-transit/pkg/commands"
	"github.com/jwebster45206/great-transit/pkg/content"
	"github.com/jwebster45206/great-transit/pkg/dilation"
	"github.com/jwebster45206/great-transit/pkg/layout"
	"github.com/jwebster45206/great-transit/pkg/pioneer"
	"github.com/jwebster45206/great-transit/pkg/ship"
	"github.com/jwebster45206/great-transit/pkg/state"
)

// SnapshotVersion is written to every snapshot and required on restore.
const SnapshotVersion = "1.0"

// Snapshot is a value copy of every session field.
type Snapshot struct {
	Version string          `json:"version"`
	ID      uuid.UUID       `json:"id"`
	Systems ship.Systems    `json:"systems"`
	Time    dilation.State  `json:"time"`
	Game    state.GameState `json:"game"`
	SavedAt time.Time       `json:"saved_at"`
}

type options struct {
	logger         *slog.Logger
	content        content.Provider
	layout         *layout.Layout
	interval       time.Duration
	rates          ship.Rates
	decayRate      float64
	rechargeRate   float64
	pioneer        *pioneer.Pioneer
	commands       []command.Command
	clock          func() time.Time
	seed           uint64
	favoredSerials []int
	serial         int
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithContent(p content.Provider) Option {
	return func(o *options) { o.content = p }
}

func WithLayout(l *layout.Layout) Option {
	return func(o *options) { o.layout = l }
}

func WithTickInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

func WithRates(r ship.Rates) Option {
	return func(o *options) { o.rates = r }
}

func WithDilationRates(decay, recharge float64) Option {
	return func(o *options) {
		o.decayRate = decay
		o.rechargeRate = recharge
	}
}

// WithPioneer fixes the pioneer of a new session instead of generating one.
func WithPioneer(p pioneer.Pioneer) Option {
	return func(o *options) { o.pioneer = &p }
}

// WithCommands replaces the command set.
func WithCommands(cmds []command.Command) Option {
	return func(o *options) { o.commands = cmds }
}

func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithSeed seeds pioneer generation and the default content provider.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

func WithFavoredSerials(serials []int) Option {
	return func(o *options) { o.favoredSerials = serials }
}

// WithPioneerSerial generates the pioneer for a fixed serial. Zero or an
// out-of-range serial picks one at random.
func WithPioneerSerial(serial int) Option {
	return func(o *options) { o.serial = serial }
}

func buildOptions(opts []Option) *options {
	o := &options{
		interval:     ship.DefaultInterval,
		rates:        ship.DefaultRates(),
		decayRate:    dilation.DefaultDecayRate,
		rechargeRate: dilation.DefaultRechargeRate,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.seed == 0 {
		o.seed = rand.Uint64()
	}
	if o.content == nil {
		o.content = content.NewSeeded(o.seed)
	}
	if o.layout == nil {
		o.layout = layout.Default()
	}
	if o.commands == nil {
		o.commands = commands.All()
	}
	return o
}

// Session is one game in progress. Ticks and commands are serialized by its
// mutex, which the heartbeat also holds while ticking.
type Session struct {
	mu sync.Mutex

	ship       *ship.Heartbeat
	time       *dilation.Manager
	game       *state.GameState
	registry   *command.Registry
	dispatcher *command.Dispatcher
	cc         *command.Context
	logger     *slog.Logger
	clock      func() time.Time
}

// New starts a fresh session in the layout's start compartment.
func New(opts ...Option) *Session {
	o := buildOptions(opts)

	var p pioneer.Pioneer
	if o.pioneer != nil {
		p = *o.pioneer
	} else {
		gen := pioneer.NewGenerator(rand.New(rand.NewPCG(o.seed, o.seed>>1|1)), o.favoredSerials)
		serial := o.serial
		if serial < 1 || serial > pioneer.MaxSerial {
			serial = gen.RandomSerial()
		}
		p = gen.Generate(serial)
	}
	gs := state.NewGameState(o.layout.Start, p, o.clock())
	return build(o, ship.DefaultSystems(), dilation.DefaultState(), gs)
}

// Restore rebuilds a session from a snapshot. Numeric fields are clamped
// into range; an unknown location falls back to the start compartment.
func Restore(snap Snapshot, opts ...Option) (*Session, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q", snap.Version)
	}
	o := buildOptions(opts)

	gs := snap.Game.Clone()
	if snap.ID != uuid.Nil {
		gs.ID = snap.ID
	}
	if _, ok := o.layout.Compartment(gs.Location); !ok {
		o.logger.Warn("Snapshot location not in layout, using start",
			"session_id", gs.ID.String(),
			"location", gs.Location)
		gs.Location = o.layout.Start
	}
	gs.Alignment.Normalize()
	return build(o, snap.Systems, snap.Time, &gs), nil
}

func build(o *options, systems ship.Systems, ts dilation.State, gs *state.GameState) *Session {
	s := &Session{
		game:   gs,
		logger: o.logger.With("session_id", gs.ID.String()),
		clock:  o.clock,
	}
	s.time = dilation.NewManager(
		dilation.WithState(ts),
		dilation.WithDecayRate(o.decayRate),
		dilation.WithRechargeRate(o.rechargeRate),
	)
	s.ship = ship.NewHeartbeat(
		ship.WithSystems(systems),
		ship.WithRates(o.rates),
		ship.WithInterval(o.interval),
		ship.WithLocker(&s.mu),
		ship.WithMultiplier(s.advance),
	)
	s.registry = command.NewRegistry(o.commands...)
	s.dispatcher = command.NewDispatcher(s.registry, s.logger)
	s.cc = &command.Context{
		Ship:     s.ship,
		Time:     s.time,
		Game:     s.game,
		Layout:   o.layout,
		Content:  o.content,
		Registry: s.registry,
		Logger:   s.logger,
		Clock:    o.clock,
	}
	return s
}

// advance runs under s.mu at the start of every tick. It moves game time
// and the dilation resource forward and returns the multiplier that was in
// effect before the dilation step.
func (s *Session) advance() float64 {
	s.game.GameTime++
	m := s.time.EffectiveMultiplier()
	s.time.Tick(1)
	return m
}

func (s *Session) ID() uuid.UUID {
	return s.game.ID
}

// Submit runs one line of player input. While a choice is pending only the
// choice verbs are accepted.
func (s *Session) Submit(input string) command.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pending := s.game.PendingChoice; pending != nil {
		cmd, ok := s.registry.Lookup(command.Verb(input))
		if !ok || !cmd.ResolvesChoice {
			return command.Failf("A decision is waiting for you. Answer A or B.\n\n%s", pending.Prompt())
		}
	}

	res := s.dispatcher.Parse(input, s.cc)
	if res.Choice != nil {
		s.game.PendingChoice = res.Choice.Clone()
	}
	s.game.UpdatedAt = s.clock()
	return res
}

// Step runs one tick synchronously, exactly as the periodic driver would.
func (s *Session) Step() (ship.Systems, []string) {
	return s.ship.Pulse()
}

// Start begins periodic ticking. onTick runs outside the session lock.
func (s *Session) Start(onTick ship.TickFunc) {
	s.logger.Debug("Session heartbeat starting")
	s.ship.Start(onTick)
}

// Stop halts periodic ticking. It must not be called from a command handler.
func (s *Session) Stop() {
	s.ship.Stop()
	s.logger.Debug("Session heartbeat stopped")
}

func (s *Session) Running() bool {
	return s.ship.Running()
}

// Snapshot copies every session field.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Version: SnapshotVersion,
		ID:      s.game.ID,
		Systems: s.ship.Systems(),
		Time:    s.time.State(),
		Game:    s.game.Clone(),
		SavedAt: s.clock(),
	}
}

// View is a read-only summary for presentation layers.
type View struct {
	Systems       ship.Systems
	Time          dilation.State
	Health        float64
	Location      string
	LocationName  string
	GameTime      int64
	PendingChoice *state.BinaryChoice
	Pioneer       pioneer.Pioneer
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		Systems:       s.ship.Systems(),
		Time:          s.time.State(),
		Health:        s.ship.OverallHealth(),
		Location:      s.game.Location,
		GameTime:      s.game.GameTime,
		PendingChoice: s.game.PendingChoice.Clone(),
		Pioneer:       s.game.Pioneer,
	}
	if c, ok := s.cc.Layout.Compartment(s.game.Location); ok {
		v.LocationName = c.Title()
	}
	return v
}
