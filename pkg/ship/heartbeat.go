package ship

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultInterval is the period between heartbeat ticks.
const DefaultInterval = time.Second

const gaugeCells = 20

// Rates are the per-tick decay amounts at a multiplier of 1.0.
type Rates struct {
	Power         float64 `json:"power"`
	Oxygen        float64 `json:"oxygen"`
	Hull          float64 `json:"hull"`
	Cryo          float64 `json:"cryo"`
	PowerCoupling float64 `json:"power_coupling"` // extra oxygen loss while power is critical
	HullCoupling  float64 `json:"hull_coupling"`  // extra oxygen loss while hull is critical
}

// DefaultRates returns the standard decay table.
func DefaultRates() Rates {
	return Rates{
		Power:         0.05,
		Oxygen:        0.03,
		Hull:          0.02,
		Cryo:          0.01,
		PowerCoupling: 0.1,
		HullCoupling:  0.15,
	}
}

func (r Rates) base(sys System) float64 {
	switch sys {
	case Power:
		return r.Power
	case Oxygen:
		return r.Oxygen
	case Hull:
		return r.Hull
	case Cryo:
		return r.Cryo
	}
	return 0
}

// TickFunc receives a copy of the systems and the alerts raised after a
// periodic tick.
type TickFunc func(systems Systems, alerts []string)

// Option configures a Heartbeat.
type Option func(*Heartbeat)

// WithSystems sets the initial ledger. Values are clamped.
func WithSystems(s Systems) Option {
	return func(h *Heartbeat) { h.systems = s.Clamped() }
}

func WithRates(r Rates) Option {
	return func(h *Heartbeat) { h.rates = r }
}

func WithInterval(d time.Duration) Option {
	return func(h *Heartbeat) {
		if d > 0 {
			h.interval = d
		}
	}
}

// WithLocker makes every periodic tick hold l. Callers that mutate the
// ledger outside the heartbeat goroutine must hold the same lock.
func WithLocker(l sync.Locker) Option {
	return func(h *Heartbeat) {
		if l != nil {
			h.locker = l
		}
	}
}

// WithMultiplier supplies the decay multiplier for periodic ticks. It is
// called once per tick while the locker is held.
func WithMultiplier(fn func() float64) Option {
	return func(h *Heartbeat) { h.multiplier = fn }
}

// Heartbeat owns the ship's resource ledger and degrades it on a fixed
// period. Ledger methods are not synchronized on their own; see WithLocker.
type Heartbeat struct {
	systems    Systems
	rates      Rates
	interval   time.Duration
	locker     sync.Locker
	multiplier func() float64

	mu  sync.Mutex // guards cur
	cur *loop
}

type loop struct {
	quit       chan struct{}
	done       chan struct{}
	inCallback bool
}

// NewHeartbeat creates a heartbeat with a full ledger and default rates.
func NewHeartbeat(opts ...Option) *Heartbeat {
	h := &Heartbeat{
		systems:  DefaultSystems(),
		rates:    DefaultRates(),
		interval: DefaultInterval,
		locker:   &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Tick applies one degradation step scaled by multiplier. Base decay runs
// first, then the oxygen couplings for critical power and hull.
func (h *Heartbeat) Tick(multiplier float64) {
	m := multiplier
	if m < 0 || math.IsNaN(m) {
		m = 0
	}
	s := &h.systems
	for _, sys := range Bounded {
		f := s.field(sys)
		*f = floor(*f - h.rates.base(sys)*m)
	}
	if s.Power < CriticalThreshold {
		s.Oxygen = floor(s.Oxygen - h.rates.PowerCoupling*m)
	}
	if s.Hull < CriticalThreshold {
		s.Oxygen = floor(s.Oxygen - h.rates.HullCoupling*m)
	}
}

func floor(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Repair adds amount to a bounded system, capped at 100. It reports false
// for unknown systems, for scrap and for negative amounts.
func (h *Heartbeat) Repair(system string, amount float64) bool {
	sys, ok := ParseSystem(system)
	if !ok || amount < 0 || math.IsNaN(amount) {
		return false
	}
	f := h.systems.field(sys)
	*f = clamp(*f + amount)
	return true
}

// AddScrap grows the scrap accumulator. Negative amounts are ignored.
func (h *Heartbeat) AddScrap(n float64) bool {
	if n < 0 || math.IsNaN(n) {
		return false
	}
	h.systems.Scrap += n
	return true
}

// Systems returns a copy of the ledger.
func (h *Heartbeat) Systems() Systems {
	return h.systems
}

// CheckAlerts lists an alert for every bounded system below the danger line.
func (h *Heartbeat) CheckAlerts() []string {
	var alerts []string
	for _, sys := range Bounded {
		v, _ := h.systems.Get(sys)
		name := Label(sys)
		switch {
		case v <= 0:
			alerts = append(alerts, fmt.Sprintf("CRITICAL: %s FAILURE!", name))
		case v < CriticalThreshold:
			alerts = append(alerts, fmt.Sprintf("CRITICAL: %s at %.1f%%", name, v))
		case v < DangerThreshold:
			alerts = append(alerts, fmt.Sprintf("WARNING: %s at %.1f%%", name, v))
		}
	}
	return alerts
}

// IsCritical reports whether any bounded system has failed.
func (h *Heartbeat) IsCritical() bool {
	for _, sys := range Bounded {
		if v, _ := h.systems.Get(sys); v <= 0 {
			return true
		}
	}
	return false
}

// OverallHealth is the mean of the bounded systems.
func (h *Heartbeat) OverallHealth() float64 {
	var sum float64
	for _, sys := range Bounded {
		v, _ := h.systems.Get(sys)
		sum += v
	}
	return sum / float64(len(Bounded))
}

// StatusReport renders one gauge line per bounded system and the scrap total.
func (h *Heartbeat) StatusReport() string {
	var b strings.Builder
	for _, sys := range Bounded {
		v, _ := h.systems.Get(sys)
		fmt.Fprintf(&b, "%-8s: %s %.1f%%\n", Label(sys), Gauge(v), v)
	}
	fmt.Fprintf(&b, "%-8s: %d units", "SCRAP", int(h.systems.Scrap))
	return b.String()
}

// Gauge renders a 20-cell bar for a level in [0,100].
func Gauge(level float64) string {
	filled := int(math.Floor(clamp(level) / MaxLevel * gaugeCells))
	return "[" + strings.Repeat("█", filled) + strings.Repeat(" ", gaugeCells-filled) + "]"
}

// Label is the upper-case display name of a system.
func Label(sys System) string {
	return cases.Upper(language.English).String(string(sys))
}

// Pulse runs one periodic step under the locker: it reads the multiplier,
// ticks, and collects alerts.
func (h *Heartbeat) Pulse() (Systems, []string) {
	h.locker.Lock()
	defer h.locker.Unlock()
	m := 1.0
	if h.multiplier != nil {
		m = h.multiplier()
	}
	h.Tick(m)
	return h.systems, h.CheckAlerts()
}

// Start begins periodic ticking. Calling Start while running is a no-op.
func (h *Heartbeat) Start(onTick TickFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cur != nil {
		return
	}
	l := &loop{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	h.cur = l
	go h.run(l, onTick)
}

// Stop halts periodic ticking. Once it returns no further callback starts.
// Called from inside the callback it returns without waiting. It must not be
// called while holding the locker passed to WithLocker.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	l := h.cur
	if l == nil {
		h.mu.Unlock()
		return
	}
	h.cur = nil
	close(l.quit)
	reentrant := l.inCallback
	h.mu.Unlock()

	if !reentrant {
		<-l.done
	}
}

// Running reports whether the periodic loop is active.
func (h *Heartbeat) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur != nil
}

func (h *Heartbeat) run(l *loop, onTick TickFunc) {
	defer close(l.done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.quit:
			return
		case <-ticker.C:
			if !h.fire(l, onTick) {
				return
			}
		}
	}
}

// fire re-checks quit before the tick and again before the callback so a
// tick queued on the ticker channel never outlives Stop.
func (h *Heartbeat) fire(l *loop, onTick TickFunc) bool {
	if stopped(l) {
		return false
	}
	systems, alerts := h.Pulse()

	h.mu.Lock()
	select {
	case <-l.quit:
		h.mu.Unlock()
		return false
	default:
	}
	l.inCallback = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		l.inCallback = false
		h.mu.Unlock()
	}()
	if onTick != nil {
		onTick(systems, alerts)
	}
	return true
}

func stopped(l *loop) bool {
	select {
	case <-l.quit:
		return true
	default:
		return false
	}
}
