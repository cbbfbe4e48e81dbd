// Package dilation manages the subjective-time resource that pays for
// changing the simulation speed and for costly player actions.
package dilation

import "math"

const (
	MinScale    = 0.5
	MaxScale    = 2.0
	NormalScale = 1.0

	DefaultDecayRate         = 0.1
	DefaultRechargeRate      = 0.05
	DefaultMaxSubjectiveTime = 100.0
)

// State is a value snapshot of the dilation resource.
type State struct {
	SubjectiveTime    float64 `json:"subjective_time"`
	TimeScale         float64 `json:"time_scale"`
	MaxSubjectiveTime float64 `json:"max_subjective_time"`
}

// DefaultState is a full balance at normal speed.
func DefaultState() State {
	return State{
		SubjectiveTime:    DefaultMaxSubjectiveTime,
		TimeScale:         NormalScale,
		MaxSubjectiveTime: DefaultMaxSubjectiveTime,
	}
}

// Manager drains subjective time while the scale is off 1.0 and recharges it
// at normal speed. It is not synchronized; the owning session serializes
// access.
type Manager struct {
	state        State
	decayRate    float64
	rechargeRate float64
}

type Option func(*Manager)

// WithState restores a previous state. Out-of-range values are clamped.
func WithState(s State) Option {
	return func(m *Manager) { m.state = s }
}

func WithDecayRate(rate float64) Option {
	return func(m *Manager) {
		if rate >= 0 {
			m.decayRate = rate
		}
	}
}

func WithRechargeRate(rate float64) Option {
	return func(m *Manager) {
		if rate >= 0 {
			m.rechargeRate = rate
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		state:        DefaultState(),
		decayRate:    DefaultDecayRate,
		rechargeRate: DefaultRechargeRate,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.normalize()
	return m
}

func (m *Manager) normalize() {
	s := &m.state
	if !(s.MaxSubjectiveTime > 0) || math.IsInf(s.MaxSubjectiveTime, 0) {
		s.MaxSubjectiveTime = DefaultMaxSubjectiveTime
	}
	if math.IsNaN(s.SubjectiveTime) || s.SubjectiveTime < 0 {
		s.SubjectiveTime = 0
	}
	if s.SubjectiveTime > s.MaxSubjectiveTime {
		s.SubjectiveTime = s.MaxSubjectiveTime
	}
	if !validScale(s.TimeScale) || s.SubjectiveTime <= 0 {
		s.TimeScale = NormalScale
	}
}

func validScale(scale float64) bool {
	return scale >= MinScale && scale <= MaxScale
}

// Tick advances the resource by dt. Off-normal scales drain the balance in
// proportion to their distance from 1.0 and revert to 1.0 the moment it
// runs out; at normal speed the balance recharges.
func (m *Manager) Tick(dt float64) {
	if !(dt > 0) {
		return
	}
	s := &m.state
	if s.TimeScale != NormalScale {
		s.SubjectiveTime -= m.decayRate * math.Abs(s.TimeScale-NormalScale) * dt
		if s.SubjectiveTime <= 0 {
			s.SubjectiveTime = 0
			s.TimeScale = NormalScale
		}
		return
	}
	s.SubjectiveTime = math.Min(s.MaxSubjectiveTime, s.SubjectiveTime+m.rechargeRate*dt)
}

// SetTimeScale changes the speed. It rejects scales outside [0.5,2.0] and
// off-normal scales while the balance is empty; a rejection leaves the
// state unchanged.
func (m *Manager) SetTimeScale(scale float64) bool {
	if !validScale(scale) {
		return false
	}
	if scale != NormalScale && m.state.SubjectiveTime <= 0 {
		return false
	}
	m.state.TimeScale = scale
	return true
}

// Spend debits cost from the balance if it covers it.
func (m *Manager) Spend(cost float64) bool {
	if cost < 0 || math.IsNaN(cost) || m.state.SubjectiveTime < cost {
		return false
	}
	m.state.SubjectiveTime -= cost
	if m.state.SubjectiveTime <= 0 {
		m.state.SubjectiveTime = 0
		m.state.TimeScale = NormalScale
	}
	return true
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	return m.state
}

// EffectiveMultiplier is the factor applied to the heartbeat's decay.
func (m *Manager) EffectiveMultiplier() float64 {
	return m.state.TimeScale
}

// CanManipulate reports whether an off-normal scale could be set.
func (m *Manager) CanManipulate() bool {
	return m.state.SubjectiveTime > 0
}

// Percent is the balance as a percentage of the maximum.
func (m *Manager) Percent() float64 {
	return m.state.SubjectiveTime / m.state.MaxSubjectiveTime * 100
}
