package ship

import (
	"math"
	"strings"
)

// System names a bounded ship subsystem.
type System string

const (
	Power  System = "power"
	Oxygen System = "oxygen"
	Hull   System = "hull"
	Cryo   System = "cryo"
)

// Bounded lists the bounded systems in display order.
var Bounded = []System{Power, Oxygen, Hull, Cryo}

const (
	MaxLevel          = 100.0
	CriticalThreshold = 20.0
	DangerThreshold   = 50.0
)

// Systems is the resource ledger of the ship. Power, Oxygen, Hull and Cryo
// are bounded to [0,100]; Scrap is an unbounded accumulator.
type Systems struct {
	Power  float64 `json:"power"`
	Oxygen float64 `json:"oxygen"`
	Hull   float64 `json:"hull"`
	Cryo   float64 `json:"cryo"`
	Scrap  float64 `json:"scrap"`
}

// DefaultSystems returns a fully operational ship with no scrap.
func DefaultSystems() Systems {
	return Systems{
		Power:  MaxLevel,
		Oxygen: MaxLevel,
		Hull:   MaxLevel,
		Cryo:   MaxLevel,
	}
}

// ParseSystem resolves a case-insensitive bounded system name.
func ParseSystem(name string) (System, bool) {
	sys := System(strings.ToLower(strings.TrimSpace(name)))
	for _, b := range Bounded {
		if b == sys {
			return sys, true
		}
	}
	return "", false
}

// SystemNames returns the bounded system names in display order.
func SystemNames() []string {
	names := make([]string, len(Bounded))
	for i, s := range Bounded {
		names[i] = string(s)
	}
	return names
}

// Get returns the level of a bounded system.
func (s Systems) Get(sys System) (float64, bool) {
	switch sys {
	case Power:
		return s.Power, true
	case Oxygen:
		return s.Oxygen, true
	case Hull:
		return s.Hull, true
	case Cryo:
		return s.Cryo, true
	}
	return 0, false
}

func (s *Systems) field(sys System) *float64 {
	switch sys {
	case Power:
		return &s.Power
	case Oxygen:
		return &s.Oxygen
	case Hull:
		return &s.Hull
	case Cryo:
		return &s.Cryo
	}
	return nil
}

// Clamped returns a copy with every bounded field in [0,100] and scrap >= 0.
func (s Systems) Clamped() Systems {
	for _, sys := range Bounded {
		f := s.field(sys)
		*f = clamp(*f)
	}
	if math.IsNaN(s.Scrap) || s.Scrap < 0 {
		s.Scrap = 0
	}
	return s
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxLevel {
		return MaxLevel
	}
	return v
}
