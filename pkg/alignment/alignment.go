// Package alignment tracks a pioneer's moral position on two axes.
package alignment

import "time"

const (
	// Limit bounds each axis to [-Limit, Limit].
	Limit = 100
	// Threshold is the distance from zero at which an axis leaves neutral.
	Threshold = 30
)

type Type string

const (
	LawfulGood     Type = "Lawful-Good"
	NeutralGood    Type = "Neutral-Good"
	ChaoticGood    Type = "Chaotic-Good"
	LawfulNeutral  Type = "Lawful-Neutral"
	TrueNeutral    Type = "True-Neutral"
	ChaoticNeutral Type = "Chaotic-Neutral"
	LawfulEvil     Type = "Lawful-Evil"
	NeutralEvil    Type = "Neutral-Evil"
	ChaoticEvil    Type = "Chaotic-Evil"
)

var descriptions = map[Type]string{
	LawfulGood:     "You uphold order and protect the crew.",
	NeutralGood:    "You do what helps the crew, rules or not.",
	ChaoticGood:    "You bend the ship's rules for the greater good.",
	LawfulNeutral:  "Procedure first. The manifest is the manifest.",
	TrueNeutral:    "You keep your own counsel and your own balance.",
	ChaoticNeutral: "You follow your own course through the dark.",
	LawfulEvil:     "You use the ship's rules to serve yourself.",
	NeutralEvil:    "You look after yourself, whatever it costs others.",
	ChaoticEvil:    "You answer to no one aboard this ship.",
}

// Describe returns a one-line summary of an alignment.
func Describe(t Type) string {
	return descriptions[t]
}

// Scores are positive for law and good, negative for chaos and evil.
type Scores struct {
	LawChaos int `json:"law_chaos"`
	GoodEvil int `json:"good_evil"`
}

// Shift is a signed change applied to Scores.
type Shift struct {
	LawChaos int `json:"law_chaos"`
	GoodEvil int `json:"good_evil"`
}

func (s Shift) IsZero() bool {
	return s.LawChaos == 0 && s.GoodEvil == 0
}

// Classify maps scores to one of the nine alignments.
func Classify(s Scores) Type {
	order := "Neutral"
	switch {
	case s.LawChaos >= Threshold:
		order = "Lawful"
	case s.LawChaos <= -Threshold:
		order = "Chaotic"
	}
	moral := "Neutral"
	switch {
	case s.GoodEvil >= Threshold:
		moral = "Good"
	case s.GoodEvil <= -Threshold:
		moral = "Evil"
	}
	if order == "Neutral" && moral == "Neutral" {
		return TrueNeutral
	}
	return Type(order + "-" + moral)
}

// Entry records one applied shift.
type Entry struct {
	Choice   string    `json:"choice"`
	Shift    Shift     `json:"shift"`
	Previous Type      `json:"previous"`
	Current  Type      `json:"current"`
	At       time.Time `json:"at"`
}

// State is the alignment held by a session.
type State struct {
	Scores  Scores  `json:"scores"`
	Current Type    `json:"current"`
	History []Entry `json:"history,omitempty"`
}

func NewState() State {
	return State{Current: TrueNeutral}
}

// Apply adds shift to the scores, clamps both axes, reclassifies and records
// the change in the history.
func (s *State) Apply(choice string, shift Shift, at time.Time) Entry {
	prev := Classify(s.Scores)
	s.Scores.LawChaos = clamp(s.Scores.LawChaos + shift.LawChaos)
	s.Scores.GoodEvil = clamp(s.Scores.GoodEvil + shift.GoodEvil)
	s.Current = Classify(s.Scores)

	e := Entry{
		Choice:   choice,
		Shift:    shift,
		Previous: prev,
		Current:  s.Current,
		At:       at,
	}
	s.History = append(s.History, e)
	return e
}

// Normalize clamps both axes and derives Current from the scores. The
// history is left untouched.
func (s *State) Normalize() {
	s.Scores.LawChaos = clamp(s.Scores.LawChaos)
	s.Scores.GoodEvil = clamp(s.Scores.GoodEvil)
	s.Current = Classify(s.Scores)
}

// Changed reports whether the entry moved the pioneer to a new alignment.
func (e Entry) Changed() bool {
	return e.Previous != e.Current
}

func clamp(v int) int {
	if v > Limit {
		return Limit
	}
	if v < -Limit {
		return -Limit
	}
	return v
}
