// Package content supplies the variable parts of play: random yields, lore,
// NPC dialogue and the choices offered at locations. Commands depend on the
// Provider interface so tests can script every roll.
package content

import (
	"math/rand/v2"

	"github.com/jwebster45206/great-transit/pkg/state"
)

const (
	MinScrapYield  = 1
	MaxScrapYield  = 5
	LoreChance     = 0.15
	LocationChance = 0.30
)

// Provider is the source of randomness and narrative text for commands.
type Provider interface {
	// ScrapYield returns the scrap recovered by one mining run.
	ScrapYield() int
	// LoreFragment returns a fragment found while mining, if any.
	LoreFragment() (string, bool)
	// Dialogue returns the line an NPC speaks on the n-th conversation
	// (1-based).
	Dialogue(npc string, n int) string
	// Saying returns one of an NPC's idle remarks.
	Saying(npc string) string
	// LocationChoice may return a choice offered when looking around.
	LocationChoice(compartment string) *state.BinaryChoice
	// InspectChoice returns the choice tied to inspecting target, if any.
	InspectChoice(compartment, target string) *state.BinaryChoice
	// FollowUp returns the choice a resolved option leads to.
	FollowUp(id string) *state.BinaryChoice
	// LockerChoice is the supply check offered at the pioneer's locker.
	LockerChoice() *state.BinaryChoice
	// D20 and D6 roll dice.
	D20() int
	D6() int
}

// Random is the default Provider backed by a seeded generator and the
// built-in tables.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

// NewSeeded returns a Random provider seeded deterministically.
func NewSeeded(seed uint64) *Random {
	return NewRandom(rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)))
}

func (r *Random) ScrapYield() int {
	return MinScrapYield + r.rng.IntN(MaxScrapYield-MinScrapYield+1)
}

func (r *Random) LoreFragment() (string, bool) {
	if r.rng.Float64() >= LoreChance {
		return "", false
	}
	return loreFragments[r.rng.IntN(len(loreFragments))], true
}

// Dialogue walks the NPC's scripted lines in order, then cycles through the
// repeat lines.
func (r *Random) Dialogue(npc string, n int) string {
	script, ok := dialogues[npc]
	if !ok {
		return "They look at you blankly."
	}
	if n < 1 {
		n = 1
	}
	if n <= len(script.Opening) {
		return script.Opening[n-1]
	}
	return script.Repeat[(n-len(script.Opening)-1)%len(script.Repeat)]
}

func (r *Random) Saying(npc string) string {
	lines := sayings[npc]
	if len(lines) == 0 {
		return ""
	}
	return lines[r.rng.IntN(len(lines))]
}

func (r *Random) LocationChoice(compartment string) *state.BinaryChoice {
	choices := locationChoices[compartment]
	if len(choices) == 0 || r.rng.Float64() >= LocationChance {
		return nil
	}
	c := choices[r.rng.IntN(len(choices))]
	c.Location = compartment
	return c.Clone()
}

func (r *Random) InspectChoice(compartment, target string) *state.BinaryChoice {
	c, ok := inspectChoices[compartment+"/"+target]
	if !ok {
		return nil
	}
	c.Location = compartment
	return c.Clone()
}

func (r *Random) FollowUp(id string) *state.BinaryChoice {
	c, ok := followUps[id]
	if !ok {
		return nil
	}
	return c.Clone()
}

func (r *Random) LockerChoice() *state.BinaryChoice {
	c := lockerChoice
	return c.Clone()
}

func (r *Random) D20() int { return 1 + r.rng.IntN(20) }
func (r *Random) D6() int  { return 1 + r.rng.IntN(6) }
