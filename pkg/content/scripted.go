package content

import "github.com/jwebster45206/great-transit/pkg/state"

// Scripted is a deterministic Provider. Rolls come from its fields; text and
// choices come from the built-in tables.
type Scripted struct {
	Scrap          int    // returned by ScrapYield
	Lore           string // returned by LoreFragment when non-empty
	D20Rolls       []int  // consumed in order, the last value repeats
	D6Roll         int
	OfferLocations bool // offer the first location choice on every look
	Sayings        bool // include idle sayings

	d20Calls int
}

func (s *Scripted) ScrapYield() int { return s.Scrap }

func (s *Scripted) LoreFragment() (string, bool) {
	return s.Lore, s.Lore != ""
}

func (s *Scripted) Dialogue(npc string, n int) string {
	return (&Random{}).Dialogue(npc, n)
}

func (s *Scripted) Saying(npc string) string {
	if !s.Sayings || len(sayings[npc]) == 0 {
		return ""
	}
	return sayings[npc][0]
}

func (s *Scripted) LocationChoice(compartment string) *state.BinaryChoice {
	choices := locationChoices[compartment]
	if !s.OfferLocations || len(choices) == 0 {
		return nil
	}
	c := choices[0]
	c.Location = compartment
	return c.Clone()
}

func (s *Scripted) InspectChoice(compartment, target string) *state.BinaryChoice {
	return (&Random{}).InspectChoice(compartment, target)
}

func (s *Scripted) FollowUp(id string) *state.BinaryChoice {
	return (&Random{}).FollowUp(id)
}

func (s *Scripted) LockerChoice() *state.BinaryChoice {
	return (&Random{}).LockerChoice()
}

func (s *Scripted) D20() int {
	if len(s.D20Rolls) == 0 {
		return 10
	}
	i := min(s.d20Calls, len(s.D20Rolls)-1)
	s.d20Calls++
	return s.D20Rolls[i]
}

func (s *Scripted) D6() int {
	if s.D6Roll == 0 {
		return 1
	}
	return s.D6Roll
}
