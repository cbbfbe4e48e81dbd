package state

import (
	"slices"
	"strings"
	"time"

	"github.com/jwebster45206/great-transit/pkg/alignment"
)

// Delta is a compact description of what a command changed. Handlers build
// one after validation and apply the game-state part with GameState.Apply;
// the ship and time fields report mutations already made to those
// components.
type Delta struct {
	UserLocation        string          `json:"user_location,omitempty"`
	AddToInventory      []string        `json:"add_to_inventory,omitempty"`
	RemoveFromInventory []string        `json:"remove_from_inventory,omitempty"`
	SetFlags            map[string]bool `json:"set_flags,omitempty"`
	Unlock              []string        `json:"unlock,omitempty"`
	CombatXP            int             `json:"combat_xp,omitempty"`
	ResolveChoice       *ChoiceOutcome  `json:"resolve_choice,omitempty"`
	Feedback            *FeedbackEntry  `json:"feedback,omitempty"`

	SubjectiveTimeSpent float64       `json:"subjective_time_spent,omitempty"`
	ScrapGained         float64       `json:"scrap_gained,omitempty"`
	Repaired            *SystemChange `json:"repaired,omitempty"`
	TimeScale           *float64      `json:"time_scale,omitempty"`
}

// ChoiceOutcome records which option of the pending choice was taken.
type ChoiceOutcome struct {
	ChoiceID string          `json:"choice_id"`
	Letter   string          `json:"letter"`
	Shift    alignment.Shift `json:"shift"`
}

// SystemChange records a change to one ship system.
type SystemChange struct {
	System string  `json:"system"`
	Amount float64 `json:"amount"`
}

// IsEmpty reports whether d changes nothing: no game-state field is set and
// the ship and time fields record no spend, scrap, repair or scale change.
// A nil Delta is empty.
func (d *Delta) IsEmpty() bool {
	return d == nil || (d.UserLocation == "" &&
		len(d.AddToInventory) == 0 &&
		len(d.RemoveFromInventory) == 0 &&
		len(d.SetFlags) == 0 &&
		len(d.Unlock) == 0 &&
		d.CombatXP == 0 &&
		d.ResolveChoice == nil &&
		d.Feedback == nil &&
		d.SubjectiveTimeSpent == 0 &&
		d.ScrapGained == 0 &&
		d.Repaired == nil &&
		d.TimeScale == nil)
}

// Apply commits the game-state part of d. A resolved choice shifts the
// alignment and clears the pending choice. It returns the alignment entry
// when one was recorded.
func (gs *GameState) Apply(d *Delta, at time.Time) *alignment.Entry {
	if d == nil {
		return nil
	}
	if d.UserLocation != "" {
		gs.Location = d.UserLocation
	}
	for _, item := range d.AddToInventory {
		if !gs.HasItem(item) {
			gs.Inventory = append(gs.Inventory, item)
		}
	}
	for _, item := range d.RemoveFromInventory {
		gs.Inventory = slices.DeleteFunc(gs.Inventory, func(i string) bool {
			return strings.EqualFold(i, item)
		})
	}
	for k, v := range d.SetFlags {
		if gs.Flags == nil {
			gs.Flags = make(map[string]bool)
		}
		gs.Flags[k] = v
	}
	for _, id := range d.Unlock {
		if !gs.HasAccomplishment(id) {
			gs.Accomplishments = append(gs.Accomplishments, id)
		}
	}
	gs.CombatXP += d.CombatXP
	if d.Feedback != nil {
		gs.Feedback = append(gs.Feedback, *d.Feedback)
	}

	var entry *alignment.Entry
	if d.ResolveChoice != nil {
		e := gs.Alignment.Apply(d.ResolveChoice.ChoiceID+":"+d.ResolveChoice.Letter, d.ResolveChoice.Shift, at)
		entry = &e
		gs.PendingChoice = nil
	}
	gs.UpdatedAt = at
	return entry
}
