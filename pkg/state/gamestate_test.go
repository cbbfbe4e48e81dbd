package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jwebster45206/great-transit/pkg/alignment"
	"github.com/jwebster45206/great-transit/pkg/pioneer"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestState() *GameState {
	return NewGameState("cryoBay", pioneer.Pioneer{Serial: 42}, testTime)
}

func TestGameState_Apply(t *testing.T) {
	tests := []struct {
		name   string
		delta  *Delta
		verify func(t *testing.T, gs *GameState)
	}{
		{
			name:  "nil delta",
			delta: nil,
			verify: func(t *testing.T, gs *GameState) {
				if gs.Location != "cryoBay" {
					t.Errorf("expected location unchanged, got %s", gs.Location)
				}
			},
		},
		{
			name:  "move",
			delta: &Delta{UserLocation: "bridge"},
			verify: func(t *testing.T, gs *GameState) {
				if gs.Location != "bridge" {
					t.Errorf("expected bridge, got %s", gs.Location)
				}
			},
		},
		{
			name:  "inventory add is deduplicated",
			delta: &Delta{AddToInventory: []string{"Ration Pack", "ration pack", "Wrench"}},
			verify: func(t *testing.T, gs *GameState) {
				if len(gs.Inventory) != 2 {
					t.Errorf("expected 2 items, got %v", gs.Inventory)
				}
			},
		},
		{
			name:  "flags and unlocks",
			delta: &Delta{SetFlags: map[string]bool{FlagLockerOpened: true}, Unlock: []string{ChattyPioneer, ChattyPioneer}},
			verify: func(t *testing.T, gs *GameState) {
				if !gs.Flag(FlagLockerOpened) {
					t.Error("expected locker flag")
				}
				if len(gs.Accomplishments) != 1 || !gs.HasAccomplishment(ChattyPioneer) {
					t.Errorf("unexpected accomplishments %v", gs.Accomplishments)
				}
			},
		},
		{
			name:  "combat xp",
			delta: &Delta{CombatXP: 10},
			verify: func(t *testing.T, gs *GameState) {
				if gs.CombatXP != 10 {
					t.Errorf("expected 10 xp, got %d", gs.CombatXP)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := newTestState()
			gs.Apply(tt.delta, testTime.Add(time.Minute))
			tt.verify(t, gs)
		})
	}
}

func TestGameState_ApplyRemovesItems(t *testing.T) {
	gs := newTestState()
	gs.Inventory = []string{"Wrench", "Filter", "wrench"}
	gs.Apply(&Delta{RemoveFromInventory: []string{"WRENCH"}}, testTime)
	if len(gs.Inventory) != 1 || gs.Inventory[0] != "Filter" {
		t.Errorf("expected only Filter left, got %v", gs.Inventory)
	}
}

func TestGameState_ApplyResolvesChoice(t *testing.T) {
	gs := newTestState()
	gs.PendingChoice = &BinaryChoice{ID: "locker"}
	entry := gs.Apply(&Delta{ResolveChoice: &ChoiceOutcome{
		ChoiceID: "locker",
		Letter:   "A",
		Shift:    alignment.Shift{LawChaos: 5, GoodEvil: 10},
	}}, testTime)

	if gs.PendingChoice != nil {
		t.Error("expected pending choice to be cleared")
	}
	if entry == nil || entry.Choice != "locker:A" {
		t.Fatalf("unexpected alignment entry %+v", entry)
	}
	if gs.Alignment.Scores != (alignment.Scores{LawChaos: 5, GoodEvil: 10}) {
		t.Errorf("unexpected scores %+v", gs.Alignment.Scores)
	}
}

func TestGameState_RecordConversation(t *testing.T) {
	gs := &GameState{}
	for i := 1; i <= 3; i++ {
		if n := gs.RecordConversation("Briggs"); n != i {
			t.Errorf("expected count %d, got %d", i, n)
		}
	}
	if gs.Conversations["briggs"] != 3 {
		t.Errorf("expected key to be lowercased, got %v", gs.Conversations)
	}
}

func TestGameState_CloneIsDeep(t *testing.T) {
	gs := newTestState()
	gs.Inventory = []string{"Wrench"}
	gs.Flags["x"] = true
	gs.PendingChoice = &BinaryChoice{ID: "c", A: ChoiceOption{Grants: []string{"Token"}}}

	cp := gs.Clone()
	cp.Inventory[0] = "Hammer"
	cp.Flags["x"] = false
	cp.PendingChoice.A.Grants[0] = "Coin"

	if gs.Inventory[0] != "Wrench" || !gs.Flags["x"] || gs.PendingChoice.A.Grants[0] != "Token" {
		t.Error("mutating the clone changed the original")
	}
}

func TestGameState_JSONRoundTrip(t *testing.T) {
	gs := newTestState()
	gs.PendingChoice = &BinaryChoice{ID: "bridge-console", Frame: "A prompt blinks."}
	data, err := json.Marshal(gs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out GameState
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != gs.ID || out.PendingChoice == nil || out.PendingChoice.ID != "bridge-console" {
		t.Errorf("round trip lost fields: %+v", out)
	}
}

func TestDelta_IsEmpty(t *testing.T) {
	var nilDelta *Delta
	if !nilDelta.IsEmpty() || !(&Delta{}).IsEmpty() {
		t.Error("expected nil and zero deltas to be empty")
	}

	scale := 2.0
	nonEmpty := map[string]*Delta{
		"location":     {UserLocation: "bridge"},
		"flags":        {SetFlags: map[string]bool{"x": true}},
		"combat xp":    {CombatXP: 5},
		"feedback":     {Feedback: &FeedbackEntry{Message: "hi"}},
		"time spent":   {SubjectiveTimeSpent: 1},
		"scrap":        {ScrapGained: 3},
		"repair":       {Repaired: &SystemChange{System: "hull", Amount: 15}},
		"scale change": {TimeScale: &scale},
	}
	for name, d := range nonEmpty {
		if d.IsEmpty() {
			t.Errorf("%s: expected delta to be non-empty", name)
		}
	}
}

func TestGameState_ApplyFeedback(t *testing.T) {
	gs := newTestState()
	entry := FeedbackEntry{Message: "Vent 3 rattles", Location: "cryoBay", GameTime: 7, At: testTime}
	gs.Apply(&Delta{Feedback: &entry}, testTime)

	if len(gs.Feedback) != 1 || gs.Feedback[0] != entry {
		t.Fatalf("expected one feedback entry, got %+v", gs.Feedback)
	}
	if !gs.FiledFeedbackFrom("cryoBay") || gs.FiledFeedbackFrom("bridge") {
		t.Error("FiledFeedbackFrom reports the wrong compartments")
	}

	cp := gs.Clone()
	cp.Feedback[0].Message = "changed"
	if gs.Feedback[0].Message != "Vent 3 rattles" {
		t.Error("mutating the clone changed the original feedback")
	}
}

func TestBinaryChoice_Option(t *testing.T) {
	c := &BinaryChoice{
		Frame: "Decide.",
		A:     ChoiceOption{Letter: "A", Text: "Left"},
		B:     ChoiceOption{Letter: "B", Text: "Right"},
	}
	if o, ok := c.Option("b"); !ok || o.Text != "Right" {
		t.Errorf("expected option B, got %+v", o)
	}
	if _, ok := c.Option("c"); ok {
		t.Error("expected no option C")
	}
	if got := c.Prompt(); got != "Decide.\n\n[A] Left\n[B] Right" {
		t.Errorf("unexpected prompt %q", got)
	}
}
