package state

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/great-transit/pkg/alignment"
	"github.com/jwebster45206/great-transit/pkg/pioneer"
)

// Flags set by commands.
const (
	FlagLockerOpened = "locker_opened"
)

// GameState holds the session fields other than the ship ledger and the
// dilation resource.
type GameState struct {
	ID              uuid.UUID       `json:"id"` // Unique ID per session
	Location        string          `json:"location"`
	Inventory       []string        `json:"inventory,omitempty"`
	Flags           map[string]bool `json:"flags,omitempty"`
	Alignment       alignment.State `json:"alignment"`
	PendingChoice   *BinaryChoice   `json:"pending_choice,omitempty"`
	GameTime        int64           `json:"game_time"` // ticks since the session began
	Conversations   map[string]int  `json:"conversations,omitempty"`
	Accomplishments []string        `json:"accomplishments,omitempty"`
	Pioneer         pioneer.Pioneer `json:"pioneer"`
	CombatXP        int             `json:"combat_xp"`
	Feedback        []FeedbackEntry `json:"feedback,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// FeedbackEntry is one report filed with the feedback command.
type FeedbackEntry struct {
	Message  string    `json:"message"`
	Location string    `json:"location"`
	GameTime int64     `json:"game_time"`
	At       time.Time `json:"at"`
}

func NewGameState(location string, p pioneer.Pioneer, now time.Time) *GameState {
	return &GameState{
		ID:            uuid.New(),
		Location:      location,
		Flags:         make(map[string]bool),
		Alignment:     alignment.NewState(),
		Conversations: make(map[string]int),
		Pioneer:       p,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// HasItem reports whether the inventory holds item, ignoring case.
func (gs *GameState) HasItem(item string) bool {
	return slices.ContainsFunc(gs.Inventory, func(i string) bool {
		return strings.EqualFold(i, item)
	})
}

// Flag reads a flag; unset flags are false.
func (gs *GameState) Flag(name string) bool {
	return gs.Flags[name]
}

// RecordConversation counts a conversation with npc and returns the new
// total.
func (gs *GameState) RecordConversation(npc string) int {
	if gs.Conversations == nil {
		gs.Conversations = make(map[string]int)
	}
	key := strings.ToLower(npc)
	gs.Conversations[key]++
	return gs.Conversations[key]
}

// HasAccomplishment reports whether id has been unlocked.
func (gs *GameState) HasAccomplishment(id string) bool {
	return slices.Contains(gs.Accomplishments, id)
}

// FiledFeedbackFrom reports whether a report was already filed from location.
func (gs *GameState) FiledFeedbackFrom(location string) bool {
	return slices.ContainsFunc(gs.Feedback, func(f FeedbackEntry) bool {
		return f.Location == location
	})
}

// Clone returns a deep copy suitable for a snapshot.
func (gs *GameState) Clone() GameState {
	cp := *gs
	cp.Inventory = slices.Clone(gs.Inventory)
	cp.Flags = maps.Clone(gs.Flags)
	cp.Conversations = maps.Clone(gs.Conversations)
	cp.Accomplishments = slices.Clone(gs.Accomplishments)
	cp.Feedback = slices.Clone(gs.Feedback)
	cp.Alignment.History = slices.Clone(gs.Alignment.History)
	cp.PendingChoice = gs.PendingChoice.Clone()
	return cp
}
