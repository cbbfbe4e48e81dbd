// Package command holds the command descriptor, the alias registry and the
// dispatcher that turns a line of player input into a Result.
package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/great-transit/pkg/content"
	"github.com/jwebster45206/great-transit/pkg/dilation"
	"github.com/jwebster45206/great-transit/pkg/layout"
	"github.com/jwebster45206/great-transit/pkg/ship"
	"github.com/jwebster45206/great-transit/pkg/state"
)

type Category string

const (
	CategorySystem     Category = "system"
	CategoryNavigation Category = "navigation"
	CategoryCrew       Category = "crew"
	CategoryInfo       Category = "info"
)

// Handler executes a command. A returned error is converted to a failure
// Result by the dispatcher.
type Handler func(args []string, cc *Context) (Result, error)

// Command describes one player verb.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	Category    Category
	Handler     Handler

	// ResolvesChoice marks the verbs admitted while a choice is pending.
	ResolvesChoice bool
}

// Result is what a command reports back to the presentation layer.
type Result struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Updates *state.Delta        `json:"updates,omitempty"`
	Choice  *state.BinaryChoice `json:"choice,omitempty"`
}

func Ok(msg string) Result {
	return Result{Success: true, Message: msg}
}

func Okf(format string, a ...any) Result {
	return Ok(fmt.Sprintf(format, a...))
}

func Fail(msg string) Result {
	return Result{Success: false, Message: msg}
}

func Failf(format string, a ...any) Result {
	return Fail(fmt.Sprintf(format, a...))
}

// Context is the live handle a handler mutates. It belongs to a single
// session and is never copied.
type Context struct {
	Ship     *ship.Heartbeat
	Time     *dilation.Manager
	Game     *state.GameState
	Layout   *layout.Layout
	Content  content.Provider
	Registry *Registry
	Logger   *slog.Logger
	Clock    func() time.Time

	// Verb is the token the player typed to invoke the running command.
	Verb string
	// Input is the trimmed line as typed, case preserved.
	Input string
}

// Now reads the context clock.
func (cc *Context) Now() time.Time {
	if cc.Clock == nil {
		return time.Now()
	}
	return cc.Clock()
}

// Compartment returns the compartment the pioneer is standing in.
func (cc *Context) Compartment() (*layout.Compartment, bool) {
	return cc.Layout.Compartment(cc.Game.Location)
}
