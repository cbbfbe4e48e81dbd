// Package commands is the static command set of the game.
package commands

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/great-transit/pkg/command"
)

// Costs in subjective time, and fixed effect sizes.
const (
	RepairCost   = 10.0
	RepairAmount = 15.0
	// EngineerRepairBonus is added to repairs made by an Engineer.
	EngineerRepairBonus = 5.0
	MineCost            = 20.0
	MoveCost            = 1.0

	SparDefense  = 10
	SparHitXP    = 10
	SparMissXP   = 5
	sparLocation = "engineering"

	lockerLocation = "cargoHold"
)

// All returns the command list in registration order. Later entries win
// alias collisions, so inspect is registered after look.
func All() []command.Command {
	return []command.Command{
		Status(),
		Check(),
		Repair(),
		Time(),
		Mine(),
		Move(),
		Look(),
		Inspect(),
		Inventory(),
		Talk(),
		Locker(),
		Spar(),
		Choose(),
		Feedback(),
		Help(),
	}
}

// NewRegistry builds a registry from All.
func NewRegistry() *command.Registry {
	return command.NewRegistry(All()...)
}

const bannerWidth = 40

func banner(title string) string {
	inner := bannerWidth - 2
	pad := inner - len(title)
	left := pad / 2
	right := pad - left
	var b strings.Builder
	b.WriteString("╔" + strings.Repeat("═", inner) + "╗\n")
	b.WriteString("║" + strings.Repeat(" ", left) + title + strings.Repeat(" ", right) + "║\n")
	b.WriteString("╚" + strings.Repeat("═", inner) + "╝")
	return b.String()
}

func needTime(cc *command.Context, cost float64, action string) (command.Result, bool) {
	if cc.Time.Spend(cost) {
		return command.Result{}, true
	}
	return command.Failf("Insufficient subjective time to %s. Requires %.0f, you have %.1f.",
		action, cost, cc.Time.State().SubjectiveTime), false
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
