package commands

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/great-transit/pkg/alignment"
	"github.com/jwebster45206/great-transit/pkg/command"
	"github.com/jwebster45206/great-transit/pkg/state"
)

func Inventory() command.Command {
	return command.Command{
		Name:        "inventory",
		Aliases:     []string{"inv", "i", "items"},
		Description: "Show your pioneer, items and accomplishments",
		Usage:       "inventory",
		Category:    command.CategoryInfo,
		Handler:     handleInventory,
	}
}

func handleInventory(args []string, cc *command.Context) (command.Result, error) {
	gs := cc.Game
	p := gs.Pioneer

	var b strings.Builder
	b.WriteString(banner("PIONEER MANIFEST"))
	fmt.Fprintf(&b, "\n\n%s, %s", p.Designation(), p.Rank.Title)
	if p.Favored {
		b.WriteString(" (first wave)")
	}
	fmt.Fprintf(&b, "\nSTR %d  VIT %d  AGI %d", p.Stats.Strength, p.Stats.Vitality, p.Stats.Agility)
	fmt.Fprintf(&b, "\nAlignment: %s. %s", gs.Alignment.Current, alignment.Describe(gs.Alignment.Current))
	fmt.Fprintf(&b, "\nCombat XP: %d", gs.CombatXP)
	fmt.Fprintf(&b, "\nScrap: %d", int(cc.Ship.Systems().Scrap))

	b.WriteString("\n\nITEMS:")
	if len(gs.Inventory) == 0 {
		b.WriteString("\n  (empty)")
	}
	for _, item := range gs.Inventory {
		b.WriteString("\n  - " + item)
	}

	if len(gs.Accomplishments) > 0 {
		b.WriteString("\n\nACCOMPLISHMENTS:")
		for _, id := range gs.Accomplishments {
			a, ok := state.Accomplishments[id]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "\n  * %s - %s", a.Name, a.Description)
		}
	}
	return command.Ok(b.String()), nil
}

var categoryOrder = []struct {
	category command.Category
	title    string
}{
	{command.CategorySystem, "SHIP SYSTEMS"},
	{command.CategoryNavigation, "NAVIGATION"},
	{command.CategoryCrew, "CREW & DECISIONS"},
	{command.CategoryInfo, "INFORMATION"},
}

func Help() command.Command {
	return command.Command{
		Name:        "help",
		Aliases:     []string{"commands", "?"},
		Description: "List commands, or describe one",
		Usage:       "help [command]",
		Category:    command.CategoryInfo,
		Handler:     handleHelp,
	}
}

func handleHelp(args []string, cc *command.Context) (command.Result, error) {
	if cc.Registry == nil {
		return command.Result{}, fmt.Errorf("no command registry available")
	}
	if len(args) > 0 {
		c, ok := cc.Registry.Lookup(args[0])
		if !ok {
			return command.Failf("No help for '%s'.", args[0]), nil
		}
		msg := fmt.Sprintf("%s - %s\nUsage: %s", c.Name, c.Description, c.Usage)
		if len(c.Aliases) > 0 {
			msg += "\nAliases: " + strings.Join(c.Aliases, ", ")
		}
		return command.Ok(msg), nil
	}

	var b strings.Builder
	b.WriteString(banner("AVAILABLE COMMANDS"))
	for _, group := range categoryOrder {
		var lines []string
		for _, c := range cc.Registry.Commands() {
			if c.Category != group.category || !cc.Registry.Reachable(c) {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %-24s %s", c.Usage, c.Description))
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n\n" + group.title + "\n")
		b.WriteString(strings.Join(lines, "\n"))
	}
	b.WriteString("\n\nType 'help <command>' for details and aliases.")
	return command.Ok(b.String()), nil
}
