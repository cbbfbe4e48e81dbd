package commands

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/great-transit/pkg/command"
	"github.com/jwebster45206/great-transit/pkg/layout"
	"github.com/jwebster45206/great-transit/pkg/state"
)

func describeExits(l *layout.Layout, from string) string {
	exits := l.Exits(from)
	parts := make([]string, 0, len(exits))
	for _, c := range exits {
		parts = append(parts, fmt.Sprintf("[%s] %s", strings.ToUpper(c.Shorthand), c.Title()))
	}
	return strings.Join(parts, "  ")
}

func Move() command.Command {
	return command.Command{
		Name:        "move",
		Aliases:     []string{"go", "travel", "walk"},
		Description: fmt.Sprintf("Move to an adjacent compartment (costs %.0f subjective time)", MoveCost),
		Usage:       "move <compartment>",
		Category:    command.CategoryNavigation,
		Handler:     handleMove,
	}
}

func handleMove(args []string, cc *command.Context) (command.Result, error) {
	from := cc.Game.Location
	if len(args) == 0 {
		return command.Failf("Move where? Exits: %s", describeExits(cc.Layout, from)), nil
	}
	target := joinArgs(args)
	to, ok := cc.Layout.Resolve(target)
	if !ok {
		return command.Failf("Unknown destination '%s'. Exits: %s", target, describeExits(cc.Layout, from)), nil
	}
	dest, _ := cc.Layout.Compartment(to)
	if to == from {
		return command.Failf("You are already in the %s.", dest.Title()), nil
	}
	if !cc.Layout.CanMove(from, to) {
		return command.Failf("There is no passage to the %s from here. Exits: %s",
			dest.Title(), describeExits(cc.Layout, from)), nil
	}
	if res, ok := needTime(cc, MoveCost, "move"); !ok {
		return res, nil
	}

	delta := &state.Delta{UserLocation: to, SubjectiveTimeSpent: MoveCost}
	cc.Game.Apply(delta, cc.Now())
	return command.Result{
		Success: true,
		Message: fmt.Sprintf("You make your way to the %s.\n\n%s", dest.Title(), dest.Description),
		Updates: delta,
	}, nil
}

func Look() command.Command {
	return command.Command{
		Name:        "look",
		Aliases:     []string{"l"},
		Description: "Look around the current compartment",
		Usage:       "look",
		Category:    command.CategoryNavigation,
		Handler:     handleLook,
	}
}

var npcTitles = map[string]string{
	"briggs": "Quartermaster Briggs",
}

func handleLook(args []string, cc *command.Context) (command.Result, error) {
	c, ok := cc.Compartment()
	if !ok {
		return command.Result{}, fmt.Errorf("pioneer is in unknown compartment %q", cc.Game.Location)
	}

	var b strings.Builder
	b.WriteString(banner(strings.ToUpper(c.Name)))
	b.WriteString("\n\n")
	b.WriteString(c.Description)
	if c.Lore != "" {
		b.WriteString("\n\n" + c.Lore)
	}
	for _, npc := range c.NPCs {
		name := npcTitles[npc]
		if name == "" {
			name = npc
		}
		fmt.Fprintf(&b, "\n\n%s is here.", name)
	}
	if names := c.InspectableNames(); len(names) > 0 {
		b.WriteString("\n\nYou notice: " + strings.Join(names, ", "))
	}
	b.WriteString("\n\nExits: " + describeExits(cc.Layout, c.ID))

	res := command.Ok(b.String())
	if choice := cc.Content.LocationChoice(c.ID); fresh(cc, choice) {
		res.Choice = choice
		res.Message += "\n\n" + choice.Prompt()
	}
	return res, nil
}

func Inspect() command.Command {
	return command.Command{
		Name:        "inspect",
		Aliases:     []string{"examine", "study", "investigate"},
		Description: "Inspect something in the current compartment",
		Usage:       "inspect <thing>",
		Category:    command.CategoryNavigation,
		Handler:     handleInspect,
	}
}

func handleInspect(args []string, cc *command.Context) (command.Result, error) {
	c, ok := cc.Compartment()
	if !ok {
		return command.Result{}, fmt.Errorf("pioneer is in unknown compartment %q", cc.Game.Location)
	}
	if len(args) == 0 {
		return command.Failf("Inspect what? You notice: %s", strings.Join(c.InspectableNames(), ", ")), nil
	}
	target := joinArgs(args)
	text, ok := c.Inspect(target)
	if !ok {
		return command.Failf("You see no '%s' here.", target), nil
	}

	res := command.Ok(text)
	if choice := cc.Content.InspectChoice(c.ID, target); fresh(cc, choice) {
		res.Choice = choice
		res.Message += "\n\n" + choice.Prompt()
	}
	return res, nil
}
