package commands

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/great-transit/pkg/command"
	"github.com/jwebster45206/great-transit/pkg/state"
)

func Choose() command.Command {
	return command.Command{
		Name:           "choose",
		Aliases:        []string{"a", "b", "option"},
		Description:    "Answer a pending decision",
		Usage:          "a | b | choose <a|b>",
		Category:       command.CategoryCrew,
		Handler:        handleChoose,
		ResolvesChoice: true,
	}
}

// fresh reports whether choice should be offered: it exists and has not
// been resolved before in this session.
func fresh(cc *command.Context, choice *state.BinaryChoice) bool {
	return choice != nil && !cc.Game.Flag(state.ChoiceFlag(choice.ID))
}

func handleChoose(args []string, cc *command.Context) (command.Result, error) {
	letter := cc.Verb
	if letter != "a" && letter != "b" {
		if len(args) == 0 {
			return command.Fail("Choose which option? Usage: choose <a|b>"), nil
		}
		letter = args[0]
	}

	pending := cc.Game.PendingChoice
	if pending == nil {
		return command.Fail("There is no decision awaiting you."), nil
	}
	opt, ok := pending.Option(letter)
	if !ok {
		return command.Failf("'%s' is not an option. Choose A or B.", letter), nil
	}

	delta := &state.Delta{
		AddToInventory: opt.Grants,
		SetFlags:       map[string]bool{state.ChoiceFlag(pending.ID): true},
		ResolveChoice: &state.ChoiceOutcome{
			ChoiceID: pending.ID,
			Letter:   strings.ToUpper(letter),
			Shift:    opt.Impact,
		},
	}
	entry := cc.Game.Apply(delta, cc.Now())

	var b strings.Builder
	b.WriteString(opt.ResultText)
	for _, item := range opt.Grants {
		fmt.Fprintf(&b, "\nReceived: %s", item)
	}
	if entry != nil && entry.Changed() {
		fmt.Fprintf(&b, "\n\nSomething in you shifts. You feel %s.", entry.Current)
	}

	res := command.Result{Success: true, Updates: delta}
	if opt.Next != "" {
		if next := cc.Content.FollowUp(opt.Next); fresh(cc, next) {
			res.Choice = next
			b.WriteString("\n\n" + next.Prompt())
		}
	}
	res.Message = b.String()
	return res, nil
}
