package commands

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/great-transit/pkg/command"
	"github.com/jwebster45206/great-transit/pkg/content"
	"github.com/jwebster45206/great-transit/pkg/pioneer"
	"github.com/jwebster45206/great-transit/pkg/state"
)

var npcShorthand = map[string]string{
	"b":             content.NPCBriggs,
	"briggs":        content.NPCBriggs,
	"quartermaster": content.NPCBriggs,
}

func Talk() command.Command {
	return command.Command{
		Name:        "talk",
		Aliases:     []string{"speak", "chat", "t"},
		Description: "Talk to someone aboard the ship",
		Usage:       "talk <npc>",
		Category:    command.CategoryCrew,
		Handler:     handleTalk,
	}
}

func handleTalk(args []string, cc *command.Context) (command.Result, error) {
	if len(args) == 0 {
		return command.Fail("Talk to whom? Usage: talk <npc>\n\nKnown crew:\n  briggs - Quartermaster (Cargo Hold)"), nil
	}
	npc, ok := npcShorthand[args[0]]
	if !ok {
		return command.Failf("There is no one called '%s' aboard.", args[0]), nil
	}
	c, _ := cc.Compartment()
	if c == nil || !c.HasNPC(npc) {
		return command.Failf("%s is not here.", npcTitles[npc]), nil
	}

	n := cc.Game.RecordConversation(npc)
	var b strings.Builder
	b.WriteString(cc.Content.Dialogue(npc, n))
	if saying := cc.Content.Saying(npc); saying != "" {
		fmt.Fprintf(&b, "\n\n\"%s\"", saying)
	}

	delta := &state.Delta{}
	if n >= state.ChattyPioneerTalks && !cc.Game.HasAccomplishment(state.ChattyPioneer) {
		a := state.Accomplishments[state.ChattyPioneer]
		delta.Unlock = []string{a.ID}
		delta.AddToInventory = []string{a.Reward}
		fmt.Fprintf(&b, "\n\n*** ACCOMPLISHMENT UNLOCKED: %s ***\n%s\nBriggs tosses you a %s.",
			strings.ToUpper(a.Name), a.Description, a.Reward)
	}
	cc.Game.Apply(delta, cc.Now())

	res := command.Ok(b.String())
	if !delta.IsEmpty() {
		res.Updates = delta
	}
	return res, nil
}

func Locker() command.Command {
	return command.Command{
		Name:        "locker",
		Aliases:     []string{"storage"},
		Description: "Open your assigned supply locker",
		Usage:       "locker",
		Category:    command.CategoryCrew,
		Handler:     handleLocker,
	}
}

func handleLocker(args []string, cc *command.Context) (command.Result, error) {
	if cc.Game.Location != lockerLocation {
		return command.Fail("Your supply locker is in the Cargo Hold."), nil
	}
	if cc.Game.Flag(state.FlagLockerOpened) {
		return command.Ok("Your locker is empty. Briggs has already logged what you took."), nil
	}
	choice := cc.Content.LockerChoice()
	if choice == nil {
		return command.Ok("Your locker is empty."), nil
	}
	delta := &state.Delta{SetFlags: map[string]bool{state.FlagLockerOpened: true}}
	cc.Game.Apply(delta, cc.Now())
	return command.Result{
		Success: true,
		Message: choice.Prompt(),
		Updates: delta,
		Choice:  choice,
	}, nil
}

func Spar() command.Command {
	return command.Command{
		Name:        "spar",
		Aliases:     []string{"train"},
		Description: "Spar with the training dummy in Engineering",
		Usage:       "spar",
		Category:    command.CategoryCrew,
		Handler:     handleSpar,
	}
}

func handleSpar(args []string, cc *command.Context) (command.Result, error) {
	if cc.Game.Location != sparLocation {
		return command.Fail("The sparring dummy is in Engineering."), nil
	}
	actor, err := cc.Game.Pioneer.Actor()
	if err != nil {
		return command.Result{}, err
	}
	str, _ := actor.Attribute(pioneer.AttrStrength)

	roll := cc.Content.D20()
	total := roll + str
	var b strings.Builder
	fmt.Fprintf(&b, "You square up to the dummy.\nAttack roll: %d + %d STR = %d vs defense %d\n", roll, str, total, SparDefense)

	xp := SparMissXP
	if total >= SparDefense {
		damage := str/2 + cc.Content.D6()
		xp = SparHitXP
		fmt.Fprintf(&b, "HIT! The dummy rocks back on its bolts. %d damage.", damage)
	} else {
		b.WriteString("MISS. The dummy sways back and clips your shoulder.")
	}
	delta := &state.Delta{CombatXP: xp}
	cc.Game.Apply(delta, cc.Now())
	fmt.Fprintf(&b, "\n+%d combat XP (total %d).", xp, cc.Game.CombatXP)

	return command.Result{Success: true, Message: b.String(), Updates: delta}, nil
}
