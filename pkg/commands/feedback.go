package commands

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/great-transit/pkg/command"
	"github.com/jwebster45206/great-transit/pkg/state"
)

// MaxFeedbackLength caps a single report.
const MaxFeedbackLength = 500

func Feedback() command.Command {
	return command.Command{
		Name:        "feedback",
		Aliases:     []string{"suggest", "report"},
		Description: "Submit feedback to the executive team",
		Usage:       "feedback <message>",
		Category:    command.CategoryInfo,
		Handler:     handleFeedback,
	}
}

func handleFeedback(args []string, cc *command.Context) (command.Result, error) {
	if len(args) == 0 {
		return command.Fail("Usage: feedback <your message>\n\n" +
			"Submit feedback, suggestions or bug reports to the C-Suite.\n" +
			"One report may be filed from each compartment."), nil
	}
	c, ok := cc.Compartment()
	if !ok {
		return command.Result{}, fmt.Errorf("pioneer is in unknown compartment %q", cc.Game.Location)
	}
	if cc.Game.FiledFeedbackFrom(c.ID) {
		return command.Failf("FEEDBACK DENIED: a report from the %s is already in the ledger.\n"+
			"Move to another compartment to file again.", c.Title()), nil
	}

	message := feedbackMessage(cc.Input, args)
	if len([]rune(message)) > MaxFeedbackLength {
		return command.Failf("Feedback is limited to %d characters.", MaxFeedbackLength), nil
	}

	now := cc.Now()
	delta := &state.Delta{Feedback: &state.FeedbackEntry{
		Message:  message,
		Location: c.ID,
		GameTime: cc.Game.GameTime,
		At:       now,
	}}
	cc.Game.Apply(delta, now)
	cc.Logger.Info("Feedback submitted",
		"location", c.ID,
		"length", len(message))

	var b strings.Builder
	b.WriteString("FEEDBACK SUBMITTED\n\n")
	fmt.Fprintf(&b, "From:     %s\n", cc.Game.Pioneer.Designation())
	fmt.Fprintf(&b, "Location: %s\n", c.Title())
	fmt.Fprintf(&b, "Time:     %s\n\n", plural(int(cc.Game.GameTime), "tick"))
	fmt.Fprintf(&b, "Message: \"%s\"\n\n", message)
	b.WriteString("Your feedback has been recorded in the executive ledger.")
	return command.Result{Success: true, Message: b.String(), Updates: delta}, nil
}

// feedbackMessage recovers the message with its original case. The
// dispatcher lowercases args, so they are only the fallback.
func feedbackMessage(input string, args []string) string {
	fields := strings.Fields(input)
	if len(fields) < 2 {
		return strings.Join(args, " ")
	}
	return strings.Join(fields[1:], " ")
}
