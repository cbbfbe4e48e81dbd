package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/great-transit/pkg/command"
	"github.com/jwebster45206/great-transit/pkg/dilation"
	"github.com/jwebster45206/great-transit/pkg/ship"
	"github.com/jwebster45206/great-transit/pkg/state"
)

// Rating names the overall condition of the ship.
func Rating(health float64) string {
	switch {
	case health > 75:
		return "NOMINAL"
	case health > 50:
		return "DEGRADED"
	case health > 25:
		return "CRITICAL"
	default:
		return "EMERGENCY"
	}
}

func Status() command.Command {
	return command.Command{
		Name:        "status",
		Aliases:     []string{"stat", "systems"},
		Description: "Show the full ship status report",
		Usage:       "status",
		Category:    command.CategorySystem,
		Handler:     handleStatus,
	}
}

func handleStatus(args []string, cc *command.Context) (command.Result, error) {
	health := cc.Ship.OverallHealth()
	ts := cc.Time.State()

	var b strings.Builder
	b.WriteString(banner("SHIP STATUS REPORT"))
	b.WriteString("\n\n")
	b.WriteString(cc.Ship.StatusReport())
	b.WriteString("\n\nTIME DILATATION\n")
	fmt.Fprintf(&b, "  Scale:           %.1fx\n", ts.TimeScale)
	fmt.Fprintf(&b, "  Subjective time: %.1f/%.0f (%.0f%%)\n", ts.SubjectiveTime, ts.MaxSubjectiveTime, cc.Time.Percent())
	fmt.Fprintf(&b, "\nOVERALL HEALTH: %.1f%%\n", health)
	fmt.Fprintf(&b, "GAME TIME:      %s\n", plural(int(cc.Game.GameTime), "tick"))
	fmt.Fprintf(&b, "STATUS:         %s", Rating(health))

	if alerts := cc.Ship.CheckAlerts(); len(alerts) > 0 {
		b.WriteString("\n\nALERTS:")
		for _, a := range alerts {
			b.WriteString("\n  ! " + a)
		}
	}
	return command.Ok(b.String()), nil
}

func Check() command.Command {
	return command.Command{
		Name:        "check",
		Description: "Check a single ship system",
		Usage:       "check <power|oxygen|hull|cryo>",
		Category:    command.CategorySystem,
		Handler:     handleCheck,
	}
}

func handleCheck(args []string, cc *command.Context) (command.Result, error) {
	if len(args) == 0 {
		return handleStatus(args, cc)
	}
	sys, ok := ship.ParseSystem(args[0])
	if !ok {
		return command.Failf("Unknown system '%s'. Valid systems: %s.", args[0], strings.Join(ship.SystemNames(), ", ")), nil
	}
	v, _ := cc.Ship.Systems().Get(sys)
	condition := "GOOD"
	switch {
	case v < ship.CriticalThreshold:
		condition = "CRITICAL"
	case v < ship.DangerThreshold:
		condition = "WARNING"
	}
	return command.Okf("%-8s: %s %.1f%% - %s", ship.Label(sys), ship.Gauge(v), v, condition), nil
}

func Repair() command.Command {
	return command.Command{
		Name:        "repair",
		Aliases:     []string{"fix"},
		Description: fmt.Sprintf("Repair a ship system (+%.0f%%, costs %.0f subjective time)", RepairAmount, RepairCost),
		Usage:       "repair <power|oxygen|hull|cryo>",
		Category:    command.CategorySystem,
		Handler:     handleRepair,
	}
}

func handleRepair(args []string, cc *command.Context) (command.Result, error) {
	if len(args) == 0 {
		return command.Failf("Repair what? Usage: repair <%s>", strings.Join(ship.SystemNames(), "|")), nil
	}
	sys, ok := ship.ParseSystem(args[0])
	if !ok {
		return command.Failf("Unknown system '%s'. Valid systems: %s.", args[0], strings.Join(ship.SystemNames(), ", ")), nil
	}
	before, _ := cc.Ship.Systems().Get(sys)
	if before >= ship.MaxLevel {
		return command.Failf("%s is already at full capacity.", ship.Label(sys)), nil
	}
	if res, ok := needTime(cc, RepairCost, "repair"); !ok {
		return res, nil
	}

	amount := RepairAmount
	if cc.Game.Pioneer.Rank.Title == "Engineer" {
		amount += EngineerRepairBonus
	}
	cc.Ship.Repair(string(sys), amount)
	after, _ := cc.Ship.Systems().Get(sys)

	return command.Result{
		Success: true,
		Message: fmt.Sprintf("Repaired %s: %.1f%% -> %.1f%%. Spent %.0f subjective time.",
			ship.Label(sys), before, after, RepairCost),
		Updates: &state.Delta{
			SubjectiveTimeSpent: RepairCost,
			Repaired:            &state.SystemChange{System: string(sys), Amount: after - before},
		},
	}, nil
}

var timeModes = map[string]float64{
	"slow":   dilation.MinScale,
	"normal": dilation.NormalScale,
	"fast":   dilation.MaxScale,
}

func Time() command.Command {
	return command.Command{
		Name:        "time",
		Aliases:     []string{"speed"},
		Description: "Show or change the time dilatation scale",
		Usage:       "time [slow|normal|fast|<0.5-2.0>]",
		Category:    command.CategorySystem,
		Handler:     handleTime,
	}
}

func handleTime(args []string, cc *command.Context) (command.Result, error) {
	ts := cc.Time.State()
	if len(args) == 0 {
		return command.Okf("Time scale: %.1fx\nSubjective time: %.1f/%.0f\nUsage: time [slow|normal|fast]",
			ts.TimeScale, ts.SubjectiveTime, ts.MaxSubjectiveTime), nil
	}

	scale, ok := timeModes[args[0]]
	if !ok {
		f, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return command.Failf("Unknown time mode '%s'. Use slow, normal or fast.", args[0]), nil
		}
		scale = f
	}
	if !(scale >= dilation.MinScale && scale <= dilation.MaxScale) {
		return command.Failf("Time scale must be between %.1fx and %.1fx.", dilation.MinScale, dilation.MaxScale), nil
	}
	if !cc.Time.SetTimeScale(scale) {
		return command.Fail("Subjective time depleted. Time can only run at normal speed until it recharges."), nil
	}
	return command.Result{
		Success: true,
		Message: fmt.Sprintf("Time scale set to %.1fx.", scale),
		Updates: &state.Delta{TimeScale: &scale},
	}, nil
}

func Mine() command.Command {
	return command.Command{
		Name:        "mine",
		Aliases:     []string{"dig", "extract"},
		Description: fmt.Sprintf("Mine asteroid debris for scrap (costs %.0f subjective time)", MineCost),
		Usage:       "mine",
		Category:    command.CategorySystem,
		Handler:     handleMine,
	}
}

func handleMine(args []string, cc *command.Context) (command.Result, error) {
	if balance := cc.Time.State().SubjectiveTime; balance < MineCost {
		return command.Failf("Insufficient subjective time to mine. Requires %.0f, you have %.1f.",
			MineCost, balance), nil
	}
	// Draw everything before spending so a failed roll costs nothing.
	yield := cc.Content.ScrapYield()
	lore, found := cc.Content.LoreFragment()
	if res, ok := needTime(cc, MineCost, "mine"); !ok {
		return res, nil
	}
	cc.Ship.AddScrap(float64(yield))

	var b strings.Builder
	fmt.Fprintf(&b, "You spend %.0f subjective time cutting through the debris field.\n", MineCost)
	fmt.Fprintf(&b, "Recovered %s. Scrap total: %d.", plural(yield, "unit"), int(cc.Ship.Systems().Scrap))
	if found {
		b.WriteString("\n\nSomething else glints in the debris:\n" + lore)
	}
	return command.Result{
		Success: true,
		Message: b.String(),
		Updates: &state.Delta{SubjectiveTimeSpent: MineCost, ScrapGained: float64(yield)},
	}, nil
}
