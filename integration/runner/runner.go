package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/great-transit/pkg/content"
	"github.com/jwebster45206/great-transit/pkg/engine"
	"github.com/jwebster45206/great-transit/pkg/pioneer"
	"github.com/jwebster45206/great-transit/pkg/ship"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

const defaultSeed = 1

// fixedTime keeps SavedAt and UpdatedAt stable across runs.
var fixedTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Runner plays suites against in-process sessions.
type Runner struct {
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

func NewRunner() *Runner {
	return &Runner{
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a YAML file
func LoadTestSuite(filename string) (TestSuite, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of TestJobs (one for regular tests, multiple for sequences)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes all steps in a test suite against one session
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	session, err := NewSession(suite)
	if err != nil {
		result.Error = fmt.Errorf("failed to seed session: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.SessionID = session.ID()

	for i, step := range suite.Steps {
		if err := ctx.Err(); err != nil {
			result.Error = fmt.Errorf("suite interrupted before step %d: %w", i, err)
			break
		}

		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.executeStep(&session, suite, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// NewSession builds the seeded session a suite starts from.
func NewSession(suite TestSuite) (*engine.Session, error) {
	seed := suite.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	provider := &content.Scripted{
		Scrap:          suite.Content.Scrap,
		Lore:           suite.Content.Lore,
		D20Rolls:       suite.Content.D20Rolls,
		D6Roll:         suite.Content.D6Roll,
		OfferLocations: suite.Content.OfferLocations,
	}
	clock := func() time.Time { return fixedTime }

	snap := engine.New(engine.WithSeed(seed), engine.WithClock(clock)).Snapshot()
	if err := applyStart(&snap, suite.Start); err != nil {
		return nil, err
	}
	return engine.Restore(snap, engine.WithContent(provider), engine.WithClock(clock), engine.WithSeed(seed))
}

func applyStart(snap *engine.Snapshot, st StartState) error {
	for name, v := range st.Systems {
		sys, ok := ship.ParseSystem(name)
		if !ok {
			return fmt.Errorf("unknown system %q in start state", name)
		}
		setSystem(&snap.Systems, sys, v)
	}
	if st.Scrap != nil {
		snap.Systems.Scrap = *st.Scrap
	}
	if st.SubjectiveTime != nil {
		snap.Time.SubjectiveTime = *st.SubjectiveTime
	}
	if st.TimeScale != nil {
		snap.Time.TimeScale = *st.TimeScale
	}
	if st.Location != "" {
		snap.Game.Location = st.Location
	}
	if st.Rank != "" {
		rank, ok := findRank(st.Rank)
		if !ok {
			return fmt.Errorf("unknown rank %q in start state", st.Rank)
		}
		snap.Game.Pioneer.Rank = rank
	}
	return nil
}

func setSystem(s *ship.Systems, sys ship.System, v float64) {
	switch sys {
	case ship.Power:
		s.Power = v
	case ship.Oxygen:
		s.Oxygen = v
	case ship.Hull:
		s.Hull = v
	case ship.Cryo:
		s.Cryo = v
	}
}

func findRank(title string) (pioneer.Rank, bool) {
	for _, r := range pioneer.Ranks {
		if strings.EqualFold(r.Title, title) {
			return r, true
		}
	}
	return pioneer.Rank{}, false
}

// executeStep runs one step, replacing *session on a reset.
func (r *Runner) executeStep(session **engine.Session, suite TestSuite, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	if step.Input == ResetSessionInput {
		fresh, err := NewSession(suite)
		if err != nil {
			result.Error = fmt.Errorf("failed to reset session: %w", err)
			result.Duration = time.Since(start)
			return result
		}
		*session = fresh
		result.IsReset = true
		result.ResponseText = "[SESSION RESET]"
		if err := checkExpectations(step.Expectations, fresh, nil, "", nil); err != nil {
			result.Error = fmt.Errorf("reset expectation failed: %w", err)
		} else {
			result.Success = true
		}
		result.Duration = time.Since(start)
		return result
	}

	s := *session
	var alerts []string
	for i := 0; i < step.Ticks; i++ {
		_, alerts = s.Step()
	}
	if step.Ticks == 0 {
		alerts = nil
	}

	var success *bool
	if step.Input != "" {
		res := s.Submit(step.Input)
		result.ResponseText = res.Message
		success = &res.Success
	}

	if step.Expectations.Alerts != nil && step.Ticks == 0 {
		result.Error = fmt.Errorf("alerts expectation needs ticks in the same step")
	} else if err := checkExpectations(step.Expectations, s, success, result.ResponseText, alerts); err != nil {
		result.Error = err
	} else {
		result.Success = true
	}
	if result.Error != nil && result.ResponseText != "" {
		result.Error = fmt.Errorf("%w\nresponse: %s", result.Error, result.ResponseText)
	}
	result.Duration = time.Since(start)
	return result
}

func checkExpectations(exp Expectations, s *engine.Session, success *bool, response string, alerts []string) error {
	snap := s.Snapshot()
	gs := snap.Game
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if exp.Success != nil {
		switch {
		case success == nil:
			fail("success expectation on a step without input")
		case *success != *exp.Success:
			fail("expected success=%v, got %v", *exp.Success, *success)
		}
	}
	if exp.Location != nil && gs.Location != *exp.Location {
		fail("expected location '%s', got '%s'", *exp.Location, gs.Location)
	}
	if exp.Inventory != nil {
		want := append([]string(nil), exp.Inventory...)
		got := append([]string(nil), gs.Inventory...)
		sort.Strings(want)
		sort.Strings(got)
		if strings.Join(want, "|") != strings.Join(got, "|") {
			fail("expected inventory %v, got %v", exp.Inventory, gs.Inventory)
		}
	}
	for flag, want := range exp.Flags {
		if gs.Flag(flag) != want {
			fail("expected flag %s=%v", flag, want)
		}
	}
	if exp.PendingChoice != nil {
		got := ""
		if gs.PendingChoice != nil {
			got = gs.PendingChoice.ID
		}
		if got != *exp.PendingChoice {
			fail("expected pending choice '%s', got '%s'", *exp.PendingChoice, got)
		}
	}
	if exp.Alignment != nil && string(gs.Alignment.Current) != *exp.Alignment {
		fail("expected alignment %s, got %s", *exp.Alignment, gs.Alignment.Current)
	}
	if exp.GameTime != nil && gs.GameTime != *exp.GameTime {
		fail("expected game time %d, got %d", *exp.GameTime, gs.GameTime)
	}
	if exp.TimeScale != nil && snap.Time.TimeScale != *exp.TimeScale {
		fail("expected time scale %.2f, got %.2f", *exp.TimeScale, snap.Time.TimeScale)
	}
	if exp.SubjectiveTime != nil {
		if msg := exp.SubjectiveTime.check(snap.Time.SubjectiveTime); msg != "" {
			fail("subjective time %s", msg)
		}
	}
	for name, b := range exp.Systems {
		var v float64
		if name == "scrap" {
			v = snap.Systems.Scrap
		} else {
			sys, ok := ship.ParseSystem(name)
			if !ok {
				fail("unknown system '%s' in expectations", name)
				continue
			}
			v, _ = snap.Systems.Get(sys)
		}
		if msg := b.check(v); msg != "" {
			fail("%s %s", name, msg)
		}
	}
	if exp.Alerts != nil && len(alerts) != *exp.Alerts {
		fail("expected %d alerts, got %d: %v", *exp.Alerts, len(alerts), alerts)
	}

	if success != nil {
		if err := checkResponse(exp, response); err != nil {
			errs = append(errs, err.Error())
		}
	} else if len(exp.ResponseContains) > 0 || len(exp.ResponseNotContains) > 0 || exp.ResponseRegex != "" {
		fail("response expectations on a step without input")
	}
	return joinErrors(errs)
}

func (b Bounds) check(v float64) string {
	const eps = 1e-9
	if b.Min != nil && v < *b.Min-eps {
		return fmt.Sprintf("%.4f below minimum %.4f", v, *b.Min)
	}
	if b.Max != nil && v > *b.Max+eps {
		return fmt.Sprintf("%.4f above maximum %.4f", v, *b.Max)
	}
	return ""
}

func joinErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(errs, "; "))
}

func checkResponse(exp Expectations, response string) error {
	var errs []string
	lower := strings.ToLower(response)
	for _, want := range exp.ResponseContains {
		if !strings.Contains(lower, strings.ToLower(want)) {
			errs = append(errs, fmt.Sprintf("response does not contain %q", want))
		}
	}
	for _, unwanted := range exp.ResponseNotContains {
		if strings.Contains(lower, strings.ToLower(unwanted)) {
			errs = append(errs, fmt.Sprintf("response unexpectedly contains %q", unwanted))
		}
	}
	if exp.ResponseRegex != "" {
		re, err := regexp.Compile(exp.ResponseRegex)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid response regex: %v", err))
		} else if !re.MatchString(response) {
			errs = append(errs, fmt.Sprintf("response does not match /%s/", exp.ResponseRegex))
		}
	}
	return joinErrors(errs)
}
