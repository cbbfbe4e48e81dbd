package runner

import (
	"time"

	"github.com/google/uuid"
)

// Special inputs that trigger non-command actions
const (
	ResetSessionInput = "RESET_SESSION"
)

// TestSuite defines a complete playthrough scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name    string        `yaml:"name"`
	Seed    uint64        `yaml:"seed,omitempty"`
	Content ContentScript `yaml:"content,omitempty"` // Used for regular tests
	Start   StartState    `yaml:"start,omitempty"`   // Used for regular tests
	Steps   []TestStep    `yaml:"steps,omitempty"`   // Used for regular tests
	Cases   []string      `yaml:"cases,omitempty"`   // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// ContentScript pins the rolls and offers of the content provider.
type ContentScript struct {
	Scrap          int    `yaml:"scrap,omitempty"`
	Lore           string `yaml:"lore,omitempty"`
	D20Rolls       []int  `yaml:"d20_rolls,omitempty"`
	D6Roll         int    `yaml:"d6_roll,omitempty"`
	OfferLocations bool   `yaml:"offer_locations,omitempty"`
}

// StartState overrides parts of a fresh session before the first step.
type StartState struct {
	Systems        map[string]float64 `yaml:"systems,omitempty"`
	Scrap          *float64           `yaml:"scrap,omitempty"`
	SubjectiveTime *float64           `yaml:"subjective_time,omitempty"`
	TimeScale      *float64           `yaml:"time_scale,omitempty"`
	Location       string             `yaml:"location,omitempty"`
	Rank           string             `yaml:"rank,omitempty"`
}

// TestStep defines a single input and its expected outcomes. Ticks run
// before the input; a step may have only ticks.
// Use input: "RESET_SESSION" to reset to the original start state
type TestStep struct {
	Name         string       `yaml:"name,omitempty"`
	Ticks        int          `yaml:"ticks,omitempty"`
	Input        string       `yaml:"input,omitempty"`
	Expectations Expectations `yaml:"expect"`
}

// Bounds is an inclusive numeric range; either end may be omitted.
type Bounds struct {
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	// Session properties
	Success        *bool             `yaml:"success,omitempty"`
	Location       *string           `yaml:"location,omitempty"`
	Inventory      []string          `yaml:"inventory,omitempty"` // Full inventory contents (order independent)
	Flags          map[string]bool   `yaml:"flags,omitempty"`
	PendingChoice  *string           `yaml:"pending_choice,omitempty"` // Choice ID, or "" for none
	Alignment      *string           `yaml:"alignment,omitempty"`
	GameTime       *int64            `yaml:"game_time,omitempty"`
	TimeScale      *float64          `yaml:"time_scale,omitempty"`
	SubjectiveTime *Bounds           `yaml:"subjective_time,omitempty"`
	Systems        map[string]Bounds `yaml:"systems,omitempty"`
	Alerts         *int              `yaml:"alerts,omitempty"`

	// Response Analysis
	ResponseContains    []string `yaml:"response_contains,omitempty"`
	ResponseNotContains []string `yaml:"response_not_contains,omitempty"`
	ResponseRegex       string   `yaml:"response_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName     string
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
	IsReset      bool // True if this was a RESET_SESSION step (should not count toward pass/fail metrics)
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job       TestJob
	Results   []TestResult
	Error     error
	Duration  time.Duration
	SessionID uuid.UUID // ID of the session used for this test
}
