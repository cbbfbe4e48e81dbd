package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func writeCase(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "one.yaml", "name: one\nsteps:\n  - input: status\n")
	writeCase(t, dir, "two.yaml", "steps:\n  - ticks: 2\n")
	seq := writeCase(t, dir, "all.yaml", "name: all\ncases: [one.yaml, two.yaml]\n")

	jobs, err := LoadTestSuiteWithExpansion(seq, dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "one", jobs[0].Name)
	assert.Equal(t, "two", jobs[1].Name)
	assert.Equal(t, 2, jobs[1].Suite.Steps[0].Ticks)

	bad := writeCase(t, dir, "bad.yaml", "name: bad\ncases: [missing.yaml]\n")
	_, err = LoadTestSuiteWithExpansion(bad, dir)
	assert.Error(t, err)
}

func TestRunSuite(t *testing.T) {
	suite := TestSuite{
		Name:  "inline",
		Start: StartState{Systems: map[string]float64{"hull": 40}},
		Steps: []TestStep{
			{Name: "tick", Ticks: 1, Expectations: Expectations{
				GameTime: ptr(int64(1)),
				Alerts:   ptr(1),
				Systems:  map[string]Bounds{"hull": {Min: ptr(39.98), Max: ptr(39.98)}},
			}},
			{Name: "move", Input: "move bridge", Expectations: Expectations{
				Success:  ptr(true),
				Location: ptr("bridge"),
			}},
			{Name: "reset", Input: ResetSessionInput, Expectations: Expectations{
				Location: ptr("cryoBay"),
				GameTime: ptr(int64(0)),
			}},
		},
	}

	result, err := NewRunner().RunSuite(context.Background(), suite)
	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	assert.True(t, result.Results[2].IsReset)
	for _, step := range result.Results {
		assert.True(t, step.Success, step.StepName)
	}
}

func TestRunSuite_ReportsFailures(t *testing.T) {
	suite := TestSuite{
		Steps: []TestStep{
			{Name: "wrong location", Input: "move bridge", Expectations: Expectations{Location: ptr("engineering")}},
			{Name: "alerts without ticks", Input: "status", Expectations: Expectations{Alerts: ptr(0)}},
			{Name: "unknown system", Ticks: 1, Expectations: Expectations{Systems: map[string]Bounds{"warp": {}}}},
		},
	}

	r := NewRunner()
	result, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	require.Len(t, result.Results, 3)
	for _, step := range result.Results {
		assert.False(t, step.Success, step.StepName)
	}

	r.ErrorHandlingMode = ErrorHandlingExit
	result, err = r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Len(t, result.Results, 1)
}

func TestNewSession_UnknownStart(t *testing.T) {
	_, err := NewSession(TestSuite{Start: StartState{Systems: map[string]float64{"warp": 1}}})
	assert.Error(t, err)

	_, err = NewSession(TestSuite{Start: StartState{Rank: "Admiral"}})
	assert.Error(t, err)
}

func TestCheckResponse(t *testing.T) {
	exp := Expectations{
		ResponseContains:    []string{"hull"},
		ResponseNotContains: []string{"oxygen"},
		ResponseRegex:       `\d+\.\d%`,
	}
	assert.NoError(t, checkResponse(exp, "Repaired HULL: 50.0% -> 65.0%"))
	assert.Error(t, checkResponse(exp, "OXYGEN and HULL"))
	assert.Error(t, checkResponse(Expectations{ResponseRegex: "("}, "x"))
}
