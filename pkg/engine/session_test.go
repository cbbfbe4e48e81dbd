package engine

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/great-transit/pkg/alignment"
	"github.com/jwebster45206/great-transit/pkg/content"
	"github.com/jwebster45206/great-transit/pkg/dilation"
	"github.com/jwebster45206/great-transit/pkg/pioneer"
	"github.com/jwebster45206/great-transit/pkg/ship"
)

var testTime = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, opts ...Option) (*Session, *content.Scripted) {
	t.Helper()
	scripted := &content.Scripted{Scrap: 2}
	base := []Option{
		WithContent(scripted),
		WithClock(func() time.Time { return testTime }),
		WithPioneer(pioneer.Pioneer{Serial: 7, Rank: pioneer.Ranks[0], Stats: pioneer.Stats{Strength: 6, Vitality: 6, Agility: 6}, Favored: true}),
	}
	return New(append(base, opts...)...), scripted
}

func TestNew_Defaults(t *testing.T) {
	s, _ := newTestSession(t)
	v := s.View()
	assert.Equal(t, "cryoBay", v.Location)
	assert.Equal(t, "Cryo-Bay", v.LocationName)
	assert.Equal(t, ship.DefaultSystems(), v.Systems)
	assert.Equal(t, dilation.DefaultState(), v.Time)
	assert.Equal(t, 7, v.Pioneer.Serial)
	assert.Nil(t, v.PendingChoice)
}

func TestNew_GeneratesPioneer(t *testing.T) {
	a := New(WithSeed(99)).View().Pioneer
	b := New(WithSeed(99)).View().Pioneer
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a.Serial, 1)
}

func TestNew_PioneerSerial(t *testing.T) {
	p := New(WithPioneerSerial(3), WithFavoredSerials([]int{3})).View().Pioneer
	assert.Equal(t, 3, p.Serial)
	assert.True(t, p.Favored)
	assert.True(t, pioneer.FavoredTotal.Contains(p.Stats.Total()))

	p = New(WithPioneerSerial(pioneer.MaxSerial + 1)).View().Pioneer
	assert.LessOrEqual(t, p.Serial, pioneer.MaxSerial)
}

func TestSession_Step(t *testing.T) {
	s, _ := newTestSession(t)
	systems, alerts := s.Step()

	assert.InDelta(t, 99.95, systems.Power, 1e-9)
	assert.InDelta(t, 99.97, systems.Oxygen, 1e-9)
	assert.InDelta(t, 99.98, systems.Hull, 1e-9)
	assert.InDelta(t, 99.99, systems.Cryo, 1e-9)
	assert.Empty(t, alerts)
	assert.Equal(t, int64(1), s.View().GameTime)
}

func TestSession_StepUsesPreTickMultiplier(t *testing.T) {
	snap := New().Snapshot()
	snap.Time = dilation.State{SubjectiveTime: 0.05, TimeScale: 2, MaxSubjectiveTime: 100}
	s, err := Restore(snap)
	require.NoError(t, err)

	// The dilation step inside this tick empties the balance and reverts the
	// scale, but the ship still decays at the scale in effect before it.
	systems, _ := s.Step()
	assert.InDelta(t, 100-0.05*2, systems.Power, 1e-9)

	v := s.View()
	assert.Equal(t, 0.0, v.Time.SubjectiveTime)
	assert.Equal(t, dilation.NormalScale, v.Time.TimeScale)

	systems, _ = s.Step()
	assert.InDelta(t, 100-0.05*2-0.05, systems.Power, 1e-9)
}

func TestSession_FastScaleDrain(t *testing.T) {
	s, err := Restore(Snapshot{
		Version: SnapshotVersion,
		Systems: ship.DefaultSystems(),
		Time:    dilation.State{SubjectiveTime: 5, TimeScale: 1, MaxSubjectiveTime: 100},
		Game:    *New().game,
	}, WithContent(&content.Scripted{}))
	require.NoError(t, err)
	require.True(t, s.Submit("time fast").Success)

	s.Step()
	v := s.View()
	assert.InDelta(t, 4.9, v.Time.SubjectiveTime, 1e-9)
	assert.InDelta(t, 100-0.05*2, v.Systems.Power, 1e-9)

	for i := 0; i < 100 && s.View().Time.TimeScale != dilation.NormalScale; i++ {
		s.Step()
	}
	v = s.View()
	assert.Equal(t, 0.0, v.Time.SubjectiveTime)
	assert.Equal(t, dilation.NormalScale, v.Time.TimeScale)
}

func TestSession_ChoiceGate(t *testing.T) {
	s, scripted := newTestSession(t)
	scripted.OfferLocations = true

	res := s.Submit("look")
	require.True(t, res.Success)
	require.NotNil(t, res.Choice)
	require.NotNil(t, s.View().PendingChoice)

	before := s.Snapshot()
	for _, input := range []string{"status", "move bridge", "", "fly", "help"} {
		res = s.Submit(input)
		assert.False(t, res.Success, input)
		assert.Contains(t, res.Message, "A decision is waiting for you")
	}
	after := s.Snapshot()
	assert.Equal(t, before.Game.Location, after.Game.Location)
	assert.Equal(t, before.Time, after.Time)

	res = s.Submit("option b")
	require.True(t, res.Success, res.Message)
	assert.Nil(t, s.View().PendingChoice)

	res = s.Submit("move bridge")
	assert.True(t, res.Success, res.Message)
}

func TestSession_IllegalMoveChangesNothing(t *testing.T) {
	s, _ := newTestSession(t)
	require.True(t, s.Submit("move bridge").Success)
	before := s.Snapshot()

	res := s.Submit("move engineering")
	assert.False(t, res.Success)
	after := s.Snapshot()
	assert.Equal(t, "bridge", after.Game.Location)
	assert.Equal(t, before.Time, after.Time)
	assert.Equal(t, before.Systems, after.Systems)
}

func TestSession_MoveByShorthand(t *testing.T) {
	s, _ := newTestSession(t)
	steps := []struct {
		input    string
		location string
	}{
		{"move e", "engineering"},
		{"move c", "cryoBay"},
		{"move g", "cargoHold"},
		{"move c", "cryoBay"},
		{"move b", "bridge"},
	}
	for _, step := range steps {
		res := s.Submit(step.input)
		require.True(t, res.Success, "%s: %s", step.input, res.Message)
		assert.Equal(t, step.location, s.View().Location, step.input)
	}
}

func TestSession_SnapshotRestore(t *testing.T) {
	s, _ := newTestSession(t)
	require.True(t, s.Submit("move cargo").Success)
	require.True(t, s.Submit("talk briggs").Success)
	require.True(t, s.Submit("locker").Success)
	s.Step()

	snap := s.Snapshot()
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, s.ID(), snap.ID)
	require.NotNil(t, snap.Game.PendingChoice)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := Restore(decoded, WithContent(&content.Scripted{}))
	require.NoError(t, err)
	assert.Equal(t, s.ID(), restored.ID())

	rv, sv := restored.View(), s.View()
	assert.Equal(t, sv.Systems, rv.Systems)
	assert.Equal(t, sv.Time, rv.Time)
	assert.Equal(t, sv.Location, rv.Location)
	assert.Equal(t, sv.GameTime, rv.GameTime)
	require.NotNil(t, rv.PendingChoice)

	res := restored.Submit("a")
	assert.True(t, res.Success, res.Message)

	// The original is unaffected by the restored copy.
	assert.NotNil(t, s.View().PendingChoice)
}

func TestRestore_Invalid(t *testing.T) {
	_, err := Restore(Snapshot{Version: "0.9"})
	assert.Error(t, err)

	snap := New().Snapshot()
	snap.Game.Location = "airlock"
	snap.Systems.Hull = 250
	snap.Time.TimeScale = 7
	s, err := Restore(snap)
	require.NoError(t, err)
	v := s.View()
	assert.Equal(t, "cryoBay", v.Location)
	assert.Equal(t, 100.0, v.Systems.Hull)
	assert.Equal(t, 1.0, v.Time.TimeScale)
}

func TestRestore_NormalizesAlignment(t *testing.T) {
	snap := New().Snapshot()
	snap.Game.Alignment.Scores = alignment.Scores{LawChaos: 500, GoodEvil: -900}
	snap.Game.Alignment.Current = alignment.LawfulGood

	s, err := Restore(snap)
	require.NoError(t, err)
	got := s.Snapshot().Game.Alignment
	assert.Equal(t, alignment.Scores{LawChaos: alignment.Limit, GoodEvil: -alignment.Limit}, got.Scores)
	assert.Equal(t, alignment.LawfulEvil, got.Current)

	// A missing classification is derived from the scores.
	snap = New().Snapshot()
	snap.Game.Alignment.Current = ""
	s, err = Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, alignment.TrueNeutral, s.Snapshot().Game.Alignment.Current)
}

func TestSession_StartStopConcurrent(t *testing.T) {
	s, _ := newTestSession(t, WithTickInterval(2*time.Millisecond))
	var ticks atomic.Int32
	s.Start(func(systems ship.Systems, alerts []string) { ticks.Add(1) })
	require.True(t, s.Running())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Submit("status")
				s.Snapshot()
			}
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	s.Stop()
	assert.False(t, s.Running())
	assert.GreaterOrEqual(t, ticks.Load(), int32(2))
	assert.GreaterOrEqual(t, s.View().GameTime, int64(ticks.Load()))
}
