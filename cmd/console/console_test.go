package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/great-transit/internal/config"
	"github.com/jwebster45206/great-transit/pkg/engine"
	"github.com/jwebster45206/great-transit/pkg/storage"
)

func newTestGame(t *testing.T, opts ...engine.Option) (*Game, *storage.MockStorage) {
	t.Helper()
	store := storage.NewMockStorage()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := NewGame(store, nil, logger, append([]engine.Option{engine.WithSeed(11)}, opts...)...)
	t.Cleanup(g.Stop)
	return g, store
}

func TestGame_SaveAndLoad(t *testing.T) {
	g, store := newTestGame(t)
	ctx := context.Background()

	require.True(t, g.Submit("move bridge").Success)
	first := g.Session().ID()
	sum, err := g.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, sum.ID)
	assert.Equal(t, "bridge", sum.Location)

	g.Reset()
	assert.NotEqual(t, first, g.Session().ID())
	assert.Equal(t, "cryoBay", g.Session().View().Location)

	// Latest save by default.
	_, err = g.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first, g.Session().ID())
	assert.Equal(t, "bridge", g.Session().View().Location)

	// By ID prefix.
	g.Reset()
	_, err = g.Load(ctx, first.String()[:8])
	require.NoError(t, err)
	assert.Equal(t, first, g.Session().ID())

	list, err := g.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.DeleteSnapshot(ctx, first))
	_, err = g.Load(ctx, first.String())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGame_LoadNothing(t *testing.T) {
	g, _ := newTestGame(t)
	_, err := g.Load(context.Background(), "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = g.Load(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGame_LoadKeepsTicking(t *testing.T) {
	g, _ := newTestGame(t, engine.WithTickInterval(2*time.Millisecond))
	_, err := g.Save(context.Background())
	require.NoError(t, err)

	g.Start()
	require.True(t, g.Session().Running())
	old := g.Session()

	_, err = g.Load(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, old.Running())
	assert.True(t, g.Session().Running())

	select {
	case tick := <-g.Ticks():
		assert.NotZero(t, tick.systems.Power)
	case <-time.After(2 * time.Second):
		t.Fatal("no tick after load")
	}
}

func sized(t *testing.T, g *Game) ConsoleUI {
	t.Helper()
	model, _ := NewConsoleUI(g).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(ConsoleUI)
}

func enter(t *testing.T, m ConsoleUI, input string) (ConsoleUI, tea.Cmd) {
	t.Helper()
	m.textarea.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return model.(ConsoleUI), cmd
}

func TestConsoleUI_RunsCommands(t *testing.T) {
	g, _ := newTestGame(t)
	m := sized(t, g)
	assert.True(t, m.ready)

	m, _ = enter(t, m, "status")
	assert.Contains(t, m.lastOutput, "SHIP STATUS REPORT")
	assert.Equal(t, "", m.textarea.Value())

	m, _ = enter(t, m, "fly")
	assert.Contains(t, m.lastOutput, "Unknown command")
	assert.Equal(t, entryFailure, m.entries[len(m.entries)-1].kind)

	assert.Equal(t, []string{"status", "fly"}, m.history)
	assert.Contains(t, m.View(), "GREAT TRANSIT")
}

func TestConsoleUI_History(t *testing.T) {
	g, _ := newTestGame(t)
	m := sized(t, g)
	m, _ = enter(t, m, "look")
	m, _ = enter(t, m, "status")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(ConsoleUI)
	assert.Equal(t, "status", m.textarea.Value())
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(ConsoleUI)
	assert.Equal(t, "look", m.textarea.Value())
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(ConsoleUI)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(ConsoleUI)
	assert.Equal(t, "", m.textarea.Value())
}

func TestConsoleUI_SaveCommand(t *testing.T) {
	g, store := newTestGame(t)
	m := sized(t, g)

	m, cmd := enter(t, m, "/save")
	require.NotNil(t, cmd)
	msg := cmd()
	saved, ok := msg.(storeMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.True(t, strings.HasPrefix(saved.notice, "Saved "))

	model, _ := m.Update(msg)
	m = model.(ConsoleUI)
	assert.Equal(t, entryNotice, m.entries[len(m.entries)-1].kind)

	list, err := store.ListSnapshots(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, cmd = enter(t, m, "/load nope")
	loaded := cmd().(storeMsg)
	assert.Error(t, loaded.err)
}

func TestConsoleUI_Alerts(t *testing.T) {
	g, _ := newTestGame(t)
	m := sized(t, g)
	id := g.Session().ID()
	before := len(m.entries)

	alerts := []string{"CRITICAL: Power at 10.0%"}
	for i := 0; i < 3; i++ {
		model, cmd := m.Update(tickMsg{sessionID: id, alerts: alerts})
		m = model.(ConsoleUI)
		assert.NotNil(t, cmd)
	}
	assert.Len(t, m.entries, before+1)
	assert.Equal(t, entryAlert, m.entries[len(m.entries)-1].kind)

	// Ticks from a replaced session are ignored.
	model, _ := m.Update(tickMsg{alerts: []string{"WARNING: Hull at 40.0%"}})
	m = model.(ConsoleUI)
	assert.Len(t, m.entries, before+1)
}

func TestConsoleUI_QuitModal(t *testing.T) {
	g, _ := newTestGame(t)
	m := sized(t, g)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = model.(ConsoleUI)
	assert.True(t, m.showQuitModal)
	assert.Contains(t, m.View(), "Abandon Ship?")

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = model.(ConsoleUI)
	assert.False(t, m.showQuitModal)

	_, cmd := enter(t, m, "/quit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestConsoleUI_SlashCommands(t *testing.T) {
	g, _ := newTestGame(t)
	m := sized(t, g)

	m, _ = enter(t, m, "/help")
	assert.Contains(t, m.entries[len(m.entries)-1].text, "Console keys")

	m, _ = enter(t, m, "/bogus")
	assert.Equal(t, entryFailure, m.entries[len(m.entries)-1].kind)

	m, _ = enter(t, m, "/clear")
	assert.Empty(t, m.entries)

	first := g.Session().ID()
	m, _ = enter(t, m, "/new")
	assert.NotEqual(t, first, g.Session().ID())
	assert.Len(t, m.entries, 1)
}

func TestSessionOptions(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"PIONEER_SERIAL": "8", "SEED": "5"})
	require.NoError(t, err)

	s := engine.New(sessionOptions(cfg)...)
	v := s.View()
	assert.Equal(t, 8, v.Pioneer.Serial)
	assert.True(t, v.Pioneer.Favored)
}
