package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/great-transit/pkg/ship"
	"github.com/jwebster45206/great-transit/pkg/state"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func next(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBroadcaster_TickAndAlerts(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := uuid.New()
	ch, err := Subscribe(ctx, client, id, testLogger())
	require.NoError(t, err)

	b := NewBroadcaster(client, testLogger())
	systems := ship.Systems{Power: 15, Oxygen: 80, Hull: 90, Cryo: 99, Scrap: 3}
	require.NoError(t, b.PublishTick(ctx, id, 12, systems, []string{"CRITICAL: Power at 15.0%"}))

	tick := next(t, ch)
	assert.Equal(t, EventTypeTick, tick.Type)
	assert.Equal(t, id.String(), tick.SessionID)
	assert.Equal(t, int64(12), tick.GameTime)
	assert.Equal(t, 15.0, tick.Data["power"])

	alert := next(t, ch)
	assert.Equal(t, EventTypeAlert, alert.Type)
	assert.Equal(t, []any{"CRITICAL: Power at 15.0%"}, alert.Data["alerts"])
}

func TestBroadcaster_OtherEvents(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := uuid.New()
	ch, err := Subscribe(ctx, client, id, testLogger())
	require.NoError(t, err)

	b := NewBroadcaster(client, testLogger())
	require.NoError(t, b.PublishTick(ctx, id, 1, ship.DefaultSystems(), nil))
	require.NoError(t, b.PublishCommand(ctx, id, 1, "repair", false))
	require.NoError(t, b.PublishChoiceOffered(ctx, id, 1, "locker-supply-check"))
	require.NoError(t, b.PublishSaved(ctx, id, 1))
	require.NoError(t, b.PublishFeedback(ctx, id, state.FeedbackEntry{Message: "Vent 3 rattles", Location: "cryoBay", GameTime: 4}))

	// A tick without alerts publishes a single event.
	assert.Equal(t, EventTypeTick, next(t, ch).Type)

	cmd := next(t, ch)
	assert.Equal(t, EventTypeCommand, cmd.Type)
	assert.Equal(t, "repair", cmd.Data["verb"])
	assert.Equal(t, false, cmd.Data["success"])

	choice := next(t, ch)
	assert.Equal(t, EventTypeChoiceOffered, choice.Type)
	assert.Equal(t, "locker-supply-check", choice.Data["choice_id"])

	assert.Equal(t, EventTypeSaved, next(t, ch).Type)

	fb := next(t, ch)
	assert.Equal(t, EventTypeFeedback, fb.Type)
	assert.Equal(t, int64(4), fb.GameTime)
	assert.Equal(t, "Vent 3 rattles", fb.Data["message"])
	assert.Equal(t, "cryoBay", fb.Data["location"])
}

func TestSubscribe_IgnoresOtherSessions(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())

	id := uuid.New()
	ch, err := Subscribe(ctx, client, id, testLogger())
	require.NoError(t, err)

	b := NewBroadcaster(client, testLogger())
	require.NoError(t, b.PublishSaved(ctx, uuid.New(), 5))
	mr.Publish(Channel(id), "not json")
	require.NoError(t, b.PublishSaved(ctx, id, 6))

	ev := next(t, ch)
	assert.Equal(t, int64(6), ev.GameTime)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestBroadcaster_PublishError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b := NewBroadcaster(client, testLogger())
	assert.Error(t, b.PublishSaved(ctx, uuid.New(), 1))
}
