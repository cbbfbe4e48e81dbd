package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/great-transit/pkg/ship"
	"github.com/jwebster45206/great-transit/pkg/state"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeTick          EventType = "session.tick"
	EventTypeAlert         EventType = "ship.alert"
	EventTypeCommand       EventType = "command.executed"
	EventTypeChoiceOffered EventType = "choice.offered"
	EventTypeSaved         EventType = "session.saved"
	EventTypeFeedback      EventType = "feedback.submitted"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	GameTime  int64          `json:"game_time"`
	Data      map[string]any `json:"data,omitempty"`
}

// Channel is the pub/sub channel carrying one session's events.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("session-events:%s", sessionID.String())
}

// Broadcaster publishes session events to Redis Pub/Sub for observers
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishTick publishes the ledger after a tick, plus any alerts it raised.
func (b *Broadcaster) PublishTick(ctx context.Context, sessionID uuid.UUID, gameTime int64, systems ship.Systems, alerts []string) error {
	event := Event{
		Type:      EventTypeTick,
		SessionID: sessionID.String(),
		GameTime:  gameTime,
		Data: map[string]any{
			"power":  systems.Power,
			"oxygen": systems.Oxygen,
			"hull":   systems.Hull,
			"cryo":   systems.Cryo,
			"scrap":  systems.Scrap,
		},
	}
	if err := b.publish(ctx, sessionID, event); err != nil {
		return err
	}
	if len(alerts) == 0 {
		return nil
	}
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeAlert,
		SessionID: sessionID.String(),
		GameTime:  gameTime,
		Data:      map[string]any{"alerts": alerts},
	})
}

func (b *Broadcaster) PublishCommand(ctx context.Context, sessionID uuid.UUID, gameTime int64, verb string, success bool) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeCommand,
		SessionID: sessionID.String(),
		GameTime:  gameTime,
		Data: map[string]any{
			"verb":    verb,
			"success": success,
		},
	})
}

func (b *Broadcaster) PublishChoiceOffered(ctx context.Context, sessionID uuid.UUID, gameTime int64, choiceID string) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeChoiceOffered,
		SessionID: sessionID.String(),
		GameTime:  gameTime,
		Data:      map[string]any{"choice_id": choiceID},
	})
}

func (b *Broadcaster) PublishSaved(ctx context.Context, sessionID uuid.UUID, gameTime int64) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeSaved,
		SessionID: sessionID.String(),
		GameTime:  gameTime,
	})
}

// PublishFeedback forwards a filed report to whoever collects feedback.
func (b *Broadcaster) PublishFeedback(ctx context.Context, sessionID uuid.UUID, entry state.FeedbackEntry) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeFeedback,
		SessionID: sessionID.String(),
		GameTime:  entry.GameTime,
		Data: map[string]any{
			"message":  entry.Message,
			"location": entry.Location,
		},
	})
}

func (b *Broadcaster) publish(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"game_time", event.GameTime,
	)
	return nil
}

// Subscribe decodes one session's events until ctx is done. The returned
// channel is closed when the subscription ends.
func Subscribe(ctx context.Context, client *redis.Client, sessionID uuid.UUID, logger *slog.Logger) (<-chan Event, error) {
	pubsub := client.Subscribe(ctx, Channel(sessionID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Warn("Dropping malformed event", "error", err, "channel", msg.Channel)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
