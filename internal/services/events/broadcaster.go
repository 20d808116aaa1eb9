package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/apu-inti/guardian/pkg/scene"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeGameCreated      EventType = "game.created"
	EventTypeGameDeleted      EventType = "game.deleted"
	EventTypeSceneChanged     EventType = "scene.changed"
	EventTypeMissionCompleted EventType = "mission.completed"
	EventTypeLanguageChanged  EventType = "language.changed"
	EventTypeGameStateUpdated EventType = "game.state_updated"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	RequestID string         `json:"request_id,omitempty"`
	GameID    string         `json:"game_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	At        time.Time      `json:"at"`
}

// Broadcaster fans game events out to subscribers of the same game.
type Broadcaster interface {
	Publish(ctx context.Context, gameID uuid.UUID, event Event) error
	Subscribe(ctx context.Context, gameID uuid.UUID) (Subscription, error)
}

// Subscription delivers events for one game until closed.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

func channelName(gameID uuid.UUID) string {
	return "game-events:" + gameID.String()
}

func newEvent(t EventType, gameID uuid.UUID, requestID string, data map[string]any) Event {
	return Event{
		Type:      t,
		RequestID: requestID,
		GameID:    gameID.String(),
		Data:      data,
		At:        time.Now().UTC(),
	}
}

// GameCreated builds a game.created event.
func GameCreated(gameID uuid.UUID, requestID, language string) Event {
	return newEvent(EventTypeGameCreated, gameID, requestID, map[string]any{
		"language": language,
	})
}

// GameDeleted builds a game.deleted event.
func GameDeleted(gameID uuid.UUID, requestID string) Event {
	return newEvent(EventTypeGameDeleted, gameID, requestID, nil)
}

// SceneChanged builds a scene.changed event.
func SceneChanged(gameID uuid.UUID, requestID string, from, to scene.Scene) Event {
	return newEvent(EventTypeSceneChanged, gameID, requestID, map[string]any{
		"from": string(from),
		"to":   string(to),
	})
}

// MissionCompleted builds a mission.completed event.
func MissionCompleted(gameID uuid.UUID, requestID string, m scene.Mission) Event {
	return newEvent(EventTypeMissionCompleted, gameID, requestID, map[string]any{
		"mission": string(m),
	})
}

// LanguageChanged builds a language.changed event.
func LanguageChanged(gameID uuid.UUID, requestID, language string) Event {
	return newEvent(EventTypeLanguageChanged, gameID, requestID, map[string]any{
		"language": language,
	})
}

// GameStateUpdated builds a game.state_updated event for any other mutation.
func GameStateUpdated(gameID uuid.UUID, requestID, action string, sc scene.Scene) Event {
	return newEvent(EventTypeGameStateUpdated, gameID, requestID, map[string]any{
		"action": action,
		"scene":  string(sc),
	})
}
