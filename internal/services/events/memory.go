package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// MemoryBroadcaster delivers events within one process. Slow subscribers
// miss events rather than blocking publishers.
type MemoryBroadcaster struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*memorySubscription]struct{}
	logger *slog.Logger
}

var _ Broadcaster = (*MemoryBroadcaster)(nil)

// NewMemoryBroadcaster creates an in-process broadcaster.
func NewMemoryBroadcaster(logger *slog.Logger) *MemoryBroadcaster {
	return &MemoryBroadcaster{
		subs:   make(map[uuid.UUID]map[*memorySubscription]struct{}),
		logger: logger,
	}
}

func (b *MemoryBroadcaster) Publish(ctx context.Context, gameID uuid.UUID, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[gameID] {
		select {
		case sub.events <- event:
		default:
			b.logger.Warn("Dropping event for slow subscriber", "game_id", gameID, "event_type", event.Type)
		}
	}
	return nil
}

func (b *MemoryBroadcaster) Subscribe(ctx context.Context, gameID uuid.UUID) (Subscription, error) {
	sub := &memorySubscription{
		broadcaster: b,
		gameID:      gameID,
		events:      make(chan Event, 16),
	}
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[*memorySubscription]struct{})
	}
	b.subs[gameID][sub] = struct{}{}
	b.mu.Unlock()
	return sub, nil
}

// Subscribers returns the number of open subscriptions for a game.
func (b *MemoryBroadcaster) Subscribers(gameID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[gameID])
}

func (b *MemoryBroadcaster) remove(sub *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.subs[sub.gameID]
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(b.subs, sub.gameID)
	}
	close(sub.events)
}

type memorySubscription struct {
	broadcaster *MemoryBroadcaster
	gameID      uuid.UUID
	events      chan Event
}

func (s *memorySubscription) Events() <-chan Event {
	return s.events
}

func (s *memorySubscription) Close() error {
	s.broadcaster.remove(s)
	return nil
}
