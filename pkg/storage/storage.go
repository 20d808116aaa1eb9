package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/apu-inti/guardian/pkg/state"
)

// Storage persists game sessions. LoadGameState returns (nil, nil) when
// the session does not exist or has expired.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// GameState operations
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error
}
