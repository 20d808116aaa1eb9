package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/apu-inti/guardian/pkg/state"
)

const (
	// PollInterval is how often to check the session for a scene change
	PollInterval = 250 * time.Millisecond
	// SceneTimeout is max time to wait for a scheduled scene change
	SceneTimeout = 30 * time.Second
)

// GetGameState retrieves the current session state
func GetGameState(ctx context.Context, client *http.Client, baseURL string, gameID uuid.UUID) (*state.GameState, error) {
	url := fmt.Sprintf("%s/v1/games/%s", baseURL, gameID.String())
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create game request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send game request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("game endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var gs state.GameState
	if err := json.NewDecoder(resp.Body).Decode(&gs); err != nil {
		return nil, fmt.Errorf("failed to decode game: %w", err)
	}
	return &gs, nil
}

// PollForScene polls the session until want is the active scene. Every
// read lets the server fire a due scheduled navigation.
func PollForScene(ctx context.Context, client *http.Client, baseURL string, gameID uuid.UUID, want string, interval, timeout time.Duration) (*state.GameState, error) {
	deadline := time.After(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		gs, err := GetGameState(ctx, client, baseURL, gameID)
		if err == nil && string(gs.Scene) == want {
			return gs, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for scene %q (waited %v)", want, timeout)
		case <-ticker.C:
		}
	}
}
