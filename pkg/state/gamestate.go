package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/apu-inti/guardian/pkg/minigame"
	"github.com/apu-inti/guardian/pkg/path"
	"github.com/apu-inti/guardian/pkg/scene"
)

// GameState is the full state of one play session.
type GameState struct {
	ID        uuid.UUID              `json:"id"`                  // Unique ID per session
	Language  string                 `json:"language"`            // Content locale code, "es" or "en"
	Scene     scene.Scene            `json:"scene"`               // Active screen
	Completed map[scene.Mission]bool `json:"completed,omitempty"` // Mission completion flags
	Intro     Intro                  `json:"intro"`
	Map       MapState               `json:"map"`

	Quiz    *minigame.Quiz        `json:"quiz,omitempty"`
	Fishing *minigame.Fishing     `json:"fishing,omitempty"`
	Cleanup *minigame.Cleanup     `json:"cleanup,omitempty"`
	Sierra  *minigame.SierraBoard `json:"sierra,omitempty"` // Kept for the whole session
	Selva   *minigame.SelvaBoard  `json:"selva,omitempty"`  // Kept for the whole session

	DataPanel     bool `json:"data_panel,omitempty"`     // Satellite overlay open on the current region
	VisitedNASA   bool `json:"visited_nasa,omitempty"`   // NASA center opened at least once
	DataConsulted bool `json:"data_consulted,omitempty"` // A data panel was opened at least once

	Pending *PendingNavigation `json:"pending,omitempty"` // Scheduled automatic scene change

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Intro tracks the narrative slideshow.
type Intro struct {
	Line  int `json:"line"`
	Total int `json:"total"`
}

// Finished reports whether the last story line is showing.
func (i Intro) Finished() bool {
	return i.Line >= i.Total-1
}

// MapState is the map screen: the walking character and the region panel.
type MapState struct {
	Character *path.Animator `json:"character"`
	Selected  scene.Region   `json:"selected,omitempty"`
}

// PendingNavigation is a scene change due at a point in time. It only
// fires while the player is still on From.
type PendingNavigation struct {
	From scene.Scene `json:"from"`
	To   scene.Scene `json:"to"`
	At   time.Time   `json:"at"`
}

// NewGameState starts a session on the main menu.
func NewGameState(language string, now time.Time) *GameState {
	return &GameState{
		ID:        uuid.New(),
		Language:  language,
		Scene:     scene.Menu,
		Completed: make(map[scene.Mission]bool),
		Map:       MapState{Character: path.NewAnimator()},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsCompleted reports whether a mission flag is set.
func (gs *GameState) IsCompleted(m scene.Mission) bool {
	return gs.Completed[m]
}

func (gs *GameState) complete(m scene.Mission) {
	if gs.Completed == nil {
		gs.Completed = make(map[scene.Mission]bool)
	}
	gs.Completed[m] = true
}

func (gs *GameState) character() *path.Animator {
	if gs.Map.Character == nil {
		gs.Map.Character = path.NewAnimator()
	}
	return gs.Map.Character
}

// Expired reports whether the session has been idle longer than ttl.
func (gs *GameState) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(gs.UpdatedAt) > ttl
}
