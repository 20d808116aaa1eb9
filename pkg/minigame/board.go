package minigame

import (
	"fmt"

	"github.com/apu-inti/guardian/pkg/meter"
)

// ActionComplete is the board action that closes a region mission.
const ActionComplete = "complete"

// ActionState describes one board button.
type ActionState struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
}

// Board is a region action board. Apply rejects actions that are not
// currently available with ErrActionUnavailable; completion is handled
// by the caller through CanComplete.
type Board interface {
	Actions() []ActionState
	Apply(action string) error
	CanComplete() bool
}

// Sierra actions.
const (
	ActionProtectCrops      = "protect-crops"
	ActionCultivateTerraces = "cultivate-terraces"
	ActionReforest          = "reforest"
)

// SierraGoal is the ecosystem level needed to complete the Sierra.
const SierraGoal = 80

// SierraBoard protects the Andean terraces.
type SierraBoard struct {
	Protection meter.Meter `json:"protection"`
	Forest     meter.Meter `json:"forest"`
	Ecosystem  meter.Meter `json:"ecosystem"`
}

var _ Board = (*SierraBoard)(nil)

// NewSierraBoard returns the board with its opening readings.
func NewSierraBoard() *SierraBoard {
	return &SierraBoard{Protection: 35, Forest: 40, Ecosystem: 45}
}

func (s *SierraBoard) available(action string) (bool, error) {
	switch action {
	case ActionProtectCrops:
		return !s.Protection.Full(), nil
	case ActionCultivateTerraces:
		return true, nil
	case ActionReforest:
		return s.Protection >= 30 && !s.Forest.Full(), nil
	case ActionComplete:
		return s.CanComplete(), nil
	}
	return false, fmt.Errorf("%w: sierra action %q", ErrActionUnavailable, action)
}

// Actions lists the buttons with their enabled state.
func (s *SierraBoard) Actions() []ActionState {
	return actionStates(s.available, ActionProtectCrops, ActionCultivateTerraces, ActionReforest, ActionComplete)
}

// Apply runs one board action.
func (s *SierraBoard) Apply(action string) error {
	ok, err := s.available(action)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrActionUnavailable, action)
	}
	switch action {
	case ActionProtectCrops:
		s.Protection = s.Protection.Add(20)
		s.Ecosystem = s.Ecosystem.Add(15)
	case ActionCultivateTerraces:
		s.Ecosystem = s.Ecosystem.Add(10)
	case ActionReforest:
		// At exactly 30 the button is enabled but has no effect.
		if s.Protection > 30 {
			s.Protection = s.Protection.Add(-10)
			s.Forest = s.Forest.Add(25)
			s.Ecosystem = s.Ecosystem.Add(20)
		}
	}
	return nil
}

// CanComplete reports whether the Sierra goal has been reached.
func (s *SierraBoard) CanComplete() bool {
	return s.Ecosystem >= SierraGoal
}

// Selva actions.
const (
	ActionStopDeforestation = "stop-deforestation"
	ActionPlantTrees        = "plant-trees"
	ActionActivateSensors   = "activate-sensors"
)

// Selva completion thresholds.
const (
	SelvaGoal          = 85
	SelvaDeforestation = 10
)

// SelvaBoard protects the Amazon.
type SelvaBoard struct {
	Biodiversity  meter.Meter `json:"biodiversity"`
	CO2           meter.Meter `json:"co2"`
	Ecosystem     meter.Meter `json:"ecosystem"`
	Deforestation meter.Meter `json:"deforestation"`
}

var _ Board = (*SelvaBoard)(nil)

// NewSelvaBoard returns the board with its opening readings.
func NewSelvaBoard() *SelvaBoard {
	return &SelvaBoard{Biodiversity: 65, CO2: 40, Ecosystem: 55, Deforestation: 30}
}

func (s *SelvaBoard) available(action string) (bool, error) {
	switch action {
	case ActionStopDeforestation:
		return !s.Deforestation.Empty(), nil
	case ActionPlantTrees:
		return s.Deforestation < 20 && !s.CO2.Full(), nil
	case ActionActivateSensors:
		return true, nil
	case ActionComplete:
		return s.CanComplete(), nil
	}
	return false, fmt.Errorf("%w: selva action %q", ErrActionUnavailable, action)
}

// Actions lists the buttons with their enabled state.
func (s *SelvaBoard) Actions() []ActionState {
	return actionStates(s.available, ActionStopDeforestation, ActionPlantTrees, ActionActivateSensors, ActionComplete)
}

// Apply runs one board action.
func (s *SelvaBoard) Apply(action string) error {
	ok, err := s.available(action)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrActionUnavailable, action)
	}
	switch action {
	case ActionStopDeforestation:
		s.Deforestation = s.Deforestation.Add(-15)
		s.Ecosystem = s.Ecosystem.Add(20)
		s.Biodiversity = s.Biodiversity.Add(10)
	case ActionPlantTrees:
		s.CO2 = s.CO2.Add(25)
		s.Biodiversity = s.Biodiversity.Add(15)
		s.Ecosystem = s.Ecosystem.Add(15)
	case ActionActivateSensors:
		s.Biodiversity = s.Biodiversity.Add(5)
		s.Ecosystem = s.Ecosystem.Add(5)
	}
	return nil
}

// CanComplete reports whether the Selva goals have been reached.
func (s *SelvaBoard) CanComplete() bool {
	return s.Ecosystem >= SelvaGoal && s.Deforestation < SelvaDeforestation
}

func actionStates(avail func(string) (bool, error), ids ...string) []ActionState {
	out := make([]ActionState, 0, len(ids))
	for _, id := range ids {
		ok, _ := avail(id)
		out = append(out, ActionState{ID: id, Available: ok})
	}
	return out
}
