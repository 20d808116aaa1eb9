package state

import (
	"fmt"

	"github.com/apu-inti/guardian/pkg/minigame"
	"github.com/apu-inti/guardian/pkg/scene"
)

func (gs *GameState) board(r scene.Region) (minigame.Board, scene.Mission, error) {
	switch r {
	case scene.RegionSierra:
		if gs.Sierra == nil {
			gs.Sierra = minigame.NewSierraBoard()
		}
		return gs.Sierra, scene.MissionSierra, nil
	case scene.RegionSelva:
		if gs.Selva == nil {
			gs.Selva = minigame.NewSelvaBoard()
		}
		return gs.Selva, scene.MissionSelva, nil
	}
	return nil, "", fmt.Errorf("%w: %s has no action board", ErrWrongScene, r)
}

// BoardAction runs an action on the Sierra or Selva board. The complete
// action sets the region flag and returns to the map.
func (e *Engine) BoardAction(gs *GameState, r scene.Region, action string) error {
	if err := e.requireScene(gs, r.Scene()); err != nil {
		return err
	}
	b, mission, err := gs.board(r)
	if err != nil {
		return err
	}

	if action == minigame.ActionComplete {
		if !b.CanComplete() {
			return fmt.Errorf("%w: %s goal not reached", ErrNotFinished, r)
		}
		gs.complete(mission)
		e.enter(gs, scene.Map)
		e.touch(gs)
		return nil
	}

	if err := b.Apply(action); err != nil {
		return err
	}
	e.touch(gs)
	return nil
}
