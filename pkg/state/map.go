package state

import (
	"errors"

	"github.com/apu-inti/guardian/pkg/path"
	"github.com/apu-inti/guardian/pkg/scene"
)

// Walk animates the character toward a region. Locked regions can be
// walked to; only entering them is gated.
func (e *Engine) Walk(gs *GameState, r scene.Region) (*path.Result, error) {
	if err := e.requireScene(gs, scene.Map); err != nil {
		return nil, err
	}
	target, err := path.Target(r)
	if err != nil {
		return nil, err
	}
	res, err := gs.character().WalkTo(target, e.now(), e.frameInterval, e.rand)
	if err != nil {
		return nil, err
	}
	e.touch(gs)
	return res, nil
}

// SelectRegion opens the region panel and starts a walk toward it. The
// panel opens even while a previous walk is in flight, in which case the
// returned result is nil.
func (e *Engine) SelectRegion(gs *GameState, r scene.Region) (*path.Result, error) {
	if err := e.requireScene(gs, scene.Map); err != nil {
		return nil, err
	}
	if _, err := path.Target(r); err != nil {
		return nil, err
	}
	gs.Map.Selected = r
	res, err := e.Walk(gs, r)
	if errors.Is(err, path.ErrAnimating) {
		e.touch(gs)
		return nil, nil
	}
	return res, err
}
