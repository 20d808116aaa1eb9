package state

import (
	"fmt"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/i18n"
	"github.com/apu-inti/guardian/pkg/minigame"
	"github.com/apu-inti/guardian/pkg/scene"
)

// NewGame starts a session. An empty language uses the engine default.
func (e *Engine) NewGame(language string) (*GameState, error) {
	code := e.defaultLanguage
	if language != "" {
		tag, err := i18n.Parse(language)
		if err != nil {
			return nil, err
		}
		code = i18n.Code(tag)
	}
	gs := NewGameState(code, e.now())
	gs.Intro.Total = len(e.locale(gs).Story)
	return gs, nil
}

// Tick fires a due pending navigation. It returns true when the state
// changed and must be saved.
func (e *Engine) Tick(gs *GameState) bool {
	p := gs.Pending
	if p == nil || e.now().Before(p.At) {
		return false
	}
	gs.Pending = nil
	if gs.Scene == p.From {
		e.enter(gs, p.To)
	}
	e.touch(gs)
	return true
}

// Navigate moves to another scene along the scene graph. Region gates
// apply whichever scene the request comes from.
func (e *Engine) Navigate(gs *GameState, to scene.Scene) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", scene.ErrUnknownScene, to)
	}
	if gs.Scene == to {
		return nil
	}
	if !gs.Scene.Leads(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, gs.Scene, to)
	}
	if gs.Scene == scene.Intro && to == scene.Map && !gs.Intro.Finished() {
		return fmt.Errorf("%w: story is still playing", ErrNotFinished)
	}
	if !gs.Unlocked(to) {
		return fmt.Errorf("%w: %s", ErrSceneLocked, to)
	}
	gs.Pending = nil
	e.enter(gs, to)
	e.touch(gs)
	return nil
}

// enter switches scene and resets what the new screen starts fresh.
func (e *Engine) enter(gs *GameState, to scene.Scene) {
	loc := e.locale(gs)
	gs.Scene = to
	gs.DataPanel = false

	switch to {
	case scene.Intro:
		gs.Intro = Intro{Total: len(loc.Story)}
	case scene.Map:
		gs.Map.Selected = ""
	case scene.CostaM1:
		gs.Quiz = minigame.NewQuiz(len(loc.Quiz))
	case scene.CostaM2:
		gs.Fishing = minigame.NewFishing()
	case scene.CostaM3:
		gs.Cleanup = minigame.NewCleanup(loc.Trash)
	case scene.Sierra:
		if gs.Sierra == nil {
			gs.Sierra = minigame.NewSierraBoard()
		}
	case scene.Selva:
		if gs.Selva == nil {
			gs.Selva = minigame.NewSelvaBoard()
		}
	case scene.NASA:
		gs.VisitedNASA = true
	}
}

// SetLanguage switches every piece of content to another language.
func (e *Engine) SetLanguage(gs *GameState, language string) error {
	tag, err := i18n.Parse(language)
	if err != nil {
		return err
	}
	gs.Language = i18n.Code(tag)
	e.touch(gs)
	return nil
}

// AdvanceIntro shows the next story line. It is a no-op on the last line.
func (e *Engine) AdvanceIntro(gs *GameState) error {
	if gs.Scene != scene.Intro {
		return fmt.Errorf("%w: %s", ErrWrongScene, gs.Scene)
	}
	if gs.Intro.Total == 0 {
		gs.Intro.Total = len(e.locale(gs).Story)
	}
	if !gs.Intro.Finished() {
		gs.Intro.Line++
	}
	e.touch(gs)
	return nil
}

// ReplayIntro restarts the story from the first line.
func (e *Engine) ReplayIntro(gs *GameState) error {
	if gs.Scene != scene.Intro {
		return fmt.Errorf("%w: %s", ErrWrongScene, gs.Scene)
	}
	gs.Intro.Line = 0
	e.touch(gs)
	return nil
}

// ToggleDataPanel opens or closes the satellite overlay on a region hub.
// A nil visible flips the current state.
func (e *Engine) ToggleDataPanel(gs *GameState, visible *bool) (content.Panel, error) {
	r, ok := gs.Scene.Region()
	if !ok || gs.Scene.IsCostaMission() {
		return content.Panel{}, fmt.Errorf("%w: %s has no data panel", ErrWrongScene, gs.Scene)
	}
	if visible != nil {
		gs.DataPanel = *visible
	} else {
		gs.DataPanel = !gs.DataPanel
	}
	if gs.DataPanel {
		gs.DataConsulted = true
	}
	e.touch(gs)
	return e.locale(gs).DataPanels[string(r)], nil
}
