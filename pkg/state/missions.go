package state

import (
	"fmt"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/minigame"
	"github.com/apu-inti/guardian/pkg/scene"
)

func (e *Engine) requireScene(gs *GameState, want scene.Scene) error {
	if gs.Scene != want {
		return fmt.Errorf("%w: %s requires %s", ErrWrongScene, gs.Scene, want)
	}
	return nil
}

// AnswerQuiz answers the current question.
func (e *Engine) AnswerQuiz(gs *GameState, option int) (bool, error) {
	if err := e.requireScene(gs, scene.CostaM1); err != nil {
		return false, err
	}
	if gs.Quiz == nil {
		gs.Quiz = minigame.NewQuiz(len(e.locale(gs).Quiz))
	}
	questions := e.locale(gs).Quiz
	if gs.Quiz.Index >= len(questions) {
		return false, minigame.ErrFinished
	}
	ok, err := gs.Quiz.Answer(questions[gs.Quiz.Index], option)
	if err != nil {
		return false, err
	}
	e.touch(gs)
	return ok, nil
}

// NextQuestion advances the quiz. Passing the last question sets the
// mission flag and schedules the return to the Costa hub.
func (e *Engine) NextQuestion(gs *GameState) (bool, error) {
	if err := e.requireScene(gs, scene.CostaM1); err != nil {
		return false, err
	}
	if gs.Quiz == nil {
		return false, fmt.Errorf("%w: no quiz in progress", minigame.ErrNotAnswered)
	}
	done, err := gs.Quiz.Next()
	if err != nil {
		return done, err
	}
	if done {
		gs.complete(scene.MissionQuiz)
		gs.Pending = &PendingNavigation{
			From: scene.CostaM1,
			To:   scene.Costa,
			At:   e.now().Add(e.quizReturnDelay),
		}
	}
	e.touch(gs)
	return done, nil
}

// StartFishing deals a new fishing round.
func (e *Engine) StartFishing(gs *GameState) error {
	if err := e.requireScene(gs, scene.CostaM2); err != nil {
		return err
	}
	if gs.Fishing == nil {
		gs.Fishing = minigame.NewFishing()
	}
	if err := gs.Fishing.Start(e.locale(gs).Fish); err != nil {
		return err
	}
	e.touch(gs)
	return nil
}

// Catch pulls a fish out of the water.
func (e *Engine) Catch(gs *GameState, id int) (content.Item, error) {
	if err := e.requireScene(gs, scene.CostaM2); err != nil {
		return content.Item{}, err
	}
	if gs.Fishing == nil {
		gs.Fishing = minigame.NewFishing()
	}
	it, err := gs.Fishing.Catch(id, e.locale(gs).Fish)
	if err != nil {
		return content.Item{}, err
	}
	e.touch(gs)
	return it, nil
}

// CompleteFishing closes a finished round. A won round sets the mission
// flag and returns to the Costa hub; a lost one leaves the player on the
// mission screen to try again.
func (e *Engine) CompleteFishing(gs *GameState) (bool, error) {
	if err := e.requireScene(gs, scene.CostaM2); err != nil {
		return false, err
	}
	if gs.Fishing == nil {
		return false, ErrNotFinished
	}
	won, err := gs.Fishing.Complete()
	if err != nil {
		return false, err
	}
	if won {
		gs.complete(scene.MissionFishing)
		e.enter(gs, scene.Costa)
	}
	e.touch(gs)
	return won, nil
}

// PickTrash handles a click on the beach.
func (e *Engine) PickTrash(gs *GameState, id int) (content.Item, error) {
	if err := e.requireScene(gs, scene.CostaM3); err != nil {
		return content.Item{}, err
	}
	if gs.Cleanup == nil {
		gs.Cleanup = minigame.NewCleanup(e.locale(gs).Trash)
	}
	it, err := gs.Cleanup.Pick(id, e.locale(gs).Trash)
	if err != nil {
		return content.Item{}, err
	}
	e.touch(gs)
	return it, nil
}

// CompleteCleanup sets the cleanup flag once the beach is clean and
// returns to the Costa hub.
func (e *Engine) CompleteCleanup(gs *GameState) error {
	if err := e.requireScene(gs, scene.CostaM3); err != nil {
		return err
	}
	if gs.Cleanup == nil {
		return ErrNotFinished
	}
	if err := gs.Cleanup.Complete(); err != nil {
		return err
	}
	gs.complete(scene.MissionCleanup)
	e.enter(gs, scene.Costa)
	e.touch(gs)
	return nil
}
