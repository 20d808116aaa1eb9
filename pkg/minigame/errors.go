// Package minigame implements the scoring loops played inside missions:
// the quiz, the fishing and cleanup click games, and the Sierra and Selva
// action boards. Each game is a plain struct that serializes with the
// session; text comes from the content bundle at render time.
package minigame

import "errors"

var (
	ErrAlreadyAnswered   = errors.New("question already answered")
	ErrNotAnswered       = errors.New("question not answered")
	ErrInvalidOption     = errors.New("invalid option")
	ErrUnknownItem       = errors.New("unknown item")
	ErrActionUnavailable = errors.New("action unavailable")
	ErrNotFinished       = errors.New("mini-game not finished")
	ErrFinished          = errors.New("mini-game already finished")
)

// StartLives is the number of hearts every click game starts with.
const StartLives = 5

func loseLife(lives int) int {
	return max(0, lives-1)
}
