package state

import (
	"errors"

	"github.com/apu-inti/guardian/pkg/minigame"
)

var (
	ErrSceneLocked       = errors.New("scene is locked")
	ErrInvalidTransition = errors.New("invalid scene transition")
	ErrWrongScene        = errors.New("action not available in the current scene")

	// ErrNotFinished is shared with the mini-games so callers can match a
	// single sentinel for "not done yet".
	ErrNotFinished = minigame.ErrNotFinished
)
