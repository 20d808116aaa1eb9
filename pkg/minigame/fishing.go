package minigame

import (
	"fmt"
	"slices"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/meter"
)

const (
	// MaxCatch is the number of allowed fish needed to fill the balance.
	MaxCatch = 5
	// FishingPenalty is the balance lost for catching a protected fish.
	FishingPenalty = 20
)

// Fishing is the responsible-fishing click game. Pool holds the ids of
// the fish still in the water.
type Fishing struct {
	Started bool        `json:"started"`
	Pool    []int       `json:"pool"`
	Caught  int         `json:"caught"`
	Lives   int         `json:"lives"`
	Balance meter.Meter `json:"balance"`
	Last    int         `json:"last,omitempty"`
}

// NewFishing returns an unstarted round.
func NewFishing() *Fishing {
	return &Fishing{Lives: StartLives}
}

// Start deals the fish. An unfinished round cannot be restarted and a
// won round stays won.
func (f *Fishing) Start(fish []content.Item) error {
	if f.Started && !f.Finished() {
		return fmt.Errorf("%w: round in progress", ErrActionUnavailable)
	}
	if f.Started && f.Success() {
		return ErrFinished
	}
	*f = Fishing{Started: true, Lives: StartLives, Pool: make([]int, 0, len(fish))}
	for _, it := range fish {
		f.Pool = append(f.Pool, it.ID)
	}
	return nil
}

// Catch pulls fish id out of the water and scores it.
func (f *Fishing) Catch(id int, fish []content.Item) (content.Item, error) {
	if !f.Started {
		return content.Item{}, fmt.Errorf("%w: round not started", ErrActionUnavailable)
	}
	if f.Finished() {
		return content.Item{}, ErrFinished
	}
	i := slices.Index(f.Pool, id)
	if i < 0 {
		return content.Item{}, fmt.Errorf("%w: fish %d", ErrUnknownItem, id)
	}
	it, ok := findItem(fish, id)
	if !ok {
		return content.Item{}, fmt.Errorf("%w: fish %d", ErrUnknownItem, id)
	}

	f.Pool = slices.Delete(f.Pool, i, i+1)
	f.Last = id
	if it.Good {
		f.Caught++
		f.Balance = f.Balance.Add(meter.Max / MaxCatch)
	} else {
		f.Lives = loseLife(f.Lives)
		f.Balance = f.Balance.Add(-FishingPenalty)
	}
	return it, nil
}

// Finished reports whether the round has ended, won or lost.
func (f *Fishing) Finished() bool {
	return f.Started && (f.Balance.Full() || f.Lives == 0)
}

// Success reports whether the round was won.
func (f *Fishing) Success() bool {
	return f.Started && f.Balance.Full()
}

// Complete closes a finished round and reports whether it was won.
func (f *Fishing) Complete() (bool, error) {
	if !f.Finished() {
		return false, ErrNotFinished
	}
	return f.Success(), nil
}

func findItem(items []content.Item, id int) (content.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return content.Item{}, false
}
