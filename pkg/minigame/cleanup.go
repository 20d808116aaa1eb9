package minigame

import (
	"fmt"
	"math"
	"slices"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/meter"
)

// Cleanup is the beach cleanup click game. Trash is removed when picked;
// natural items stay on the beach and cost a life.
type Cleanup struct {
	Remaining []int       `json:"remaining"`
	Cleaned   meter.Meter `json:"cleaned"`
	Step      int         `json:"step"`
	Lives     int         `json:"lives"`
	Last      int         `json:"last,omitempty"`
}

// NewCleanup lays out items on the beach.
func NewCleanup(items []content.Item) *Cleanup {
	c := &Cleanup{Lives: StartLives, Remaining: make([]int, 0, len(items))}
	trash := 0
	for _, it := range items {
		c.Remaining = append(c.Remaining, it.ID)
		if it.Good {
			trash++
		}
	}
	if trash > 0 {
		c.Step = int(math.Round(float64(meter.Max) / float64(trash)))
	}
	return c
}

// Pick handles a click on item id.
func (c *Cleanup) Pick(id int, items []content.Item) (content.Item, error) {
	i := slices.Index(c.Remaining, id)
	if i < 0 {
		return content.Item{}, fmt.Errorf("%w: item %d", ErrUnknownItem, id)
	}
	it, ok := findItem(items, id)
	if !ok {
		return content.Item{}, fmt.Errorf("%w: item %d", ErrUnknownItem, id)
	}

	c.Last = id
	if it.Good {
		c.Remaining = slices.Delete(c.Remaining, i, i+1)
		c.Cleaned = c.Cleaned.Add(c.Step)
	} else {
		c.Lives = loseLife(c.Lives)
	}
	return it, nil
}

// Done reports whether the beach is fully clean.
func (c *Cleanup) Done() bool {
	return c.Cleaned.Full()
}

// Complete fails until the beach is clean.
func (c *Cleanup) Complete() error {
	if !c.Done() {
		return fmt.Errorf("%w: cleaned %d%%", ErrNotFinished, c.Cleaned)
	}
	return nil
}
