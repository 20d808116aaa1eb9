package path

import (
	"fmt"
	"time"
)

// Animator is the character's persisted map state: where it stands, the
// walk in flight and the footprints left so far.
type Animator struct {
	Position Point       `json:"position"`
	Current  *Walk       `json:"current,omitempty"`
	Trail    []Footprint `json:"trail,omitempty"`
}

// NewAnimator places the character at Start.
func NewAnimator() *Animator {
	return &Animator{Position: Start}
}

// Result is what a walk produced for the client to replay.
type Result struct {
	Walk       Walk        `json:"walk"`
	Frames     []Frame     `json:"frames"`
	Footprints []Footprint `json:"footprints"`
}

// Animating reports whether a walk is still in flight at now.
func (a *Animator) Animating(now time.Time) bool {
	return a.Current != nil && a.Current.InFlight(now)
}

// WalkTo starts a walk to target. The character is moved to target
// immediately; the returned frames describe how it gets there.
func (a *Animator) WalkTo(target Point, now time.Time, interval time.Duration, r Rand) (*Result, error) {
	if a.Animating(now) {
		return nil, fmt.Errorf("%w: lands at %s", ErrAnimating, a.Current.EndsAt().Format(time.RFC3339Nano))
	}

	w := Walk{
		From:      a.Position,
		To:        target,
		Control:   ControlPoint(a.Position, target, r),
		StartedAt: now,
		Duration:  Duration,
	}
	frames, prints := w.Simulate(interval, r)

	a.Current = &w
	a.Position = target
	a.Trail = append(a.Trail, prints...)
	if over := len(a.Trail) - MaxFootprints; over > 0 {
		a.Trail = append([]Footprint(nil), a.Trail[over:]...)
	}

	return &Result{Walk: w, Frames: frames, Footprints: prints}, nil
}
