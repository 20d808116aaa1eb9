package path

import (
	"time"
)

// Frame is one sampled position of a walk.
type Frame struct {
	ElapsedMS int64   `json:"elapsed_ms"`
	T         float64 `json:"t"`
	Position  Point   `json:"position"`
	Hop       float64 `json:"hop"`
	Step      int     `json:"step"`
}

// Footprint is a mark left on the ground path.
type Footprint struct {
	Position Point   `json:"position"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
	Opacity  float64 `json:"opacity"`
}

// Walk is one animation from From to To.
type Walk struct {
	From      Point         `json:"from"`
	To        Point         `json:"to"`
	Control   Point         `json:"control"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// At returns the position at elapsed time.
func (w Walk) At(elapsed time.Duration) Point {
	return Bezier(w.From, w.Control, w.To, Progress(elapsed, w.Duration))
}

// EndsAt is the instant the walk lands.
func (w Walk) EndsAt() time.Time {
	return w.StartedAt.Add(w.Duration)
}

// InFlight reports whether the walk is still animating at now.
func (w Walk) InFlight(now time.Time) bool {
	return now.Before(w.EndsAt())
}

// Simulate samples the walk every interval until it lands and drops a
// footprint each time a new multiple-of-three step is reached.
func (w Walk) Simulate(interval time.Duration, r Rand) ([]Frame, []Footprint) {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	var (
		frames     []Frame
		prints     []Footprint
		lastPlaced = -1
	)
	for elapsed := time.Duration(0); ; elapsed += interval {
		t := Progress(elapsed, w.Duration)
		pos := Bezier(w.From, w.Control, w.To, t)
		step := StepIndex(t)
		frames = append(frames, Frame{
			ElapsedMS: elapsed.Milliseconds(),
			T:         t,
			Position:  pos,
			Hop:       Hop(t),
			Step:      step,
		})

		if step != lastPlaced && step%FootprintEvery == 0 {
			lastPlaced = step
			prints = append(prints, Footprint{
				Position: Point{X: pos.X + Uniform(r, -1, 1), Y: pos.Y + Uniform(r, -1, 1)},
				Rotation: Uniform(r, -20, 20),
				Scale:    Uniform(r, 0.8, 1.2),
				Opacity:  Uniform(r, 0.9, 1.0),
			})
		}
		if t >= 1 {
			break
		}
	}
	return frames, prints
}
