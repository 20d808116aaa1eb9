// Package path animates the map character along a quadratic Bézier curve
// and leaves a trail of footprints behind it. Coordinates are percentages
// of the map; the hop offset is in pixels.
package path

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/apu-inti/guardian/pkg/scene"
)

// ErrAnimating is returned when a walk is requested while another is
// still in flight.
var ErrAnimating = errors.New("character is already walking")

const (
	Duration       = time.Second
	HopHeight      = 22.0
	Steps          = 32
	FootprintEvery = 3
	MaxFootprints  = 256
)

// Point is a map position in percent.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Start is where the character stands when the map first opens.
var Start = Point{X: 50, Y: 80}

var targets = map[scene.Region]Point{
	scene.RegionCosta:  {X: 25, Y: 50},
	scene.RegionSierra: {X: 50, Y: 33},
	scene.RegionSelva:  {X: 75, Y: 50},
}

// Target returns the walk destination of a region.
func Target(r scene.Region) (Point, error) {
	p, ok := targets[r]
	if !ok {
		return Point{}, fmt.Errorf("%w: region %q", scene.ErrUnknownScene, r)
	}
	return p, nil
}

// Rand is the source of randomness for curves and footprints.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Uniform draws from [lo, hi).
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Bezier evaluates the quadratic curve p0 -> c -> p1 at t.
func Bezier(p0, c, p1 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}

// ControlPoint picks a curve control point above the midpoint of from and
// to, shifted sideways by up to 5 and lifted by 10 to 16.
func ControlPoint(from, to Point, r Rand) Point {
	return Point{
		X: (from.X+to.X)/2 + Uniform(r, -5, 5),
		Y: (from.Y+to.Y)/2 - 10 - Uniform(r, 0, 6),
	}
}

// Hop is the vertical jump offset at t.
func Hop(t float64) float64 {
	return -math.Sin(math.Pi*t) * HopHeight
}

// Progress converts elapsed time into curve progress in [0, 1].
func Progress(elapsed, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return min(1, max(0, float64(elapsed)/float64(d)))
}

// StepIndex is the footprint step reached at t.
func StepIndex(t float64) int {
	return int(math.Floor(t * Steps))
}
