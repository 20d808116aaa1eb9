package meter

// Min and Max bound every meter value.
const (
	Min = 0
	Max = 100
)

// Meter is a percentage value shown in the HUD. It never leaves [Min, Max].
type Meter int

// New returns v clamped into range.
func New(v int) Meter {
	return Meter(Clamp(v))
}

// Clamp bounds v to [Min, Max].
func Clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// Add applies a signed delta and clamps the result.
func (m Meter) Add(delta int) Meter {
	return New(int(m) + delta)
}

// Int returns the meter as a plain int.
func (m Meter) Int() int {
	return int(m)
}

// Full reports whether the meter has reached Max.
func (m Meter) Full() bool {
	return m >= Max
}

// Empty reports whether the meter is at Min.
func (m Meter) Empty() bool {
	return m <= Min
}

// HUD is the set of resource meters displayed at the top of a scene.
type HUD struct {
	Ecosystem      Meter  `json:"ecosystem"`
	Water          Meter  `json:"water"`
	Energy         Meter  `json:"energy"`
	Biodiversity   Meter  `json:"biodiversity"`
	Sustainability Meter  `json:"sustainability"`
	Region         string `json:"region,omitempty"`
	ShowCompass    bool   `json:"show_compass,omitempty"`
}
