package scene

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownScene is returned when a scene tag is not part of the game.
var ErrUnknownScene = errors.New("unknown scene")

// Scene identifies which full-screen view is active.
type Scene string

const (
	Menu    Scene = "menu"
	Intro   Scene = "intro"
	Map     Scene = "map"
	Costa   Scene = "costa"
	CostaM1 Scene = "costa-m1"
	CostaM2 Scene = "costa-m2"
	CostaM3 Scene = "costa-m3"
	Sierra  Scene = "sierra"
	Selva   Scene = "selva"
	NASA    Scene = "nasa"
	Final   Scene = "final"
)

// All lists every scene in play order.
var All = []Scene{Menu, Intro, Map, Costa, CostaM1, CostaM2, CostaM3, Sierra, Selva, NASA, Final}

// edges is the scene graph. Unlock gates are applied on top by the state package.
var edges = map[Scene][]Scene{
	Menu:    {Intro, NASA},
	Intro:   {Map, Menu},
	Map:     {Costa, Sierra, Selva, Menu, NASA, Final},
	Costa:   {CostaM1, CostaM2, CostaM3, Map},
	CostaM1: {Costa},
	CostaM2: {Costa},
	CostaM3: {Costa},
	Sierra:  {Map, Costa, Selva},
	Selva:   {Map, Costa, Sierra},
	NASA:    {Map, Menu},
	Final:   {Map, NASA, Menu},
}

// Parse converts a raw tag into a Scene. Matching is case-insensitive and
// accepts underscores in place of dashes ("costa_m1").
func Parse(s string) (Scene, error) {
	norm := Scene(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if slices.Contains(All, norm) {
		return norm, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScene, s)
}

func (s Scene) String() string {
	return string(s)
}

// Valid reports whether s is a known scene.
func (s Scene) Valid() bool {
	return slices.Contains(All, s)
}

// Next returns the scenes directly reachable from s, ignoring unlock gates.
func (s Scene) Next() []Scene {
	return slices.Clone(edges[s])
}

// Leads reports whether there is an edge from s to to.
func (s Scene) Leads(to Scene) bool {
	return slices.Contains(edges[s], to)
}

// IsCostaMission reports whether s is one of the Costa sub-missions.
func (s Scene) IsCostaMission() bool {
	return s == CostaM1 || s == CostaM2 || s == CostaM3
}

// Region returns the map region a scene belongs to, if any.
func (s Scene) Region() (Region, bool) {
	switch s {
	case Costa, CostaM1, CostaM2, CostaM3:
		return RegionCosta, true
	case Sierra:
		return RegionSierra, true
	case Selva:
		return RegionSelva, true
	}
	return "", false
}
