package scene

import (
	"fmt"
	"strings"
)

// Region is one of the three playable areas on the map.
type Region string

const (
	RegionCosta  Region = "costa"
	RegionSierra Region = "sierra"
	RegionSelva  Region = "selva"
)

// Regions lists the regions in unlock order.
var Regions = []Region{RegionCosta, RegionSierra, RegionSelva}

// ParseRegion converts a raw tag into a Region.
func ParseRegion(s string) (Region, error) {
	switch r := Region(strings.ToLower(strings.TrimSpace(s))); r {
	case RegionCosta, RegionSierra, RegionSelva:
		return r, nil
	}
	return "", fmt.Errorf("%w: region %q", ErrUnknownScene, s)
}

// Scene returns the hub scene of the region.
func (r Region) Scene() Scene {
	return Scene(r)
}

func (r Region) String() string {
	return string(r)
}

// Mission is a bounded mini-game that produces a completion flag.
type Mission string

const (
	MissionQuiz    Mission = "costa-m1"
	MissionFishing Mission = "costa-m2"
	MissionCleanup Mission = "costa-m3"
	MissionSierra  Mission = "sierra"
	MissionSelva   Mission = "selva"
)

// CostaMissions are the three sub-missions that make up the Costa region.
var CostaMissions = []Mission{MissionQuiz, MissionFishing, MissionCleanup}

// ParseMission accepts either the mission tag ("costa-m2") or its short
// alias ("quiz", "fishing", "cleanup").
func ParseMission(s string) (Mission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "costa-m1", "costa_m1", "m1", "quiz":
		return MissionQuiz, nil
	case "costa-m2", "costa_m2", "m2", "fishing":
		return MissionFishing, nil
	case "costa-m3", "costa_m3", "m3", "cleanup":
		return MissionCleanup, nil
	case "sierra":
		return MissionSierra, nil
	case "selva":
		return MissionSelva, nil
	}
	return "", fmt.Errorf("%w: mission %q", ErrUnknownScene, s)
}

// Scene returns the scene in which the mission is played.
func (m Mission) Scene() Scene {
	return Scene(m)
}
