package state

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/apu-inti/guardian/pkg/minigame"
	"github.com/apu-inti/guardian/pkg/scene"
)

// ProgressStatus is the coarse state of a region shown in the NASA center.
type ProgressStatus string

const (
	NotStarted ProgressStatus = "not_started"
	InProgress ProgressStatus = "in_progress"
	Completed  ProgressStatus = "completed"
)

// RegionProgress is the completion of one region.
type RegionProgress struct {
	Region  scene.Region   `json:"region"`
	Percent int            `json:"percent"`
	Status  ProgressStatus `json:"status"`
	Locked  bool           `json:"locked"`
}

// costaDone collects the finished Costa missions.
func (gs *GameState) costaDone() mapset.Set[scene.Mission] {
	done := mapset.New[scene.Mission]()
	for _, m := range scene.CostaMissions {
		if gs.IsCompleted(m) {
			done.Put(m)
		}
	}
	return done
}

// RegionComplete reports whether every mission of the region is done.
func (gs *GameState) RegionComplete(r scene.Region) bool {
	switch r {
	case scene.RegionCosta:
		for _, m := range scene.CostaMissions {
			if !gs.IsCompleted(m) {
				return false
			}
		}
		return true
	case scene.RegionSierra:
		return gs.IsCompleted(scene.MissionSierra)
	case scene.RegionSelva:
		return gs.IsCompleted(scene.MissionSelva)
	}
	return false
}

// AllRegionsComplete reports whether the ending is unlocked.
func (gs *GameState) AllRegionsComplete() bool {
	for _, r := range scene.Regions {
		if !gs.RegionComplete(r) {
			return false
		}
	}
	return true
}

// Unlocked reports whether s may be entered given the completion flags.
// Scenes without a gate are always unlocked.
func (gs *GameState) Unlocked(s scene.Scene) bool {
	switch s {
	case scene.Sierra:
		return gs.RegionComplete(scene.RegionCosta)
	case scene.Selva:
		return gs.RegionComplete(scene.RegionCosta) && gs.RegionComplete(scene.RegionSierra)
	case scene.Final:
		return gs.AllRegionsComplete()
	}
	return true
}

// Progress computes the completion of a region. Costa advances a third
// per mission; the boards advance with their ecosystem meter toward the
// goal and only reach 100 once completed.
func (gs *GameState) Progress(r scene.Region) RegionProgress {
	p := RegionProgress{Region: r, Locked: !gs.Unlocked(r.Scene())}
	if gs.RegionComplete(r) {
		p.Percent, p.Status = 100, Completed
		return p
	}

	switch r {
	case scene.RegionCosta:
		n := gs.costaDone().Size()
		p.Percent = (n*100 + 1) / len(scene.CostaMissions)
		touched := n > 0 || gs.Quiz != nil || gs.Fishing != nil || gs.Cleanup != nil
		p.Status = statusFor(touched)
	case scene.RegionSierra:
		if gs.Sierra != nil {
			p.Percent = boardPercent(gs.Sierra.Ecosystem.Int(), minigame.SierraGoal)
		}
		p.Status = statusFor(gs.Sierra != nil)
	case scene.RegionSelva:
		if gs.Selva != nil {
			p.Percent = boardPercent(gs.Selva.Ecosystem.Int(), minigame.SelvaGoal)
		}
		p.Status = statusFor(gs.Selva != nil)
	}
	return p
}

// Overall is the mean completion of the three regions.
func (gs *GameState) Overall() int {
	total := 0
	for _, r := range scene.Regions {
		total += gs.Progress(r).Percent
	}
	return total / len(scene.Regions)
}

func statusFor(touched bool) ProgressStatus {
	if touched {
		return InProgress
	}
	return NotStarted
}

func boardPercent(eco, goal int) int {
	return min(99, eco*100/goal)
}
