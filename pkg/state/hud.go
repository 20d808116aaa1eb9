package state

import (
	"github.com/apu-inti/guardian/pkg/meter"
	"github.com/apu-inti/guardian/pkg/scene"
)

// Map HUD floor values.
const mapEcosystemBase = 25

func hud(eco, water, energy, bio, sust int, region scene.Region) *meter.HUD {
	return &meter.HUD{
		Ecosystem:      meter.New(eco),
		Water:          meter.New(water),
		Energy:         meter.New(energy),
		Biodiversity:   meter.New(bio),
		Sustainability: meter.New(sust),
		Region:         string(region),
	}
}

// HUD returns the resource meters for the active scene, or nil on scenes
// that do not show them.
func (gs *GameState) HUD() *meter.HUD {
	switch gs.Scene {
	case scene.Map:
		h := hud(max(mapEcosystemBase, gs.Overall()), 60, 40, 30, 35, "")
		h.ShowCompass = true
		return h
	case scene.Costa:
		return hud(75, 60, 70, 80, 65, scene.RegionCosta)
	case scene.CostaM1:
		if q := gs.Quiz; q != nil {
			return hud(q.Ecosystem.Int(), q.Water().Int(), 75, 25, q.Ecosystem.Int(), scene.RegionCosta)
		}
		return hud(0, 0, 75, 25, 0, scene.RegionCosta)
	case scene.CostaM2:
		b := 0
		if gs.Fishing != nil {
			b = gs.Fishing.Balance.Int()
		}
		return hud(b, 70, 60, 80, b, scene.RegionCosta)
	case scene.CostaM3:
		c := 0
		if gs.Cleanup != nil {
			c = gs.Cleanup.Cleaned.Int()
		}
		return hud(c, 70, 60, 80, c, scene.RegionCosta)
	case scene.Sierra:
		if s := gs.Sierra; s != nil {
			return hud(s.Ecosystem.Int(), 60, 45, s.Forest.Int(), 55, scene.RegionSierra)
		}
	case scene.Selva:
		if s := gs.Selva; s != nil {
			return hud(s.Ecosystem.Int(), 85, 30, s.Biodiversity.Int(), 70, scene.RegionSelva)
		}
	}
	return nil
}
