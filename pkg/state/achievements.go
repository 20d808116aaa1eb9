package state

import (
	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/scene"
)

// Achievement ids.
const (
	AchievementCosta      = "costa_guardian"
	AchievementSierra     = "andes_protector"
	AchievementSelva      = "amazon_hero"
	AchievementDataMaster = "data_master"
	AchievementAmbassador = "ambassador"
)

var achievementRules = map[string]func(*GameState) bool{
	AchievementCosta:      func(gs *GameState) bool { return gs.RegionComplete(scene.RegionCosta) },
	AchievementSierra:     func(gs *GameState) bool { return gs.RegionComplete(scene.RegionSierra) },
	AchievementSelva:      func(gs *GameState) bool { return gs.RegionComplete(scene.RegionSelva) },
	AchievementDataMaster: func(gs *GameState) bool { return gs.VisitedNASA || gs.DataConsulted },
	AchievementAmbassador: (*GameState).AllRegionsComplete,
}

// AchievementView is a localized badge with its unlock state.
type AchievementView struct {
	content.Achievement
	Unlocked bool `json:"unlocked"`
}

// AchievementUnlocked reports whether the achievement id has been earned.
func (gs *GameState) AchievementUnlocked(id string) bool {
	rule, ok := achievementRules[id]
	return ok && rule(gs)
}

// Achievements lists the locale's badges in display order.
func (gs *GameState) Achievements(loc *content.Locale) []AchievementView {
	out := make([]AchievementView, 0, len(loc.Achievements))
	for _, a := range loc.Achievements {
		out = append(out, AchievementView{Achievement: a, Unlocked: gs.AchievementUnlocked(a.ID)})
	}
	return out
}
