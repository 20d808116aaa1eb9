package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apu-inti/guardian/pkg/meter"
	"github.com/apu-inti/guardian/pkg/minigame"
	"github.com/apu-inti/guardian/pkg/scene"
)

func TestHUD(t *testing.T) {
	tests := []struct {
		name  string
		setup func(gs *GameState)
		want  *meter.HUD
	}{
		{
			name:  "menu has no hud",
			setup: func(gs *GameState) { gs.Scene = scene.Menu },
			want:  nil,
		},
		{
			name:  "costa hub",
			setup: func(gs *GameState) { gs.Scene = scene.Costa },
			want:  &meter.HUD{Ecosystem: 75, Water: 60, Energy: 70, Biodiversity: 80, Sustainability: 65, Region: "costa"},
		},
		{
			name: "quiz mirrors score",
			setup: func(gs *GameState) {
				gs.Scene = scene.CostaM1
				gs.Quiz = &minigame.Quiz{Score: 3, Ecosystem: 60, Selected: -1}
			},
			want: &meter.HUD{Ecosystem: 60, Water: 60, Energy: 75, Biodiversity: 25, Sustainability: 60, Region: "costa"},
		},
		{
			name: "fishing balance",
			setup: func(gs *GameState) {
				gs.Scene = scene.CostaM2
				gs.Fishing = &minigame.Fishing{Balance: 40}
			},
			want: &meter.HUD{Ecosystem: 40, Water: 70, Energy: 60, Biodiversity: 80, Sustainability: 40, Region: "costa"},
		},
		{
			name: "sierra forest drives biodiversity",
			setup: func(gs *GameState) {
				gs.Scene = scene.Sierra
				gs.Sierra = minigame.NewSierraBoard()
			},
			want: &meter.HUD{Ecosystem: 45, Water: 60, Energy: 45, Biodiversity: 40, Sustainability: 55, Region: "sierra"},
		},
		{
			name: "selva",
			setup: func(gs *GameState) {
				gs.Scene = scene.Selva
				gs.Selva = minigame.NewSelvaBoard()
			},
			want: &meter.HUD{Ecosystem: 55, Water: 85, Energy: 30, Biodiversity: 65, Sustainability: 70, Region: "selva"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := &GameState{}
			tt.setup(gs)
			assert.Equal(t, tt.want, gs.HUD())
		})
	}
}

func TestProgress(t *testing.T) {
	gs := &GameState{Completed: map[scene.Mission]bool{}}
	p := gs.Progress(scene.RegionCosta)
	assert.Equal(t, NotStarted, p.Status)
	assert.Equal(t, 0, p.Percent)
	assert.False(t, p.Locked)

	gs.Completed[scene.MissionQuiz] = true
	p = gs.Progress(scene.RegionCosta)
	assert.Equal(t, InProgress, p.Status)
	assert.Equal(t, 33, p.Percent)

	gs.Completed[scene.MissionFishing] = true
	assert.Equal(t, 67, gs.Progress(scene.RegionCosta).Percent)
	assert.True(t, gs.Progress(scene.RegionSierra).Locked)

	gs.Completed[scene.MissionCleanup] = true
	p = gs.Progress(scene.RegionCosta)
	assert.Equal(t, Completed, p.Status)
	assert.Equal(t, 100, p.Percent)
	assert.False(t, gs.Progress(scene.RegionSierra).Locked)

	gs.Sierra = minigame.NewSierraBoard()
	p = gs.Progress(scene.RegionSierra)
	assert.Equal(t, InProgress, p.Status)
	assert.Equal(t, 45*100/minigame.SierraGoal, p.Percent)

	assert.Equal(t, (100+56)/3, gs.Overall())
}

func TestRegionComplete_ClearedFlags(t *testing.T) {
	gs := &GameState{}
	assert.False(t, gs.RegionComplete(scene.RegionCosta), "nil flags")
	assert.False(t, gs.Unlocked(scene.Sierra))

	gs.Completed = map[scene.Mission]bool{
		scene.MissionQuiz:    true,
		scene.MissionFishing: true,
		scene.MissionCleanup: false,
		scene.MissionSierra:  false,
	}
	assert.False(t, gs.RegionComplete(scene.RegionCosta))
	assert.False(t, gs.RegionComplete(scene.RegionSierra))
	assert.Equal(t, 67, gs.Progress(scene.RegionCosta).Percent)

	gs.Completed[scene.MissionCleanup] = true
	assert.True(t, gs.RegionComplete(scene.RegionCosta))
	assert.True(t, gs.Unlocked(scene.Sierra))
	assert.False(t, gs.Unlocked(scene.Selva))
}

func TestView_Final(t *testing.T) {
	e, clock := newTestEngine(t)
	gs, _ := e.NewGame("en")
	finishIntro(t, e, gs)
	mustNavigate(t, e, gs, scene.Map)
	completeCosta(t, e, gs, clock)

	gs.complete(scene.MissionSierra)
	gs.complete(scene.MissionSelva)
	mustNavigate(t, e, gs, scene.Map, scene.Final)

	v := e.View(gs)
	require.NotNil(t, v.Final)
	assert.Nil(t, v.HUD)
	assert.Equal(t, "Mission Accomplished!", v.Final.Title)

	displays := map[string]string{}
	for _, s := range v.Final.Stats {
		displays[s.ID] = s.Display
	}
	assert.Equal(t, "87%", displays["ecosystem"])
	assert.Equal(t, "2,845", displays["hectares"])
	assert.Equal(t, "156", displays["communities"])

	assert.Equal(t, 4, v.Final.Unlocked, "data master needs the NASA center or a data panel")
	assert.Equal(t, "I am a Guardian of Peru! I unlocked 4 of 5 achievements in Apu Inti 🏔️", v.Final.ShareText)

	mustNavigate(t, e, gs, scene.NASA)
	v = e.View(gs)
	require.NotNil(t, v.NASA)
	assert.Len(t, v.NASA.Datasets, 5)
	for _, p := range v.NASA.Progress {
		assert.Equal(t, "Completed", p.Label)
	}
	mustNavigate(t, e, gs, scene.Map, scene.Final)
	assert.Equal(t, 5, e.View(gs).Final.Unlocked)
}

func TestView_Missions(t *testing.T) {
	e, _ := newTestEngine(t)
	gs, _ := e.NewGame("es")
	finishIntro(t, e, gs)
	mustNavigate(t, e, gs, scene.Map, scene.Costa)

	v := e.View(gs)
	require.NotNil(t, v.Costa)
	require.Len(t, v.Costa.Missions, 3)
	assert.Equal(t, scene.MissionQuiz, v.Costa.Missions[0].Mission)

	mustNavigate(t, e, gs, scene.CostaM2)
	require.NoError(t, e.StartFishing(gs))
	_, err := e.Catch(gs, 7)
	require.NoError(t, err)
	v = e.View(gs)
	require.NotNil(t, v.Fishing)
	assert.Len(t, v.Fishing.Pool, 11)
	require.NotNil(t, v.Fishing.Last)
	assert.Equal(t, "Tiburón", v.Fishing.Last.Name)
	assert.Equal(t, "❌ No debes pescarlo", v.Fishing.Last.Verdict)
	assert.Equal(t, "Peces capturados: 0 / 5", v.Fishing.Counter)

	mustNavigate(t, e, gs, scene.Costa, scene.CostaM3)
	v = e.View(gs)
	require.NotNil(t, v.Cleanup)
	assert.Len(t, v.Cleanup.Items, 20)

	_, err = e.PickTrash(gs, 16)
	require.NoError(t, err)
	v = e.View(gs)
	require.NotNil(t, v.Cleanup.Last)
	assert.False(t, v.Cleanup.Last.Good)
	assert.Equal(t, "❌ Es parte de la naturaleza: déjalo en la playa", v.Cleanup.Last.Verdict)
	assert.Len(t, v.Cleanup.Items, 20, "natural items stay on the beach")

	_, err = e.PickTrash(gs, 1)
	require.NoError(t, err)
	v = e.View(gs)
	assert.Equal(t, "✅ Es basura: recógela", v.Cleanup.Last.Verdict)

	mustNavigate(t, e, gs, scene.Costa, scene.CostaM1)
	_, err = e.AnswerQuiz(gs, 0)
	require.NoError(t, err)
	v = e.View(gs)
	require.NotNil(t, v.Quiz)
	assert.Equal(t, "❌ Incorrecto... -1 Vida", v.Quiz.Feedback)
	assert.Len(t, v.Quiz.Options, 3)
}

func TestView_Board(t *testing.T) {
	e, _ := newTestEngine(t)
	gs, _ := e.NewGame("en")
	gs.Scene = scene.Selva
	gs.Selva = minigame.NewSelvaBoard()

	v := e.View(gs)
	require.NotNil(t, v.Board)
	assert.Len(t, v.Board.Gauges, 4)
	require.Len(t, v.Board.Actions, 4)
	assert.Equal(t, "🛑 Stop Logging", v.Board.Actions[0].Label)
	assert.False(t, v.Board.Actions[1].Available)
	assert.False(t, v.Board.CanComplete)
}

func TestEngine_Summary(t *testing.T) {
	e, clock := newTestEngine(t)
	gs, _ := e.NewGame("es")

	_, err := e.Summary(gs)
	require.ErrorIs(t, err, ErrSceneLocked)

	finishIntro(t, e, gs)
	mustNavigate(t, e, gs, scene.Map)
	completeCosta(t, e, gs, clock)
	gs.complete(scene.MissionSierra)
	_, err = e.Summary(gs)
	require.ErrorIs(t, err, ErrSceneLocked, "selva is still open")

	gs.complete(scene.MissionSelva)
	f, err := e.Summary(gs)
	require.NoError(t, err)
	assert.Equal(t, scene.Costa, gs.Scene, "summary does not move the player")
	assert.Equal(t, "¡Misión Cumplida!", f.Title)
	assert.Len(t, f.Achievements, 5)
}
