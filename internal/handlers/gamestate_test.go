package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apu-inti/guardian/pkg/path"
	"github.com/apu-inti/guardian/pkg/scene"
	"github.com/apu-inti/guardian/pkg/state"
)

func TestGameHandler_Create(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		body     any
		header   string
		status   int
		language string
	}{
		{name: "default language", body: nil, status: http.StatusCreated, language: "es"},
		{name: "explicit english", body: map[string]string{"language": "en"}, status: http.StatusCreated, language: "en"},
		{name: "region subtag", body: map[string]string{"language": "en-GB"}, status: http.StatusCreated, language: "en"},
		{name: "accept-language", body: nil, header: "en-US,en;q=0.9", status: http.StatusCreated, language: "en"},
		{name: "unsupported language", body: map[string]string{"language": "fr"}, status: http.StatusBadRequest},
		{name: "malformed body", body: "{not json", status: http.StatusBadRequest},
		{name: "unknown field", body: `{"scenario":"x"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Accept-Language"] = tt.header
			}
			resp := s.doHeaders(t, http.MethodPost, "/v1/games", tt.body, headers).Result()
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusCreated {
				var er ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&er))
				assert.NotEmpty(t, er.Error)
				return
			}
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var gs state.GameState
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&gs))
			assert.NotEqual(t, uuid.Nil, gs.ID)
			assert.Equal(t, scene.Menu, gs.Scene)
			assert.Equal(t, tt.language, gs.Language)
			assert.Equal(t, 6, gs.Intro.Total)
		})
	}
}

func TestGameHandler_ReadAndDelete(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "es")

	rr := s.do(t, http.MethodGet, "/v1/games/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/games/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/games/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodDelete, "/v1/games/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/games/"+id.String()+"/view", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodDelete, "/v1/games/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGameHandler_Navigation(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "en")
	base := "/v1/games/" + id.String()

	tests := []struct {
		name   string
		scene  string
		status int
	}{
		{"unknown scene", "atlantis", http.StatusBadRequest},
		{"not an edge", "costa", http.StatusConflict},
		{"locked final from menu is not an edge", "final", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, base+"/navigate", map[string]string{"scene": tt.scene})
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}

	s.navigate(t, id, "intro")
	rr := s.do(t, http.MethodPost, base+"/navigate", map[string]string{"scene": "map"})
	assert.Equal(t, http.StatusConflict, rr.Code, "story must be shown in full")

	out := s.act(t, id, "/intro/advance", nil)
	require.NotNil(t, out.View.Intro)
	assert.Equal(t, 1, out.View.Intro.Index)
	assert.NotEmpty(t, out.View.Intro.Line)

	s.toMap(t, id)
	v := s.view(t, id)
	assert.Equal(t, scene.Map, v.Scene)
	require.NotNil(t, v.HUD)

	for _, locked := range []string{"sierra", "selva", "final"} {
		rr := s.do(t, http.MethodPost, base+"/navigate", map[string]string{"scene": locked})
		assert.Equal(t, http.StatusConflict, rr.Code, locked)
		assert.Contains(t, rr.Body.String(), "locked")
	}

	rr = s.do(t, http.MethodPost, base+"/intro/advance", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "intro actions need the intro scene")
}

func TestGameHandler_QuizAutoReturn(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "en")
	s.toMap(t, id)
	s.navigate(t, id, "costa", "costa-m1")

	rr := s.do(t, http.MethodPost, "/v1/games/"+id.String()+"/missions/quiz/answer", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "option is required")

	rr = s.do(t, http.MethodPost, "/v1/games/"+id.String()+"/missions/quiz/next", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "next needs an answer")

	rr = s.do(t, http.MethodPost, "/v1/games/"+id.String()+"/missions/quiz/answer", map[string]int{"option": 7})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	for i, option := range []int{1, 1, 1, 2, 1} {
		out := s.act(t, id, "/missions/costa-m1/answer", map[string]int{"option": option})
		var res AnswerResult
		require.NoError(t, json.Unmarshal(out.Result, &res))
		assert.True(t, res.Correct, "question %d", i)

		rr := s.do(t, http.MethodPost, "/v1/games/"+id.String()+"/missions/costa-m1/answer", map[string]int{"option": option})
		assert.Equal(t, http.StatusConflict, rr.Code, "second answer to question %d", i)

		out = s.act(t, id, "/missions/costa-m1/next", nil)
		var next NextResult
		require.NoError(t, json.Unmarshal(out.Result, &next))
		assert.Equal(t, i == 4, next.Finished)
	}

	v := s.view(t, id)
	assert.Equal(t, scene.CostaM1, v.Scene)
	require.NotNil(t, v.Pending)
	require.NotNil(t, v.Quiz)
	assert.True(t, v.Quiz.Finished)
	assert.Equal(t, 5, v.Quiz.Score)

	s.clock.Advance(state.DefaultQuizReturnDelay)
	v = s.view(t, id)
	assert.Equal(t, scene.Costa, v.Scene)
	assert.Nil(t, v.Pending)
	require.NotNil(t, v.Costa)
	assert.True(t, v.Costa.Missions[0].Completed)
}

func TestGameHandler_MissionRoutes(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "es")
	s.toMap(t, id)
	s.navigate(t, id, "costa")
	base := "/v1/games/" + id.String()

	rr := s.do(t, http.MethodPost, base+"/missions/volcano/start", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, base+"/missions/fishing/answer", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, base+"/missions/fishing/start", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "fishing needs its scene")

	s.navigate(t, id, "costa-m2")
	rr = s.do(t, http.MethodPost, base+"/missions/fishing/catch", map[string]int{"item": 1})
	assert.Equal(t, http.StatusConflict, rr.Code, "catch before start")

	s.act(t, id, "/missions/fishing/start", nil)
	rr = s.do(t, http.MethodPost, base+"/missions/fishing/complete", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "round not finished")

	out := s.act(t, id, "/missions/fishing/catch", map[string]int{"item": 7})
	var item ItemResult
	require.NoError(t, json.Unmarshal(out.Result, &item))
	assert.False(t, item.Item.Good)
	assert.Equal(t, 4, out.View.Fishing.Lives)

	rr = s.do(t, http.MethodPost, base+"/missions/fishing/catch", map[string]int{"item": 7})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "already caught")

	for id2 := 1; id2 <= 5; id2++ {
		s.act(t, id, "/missions/fishing/catch", map[string]int{"item": id2})
	}
	out = s.act(t, id, "/missions/fishing/complete", nil)
	var fr FishingResult
	require.NoError(t, json.Unmarshal(out.Result, &fr))
	assert.True(t, fr.Success)
	assert.Equal(t, scene.Costa, out.View.Scene)

	s.navigate(t, id, "costa-m3")
	for id2 := 1; id2 <= 15; id2++ {
		out = s.act(t, id, "/missions/cleanup/pick", map[string]int{"item": id2})
	}
	require.NotNil(t, out.View.HUD)
	assert.Equal(t, 100, out.View.HUD.Sustainability.Int())
	out = s.act(t, id, "/missions/costa-m3/complete", nil)
	assert.Equal(t, scene.Costa, out.View.Scene)
}

func TestGameHandler_RegionBoards(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "en")
	s.toMap(t, id)
	base := "/v1/games/" + id.String()

	s.mutateStored(t, id, func(gs *state.GameState) {
		for _, m := range scene.CostaMissions {
			gs.Completed[m] = true
		}
	})

	s.navigate(t, id, "sierra")
	rr := s.do(t, http.MethodPost, base+"/regions/sierra/complete", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = s.do(t, http.MethodPost, base+"/regions/sierra/dance", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = s.do(t, http.MethodPost, base+"/regions/atlantis/complete", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	for _, a := range []string{"protect-crops", "protect-crops", "cultivate-terraces"} {
		s.act(t, id, "/regions/sierra/"+a, nil)
	}
	out := s.act(t, id, "/regions/sierra/complete", nil)
	assert.Equal(t, scene.Map, out.View.Scene)

	s.navigate(t, id, "selva")
	rr = s.do(t, http.MethodPost, base+"/regions/selva/plant-trees", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "plant needs deforestation under 20")
	s.act(t, id, "/regions/selva/stop-deforestation", nil)
	s.act(t, id, "/regions/selva/stop-deforestation", nil)
	out = s.act(t, id, "/regions/selva/complete", nil)
	assert.Equal(t, scene.Map, out.View.Scene)
	require.NotNil(t, out.View.Map)
	assert.False(t, out.View.Map.FinalLocked)

	s.navigate(t, id, "final")
	v := s.view(t, id)
	require.NotNil(t, v.Final)
	assert.Equal(t, 4, v.Final.Unlocked)
}

func TestGameHandler_MapWalk(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "es")
	base := "/v1/games/" + id.String()

	rr := s.do(t, http.MethodPost, base+"/map/walk", map[string]string{"region": "costa"})
	assert.Equal(t, http.StatusConflict, rr.Code, "walks need the map")

	s.toMap(t, id)
	rr = s.do(t, http.MethodPost, base+"/map/walk", map[string]string{"region": "mars"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	out := s.act(t, id, "/map/walk", map[string]string{"region": "sierra"})
	var res path.Result
	require.NoError(t, json.Unmarshal(out.Result, &res))
	require.NotEmpty(t, res.Frames)
	assert.Equal(t, path.Start, res.Frames[0].Position)
	assert.Equal(t, res.Walk.To, res.Frames[len(res.Frames)-1].Position)
	assert.NotEmpty(t, res.Footprints)
	assert.True(t, out.View.Map.Animating)

	rr = s.do(t, http.MethodPost, base+"/map/walk", map[string]string{"region": "selva"})
	assert.Equal(t, http.StatusConflict, rr.Code, "guard rejects overlapping walks")

	out = s.act(t, id, "/map/select", map[string]string{"region": "selva"})
	assert.Empty(t, out.Result, "select during a walk only opens the panel")
	require.NotNil(t, out.View.Map.Selected)
	assert.Equal(t, scene.RegionSelva, out.View.Map.Selected.Region)
	assert.True(t, out.View.Map.Selected.Locked)

	s.clock.Advance(path.Duration)
	out = s.act(t, id, "/map/select", map[string]string{"region": "costa"})
	assert.NotEmpty(t, out.Result)
}

func TestGameHandler_LanguageAndDataPanel(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "es")
	s.toMap(t, id)
	s.navigate(t, id, "costa")
	base := "/v1/games/" + id.String()

	rr := s.do(t, http.MethodPost, base+"/language", map[string]string{"language": "de"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	out := s.act(t, id, "/language", map[string]string{"language": "en"})
	assert.Equal(t, "en", out.View.Language)

	rr = s.do(t, http.MethodGet, base+"/view", nil)
	assert.Equal(t, "en", rr.Header().Get("Content-Language"))

	out = s.act(t, id, "/data-panel", nil)
	var dp DataPanelResult
	require.NoError(t, json.Unmarshal(out.Result, &dp))
	assert.True(t, dp.Visible)
	assert.NotEmpty(t, dp.Panel.Readings)
	require.NotNil(t, out.View.DataPanel)

	out = s.act(t, id, "/data-panel", map[string]bool{"visible": false})
	assert.Nil(t, out.View.DataPanel)

	s.navigate(t, id, "costa-m1")
	rr = s.do(t, http.MethodPost, base+"/data-panel", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestGameHandler_Certificate(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "en")
	url := "/v1/games/" + id.String() + "/certificate"

	rr := s.do(t, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	s.mutateStored(t, id, func(gs *state.GameState) {
		for _, m := range []scene.Mission{scene.MissionQuiz, scene.MissionFishing, scene.MissionCleanup, scene.MissionSierra, scene.MissionSelva} {
			gs.Completed[m] = true
		}
	})

	rr = s.do(t, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	body := rr.Body.String()
	assert.Contains(t, body, "Guardian of Peru Certificate")
	assert.Contains(t, body, "2,845")
	assert.Contains(t, body, id.String())
}

func TestGameHandler_StorageFailures(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "es")

	s.storage.SetSaveError(errors.New("disk full"))
	rr := s.do(t, http.MethodPost, "/v1/games/"+id.String()+"/navigate", map[string]string{"scene": "intro"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "disk full")

	rr = s.do(t, http.MethodPost, "/v1/games", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	s.storage.SetSaveError(nil)

	s.storage.SetLoadError(errors.New("connection reset"))
	rr = s.do(t, http.MethodGet, "/v1/games/"+id.String()+"/view", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGameHandler_RejectedActionDoesNotSave(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "es")
	saves := s.storage.Saves()

	rr := s.do(t, http.MethodPost, "/v1/games/"+id.String()+"/navigate", map[string]string{"scene": "final"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	s.view(t, id)
	assert.Equal(t, saves, s.storage.Saves())
}

func TestGameHandler_PublishesEvents(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "es")

	sub, err := s.broadcaster.Subscribe(t.Context(), id)
	require.NoError(t, err)
	defer sub.Close()

	s.navigate(t, id, "intro")
	s.act(t, id, "/intro/advance", nil)
	s.act(t, id, "/language", map[string]string{"language": "en"})

	var types []string
	for i := 0; i < 3; i++ {
		select {
		case ev := <-sub.Events():
			types = append(types, string(ev.Type))
		case <-time.After(time.Second):
			t.Fatalf("timed out after %v", types)
		}
	}
	assert.Equal(t, []string{"scene.changed", "game.state_updated", "language.changed"}, types)
}

func TestSessionLocks(t *testing.T) {
	locks := newSessionLocks()
	id := uuid.New()
	counter := 0

	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		go func() {
			unlock := locks.Lock(id)
			counter++
			unlock()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 50; i++ {
		<-done
	}
	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locks.size())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(path.ErrAnimating))
	assert.Equal(t, http.StatusConflict, statusFor(state.ErrSceneLocked))
	assert.Equal(t, http.StatusBadRequest, statusFor(scene.ErrUnknownScene))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
