package state

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/i18n"
	"github.com/apu-inti/guardian/pkg/meter"
	"github.com/apu-inti/guardian/pkg/minigame"
	"github.com/apu-inti/guardian/pkg/path"
	"github.com/apu-inti/guardian/pkg/scene"
)

// View is the localized view model of the active scene. Exactly one of
// the scene sections is set.
type View struct {
	GameID    string             `json:"game_id"`
	Scene     scene.Scene        `json:"scene"`
	Language  string             `json:"language"`
	Exits     []Exit             `json:"exits"`
	HUD       *meter.HUD         `json:"hud,omitempty"`
	DataPanel *content.Panel     `json:"data_panel,omitempty"`
	Pending   *PendingNavigation `json:"pending,omitempty"`

	Menu    *MenuView    `json:"menu,omitempty"`
	Intro   *IntroView   `json:"intro,omitempty"`
	Map     *MapView     `json:"map,omitempty"`
	Costa   *CostaView   `json:"costa,omitempty"`
	Quiz    *QuizView    `json:"quiz,omitempty"`
	Fishing *FishingView `json:"fishing,omitempty"`
	Cleanup *CleanupView `json:"cleanup,omitempty"`
	Board   *BoardView   `json:"board,omitempty"`
	NASA    *NASAView    `json:"nasa,omitempty"`
	Final   *FinalView   `json:"final,omitempty"`
}

// Exit is a scene reachable from the current one.
type Exit struct {
	Scene  scene.Scene `json:"scene"`
	Locked bool        `json:"locked"`
}

// LanguageOption is a selectable language.
type LanguageOption struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type MenuView struct {
	Title     string           `json:"title"`
	Subtitle  string           `json:"subtitle"`
	Tagline   string           `json:"tagline"`
	Play      string           `json:"play"`
	NASA      string           `json:"nasa"`
	Languages []LanguageOption `json:"languages"`
	Footer    string           `json:"footer"`
}

type IntroView struct {
	Line     string `json:"line"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Finished bool   `json:"finished"`
}

// RegionMarker is a region pin on the map.
type RegionMarker struct {
	Region      scene.Region `json:"region"`
	Name        string       `json:"name"`
	Emoji       string       `json:"emoji"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Position    path.Point   `json:"position"`
	Locked      bool         `json:"locked"`
	LockText    string       `json:"lock_text,omitempty"`
	Progress    int          `json:"progress"`
	Completed   bool         `json:"completed"`
}

type MapView struct {
	Title       string           `json:"title"`
	Prompt      string           `json:"prompt"`
	Character   path.Point       `json:"character"`
	Animating   bool             `json:"animating"`
	Trail       []path.Footprint `json:"trail,omitempty"`
	Regions     []RegionMarker   `json:"regions"`
	Selected    *RegionMarker    `json:"selected,omitempty"`
	FinalLocked bool             `json:"final_locked"`
}

// MissionCard is a Costa sub-mission entry.
type MissionCard struct {
	Mission   scene.Mission `json:"mission"`
	Title     string        `json:"title"`
	Summary   string        `json:"summary"`
	Completed bool          `json:"completed"`
}

type CostaView struct {
	Title     string        `json:"title"`
	Subtitle  string        `json:"subtitle"`
	Missions  []MissionCard `json:"missions"`
	Completed bool          `json:"completed"`
}

type QuizView struct {
	Title     string   `json:"title"`
	Objective string   `json:"objective"`
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Question  string   `json:"question,omitempty"`
	Options   []string `json:"options,omitempty"`
	Selected  int      `json:"selected"`
	Feedback  string   `json:"feedback,omitempty"`
	Score     int      `json:"score"`
	Lives     int      `json:"lives"`
	Finished  bool     `json:"finished"`
	Message   string   `json:"message,omitempty"`
}

// ItemInfo is the info modal of the last clicked item.
type ItemInfo struct {
	content.Item
	Verdict string `json:"verdict"`
}

type FishingView struct {
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Objective string         `json:"objective"`
	Started   bool           `json:"started"`
	Pool      []content.Item `json:"pool,omitempty"`
	Caught    int            `json:"caught"`
	MaxCatch  int            `json:"max_catch"`
	Counter   string         `json:"counter"`
	Lives     int            `json:"lives"`
	Balance   int            `json:"balance"`
	Last      *ItemInfo      `json:"last,omitempty"`
	Finished  bool           `json:"finished"`
	Success   bool           `json:"success"`
	Message   string         `json:"message,omitempty"`
}

type CleanupView struct {
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Objective string         `json:"objective"`
	Items     []content.Item `json:"items"`
	Cleaned   int            `json:"cleaned"`
	Lives     int            `json:"lives"`
	Last      *ItemInfo      `json:"last,omitempty"`
	Done      bool           `json:"done"`
	Message   string         `json:"message,omitempty"`
}

// Gauge is a labeled board reading.
type Gauge struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ActionView is a labeled board button.
type ActionView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

type BoardView struct {
	Region      scene.Region `json:"region"`
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle"`
	Objective   string       `json:"objective"`
	Gauges      []Gauge      `json:"gauges"`
	Actions     []ActionView `json:"actions"`
	CanComplete bool         `json:"can_complete"`
	Completed   bool         `json:"completed"`
}

// ProgressView is a localized region progress row.
type ProgressView struct {
	RegionProgress
	Name  string `json:"name"`
	Label string `json:"label"`
}

type NASAView struct {
	Title    string            `json:"title"`
	Progress []ProgressView    `json:"progress"`
	Datasets []content.Dataset `json:"datasets"`
	Footer   string            `json:"footer"`
}

// StatView is a final-screen stat formatted for display.
type StatView struct {
	content.Stat
	Display string `json:"display"`
}

type FinalView struct {
	Title        string            `json:"title"`
	Subtitle     string            `json:"subtitle"`
	Stats        []StatView        `json:"stats"`
	Achievements []AchievementView `json:"achievements"`
	Unlocked     int               `json:"unlocked"`
	Message      string            `json:"message"`
	ShareText    string            `json:"share_text"`
}

// Translator returns the translator for the session language.
func (e *Engine) Translator(gs *GameState) *i18n.Translator {
	tag, ok := i18n.ParseTag(gs.Language)
	if !ok {
		tag = i18n.DefaultTag()
	}
	return i18n.NewTranslator(e.content, tag)
}

// View renders the active scene.
func (e *Engine) View(gs *GameState) *View {
	tr := e.Translator(gs)
	loc := tr.Locale()

	v := &View{
		GameID:   gs.ID.String(),
		Scene:    gs.Scene,
		Language: gs.Language,
		HUD:      gs.HUD(),
		Pending:  gs.Pending,
	}
	for _, s := range gs.Scene.Next() {
		v.Exits = append(v.Exits, Exit{Scene: s, Locked: !gs.Unlocked(s)})
	}
	if gs.DataPanel {
		if r, ok := gs.Scene.Region(); ok {
			p := loc.DataPanels[string(r)]
			v.DataPanel = &p
		}
	}

	switch gs.Scene {
	case scene.Menu:
		v.Menu = e.menuView(gs, tr)
	case scene.Intro:
		v.Intro = introView(gs, loc)
	case scene.Map:
		v.Map = e.mapView(gs, tr)
	case scene.Costa:
		v.Costa = costaView(gs, loc)
	case scene.CostaM1:
		v.Quiz = quizView(gs, tr)
	case scene.CostaM2:
		v.Fishing = fishingView(gs, tr)
	case scene.CostaM3:
		v.Cleanup = cleanupView(gs, tr)
	case scene.Sierra:
		v.Board = boardView(gs, tr, scene.RegionSierra)
	case scene.Selva:
		v.Board = boardView(gs, tr, scene.RegionSelva)
	case scene.NASA:
		v.NASA = nasaView(gs, tr)
	case scene.Final:
		v.Final = finalView(gs, tr)
	}
	return v
}

func (e *Engine) menuView(gs *GameState, tr *i18n.Translator) *MenuView {
	m := &MenuView{
		Title:    tr.T("game.title"),
		Subtitle: tr.T("game.subtitle"),
		Tagline:  tr.T("game.tagline"),
		Play:     tr.T("menu.play"),
		NASA:     tr.T("menu.nasa"),
		Footer:   tr.T("menu.footer"),
	}
	for _, tag := range i18n.SupportedTags() {
		code := i18n.Code(tag)
		m.Languages = append(m.Languages, LanguageOption{Code: code, Label: i18n.Label(tag), Active: code == gs.Language})
	}
	return m
}

func introView(gs *GameState, loc *content.Locale) *IntroView {
	iv := &IntroView{Index: gs.Intro.Line, Total: len(loc.Story), Finished: gs.Intro.Finished()}
	if gs.Intro.Line >= 0 && gs.Intro.Line < len(loc.Story) {
		iv.Line = loc.Story[gs.Intro.Line]
	}
	return iv
}

func (e *Engine) mapView(gs *GameState, tr *i18n.Translator) *MapView {
	loc := tr.Locale()
	ch := gs.character()
	mv := &MapView{
		Title:       tr.T("map.title"),
		Prompt:      tr.T("map.choose_region"),
		Character:   ch.Position,
		Animating:   ch.Animating(e.now()),
		Trail:       ch.Trail,
		FinalLocked: !gs.Unlocked(scene.Final),
	}
	for _, r := range scene.Regions {
		rc := loc.Regions[string(r)]
		pos, _ := path.Target(r)
		p := gs.Progress(r)
		m := RegionMarker{
			Region:      r,
			Name:        rc.Name,
			Emoji:       rc.Emoji,
			Title:       rc.Title,
			Description: rc.Description,
			Position:    pos,
			Locked:      p.Locked,
			Progress:    p.Percent,
			Completed:   p.Status == Completed,
		}
		if m.Locked {
			m.LockText = rc.LockText
		}
		mv.Regions = append(mv.Regions, m)
		if r == gs.Map.Selected {
			sel := m
			mv.Selected = &sel
		}
	}
	return mv
}

func costaView(gs *GameState, loc *content.Locale) *CostaView {
	rc := loc.Regions[string(scene.RegionCosta)]
	cv := &CostaView{Title: rc.Title, Subtitle: rc.Subtitle, Completed: gs.RegionComplete(scene.RegionCosta)}
	for _, m := range scene.CostaMissions {
		mc := loc.Missions[string(m)]
		cv.Missions = append(cv.Missions, MissionCard{
			Mission:   m,
			Title:     mc.Title,
			Summary:   mc.Summary,
			Completed: gs.IsCompleted(m),
		})
	}
	return cv
}

func quizView(gs *GameState, tr *i18n.Translator) *QuizView {
	loc := tr.Locale()
	mc := loc.Missions[string(scene.MissionQuiz)]
	q := gs.Quiz
	if q == nil {
		q = minigame.NewQuiz(len(loc.Quiz))
	}
	qv := &QuizView{
		Title:     mc.Title,
		Objective: mc.Objective,
		Index:     q.Index,
		Total:     q.Total,
		Selected:  q.Selected,
		Score:     q.Score,
		Lives:     q.Lives,
		Finished:  q.Finished,
	}
	if q.Finished {
		qv.Message = tr.T("mission.quiz_done")
		if q.Ecosystem.Full() {
			qv.Message = tr.T("mission.quiz_full")
		}
		return qv
	}
	if q.Index < len(loc.Quiz) {
		qv.Question = loc.Quiz[q.Index].Text
		qv.Options = loc.Quiz[q.Index].Options
	}
	if q.Answered() {
		qv.Feedback = tr.T("mission.wrong")
		if q.LastCorrect {
			qv.Feedback = tr.T("mission.correct")
		}
	}
	return qv
}

func itemInfo(tr *i18n.Translator, it content.Item, okKey, noKey string) *ItemInfo {
	info := &ItemInfo{Item: it, Verdict: tr.T(noKey)}
	if it.Good {
		info.Verdict = tr.T(okKey)
	}
	return info
}

func fishingView(gs *GameState, tr *i18n.Translator) *FishingView {
	loc := tr.Locale()
	mc := loc.Missions[string(scene.MissionFishing)]
	f := gs.Fishing
	if f == nil {
		f = minigame.NewFishing()
	}
	fv := &FishingView{
		Title:     mc.Title,
		Summary:   mc.Summary,
		Objective: mc.Objective,
		Started:   f.Started,
		Caught:    f.Caught,
		MaxCatch:  minigame.MaxCatch,
		Counter:   tr.T("mission.fishing_caught", f.Caught, minigame.MaxCatch),
		Lives:     f.Lives,
		Balance:   f.Balance.Int(),
		Finished:  f.Finished(),
		Success:   f.Success(),
	}
	for _, id := range f.Pool {
		if it, ok := loc.FishByID(id); ok {
			fv.Pool = append(fv.Pool, it)
		}
	}
	if f.Last != 0 {
		if it, ok := loc.FishByID(f.Last); ok {
			fv.Last = itemInfo(tr, it, "mission.fishing_ok", "mission.fishing_no")
		}
	}
	if fv.Finished && !fv.Success {
		fv.Message = tr.T("mission.fishing_failed")
	}
	return fv
}

func cleanupView(gs *GameState, tr *i18n.Translator) *CleanupView {
	loc := tr.Locale()
	mc := loc.Missions[string(scene.MissionCleanup)]
	c := gs.Cleanup
	if c == nil {
		c = minigame.NewCleanup(loc.Trash)
	}
	cv := &CleanupView{
		Title:     mc.Title,
		Summary:   mc.Summary,
		Objective: mc.Objective,
		Cleaned:   c.Cleaned.Int(),
		Lives:     c.Lives,
		Done:      c.Done(),
	}
	for _, id := range c.Remaining {
		if it, ok := loc.TrashByID(id); ok {
			cv.Items = append(cv.Items, it)
		}
	}
	if c.Last != 0 {
		if it, ok := loc.TrashByID(c.Last); ok {
			cv.Last = itemInfo(tr, it, "mission.cleanup_ok", "mission.cleanup_no")
		}
	}
	if cv.Done {
		cv.Message = tr.T("mission.cleanup_done")
	}
	return cv
}

var actionLabels = map[string]string{
	minigame.ActionProtectCrops:      "sierra.protect",
	minigame.ActionCultivateTerraces: "sierra.cultivate",
	minigame.ActionReforest:          "sierra.reforest",
	minigame.ActionStopDeforestation: "selva.stop",
	minigame.ActionPlantTrees:        "selva.plant",
	minigame.ActionActivateSensors:   "selva.sensors",
	minigame.ActionComplete:          "mission.complete",
}

func boardView(gs *GameState, tr *i18n.Translator, r scene.Region) *BoardView {
	loc := tr.Locale()
	rc := loc.Regions[string(r)]
	mission := scene.MissionSierra
	if r == scene.RegionSelva {
		mission = scene.MissionSelva
	}
	bv := &BoardView{
		Region:    r,
		Title:     rc.Title,
		Subtitle:  rc.Subtitle,
		Objective: loc.Missions[string(mission)].Objective,
		Completed: gs.IsCompleted(mission),
	}

	b, _, err := gs.board(r)
	if err != nil {
		return bv
	}
	switch s := b.(type) {
	case *minigame.SierraBoard:
		bv.Gauges = []Gauge{
			{ID: "protection", Label: tr.T("sierra.protection"), Value: s.Protection.Int()},
			{ID: "forest", Label: tr.T("sierra.forest"), Value: s.Forest.Int()},
			{ID: "ecosystem", Label: tr.T("resources.ecosystem"), Value: s.Ecosystem.Int()},
		}
	case *minigame.SelvaBoard:
		bv.Gauges = []Gauge{
			{ID: "biodiversity", Label: tr.T("resources.biodiversity"), Value: s.Biodiversity.Int()},
			{ID: "co2", Label: tr.T("selva.co2"), Value: s.CO2.Int()},
			{ID: "ecosystem", Label: tr.T("resources.ecosystem"), Value: s.Ecosystem.Int()},
			{ID: "deforestation", Label: tr.T("selva.deforestation"), Value: s.Deforestation.Int()},
		}
	}
	for _, a := range b.Actions() {
		bv.Actions = append(bv.Actions, ActionView{ID: a.ID, Label: tr.T(actionLabels[a.ID]), Available: a.Available})
	}
	bv.CanComplete = b.CanComplete()
	return bv
}

func nasaView(gs *GameState, tr *i18n.Translator) *NASAView {
	loc := tr.Locale()
	nv := &NASAView{
		Title:    tr.T("nasa.title"),
		Datasets: loc.Datasets,
		Footer:   tr.T("nasa.footer"),
	}
	for _, r := range scene.Regions {
		p := gs.Progress(r)
		nv.Progress = append(nv.Progress, ProgressView{
			RegionProgress: p,
			Name:           loc.Regions[string(r)].Name,
			Label:          tr.T("progress." + string(p.Status)),
		})
	}
	return nv
}

func finalView(gs *GameState, tr *i18n.Translator) *FinalView {
	loc := tr.Locale()
	fv := &FinalView{
		Title:        tr.T("final.title"),
		Subtitle:     tr.T("final.subtitle"),
		Achievements: gs.Achievements(loc),
		Message:      tr.T("final.message"),
	}
	for _, s := range loc.FinalStats {
		display := fmt.Sprintf("%d%%", s.Value)
		if s.Count {
			display = tr.Number(s.Value)
		}
		fv.Stats = append(fv.Stats, StatView{Stat: s, Display: display})
	}
	for _, a := range fv.Achievements {
		if a.Unlocked {
			fv.Unlocked++
		}
	}
	fv.ShareText = tr.T("final.share_text", fv.Unlocked, len(fv.Achievements))
	return fv
}

// Summary is the final-screen model for certificates. It is available once
// every region is complete, whatever scene the player is on.
func (e *Engine) Summary(gs *GameState) (*FinalView, error) {
	if !gs.AllRegionsComplete() {
		return nil, fmt.Errorf("%w: %s", ErrSceneLocked, scene.Final)
	}
	return finalView(gs, e.Translator(gs)), nil
}

// Datasets lists the NASA datasets in the requested language.
func (e *Engine) Datasets(tag language.Tag) []content.Dataset {
	return e.content.Locale(i18n.Code(tag)).Datasets
}

// Dataset looks up one dataset in the requested language.
func (e *Engine) Dataset(tag language.Tag, id string) (content.Dataset, bool) {
	return e.content.Locale(i18n.Code(tag)).Dataset(id)
}
