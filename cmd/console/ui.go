package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/wordwrap"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/meter"
	"github.com/apu-inti/guardian/pkg/path"
	"github.com/apu-inti/guardian/pkg/state"
)

const (
	hudWidth     = 28
	refreshDelay = 400 * time.Millisecond
	mapCols      = 40
	mapRows      = 12
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config   *ConsoleConfig
	client   *http.Client
	view     *state.View
	choices  []choice
	cursor   int
	viewport viewport.Model
	spinner  spinner.Model
	bar      progress.Model
	ready    bool
	width    int
	height   int
	err      error
	notice   string
	loading  bool

	// Quit confirmation state
	showQuitModal bool
}

type viewMsg struct {
	view   *state.View
	notice string
	err    error
}

type noticeMsg struct {
	notice string
	err    error
}

type refreshMsg struct{}

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(1)

	hudPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // gold
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true)

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("62"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, v *state.View) ConsoleUI {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = noticeStyle

	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	m := ConsoleUI{
		config:   cfg,
		client:   client,
		viewport: vp,
		spinner:  sp,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(hudWidth-4), progress.WithoutPercentage()),
	}
	m.setView(v)
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.followUp()
}

// setView swaps in a fresh view and rebuilds the choice list.
func (m *ConsoleUI) setView(v *state.View) {
	if v == nil {
		return
	}
	prev := m.view
	m.view = v
	m.choices = choices(v)
	if prev == nil || prev.Scene != v.Scene || m.cursor >= len(m.choices) {
		m.cursor = 0
	}
	m.viewport.SetContent(renderScene(v, m.contentWidth()))
	if prev == nil || prev.Scene != v.Scene {
		m.viewport.GotoTop()
	}
}

func (m ConsoleUI) contentWidth() int {
	w := m.viewport.Width - 2
	if w < 20 {
		w = 20
	}
	return w
}

// followUp polls the server while something is time-driven: a pending
// scene change or a walk on the map.
func (m ConsoleUI) followUp() tea.Cmd {
	if m.view == nil {
		return nil
	}
	if m.view.Pending != nil || (m.view.Map != nil && m.view.Map.Animating) {
		return tea.Tick(refreshDelay, func(time.Time) tea.Msg { return refreshMsg{} })
	}
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width - hudWidth - 6
		m.viewport.Height = m.height - len(m.choices) - 6
		if m.viewport.Height < 5 {
			m.viewport.Height = 5
		}
		m.ready = true
		if m.view != nil {
			m.viewport.SetContent(renderScene(m.view, m.contentWidth()))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case viewMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.notice = msg.notice
			m.setView(msg.view)
			if m.width > 0 {
				m.viewport.Height = max(5, m.height-len(m.choices)-6)
			}
		}
		return m, m.followUp()

	case noticeMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.notice = msg.notice
		}
		return m, nil

	case refreshMsg:
		if m.loading {
			return m, m.followUp()
		}
		return m, m.fetchView("")

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.showQuitModal = true
		return m, nil
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
		return m, nil
	case tea.KeyEnter:
		if m.loading || len(m.choices) == 0 {
			return m, nil
		}
		return m.run(m.choices[m.cursor])
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.loading {
		return m, nil
	}
	switch msg.String() {
	case "q":
		m.showQuitModal = true
		return m, nil
	case "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "r":
		return m.start(m.fetchView(""))
	case "l":
		next := "es"
		if m.view != nil && m.view.Language == "es" {
			next = "en"
		}
		return m.run(choice{Suffix: "language", Body: map[string]string{"language": next}})
	case "d":
		if m.view != nil && m.view.HUD != nil {
			if _, ok := m.view.Scene.Region(); ok {
				return m.run(choice{Suffix: "data-panel"})
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) start(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.notice = ""
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m ConsoleUI) run(c choice) (tea.Model, tea.Cmd) {
	switch c.Local {
	case copyShareText:
		if m.view == nil || m.view.Final == nil {
			return m, nil
		}
		if err := clipboard.WriteAll(m.view.Final.ShareText); err != nil {
			m.err = fmt.Errorf("clipboard unavailable: %w", err)
			return m, nil
		}
		m.err = nil
		m.notice = "Copied: " + m.view.Final.ShareText
		return m, nil
	case downloadCertificate:
		return m.start(m.saveCertificate())
	}
	return m.start(m.postAction(c))
}

func (m ConsoleUI) fetchView(notice string) tea.Cmd {
	id := m.view.GameID
	return func() tea.Msg {
		v, err := getView(m.client, m.config.APIBaseURL, id)
		return viewMsg{view: v, notice: notice, err: err}
	}
}

func (m ConsoleUI) postAction(c choice) tea.Cmd {
	id := m.view.GameID
	return func() tea.Msg {
		ar, err := postAction(m.client, m.config.APIBaseURL, id, c.Suffix, c.Body)
		if err != nil {
			return viewMsg{err: err}
		}
		return viewMsg{view: ar.View, notice: describeResult(ar.Result)}
	}
}

func (m ConsoleUI) saveCertificate() tea.Cmd {
	id := m.view.GameID
	return func() tea.Msg {
		name, err := saveCertificate(m.client, m.config.APIBaseURL, id, m.config.CertificateDir)
		if err != nil {
			return noticeMsg{err: err}
		}
		return noticeMsg{notice: "Certificate saved to " + name}
	}
}

// describeResult turns an action result into a status line. Results
// without anything worth saying yield "".
func describeResult(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var r struct {
		Correct *bool         `json:"correct"`
		Success *bool         `json:"success"`
		Item    *content.Item `json:"item"`
		Walk    *path.Walk    `json:"walk"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return ""
	}
	switch {
	case r.Correct != nil:
		if *r.Correct {
			return "✅"
		}
		return "❌"
	case r.Item != nil:
		return r.Item.Icon + " " + r.Item.Name + ": " + r.Item.Info
	case r.Success != nil && !*r.Success:
		return "❌"
	case r.Walk != nil:
		return fmt.Sprintf("🚶 %s", r.Walk.Duration.Round(100*time.Millisecond))
	}
	return ""
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Quit Game?"))
	b.WriteString("\n\n")
	b.WriteString("Your session stays on the server until it expires.")
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	var menu strings.Builder
	for i, c := range m.choices {
		if i == m.cursor {
			menu.WriteString(selectedStyle.Render("▶ " + c.Label))
		} else {
			menu.WriteString("  " + c.Label)
		}
		menu.WriteString("\n")
	}

	status := promptStyle.Render("↑/↓ choose · Enter act · L language · D data · R refresh · Q quit")
	switch {
	case m.loading:
		status = m.spinner.View() + " " + promptStyle.Render("Working...")
	case m.err != nil:
		status = errorStyle.Render("Error: " + m.err.Error())
	case m.notice != "":
		status = noticeStyle.Render(wordwrap.String(m.notice, m.contentWidth()))
	}

	scenePanel := scenePanelStyle.Width(m.width - hudWidth - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			separatorStyle.Render(strings.Repeat("─", m.contentWidth())),
			menu.String(),
			status,
		),
	)
	hudPanel := hudPanelStyle.Width(hudWidth).Render(m.renderHUD())

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, hudPanel)
}

func (m ConsoleUI) renderHUD() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("APU INTI") + "\n")
	if m.view == nil {
		return b.String()
	}
	b.WriteString(promptStyle.Render(fmt.Sprintf("%s · %s", shortID(m.view.GameID), m.view.Language)) + "\n\n")

	hud := m.view.HUD
	if hud == nil {
		return b.String()
	}
	if hud.Region != "" {
		b.WriteString(subtitleStyle.Render(strings.ToUpper(hud.Region)) + "\n\n")
	}
	for _, row := range []struct {
		label string
		value meter.Meter
	}{
		{"🌱 Ecosystem", hud.Ecosystem},
		{"💧 Water", hud.Water},
		{"⚡ Energy", hud.Energy},
		{"🦋 Biodiversity", hud.Biodiversity},
		{"♻️ Sustainability", hud.Sustainability},
	} {
		b.WriteString(fmt.Sprintf("%s %d%%\n", row.label, row.value.Int()))
		b.WriteString(m.bar.ViewAs(float64(row.value.Int())/meter.Max) + "\n")
	}
	return b.String()
}

// renderScene draws the non-interactive part of a view.
func renderScene(v *state.View, width int) string {
	var b strings.Builder
	wrap := func(s string) string { return wordwrap.String(s, width) }
	heading := func(title, subtitle string) {
		b.WriteString(titleStyle.Render(title) + "\n")
		if subtitle != "" {
			b.WriteString(subtitleStyle.Render(wrap(subtitle)) + "\n")
		}
		b.WriteString("\n")
	}

	switch {
	case v.Menu != nil:
		heading(v.Menu.Title, v.Menu.Subtitle)
		b.WriteString(wrap(v.Menu.Tagline) + "\n\n")
		b.WriteString(promptStyle.Render(wrap(v.Menu.Footer)) + "\n")

	case v.Intro != nil:
		heading(fmt.Sprintf("%d / %d", v.Intro.Index+1, v.Intro.Total), "")
		b.WriteString(wrap(v.Intro.Line) + "\n")

	case v.Map != nil:
		heading(v.Map.Title, v.Map.Prompt)
		b.WriteString(renderMap(v.Map) + "\n\n")
		for _, r := range v.Map.Regions {
			line := fmt.Sprintf("%s %s  %d%%", r.Emoji, r.Name, r.Progress)
			if r.Locked {
				line = lockedStyle.Render(line) + " " + promptStyle.Render(r.LockText)
			} else if r.Completed {
				line += " ✅"
			}
			b.WriteString(line + "\n")
		}
		if s := v.Map.Selected; s != nil {
			b.WriteString("\n" + subtitleStyle.Render(s.Title) + "\n" + wrap(s.Description) + "\n")
		}

	case v.Costa != nil:
		heading(v.Costa.Title, v.Costa.Subtitle)
		for _, mc := range v.Costa.Missions {
			b.WriteString(fmt.Sprintf("%s %s\n", check(mc.Completed), mc.Title))
			b.WriteString(promptStyle.Render(wrap(mc.Summary)) + "\n")
		}

	case v.Quiz != nil:
		q := v.Quiz
		heading(q.Title, q.Objective)
		b.WriteString(fmt.Sprintf("❤️ %d   ⭐ %d   %d / %d\n\n", q.Lives, q.Score, min(q.Index+1, q.Total), q.Total))
		if q.Finished {
			b.WriteString(wrap(q.Message) + "\n")
			break
		}
		b.WriteString(wrap(q.Question) + "\n")
		if q.Feedback != "" {
			b.WriteString("\n" + noticeStyle.Render(q.Feedback) + "\n")
		}

	case v.Fishing != nil:
		f := v.Fishing
		heading(f.Title, f.Summary)
		b.WriteString(wrap(f.Objective) + "\n\n")
		b.WriteString(fmt.Sprintf("%s   ❤️ %d   ⚖️ %d%%\n", f.Counter, f.Lives, f.Balance))
		if f.Last != nil {
			b.WriteString("\n" + itemBox(f.Last, width))
		}
		if f.Message != "" {
			b.WriteString("\n" + errorStyle.Render(wrap(f.Message)) + "\n")
		}

	case v.Cleanup != nil:
		c := v.Cleanup
		heading(c.Title, c.Summary)
		b.WriteString(wrap(c.Objective) + "\n\n")
		b.WriteString(fmt.Sprintf("🧹 %d%%   ❤️ %d\n", c.Cleaned, c.Lives))
		if c.Last != nil {
			b.WriteString("\n" + itemBox(c.Last, width))
		}
		if c.Message != "" {
			b.WriteString("\n" + noticeStyle.Render(wrap(c.Message)) + "\n")
		}

	case v.Board != nil:
		bv := v.Board
		heading(bv.Title, bv.Subtitle)
		b.WriteString(wrap(bv.Objective) + "\n\n")
		rows := make([][]string, 0, len(bv.Gauges))
		for _, g := range bv.Gauges {
			rows = append(rows, []string{g.Label, fmt.Sprintf("%d%%", g.Value)})
		}
		b.WriteString(renderTable(rows) + "\n")
		if bv.Completed {
			b.WriteString(noticeStyle.Render("✅") + "\n")
		}

	case v.NASA != nil:
		heading(v.NASA.Title, "")
		rows := make([][]string, 0, len(v.NASA.Progress))
		for _, p := range v.NASA.Progress {
			rows = append(rows, []string{p.Name, p.Label, fmt.Sprintf("%d%%", p.Percent)})
		}
		b.WriteString(renderTable(rows) + "\n\n")
		for _, d := range v.NASA.Datasets {
			b.WriteString(subtitleStyle.Render(d.Title) + "  " + d.Value + "\n")
			b.WriteString(promptStyle.Render(wrap(d.Description)) + "\n\n")
		}
		b.WriteString(promptStyle.Render(wrap(v.NASA.Footer)) + "\n")

	case v.Final != nil:
		f := v.Final
		heading(f.Title, f.Subtitle)
		rows := make([][]string, 0, len(f.Stats))
		for _, s := range f.Stats {
			rows = append(rows, []string{s.Icon + " " + s.Label, s.Display})
		}
		b.WriteString(renderTable(rows) + "\n\n")
		for _, a := range f.Achievements {
			b.WriteString(fmt.Sprintf("%s %s %s\n", check(a.Unlocked), a.Icon, a.Title))
		}
		b.WriteString("\n" + wrap(f.Message) + "\n")
	}

	if v.DataPanel != nil {
		b.WriteString("\n" + renderPanel(v.DataPanel))
	}
	if v.Pending != nil {
		b.WriteString("\n" + promptStyle.Render("→ "+string(v.Pending.To)+" ...") + "\n")
	}
	return b.String()
}

func itemBox(info *state.ItemInfo, width int) string {
	text := info.Icon + " " + info.Name
	if info.Verdict != "" {
		text += "  " + info.Verdict
	}
	text += "\n" + wordwrap.String(info.Info, max(10, width-6))
	return modalStyle.Render(text) + "\n"
}

func renderPanel(p *content.Panel) string {
	rows := make([][]string, 0, len(p.Readings))
	for _, r := range p.Readings {
		rows = append(rows, []string{r.Label, strings.TrimSpace(r.Value + " " + r.Unit)})
	}
	return subtitleStyle.Render("🛰️ "+p.Title) + "\n" + renderTable(rows) + "\n"
}

func renderTable(rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		BorderRow(false).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return subtitleStyle
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// renderMap plots the regions, the trail and the character on a small
// character grid. Map coordinates are percentages.
func renderMap(mv *state.MapView) string {
	grid := make([][]rune, mapRows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat("·", mapCols))
	}
	plot := func(p path.Point, r rune) {
		x := int(p.X / 100 * float64(mapCols-1))
		y := int(p.Y / 100 * float64(mapRows-1))
		if x >= 0 && x < mapCols && y >= 0 && y < mapRows {
			grid[y][x] = r
		}
	}
	for _, f := range mv.Trail {
		plot(f.Position, '•')
	}
	for _, r := range mv.Regions {
		mark := []rune(strings.ToUpper(string(r.Region)))[0]
		if r.Locked {
			mark = '#'
		}
		plot(r.Position, mark)
	}
	plot(mv.Character, '@')

	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return separatorStyle.Render(strings.Join(lines, "\n"))
}
