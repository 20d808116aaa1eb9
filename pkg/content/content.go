// Package content holds the localized game data: story lines, quiz
// questions, mini-game items, region copy, satellite readings and the
// UI message table. Each locale lives in one embedded YAML file.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// BaseLocale is the fallback locale for missing keys.
const BaseLocale = "es"

// Status classifies a satellite reading.
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
	StatusInfo    Status = "info"
)

// Question is one multiple-choice quiz entry.
type Question struct {
	Text    string   `yaml:"q" json:"question"`
	Options []string `yaml:"options" json:"options"`
	Correct int      `yaml:"correct" json:"-"`
}

// Item is a clickable object in the fishing or cleanup mini-games. Good
// marks a fish that may be caught or a piece of trash that must be
// collected.
type Item struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon" json:"icon"`
	Good bool   `yaml:"good" json:"good"`
	Info string `yaml:"info" json:"info"`
}

// RegionCopy is the localized text attached to a map region.
type RegionCopy struct {
	Name        string `yaml:"name" json:"name"`
	Emoji       string `yaml:"emoji" json:"emoji"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Subtitle    string `yaml:"subtitle" json:"subtitle"`
	LockText    string `yaml:"lock_text" json:"lock_text"`
}

// MissionCopy is the localized header of a mission screen.
type MissionCopy struct {
	Title     string `yaml:"title" json:"title"`
	Summary   string `yaml:"summary" json:"summary"`
	Objective string `yaml:"objective" json:"objective"`
}

// Reading is one line of a data panel.
type Reading struct {
	Label  string `yaml:"label" json:"label"`
	Value  string `yaml:"value" json:"value"`
	Unit   string `yaml:"unit,omitempty" json:"unit,omitempty"`
	Status Status `yaml:"status,omitempty" json:"status,omitempty"`
}

// Panel is the satellite data overlay shown from a region screen.
type Panel struct {
	Title    string    `yaml:"title" json:"title"`
	Readings []Reading `yaml:"readings" json:"readings"`
}

// Asset is the map image that illustrates a dataset.
type Asset struct {
	Src        string `yaml:"src" json:"src"`
	Legend     string `yaml:"legend" json:"legend"`
	Resolution string `yaml:"resolution" json:"resolution"`
	Source     string `yaml:"source" json:"source"`
}

// Dataset is a NASA data card.
type Dataset struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Value       string `yaml:"value" json:"value"`
	Description string `yaml:"description" json:"description"`
	Region      string `yaml:"region" json:"region"`
	Status      Status `yaml:"status" json:"status"`
	Asset       Asset  `yaml:"asset" json:"asset"`
}

// Achievement is a badge shown on the final screen.
type Achievement struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

// Stat is a headline number on the final screen. Count stats are
// displayed as plain totals instead of percentages.
type Stat struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Value int    `yaml:"value" json:"value"`
	Icon  string `yaml:"icon" json:"icon"`
	Count bool   `yaml:"count,omitempty" json:"count,omitempty"`
}

// Locale is everything the game displays for one language.
type Locale struct {
	Locale       string                 `yaml:"locale"`
	Name         string                 `yaml:"name"`
	Messages     map[string]string      `yaml:"messages"`
	Story        []string               `yaml:"story"`
	Regions      map[string]RegionCopy  `yaml:"regions"`
	Missions     map[string]MissionCopy `yaml:"missions"`
	Quiz         []Question             `yaml:"quiz"`
	Fish         []Item                 `yaml:"fish"`
	Trash        []Item                 `yaml:"trash"`
	DataPanels   map[string]Panel       `yaml:"data_panels"`
	Datasets     []Dataset              `yaml:"datasets"`
	Achievements []Achievement          `yaml:"achievements"`
	FinalStats   []Stat                 `yaml:"final_stats"`
}

// Message returns a UI string by key.
func (l *Locale) Message(key string) (string, bool) {
	if l == nil {
		return "", false
	}
	v, ok := l.Messages[key]
	return v, ok
}

// Dataset looks up a NASA dataset by id.
func (l *Locale) Dataset(id string) (Dataset, bool) {
	if l == nil {
		return Dataset{}, false
	}
	for _, d := range l.Datasets {
		if d.ID == id {
			return d, true
		}
	}
	return Dataset{}, false
}

// FishByID finds a fish by id.
func (l *Locale) FishByID(id int) (Item, bool) {
	return findItem(l.Fish, id)
}

// TrashByID finds a cleanup item by id.
func (l *Locale) TrashByID(id int) (Item, bool) {
	return findItem(l.Trash, id)
}

func findItem(items []Item, id int) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Bundle holds every loaded locale.
type Bundle struct {
	locales map[string]*Locale
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

// Embedded returns the filesystem holding the compiled-in locale files.
func Embedded() fs.FS {
	return embeddedFS
}

// LoadEmbedded loads the locale files compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// MustLoadEmbedded is LoadEmbedded for package-level initialization.
func MustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return b
}

// LoadFromFS loads every locales/*.yaml file found in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: make(map[string]*Locale, len(paths))}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		var loc Locale
		if err := yaml.Unmarshal(data, &loc); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", p, err)
		}
		want := strings.TrimSuffix(path.Base(p), path.Ext(p))
		loc.Locale = strings.TrimSpace(loc.Locale)
		if loc.Locale != want {
			return nil, fmt.Errorf("locale %s: locale %q must match file name %q", p, loc.Locale, want)
		}
		if _, dup := b.locales[loc.Locale]; dup {
			return nil, fmt.Errorf("locale %s: %q already loaded", p, loc.Locale)
		}
		b.locales[loc.Locale] = &loc
	}
	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	return b, nil
}

// Locales returns the loaded locale codes in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for code := range b.locales {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// HasLocale reports whether the locale was loaded.
func (b *Bundle) HasLocale(code string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[code]
	return ok
}

// Locale returns the content for code, falling back to BaseLocale.
func (b *Bundle) Locale(code string) *Locale {
	if b == nil {
		return nil
	}
	if l, ok := b.locales[code]; ok {
		return l
	}
	return b.locales[BaseLocale]
}

// Message resolves a UI string for code with base-locale fallback. A
// missing key resolves to the key itself.
func (b *Bundle) Message(code, key string) string {
	if v, ok := b.Locale(code).Message(key); ok {
		return v
	}
	if v, ok := b.Locale(BaseLocale).Message(key); ok {
		return v
	}
	return key
}
