package content

import (
	"fmt"
	"regexp"
	"strings"
)

// Expected sizes of the fixed content sets.
const (
	StoryLines    = 6
	QuizQuestions = 5
	QuizOptions   = 3
	FishTotal     = 12
	TrashTotal    = 20
	TrashGood     = 15
)

// RequiredRegions are the region keys every locale must describe.
var RequiredRegions = []string{"costa", "sierra", "selva"}

// RequiredMissions are the mission keys every locale must describe.
var RequiredMissions = []string{"costa-m1", "costa-m2", "costa-m3", "sierra", "selva"}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// Validator collects problems found in a bundle.
type Validator struct {
	errors []string
}

// Validate checks every locale on its own and then checks that locales
// agree on everything gameplay depends on: correct answers, item kinds
// and ids.
func Validate(b *Bundle) error {
	v := &Validator{}
	v.validateBundle(b)
	if len(v.errors) > 0 {
		return fmt.Errorf("content validation failed:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *Validator) validateBundle(b *Bundle) {
	if b == nil || len(b.locales) == 0 {
		v.addError("bundle has no locales")
		return
	}
	base := b.locales[BaseLocale]
	for _, code := range b.Locales() {
		loc := b.locales[code]
		v.validateLocale(code, loc)
		if code != BaseLocale && base != nil {
			v.compareLocales(code, base, loc)
		}
	}
}

func (v *Validator) validateLocale(code string, l *Locale) {
	if strings.TrimSpace(l.Name) == "" {
		v.addError(fmt.Sprintf("%s: name is required", code))
	}
	if len(l.Messages) == 0 {
		v.addError(fmt.Sprintf("%s: messages table is empty", code))
	}
	if len(l.Story) != StoryLines {
		v.addError(fmt.Sprintf("%s: story has %d lines, want %d", code, len(l.Story), StoryLines))
	}
	for i, line := range l.Story {
		if strings.TrimSpace(line) == "" {
			v.addError(fmt.Sprintf("%s: story line %d is blank", code, i))
		}
	}

	for _, r := range RequiredRegions {
		rc, ok := l.Regions[r]
		if !ok {
			v.addError(fmt.Sprintf("%s: region %q is missing", code, r))
			continue
		}
		if rc.Name == "" || rc.Title == "" {
			v.addError(fmt.Sprintf("%s: region %q needs name and title", code, r))
		}
		if _, ok := l.DataPanels[r]; !ok {
			v.addError(fmt.Sprintf("%s: data panel %q is missing", code, r))
		}
	}
	for _, m := range RequiredMissions {
		if mc, ok := l.Missions[m]; !ok || mc.Title == "" {
			v.addError(fmt.Sprintf("%s: mission %q needs a title", code, m))
		}
	}

	if len(l.Quiz) != QuizQuestions {
		v.addError(fmt.Sprintf("%s: quiz has %d questions, want %d", code, len(l.Quiz), QuizQuestions))
	}
	for i, q := range l.Quiz {
		if len(q.Options) != QuizOptions {
			v.addError(fmt.Sprintf("%s: question %d has %d options, want %d", code, i, len(q.Options), QuizOptions))
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			v.addError(fmt.Sprintf("%s: question %d correct index %d out of range", code, i, q.Correct))
		}
	}

	v.validateItems(code, "fish", l.Fish, FishTotal, FishTotal/2)
	v.validateItems(code, "trash", l.Trash, TrashTotal, TrashGood)

	for _, p := range l.DataPanels {
		for _, r := range p.Readings {
			v.validateStatus(code, "reading "+r.Label, r.Status, true)
		}
	}
	for _, d := range l.Datasets {
		if !validIDRegex.MatchString(d.ID) {
			v.addError(fmt.Sprintf("%s: dataset id %q should be lowercase snake_case", code, d.ID))
		}
		v.validateStatus(code, "dataset "+d.ID, d.Status, false)
		if !strings.HasPrefix(d.Asset.Src, "/maps/") {
			v.addError(fmt.Sprintf("%s: dataset %q asset must live under /maps/", code, d.ID))
		}
	}
	for _, a := range l.Achievements {
		if !validIDRegex.MatchString(a.ID) {
			v.addError(fmt.Sprintf("%s: achievement id %q should be lowercase snake_case", code, a.ID))
		}
	}
	for _, s := range l.FinalStats {
		if !s.Count && (s.Value < 0 || s.Value > 100) {
			v.addError(fmt.Sprintf("%s: stat %q is a percentage outside 0..100", code, s.ID))
		}
	}
}

func (v *Validator) validateItems(code, kind string, items []Item, total, good int) {
	if len(items) != total {
		v.addError(fmt.Sprintf("%s: %s has %d items, want %d", code, kind, len(items), total))
	}
	seen := make(map[int]bool, len(items))
	n := 0
	for _, it := range items {
		if seen[it.ID] {
			v.addError(fmt.Sprintf("%s: %s id %d is duplicated", code, kind, it.ID))
		}
		seen[it.ID] = true
		if it.Good {
			n++
		}
	}
	if n != good {
		v.addError(fmt.Sprintf("%s: %s has %d good items, want %d", code, kind, n, good))
	}
}

func (v *Validator) validateStatus(code, what string, s Status, optional bool) {
	switch s {
	case StatusGood, StatusWarning, StatusDanger, StatusInfo:
		return
	case "":
		if optional {
			return
		}
	}
	v.addError(fmt.Sprintf("%s: %s has invalid status %q", code, what, s))
}

func (v *Validator) compareLocales(code string, base, l *Locale) {
	for key := range base.Messages {
		if _, ok := l.Messages[key]; !ok {
			v.addError(fmt.Sprintf("%s: message %q is missing", code, key))
		}
	}
	for i := range min(len(base.Quiz), len(l.Quiz)) {
		if base.Quiz[i].Correct != l.Quiz[i].Correct {
			v.addError(fmt.Sprintf("%s: question %d correct index differs from %s", code, i, BaseLocale))
		}
	}
	v.compareItems(code, "fish", base.Fish, l.Fish)
	v.compareItems(code, "trash", base.Trash, l.Trash)
	for _, d := range base.Datasets {
		if _, ok := l.Dataset(d.ID); !ok {
			v.addError(fmt.Sprintf("%s: dataset %q is missing", code, d.ID))
		}
	}
	if len(base.Achievements) != len(l.Achievements) {
		v.addError(fmt.Sprintf("%s: has %d achievements, %s has %d", code, len(l.Achievements), BaseLocale, len(base.Achievements)))
	}
}

func (v *Validator) compareItems(code, kind string, base, items []Item) {
	for _, b := range base {
		it, ok := findItem(items, b.ID)
		if !ok {
			v.addError(fmt.Sprintf("%s: %s id %d is missing", code, kind, b.ID))
			continue
		}
		if it.Good != b.Good {
			v.addError(fmt.Sprintf("%s: %s id %d kind differs from %s", code, kind, b.ID, BaseLocale))
		}
	}
}

func (v *Validator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
