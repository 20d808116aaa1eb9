// Package i18n resolves the player's language and formats localized UI
// strings from the content bundle.
package i18n

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"

	"github.com/apu-inti/guardian/pkg/content"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// ErrUnsupportedLanguage is returned for tags outside SupportedTags.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var (
	supported = []language.Tag{language.Spanish, language.English}
	matcher   = language.NewMatcher(supported)
)

// SupportedTags returns the languages the game ships with. The first is
// the default.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// DefaultTag returns the default language.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag parses a language code and reports whether it is supported.
// Regional variants ("es-PE", "en-GB") resolve to their base language.
func ParseTag(s string) (language.Tag, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	base, _ := tag.Base()
	for _, t := range supported {
		if b, _ := t.Base(); b == base {
			return t, true
		}
	}
	return language.Und, false
}

// Parse is ParseTag that returns ErrUnsupportedLanguage instead of a bool.
func Parse(s string) (language.Tag, error) {
	tag, ok := ParseTag(s)
	if !ok {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	return tag, nil
}

// MatchTags picks the best supported language for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultTag()
	}
	return supported[idx]
}

// ResolveTag picks the language for an HTTP request: the lang query
// parameter first, then Accept-Language, then fallback.
func ResolveTag(r *http.Request, fallback language.Tag) language.Tag {
	if r == nil {
		return fallback
	}
	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return MatchTags(tags)
		}
	}
	return fallback
}

// Code returns the two-letter code used as the content locale key.
func Code(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// Label returns the language name written in that language, title-cased.
func Label(tag language.Tag) string {
	name := display.Self.Name(tag)
	if name == "" {
		return Code(tag)
	}
	return cases.Title(tag).String(name)
}

// Register loads every message of the bundle into the x/text catalog.
func Register(b *content.Bundle) error {
	if b == nil {
		return errors.New("nil content bundle")
	}
	for _, code := range b.Locales() {
		tag, err := language.Parse(code)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", code, err)
		}
		msgs := b.Locale(code).Messages
		keys := make([]string, 0, len(msgs))
		for k := range msgs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := message.SetString(tag, k, msgs[k]); err != nil {
				return fmt.Errorf("register %s/%s: %w", code, k, err)
			}
		}
	}
	return nil
}

// Translator formats UI strings for one language.
type Translator struct {
	tag     language.Tag
	bundle  *content.Bundle
	printer *message.Printer
}

// NewTranslator returns a Translator for tag. The bundle must already be
// registered with Register for formatted keys to resolve.
func NewTranslator(b *content.Bundle, tag language.Tag) *Translator {
	return &Translator{tag: tag, bundle: b, printer: message.NewPrinter(tag)}
}

// Tag returns the translator's language.
func (t *Translator) Tag() language.Tag {
	return t.tag
}

// T returns the message for key. With args the message is treated as a
// format string; without args it is returned verbatim.
func (t *Translator) T(key string, args ...any) string {
	if len(args) == 0 {
		return t.bundle.Message(Code(t.tag), key)
	}
	return t.printer.Sprintf(key, args...)
}

// Number formats n with the language's digit grouping.
func (t *Translator) Number(n int) string {
	return t.printer.Sprintf("%d", n)
}

// Locale returns the content for the translator's language.
func (t *Translator) Locale() *content.Locale {
	return t.bundle.Locale(Code(t.tag))
}
