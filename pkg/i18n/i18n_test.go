package i18n

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/apu-inti/guardian/pkg/content"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		in     string
		want   language.Tag
		wantOK bool
	}{
		{"es", language.Spanish, true},
		{"en", language.English, true},
		{"es-PE", language.Spanish, true},
		{" en-GB ", language.English, true},
		{"fr", language.Und, false},
		{"", language.Und, false},
		{"not a tag!", language.Und, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTag(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("de")
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestResolveTag(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/datasets?lang=en", nil)
	r.Header.Set("Accept-Language", "es-PE,es;q=0.9")
	assert.Equal(t, language.English, ResolveTag(r, DefaultTag()), "query parameter wins")

	r = httptest.NewRequest("GET", "/v1/datasets", nil)
	r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	assert.Equal(t, language.English, ResolveTag(r, language.Spanish))

	r = httptest.NewRequest("GET", "/v1/datasets", nil)
	assert.Equal(t, language.Spanish, ResolveTag(r, language.Spanish))
	assert.Equal(t, language.English, ResolveTag(nil, language.English))
}

func TestTranslator(t *testing.T) {
	b := content.MustLoadEmbedded()
	require.NoError(t, Register(b))

	es := NewTranslator(b, language.Spanish)
	assert.Equal(t, "🎮 Jugar", es.T("menu.play"))
	assert.Equal(t, "Peces capturados: 3 / 5", es.T("mission.fishing_caught", 3, 5))
	assert.Equal(t, "🌳 Reforestar (Req: 30% temp)", es.T("sierra.reforest"))

	en := NewTranslator(b, language.English)
	assert.Equal(t, "🎯 Go to Coast", en.T("map.go_to", "Coast"))
	assert.Equal(t, "en", en.Locale().Locale)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Español", Label(language.Spanish))
	assert.Equal(t, "English", Label(language.English))
	assert.Equal(t, "es", Code(language.MustParse("es-PE")))
}

func TestTranslator_Number(t *testing.T) {
	b := content.MustLoadEmbedded()
	en := NewTranslator(b, language.English)
	assert.Equal(t, "2,845", en.Number(2845))
	assert.Equal(t, "156", en.Number(156))
}
