// Package certificate renders the end-of-game certificate as a standalone
// HTML page.
package certificate

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/apu-inti/guardian/pkg/state"
)

// Certificate is the localized input of Render.
type Certificate struct {
	GameID              string
	Language            string
	Title               string
	Body                string
	ImpactHeading       string
	AchievementsHeading string
	Summary             *state.FinalView
	IssuedAt            time.Time
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

// Markdown builds the certificate body.
func Markdown(c Certificate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 📜 %s\n\n", c.Title)
	fmt.Fprintf(&b, "## %s\n\n", c.Summary.Title)
	fmt.Fprintf(&b, "%s\n\n", c.Body)
	fmt.Fprintf(&b, "%s\n\n", c.Summary.Message)

	fmt.Fprintf(&b, "### %s\n\n", c.ImpactHeading)
	b.WriteString("| | | |\n|---|---|---:|\n")
	for _, s := range c.Summary.Stats {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Icon, s.Label, s.Display)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "### %s (%d/%d)\n\n", c.AchievementsHeading, c.Summary.Unlocked, len(c.Summary.Achievements))
	for _, a := range c.Summary.Achievements {
		mark := "⬜"
		if a.Unlocked {
			mark = "✅"
		}
		fmt.Fprintf(&b, "- %s %s **%s**: %s\n", mark, a.Icon, a.Title, a.Description)
	}
	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "`%s` · %s\n", c.GameID, c.IssuedAt.UTC().Format("2006-01-02"))
	return b.String()
}

// Render writes the certificate as an HTML document.
func Render(w io.Writer, c Certificate) error {
	if c.Summary == nil {
		return fmt.Errorf("certificate needs a summary")
	}
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(c)), &body); err != nil {
		return fmt.Errorf("failed to render certificate: %w", err)
	}

	_, err := fmt.Fprintf(w, page, html.EscapeString(c.Language), html.EscapeString(c.Title), body.String())
	return err
}

const page = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; padding: 2rem; border: 6px double #b8860b; }
h1, h2 { text-align: center; }
table { width: 100%%; border-collapse: collapse; }
td { padding: .25rem .5rem; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
%s</body>
</html>
`
