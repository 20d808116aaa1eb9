package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apu-inti/guardian/pkg/content"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [content-dir]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Without a directory the embedded content is validated.")
		os.Exit(1)
	}

	fsys := content.Embedded()
	source := "embedded content"
	if len(os.Args) == 2 {
		source = os.Args[1]
		fsys = os.DirFS(source)
	}

	fmt.Printf("Validating %s...\n", source)
	if err := validateFS(fsys, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Content is valid!")
}

var localeFileRe = regexp.MustCompile(`^[a-z]{2}\.yaml$`)

// validateFS checks every locale file strictly, then the bundle as a whole.
func validateFS(fsys fs.FS, out io.Writer) error {
	paths, err := fs.Glob(fsys, "locales/*")
	if err != nil {
		return err
	}
	var errs []string
	for _, p := range paths {
		name := p[strings.LastIndex(p, "/")+1:]
		if !localeFileRe.MatchString(name) {
			errs = append(errs, fmt.Sprintf("  - %s: locale files must be named <two-letter code>.yaml", p))
			continue
		}
		if err := strictDecode(fsys, p); err != nil {
			errs = append(errs, fmt.Sprintf("  - %s: %v", p, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid locale files:\n%s", strings.Join(errs, "\n"))
	}

	b, err := content.LoadFromFS(fsys)
	if err != nil {
		return err
	}
	if err := content.Validate(b); err != nil {
		return err
	}

	for _, code := range b.Locales() {
		loc := b.Locale(code)
		fmt.Fprintf(out, "  %s (%s): %d messages, %d questions, %d fish, %d trash, %d datasets\n",
			code, loc.Name, len(loc.Messages), len(loc.Quiz), len(loc.Fish), len(loc.Trash), len(loc.Datasets))
	}
	return nil
}

// strictDecode rejects keys that do not map onto a Locale field.
func strictDecode(fsys fs.FS, p string) error {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var loc content.Locale
	if err := dec.Decode(&loc); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("file is empty")
		}
		return fmt.Errorf("failed strict YAML unmarshaling: %w", err)
	}
	return nil
}
