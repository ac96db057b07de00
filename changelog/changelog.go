// Package changelog renders release blocks into changelog documents.
package changelog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/0k/chlog/commit"
	"github.com/0k/chlog/config"
)

// RenderData is the root object handed to changelog templates.
type RenderData struct {
	Name     string
	Releases []*commit.Release
}

var funcMap = template.FuncMap{
	"join":      strings.Join,
	"title":     releaseTitle,
	"underline": underline,
	"ucfirst":   ucfirst,
	"finaldot":  finalDot,
	"indent":    indent,
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
}

// Renderer renders releases with a builtin or custom template.
type Renderer struct {
	cfg config.Config
	t   *template.Template
}

func New(cfg config.Config) (*Renderer, error) {
	var tmpl, name string
	switch {
	case cfg.TemplatePath != "":
		b, err := os.ReadFile(cfg.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("changelog: reading template: %w", err)
		}
		tmpl, name = string(b), "custom"
	case cfg.Format == "markdown":
		tmpl, name = markdownTemplate, "markdown"
	default:
		tmpl, name = restTemplate, "rest"
	}

	t, err := template.New(name).Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("changelog: parsing %s template: %w", name, err)
	}
	return &Renderer{cfg: cfg, t: t}, nil
}

func (r *Renderer) Render(w io.Writer, d RenderData) error {
	return r.t.Execute(w, d)
}

func (r *Renderer) RenderString(d RenderData) (string, error) {
	b := &bytes.Buffer{}
	if err := r.Render(b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DefaultFilename returns the conventional changelog file name for a
// builtin format.
func DefaultFilename(format string) string {
	if format == "markdown" {
		return "CHANGELOG.md"
	}
	return "CHANGELOG.rst"
}

// releaseTitle renders a release heading. The unreleased label already
// carries its own annotation, released versions get their date.
func releaseTitle(r *commit.Release) string {
	if r.Unreleased || r.Date.IsZero() {
		return r.Version
	}
	return fmt.Sprintf("%s (%s)", r.Version, r.Date.Format("2006-01-02"))
}

func underline(s, ch string) string {
	return strings.Repeat(ch, utf8.RuneCountInString(s))
}

func ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func finalDot(s string) string {
	if s == "" || strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}
