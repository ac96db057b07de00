package changelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/0k/chlog/commit"
	"github.com/0k/chlog/config"
	"github.com/0k/chlog/model"
)

const expectRest = `Changelog
=========


0.2.1 (unreleased)
------------------

Changes
~~~~~~~

- Improve latency. [Jane Doe]

0.2.0 (2020-08-17)
------------------

New
~~~

- Add widget support. [John Doe]
- Support dark mode. [John Doe]
  longer description line
  and a second line

Fix
~~~

- Resolve crash on startup. [John Doe]
`

const expectMarkdown = `# Changelog

## 0.2.1 (unreleased)

### Changes

* Improve latency. [Jane Doe]

## 0.2.0 (2020-08-17)

### New

* Add widget support. [John Doe]
* Support dark mode. [John Doe]
  longer description line
  and a second line

### Fix

* Resolve crash on startup. [John Doe]
`

func TestRenderRest(t *testing.T) {
	r, err := New(config.GetDefault())
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.RenderString(RenderData{Releases: testReleases()})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(expectRest, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderMarkdown(t *testing.T) {
	cfg := config.GetDefault()
	cfg.Format = "markdown"
	r, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.RenderString(RenderData{Releases: testReleases()})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(expectMarkdown, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderProjectName(t *testing.T) {
	r, err := New(config.GetDefault())
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.RenderString(RenderData{Name: "widgets", Releases: nil})
	if err != nil {
		t.Fatal(err)
	}
	expect := "widgets\n=======\n\n"
	if got != expect {
		t.Errorf("expected header %q, got %q", expect, got)
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "changelog.tmpl")
	if err := os.WriteFile(p, []byte("{{ range .Releases }}{{ .Version }}\n{{ end }}"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.GetDefault()
	cfg.TemplatePath = p
	r, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.RenderString(RenderData{Releases: testReleases()})
	if err != nil {
		t.Fatal(err)
	}
	expect := "0.2.1 (unreleased)\n0.2.0\n"
	if got != expect {
		t.Errorf("expected %q, got %q", expect, got)
	}
}

func TestRenderCustomTemplateMissing(t *testing.T) {
	cfg := config.GetDefault()
	cfg.TemplatePath = filepath.Join(t.TempDir(), "nope.tmpl")
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for missing template file")
	}
}

func TestDefaultFilename(t *testing.T) {
	if fn := DefaultFilename("rest"); fn != "CHANGELOG.rst" {
		t.Errorf("expected CHANGELOG.rst, got %s", fn)
	}
	if fn := DefaultFilename("markdown"); fn != "CHANGELOG.md" {
		t.Errorf("expected CHANGELOG.md, got %s", fn)
	}
}

func testReleases() []*commit.Release {
	john := &model.Commit{ID: "deadbeef", Author: "John Doe"}
	jane := &model.Commit{ID: "cafebabe", Author: "Jane Doe"}
	return []*commit.Release{
		{
			Version:    "0.2.1 (unreleased)",
			Unreleased: true,
			Date:       time.Date(2020, 8, 18, 0, 0, 0, 0, time.UTC),
			Sections: []*commit.ReleaseSection{
				{Label: "Changes", Entries: []*commit.Entry{
					{Commit: jane, Section: "Changes", Type: "chg", Subject: "improve latency"},
				}},
			},
		},
		{
			Version: "0.2.0",
			Date:    time.Date(2020, 8, 17, 0, 0, 0, 0, time.UTC),
			Sections: []*commit.ReleaseSection{
				{Label: "New", Entries: []*commit.Entry{
					{Commit: john, Section: "New", Type: "new", Subject: "add widget support"},
					{Commit: john, Section: "New", Type: "new", Subject: "support dark mode", Body: "longer description line\nand a second line"},
				}},
				{Label: "Fix", Entries: []*commit.Entry{
					{Commit: john, Section: "Fix", Type: "fix", Subject: "resolve crash on startup"},
				}},
			},
		},
	}
}
