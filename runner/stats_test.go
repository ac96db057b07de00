package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/0k/chlog/model"
	"github.com/0k/chlog/vcs"
)

func TestStats(t *testing.T) {
	tio, _, _ := mockTermIO(nil)
	m := vcs.NewMock().SetCommits(
		&model.Commit{ID: "c4", Subject: "chg: dev: tweak the build"},
		&model.Commit{ID: "c3", Subject: "chg: usr: improve latency"},
		&model.Commit{ID: "c2", Subject: "new: add widget support"},
		&model.Commit{ID: "c1", Subject: "fix: resolve crash on startup"},
	)
	rnr, err := NewWithClock(newTestConfig(nil, &tio), m, testClock())
	if err != nil {
		t.Fatal(err)
	}

	stats, err := rnr.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Commits != 4 {
		t.Errorf("expected 4 commits, got %d", stats.Commits)
	}
	// the dev entry is dropped by the ignore rules
	if stats.Entries != 3 {
		t.Errorf("expected 3 entries, got %d", stats.Entries)
	}
	if len(stats.Counts) != 3 {
		t.Errorf("expected 3 counters, got %d", len(stats.Counts))
	}

	expectCounters := []string{"section", "commit_type", "scope"}
	for _, expect := range expectCounters {
		counts, ok := stats.Counts[expect]
		if !ok {
			t.Errorf("expected %q counter", expect)
		} else if len(counts) == 0 {
			t.Errorf("expected %q counter not to be empty", expect)
		}
	}

	b := &bytes.Buffer{}
	if err := stats.TextSummary(b); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.Contains(out, "4 commits, 3 changelog entries") {
		t.Errorf("unexpected summary header: %q", out)
	}
	for _, expect := range []string{"Section:", "Commit Type:", "Scope:", "n/a"} {
		if !strings.Contains(out, expect) {
			t.Errorf("expected %q in summary:\n%s", expect, out)
		}
	}
}

func TestStatsTolerateBranch(t *testing.T) {
	tio, _, _ := mockTermIO(nil)
	m := vcs.NewMock().SetBranch("feature").SetCommits(
		&model.Commit{ID: "c1", Subject: "fix: resolve crash on startup"},
	)
	rnr, err := NewWithClock(newTestConfig(nil, &tio), m, testClock())
	if err != nil {
		t.Fatal(err)
	}

	stats, err := rnr.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Commits != 1 {
		t.Errorf("expected stats on a feature branch, got %d commits", stats.Commits)
	}
}
