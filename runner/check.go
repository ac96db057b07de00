package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/0k/chlog/commit"
	"github.com/0k/chlog/model"
)

type CheckFailure struct {
	Failures []FailureEntry
}

type FailureEntry struct {
	rawLine     string
	commitID    string
	commitTitle string
	err         error
}

func (cf CheckFailure) Error() string {
	return fmt.Sprintf("%d check(s) failed", len(cf.Failures))
}

func (cf CheckFailure) Is(other error) bool {
	_, ok := other.(CheckFailure)
	return ok
}

// WriteFailure prints the failures grouped by commit.
func (cf CheckFailure) WriteFailure(w io.Writer) error {
	if len(cf.Failures) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)

	var order []string
	grouped := make(map[string][]FailureEntry)
	for _, f := range cf.Failures {
		key := f.commitID
		if key == "" {
			key = f.commitTitle
		}
		if key == "" {
			key = f.rawLine
		}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], f)
	}

	for _, key := range order {
		fs := grouped[key]
		title := fs[0].commitTitle
		if title == "" {
			title = fs[0].rawLine
		}
		bw.WriteString(title)
		bw.WriteString("\n")
		for _, f := range fs {
			bw.WriteString("  ")
			bw.WriteString(f.err.Error())
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

// CheckCommits validates commit messages against the policy table. Each
// logical entry must match the subject pattern unless the ignore rules
// drop it. Strict mode additionally requires every entry to land in a
// section other than the catch-all.
func (r *Runner) CheckCommits(ctx context.Context, commits []*model.Commit) ([]*commit.Entry, error) {
	var failures []FailureEntry
	var entries []*commit.Entry
	rules := r.analyzer.Rules()
	for _, c := range commits {
		entries = append(entries, rules.Classify(c)...)
		failures = append(failures, r.checkCommit(c)...)
	}
	if len(failures) > 0 {
		return nil, CheckFailure{Failures: failures}
	}
	return entries, nil
}

func (r *Runner) checkCommit(c *model.Commit) []FailureEntry {
	rules := r.analyzer.Rules()
	var failures []FailureEntry
	fail := func(err error) {
		failures = append(failures, FailureEntry{commitID: c.ID, commitTitle: c.Subject, err: err})
	}

	for _, chunk := range rules.Split(c.Message()) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		subject, _, _ := strings.Cut(chunk, "\n")
		subject = strings.TrimSpace(subject)
		if rules.Ignored(subject) {
			continue
		}

		typ, scope, _, ok := rules.Extract(subject)
		if !ok {
			fail(fmt.Errorf("%q does not match the commit pattern", subject))
			continue
		}
		if r.cfg.Strict {
			if sec, ok := rules.SectionFor(subject); !ok || sec == r.cfg.CatchAll() {
				fail(fmt.Errorf("%q does not map to a changelog section", subject))
			}
		}
		if scope != "" && len(r.cfg.AllowedScopes) > 0 && !inStrs(scope, r.cfg.AllowedScopes) {
			fail(fmt.Errorf("scope %q is disallowed", scope))
		}
		if typ != "" && len(r.cfg.AllowedTypes) > 0 && !inStrs(typ, r.cfg.AllowedTypes) {
			fail(fmt.Errorf("commit type %q is disallowed", typ))
		}
	}
	return failures
}

// CheckReadCommit validates a single raw commit message, as read from a
// commit-msg hook file or stdin.
func (r *Runner) CheckReadCommit(ctx context.Context, rdr io.Reader) ([]*commit.Entry, error) {
	raw, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}
	return r.CheckCommits(ctx, []*model.Commit{parseCommit(string(raw))})
}

// CheckCommitsFromGit checks every commit since the last release.
func (r *Runner) CheckCommitsFromGit(ctx context.Context) ([]*commit.Entry, error) {
	if err := r.Check(ctx); err != nil && !isWrongBranchError(err) {
		return nil, err
	}
	query := "HEAD"
	latest, err := r.analyzer.Latest(ctx)
	if err != nil && !errors.Is(err, commit.ErrNoTags) {
		return nil, err
	}
	if latest != nil {
		query = latest.Name + "..HEAD"
	}
	commits, err := r.vcs.ReadCommits(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.CheckCommits(ctx, commits)
}

// parseCommit reads a raw commit message, dropping comment lines the way
// git commit --cleanup does.
func parseCommit(s string) *model.Commit {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	msg := strings.TrimSpace(strings.Join(lines, "\n"))
	subject, body, _ := strings.Cut(msg, "\n")
	return &model.Commit{
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(body),
	}
}

func inStrs(s string, cands []string) bool {
	for _, cand := range cands {
		if s == cand {
			return true
		}
	}
	return false
}
