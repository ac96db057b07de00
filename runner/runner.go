// Package runner manages command-line execution
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/0k/chlog/changelog"
	"github.com/0k/chlog/clock"
	"github.com/0k/chlog/commit"
	"github.com/0k/chlog/config"
	"github.com/0k/chlog/vcs"
)

// commitMessage is dropped by the stock ignore rules, so committing a
// regenerated changelog never feeds it back into the next one.
const commitMessage = "chg: pkg: update changelog"

type WrongBranchError struct {
	Ref  string
	Main string
}

func (e WrongBranchError) Error() string {
	return fmt.Sprintf("runner: %s is not on main branch %s", e.Ref, e.Main)
}

func isWrongBranchError(err error) bool {
	var wb WrongBranchError
	return errors.As(err, &wb)
}

type Runner struct {
	cfg        config.Config
	vcs        vcs.Interface
	analyzer   *commit.Analyzer
	renderer   *changelog.Renderer
	mainBranch string
}

func New(cfg config.Config, vc vcs.Interface) (*Runner, error) {
	return NewWithClock(cfg, vc, nil)
}

func NewWithClock(cfg config.Config, vc vcs.Interface, clk clock.Clock) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	renderer, err := changelog.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:      cfg,
		vcs:      vc,
		analyzer: commit.NewAnalyzer(cfg, vc, clk),
		renderer: renderer,
	}, nil
}

// Check resolves the main branch and verifies the working copy is on it.
// CI checkouts are usually detached, so there the current commit is
// compared against the branch instead of the branch name.
func (r *Runner) Check(ctx context.Context) error {
	if r.mainBranch == "" {
		branches := r.cfg.Branches
		if r.cfg.InCI && !r.cfg.BranchesSet {
			branches = nil
		}
		mainBranch, err := r.vcs.GetMainBranch(ctx, branches)
		if err != nil {
			r.cfg.Printf("Get remote failed, falling back to defaults: %v", r.cfg.Branches)
			mainBranch, err = r.vcs.GetMainBranch(ctx, r.cfg.Branches)
			if err != nil {
				return err
			}
		}
		r.mainBranch = mainBranch
		r.cfg.Debugf("Main branch is %q", mainBranch)
	}

	if r.cfg.InCI {
		curr, err := r.vcs.CurrentCommit(ctx)
		if err != nil {
			return err
		}
		ok, err := r.vcs.BranchContains(ctx, curr, r.mainBranch)
		if err != nil {
			return err
		}
		if !ok && !r.cfg.Dryrun {
			return WrongBranchError{Ref: curr, Main: r.mainBranch}
		}
		return nil
	}

	currBranch, err := r.vcs.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if currBranch != r.mainBranch && !r.cfg.Dryrun {
		return WrongBranchError{Ref: currBranch, Main: r.mainBranch}
	}
	return nil
}

// Releases assembles the release list, newest first. In CI mode tags are
// fetched first since checkouts there are often shallow.
func (r *Runner) Releases(ctx context.Context) ([]*commit.Release, error) {
	if r.cfg.InCI {
		if err := r.vcs.Fetch(ctx, "origin", ""); err != nil {
			return nil, err
		}
	}
	releases, err := r.analyzer.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	return filterSince(releases, r.cfg.SinceTag)
}

// Changelog renders the assembled releases into a document.
func (r *Runner) Changelog(ctx context.Context) (string, error) {
	releases, err := r.Releases(ctx)
	if err != nil {
		return "", err
	}
	if len(releases) == 0 {
		return "", commit.ErrNoEntries
	}
	return r.renderer.RenderString(changelog.RenderData{
		Name:     r.name(ctx),
		Releases: releases,
	})
}

// Write renders the changelog to the configured output, stdout when the
// output is "-".
func (r *Runner) Write(ctx context.Context) error {
	doc, err := r.Changelog(ctx)
	if err != nil {
		return err
	}
	if out := r.cfg.Output; out != "" && out != "-" {
		return r.writeFile(out, doc)
	}
	_, err = io.WriteString(r.cfg.Term.Stdout, doc)
	return err
}

// CommitChangelog regenerates the changelog file and commits it. In CI
// mode the commit is pushed to the main branch afterward.
func (r *Runner) CommitChangelog(ctx context.Context) error {
	if err := r.Check(ctx); err != nil {
		return err
	}
	out := r.cfg.Output
	if out == "" || out == "-" {
		out = changelog.DefaultFilename(r.cfg.Format)
	}
	doc, err := r.Changelog(ctx)
	if err != nil {
		return err
	}
	if err := r.writeFile(out, doc); err != nil {
		return err
	}

	r.cfg.Printf("committing %s...", out)
	if err := r.vcs.Commit(ctx, vcs.CommitOpts{
		Message: commitMessage,
		Paths:   []string{out},
	}); err != nil {
		return err
	}
	if r.cfg.InCI {
		return r.vcs.Push(ctx, "origin", r.mainBranch, vcs.PushOpts{})
	}
	return nil
}

// Latest returns the newest release tag name.
func (r *Runner) Latest(ctx context.Context) (string, error) {
	tag, err := r.analyzer.Latest(ctx)
	if err != nil {
		return "", err
	}
	return tag.Name, nil
}

// Next returns the version an immediate release would get.
func (r *Runner) Next(ctx context.Context) (string, error) {
	v, err := r.analyzer.Next(ctx)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (r *Runner) writeFile(path, doc string) error {
	if r.cfg.Dryrun {
		r.cfg.Printf("+ write %s (%d bytes) (dryrun)", path, len(doc))
		return nil
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return err
	}
	r.cfg.Debugf("wrote %s (%d bytes)", path, len(doc))
	return nil
}

func (r *Runner) name(ctx context.Context) string {
	if r.cfg.Name != "" {
		return r.cfg.Name
	}
	name, err := r.vcs.ReadNameFromRemoteURL(ctx, "origin")
	if err != nil {
		r.cfg.Debugf("reading project name from remote failed: %v", err)
		return ""
	}
	return name
}

// filterSince cuts the release list at the named tag, exclusive, so only
// newer releases remain.
func filterSince(releases []*commit.Release, since string) ([]*commit.Release, error) {
	if since == "" {
		return releases, nil
	}
	for i, rel := range releases {
		if rel.Tag != nil && rel.Tag.Name == since {
			return releases[:i], nil
		}
	}
	return nil, vcs.NotFoundError{Ref: since}
}
