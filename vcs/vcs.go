// Package vcs abstracts version control systems. Currently just git.
package vcs

import (
	"context"
	"fmt"

	"github.com/0k/chlog/model"
)

type NotFoundError struct {
	Ref string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("vcs: ref %q not found", e.Ref)
}

type Interface interface {
	Fetch(ctx context.Context, upstream, ref string) error
	Push(ctx context.Context, upstream, ref string, opts PushOpts) error
	Commit(ctx context.Context, opts CommitOpts) error
	// ReadCommits returns the commits selected by a git log query such as
	// "HEAD", "<tag>" or "<tag>..<tag>", newest first.
	ReadCommits(ctx context.Context, query string) ([]*model.Commit, error)
	// ReadTags returns every tag with its target commit and date. Tag
	// filtering is the caller's concern.
	ReadTags(ctx context.Context) ([]*model.Tag, error)
	GetMainBranch(ctx context.Context, candidates []string) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	BranchContains(ctx context.Context, commit, branch string) (bool, error)
	CurrentCommit(ctx context.Context) (string, error)
	ReadNameFromRemoteURL(ctx context.Context, upstream string) (string, error)
}

type CommitOpts struct {
	Message     string
	Paths       []string
	Author      string
	AuthorEmail string
}

type PushOpts struct {
	FollowTags bool
}
