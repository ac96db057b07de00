// Package gitgo implements vcs.Interface with the pure Go git
// implementation, for environments without a git binary.
package gitgo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/0k/chlog/config"
	"github.com/0k/chlog/model"
	"github.com/0k/chlog/vcs"
)

// Repo implements vcs.Interface on a repository opened with go-git.
type Repo struct {
	cfg  config.Config
	repo *git.Repository
}

var _ vcs.Interface = &Repo{}

// Open walks up from wd to find the repository root, like the git tool
// does.
func Open(cfg config.Config, wd string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(wd, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gitgo: opening repository at %s: %w", wd, err)
	}
	return &Repo{cfg: cfg, repo: repo}, nil
}

func (r *Repo) Fetch(ctx context.Context, upstream, ref string) error {
	if upstream == "" {
		upstream = "origin"
	}
	if r.cfg.Dryrun {
		if ref != "" {
			r.cfg.Printf("+ fetch %s %s (dryrun)", upstream, ref)
		} else {
			r.cfg.Printf("+ fetch %s (dryrun)", upstream)
		}
		return nil
	}
	opts := &git.FetchOptions{
		RemoteName: upstream,
		Tags:       git.AllTags,
		Auth:       r.auth(),
	}
	if ref != "" {
		opts.RefSpecs = []gitconfig.RefSpec{
			gitconfig.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", ref, upstream, ref)),
		}
	}
	err := r.repo.FetchContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

func (r *Repo) Push(ctx context.Context, upstream, ref string, opts vcs.PushOpts) error {
	if upstream == "" {
		upstream = "origin"
	}
	if r.cfg.Dryrun {
		r.cfg.Printf("+ push %s %s (dryrun)", upstream, ref)
		return nil
	}
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: upstream,
		FollowTags: opts.FollowTags,
		Auth:       r.auth(),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

// auth returns credentials for https remotes from the workflow
// environment, or nil to use the transport defaults.
func (r *Repo) auth() transport.AuthMethod {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: token}
}

func (r *Repo) Commit(ctx context.Context, opts vcs.CommitOpts) error {
	if opts.Message == "" {
		return errors.New("gitgo: message is required")
	}
	if r.cfg.InCI && (opts.Author == "" || opts.AuthorEmail == "") {
		r.cfg.Printf("CI: setting author, author email")
		opts.Author = "chlog"
		opts.AuthorEmail = "chlog+ci@example.com"
	}
	if r.cfg.Dryrun {
		r.cfg.Printf("+ commit %q %v (dryrun)", opts.Message, opts.Paths)
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return err
	}
	for _, p := range opts.Paths {
		if _, err := wt.Add(p); err != nil {
			return fmt.Errorf("gitgo: adding %s: %w", p, err)
		}
	}

	commitOpts := &git.CommitOptions{}
	if opts.Author != "" || opts.AuthorEmail != "" {
		commitOpts.Author = &object.Signature{
			Name:  opts.Author,
			Email: opts.AuthorEmail,
			When:  time.Now(),
		}
	}
	_, err = wt.Commit(opts.Message, commitOpts)
	return err
}

func (r *Repo) ReadCommits(ctx context.Context, query string) ([]*model.Commit, error) {
	from, to, ranged := strings.Cut(query, "..")
	if !ranged {
		from, to = "", query
	}
	if to == "" {
		to = "HEAD"
	}

	exclude := make(map[plumbing.Hash]bool)
	if from != "" {
		fromHash, err := r.repo.ResolveRevision(plumbing.Revision(from))
		if err != nil {
			return nil, vcs.NotFoundError{Ref: from}
		}
		iter, err := r.repo.Log(&git.LogOptions{From: *fromHash})
		if err != nil {
			return nil, err
		}
		err = iter.ForEach(func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	toHash, err := r.repo.ResolveRevision(plumbing.Revision(to))
	if err != nil {
		return nil, vcs.NotFoundError{Ref: to}
	}
	iter, err := r.repo.Log(&git.LogOptions{From: *toHash})
	if err != nil {
		return nil, err
	}

	var commits []*model.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if exclude[c.Hash] {
			return nil
		}
		commits = append(commits, toModelCommit(c))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func toModelCommit(c *object.Commit) *model.Commit {
	subject, body, _ := strings.Cut(c.Message, "\n")
	return &model.Commit{
		ID:             c.Hash.String(),
		Author:         c.Author.Name,
		AuthorEmail:    c.Author.Email,
		AuthorDate:     c.Author.When,
		Committer:      c.Committer.Name,
		CommitterEmail: c.Committer.Email,
		CommitterDate:  c.Committer.When,
		Subject:        strings.TrimSpace(subject),
		Body:           strings.TrimSpace(body),
	}
}

func (r *Repo) ReadTags(ctx context.Context) ([]*model.Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, err
	}

	var tags []*model.Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tag := &model.Tag{
			Name:   ref.Name().Short(),
			Commit: ref.Hash().String(),
		}
		if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
			// annotated tag: peel to the target commit
			tag.Commit = tagObj.Target.String()
			tag.When = tagObj.Tagger.When
		} else if c, err := r.repo.CommitObject(ref.Hash()); err == nil {
			tag.When = c.Committer.When
		}
		tags = append(tags, tag)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *Repo) GetMainBranch(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		ref, err := r.repo.Reference(plumbing.ReferenceName("refs/remotes/origin/HEAD"), false)
		if err != nil {
			return "", err
		}
		if ref.Type() != plumbing.SymbolicReference {
			return "", vcs.NotFoundError{Ref: "origin/HEAD"}
		}
		return strings.TrimPrefix(ref.Target().Short(), "origin/"), nil
	}
	for _, cand := range candidates {
		if _, err := r.repo.Reference(plumbing.NewBranchReferenceName(cand), true); err == nil {
			return cand, nil
		}
	}
	return "", vcs.NotFoundError{Ref: strings.Join(candidates, ", ")}
}

func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	return head.Name().Short(), nil
}

func (r *Repo) BranchContains(ctx context.Context, commit, branch string) (bool, error) {
	commitHash, err := r.repo.ResolveRevision(plumbing.Revision(commit))
	if err != nil {
		return false, vcs.NotFoundError{Ref: commit}
	}
	branchHash, err := r.repo.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return false, vcs.NotFoundError{Ref: branch}
	}
	c, err := r.repo.CommitObject(*commitHash)
	if err != nil {
		return false, err
	}
	b, err := r.repo.CommitObject(*branchHash)
	if err != nil {
		return false, err
	}
	return c.IsAncestor(b)
}

func (r *Repo) CurrentCommit(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

func (r *Repo) ReadNameFromRemoteURL(ctx context.Context, upstream string) (string, error) {
	if upstream == "" {
		upstream = "origin"
	}
	remote, err := r.repo.Remote(upstream)
	if err != nil {
		return "", err
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", vcs.NotFoundError{Ref: upstream}
	}
	name := path.Base(strings.ReplaceAll(urls[0], ":", "/"))
	return strings.TrimSuffix(name, ".git"), nil
}
