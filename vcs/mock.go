package vcs

import (
	"context"
	"strings"
	"time"

	"github.com/0k/chlog/model"
)

// Mock implements Interface in memory for tests. Commits are newest
// first, like git log output. Tags are declared as "name" or
// "name:commit"; a bound tag resolves range queries against the commit
// list, an unbound one counts as older than every listed commit.
type Mock struct {
	t          time.Time
	tags       []*model.Tag
	commits    []*model.Commit
	branch     string
	mainBranch string
	remote     string
	committed  []CommitOpts
	pushed     []string
}

var _ Interface = &Mock{}

func NewMock() *Mock {
	return &Mock{
		t:          time.Now(),
		branch:     "main",
		mainBranch: "main",
	}
}

// SetBranch sets the checked out branch.
func (m *Mock) SetBranch(name string) *Mock {
	m.branch = name
	return m
}

// SetMainBranch sets the branch reported as the repository's main one.
func (m *Mock) SetMainBranch(name string) *Mock {
	m.mainBranch = name
	return m
}

func (m *Mock) SetRemoteName(name string) *Mock {
	m.remote = name
	return m
}

func (m *Mock) SetTags(tags ...string) *Mock {
	m.tags = nil
	for _, s := range tags {
		name, commit, _ := strings.Cut(s, ":")
		m.tags = append(m.tags, &model.Tag{Name: name, Commit: commit})
	}
	return m
}

func (m *Mock) SetCommits(commits ...*model.Commit) *Mock {
	finalCommits := make([]*model.Commit, len(commits))
	for i, commit := range commits {
		c := *commit
		if c.CommitterDate.IsZero() {
			c.CommitterDate = m.t
			m.t = m.t.Add(-time.Minute)
		}
		finalCommits[i] = &c
	}
	m.commits = finalCommits
	return m
}

// Committed returns the commits recorded through Commit.
func (m *Mock) Committed() []CommitOpts { return m.committed }

// Pushed returns "upstream/ref" for each recorded push.
func (m *Mock) Pushed() []string { return m.pushed }

func (m *Mock) Fetch(ctx context.Context, upstream, ref string) error {
	return nil
}

func (m *Mock) Push(ctx context.Context, upstream, ref string, opts PushOpts) error {
	if upstream == "" {
		upstream = "origin"
	}
	m.pushed = append(m.pushed, upstream+"/"+ref)
	return nil
}

func (m *Mock) Commit(ctx context.Context, opts CommitOpts) error {
	m.committed = append(m.committed, opts)
	return nil
}

func (m *Mock) ReadTags(ctx context.Context) ([]*model.Tag, error) {
	tags := make([]*model.Tag, len(m.tags))
	for i, t := range m.tags {
		tag := *t
		if tag.When.IsZero() && tag.Commit != "" {
			if idx, err := m.resolve(tag.Commit); err == nil && idx < len(m.commits) {
				tag.When = m.commits[idx].CommitterDate
			}
		}
		tags[i] = &tag
	}
	return tags, nil
}

func (m *Mock) ReadCommits(ctx context.Context, query string) ([]*model.Commit, error) {
	if query == "" || query == "HEAD" {
		return m.commits, nil
	}
	if from, to, ok := strings.Cut(query, ".."); ok {
		fromIdx, err := m.resolve(from)
		if err != nil {
			return nil, err
		}
		toIdx := 0
		if to != "" && to != "HEAD" {
			toIdx, err = m.resolve(to)
			if err != nil {
				return nil, err
			}
		}
		return m.commits[toIdx:fromIdx], nil
	}
	idx, err := m.resolve(query)
	if err != nil {
		return nil, err
	}
	return m.commits[idx:], nil
}

// resolve returns the index of ref in the newest-first commit list. An
// unbound tag resolves past the end of the list, branch names resolve
// to the newest commit.
func (m *Mock) resolve(ref string) (int, error) {
	if ref == "HEAD" || ref == m.branch || ref == m.mainBranch {
		return 0, nil
	}
	id := ref
	for _, t := range m.tags {
		if t.Name == ref {
			if t.Commit == "" {
				return len(m.commits), nil
			}
			id = t.Commit
			break
		}
	}
	for i, c := range m.commits {
		if c.ID == id {
			return i, nil
		}
	}
	return 0, NotFoundError{Ref: ref}
}

func (m *Mock) GetMainBranch(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return m.mainBranch, nil
	}
	for _, c := range candidates {
		if c == m.mainBranch {
			return c, nil
		}
	}
	return "", NotFoundError{Ref: strings.Join(candidates, ", ")}
}

func (m *Mock) CurrentBranch(ctx context.Context) (string, error) {
	return m.branch, nil
}

func (m *Mock) BranchContains(ctx context.Context, commit, branch string) (bool, error) {
	_, err := m.resolve(commit)
	return err == nil, nil
}

func (m *Mock) CurrentCommit(ctx context.Context) (string, error) {
	if len(m.commits) == 0 {
		return "", NotFoundError{Ref: "HEAD"}
	}
	return m.commits[0].ID, nil
}

func (m *Mock) ReadNameFromRemoteURL(ctx context.Context, upstream string) (string, error) {
	return m.remote, nil
}
