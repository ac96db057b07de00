package commit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blang/semver/v4"

	"github.com/0k/chlog/clock"
	"github.com/0k/chlog/config"
	"github.com/0k/chlog/model"
	"github.com/0k/chlog/vcs"
)

var (
	ErrNoEntries = errors.New("commit: no changelog entries found")
	ErrNoTags    = errors.New("commit: no release tags found")
)

// Analyzer assembles changelog releases from version control history
// using the configured policy table.
type Analyzer struct {
	cfg   config.Config
	vcs   vcs.Interface
	rules *Rules
	clock clock.Clock
}

func NewAnalyzer(cfg config.Config, vc vcs.Interface, clk clock.Clock) *Analyzer {
	if clk == nil {
		clk = clock.System()
	}
	return &Analyzer{
		cfg:   cfg,
		vcs:   vc,
		rules: NewRules(cfg),
		clock: clk,
	}
}

func (a *Analyzer) Rules() *Rules { return a.rules }

// Analyze reads tags and history and assembles the changelog, newest
// release first. Commits newer than the latest accepted tag form the
// pending block, which is omitted when it has no entries.
func (a *Analyzer) Analyze(ctx context.Context) ([]*Release, error) {
	tags, err := a.readReleaseTags(ctx)
	if err != nil {
		return nil, err
	}

	var releases []*Release
	for i, tag := range tags {
		query := tag.Name
		if i > 0 {
			query = tags[i-1].Name + ".." + tag.Name
		}
		commits, err := a.vcs.ReadCommits(ctx, query)
		if err != nil {
			return nil, err
		}
		releases = append(releases, &Release{
			Version:  tag.Name,
			Tag:      tag,
			Date:     tag.When,
			Sections: a.bucket(commits),
		})
	}

	commits, err := a.vcs.ReadCommits(ctx, pendingQuery(tags))
	if err != nil {
		return nil, err
	}
	if unrel := a.buildUnreleased(tags, commits); unrel != nil {
		releases = append(releases, unrel)
	}

	for i, j := 0, len(releases)-1; i < j; i, j = i+1, j-1 {
		releases[i], releases[j] = releases[j], releases[i]
	}
	return releases, nil
}

// Latest returns the newest tag accepted by the tag filter.
func (a *Analyzer) Latest(ctx context.Context) (*model.Tag, error) {
	tags, err := a.readReleaseTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, ErrNoTags
	}
	return tags[len(tags)-1], nil
}

// Next infers the version an immediate release would get from the
// pending commits.
func (a *Analyzer) Next(ctx context.Context) (semver.Version, error) {
	tags, err := a.readReleaseTags(ctx)
	if err != nil {
		return semver.Version{}, err
	}
	commits, err := a.vcs.ReadCommits(ctx, pendingQuery(tags))
	if err != nil {
		return semver.Version{}, err
	}
	secs := a.bucket(commits)
	if len(secs) == 0 {
		return semver.Version{}, ErrNoEntries
	}
	return a.NextVersion(tags, secs)
}

// pendingQuery selects the commits newer than the latest release tag.
func pendingQuery(tags []*model.Tag) string {
	if len(tags) == 0 {
		return "HEAD"
	}
	return tags[len(tags)-1].Name + "..HEAD"
}

func (a *Analyzer) readReleaseTags(ctx context.Context) ([]*model.Tag, error) {
	all, err := a.vcs.ReadTags(ctx)
	if err != nil {
		return nil, err
	}
	var tags []*model.Tag
	for _, t := range all {
		if !a.rules.AcceptTag(t.Name) {
			a.cfg.Debugf("skipping tag %q: does not match tag filter", t.Name)
			continue
		}
		tags = append(tags, t)
	}
	sortTagsByVersion(tags)
	return tags, nil
}

// bucket classifies commits and groups the surviving entries by section,
// in table order. Sections with no entries are dropped.
func (a *Analyzer) bucket(commits []*model.Commit) []*ReleaseSection {
	bySection := make(map[string][]*Entry)
	for _, c := range commits {
		for _, e := range a.rules.Classify(c) {
			bySection[e.Section] = append(bySection[e.Section], e)
		}
	}

	var secs []*ReleaseSection
	for _, sec := range a.cfg.Sections {
		entries := bySection[sec.Label]
		if len(entries) == 0 {
			continue
		}
		secs = append(secs, &ReleaseSection{Label: sec.Label, Entries: entries})
	}
	return secs
}

func (a *Analyzer) buildUnreleased(tags []*model.Tag, commits []*model.Commit) *Release {
	secs := a.bucket(commits)
	if len(secs) == 0 {
		return nil
	}

	now := a.clock.Now()
	version := a.cfg.UnreleasedVersion
	if version == "" {
		if next, err := a.NextVersion(tags, secs); err == nil {
			version = next.String()
		}
	}
	return &Release{
		Version:    expandLabel(a.cfg.UnreleasedLabel, version, now),
		Date:       now,
		Unreleased: true,
		Sections:   secs,
	}
}

// NextVersion infers the next release version: the latest released
// version bumped by the highest hint among the pending sections. With no
// released versions the base is 0.0.0. A pending block whose sections all
// hint SKIP still needs a label, so SKIP falls back to a patch bump.
func (a *Analyzer) NextVersion(tags []*model.Tag, secs []*ReleaseSection) (semver.Version, error) {
	latest := semver.Version{}
	if len(tags) > 0 {
		v, err := ParseReleaseTag(tags[len(tags)-1].Name)
		if err != nil {
			return semver.Version{}, err
		}
		latest = v
	}

	bump := ReleaseSkip
	for _, sec := range secs {
		if t := a.rules.SectionRelease(sec.Label); t > bump {
			bump = t
		}
	}
	if bump == ReleaseSkip {
		bump = ReleasePatch
	}
	return bumpVersion(latest, bump), nil
}

func expandLabel(label, version string, now time.Time) string {
	if label == "" {
		return version
	}
	s := strings.ReplaceAll(label, "%%version%%", version)
	return strings.ReplaceAll(s, "%%date%%", now.Format("2006-01-02"))
}
