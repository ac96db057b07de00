package commit

import (
	"regexp"
	"strings"

	"github.com/0k/chlog/config"
	"github.com/0k/chlog/model"
)

// Rules applies the configured policy table to commit messages and tag
// names. Every pattern is compiled once in NewRules, so a Rules is safe
// for concurrent readers; the config must be validated before one is
// built.
type Rules struct {
	cfg      config.Config
	subject  *regexp.Regexp
	body     *regexp.Regexp
	tag      *regexp.Regexp
	ignores  []*regexp.Regexp
	rewrites []rewriteRule
	sections []sectionRule
}

type rewriteRule struct {
	re      *regexp.Regexp
	replace string
}

type sectionRule struct {
	label string
	res   []*regexp.Regexp
}

func NewRules(cfg config.Config) *Rules {
	r := &Rules{cfg: cfg}
	if cfg.SubjectRE != "" {
		r.subject = regexp.MustCompile(cfg.SubjectRE)
	}
	if cfg.BodySplitRE != "" {
		r.body = regexp.MustCompile(cfg.BodySplitRE)
	}
	if cfg.TagFilterRE != "" {
		r.tag = regexp.MustCompile(cfg.TagFilterRE)
	}
	for _, expr := range cfg.IgnoreREs {
		r.ignores = append(r.ignores, regexp.MustCompile(expr))
	}
	for _, rw := range cfg.SubjectRewrites {
		if rw.Pattern == "" {
			continue
		}
		r.rewrites = append(r.rewrites, rewriteRule{
			re:      regexp.MustCompile(rw.Pattern),
			replace: rw.Replace,
		})
	}
	for _, sec := range cfg.Sections {
		res := make([]*regexp.Regexp, len(sec.Patterns))
		for i, expr := range sec.Patterns {
			res[i] = regexp.MustCompile(expr)
		}
		r.sections = append(r.sections, sectionRule{label: sec.Label, res: res})
	}
	return r
}

// Split breaks a full commit message into logical entry chunks. The split
// pattern marks the head of the next entry and must match starting at the
// boundary newline, which is consumed by the split.
func (r *Rules) Split(msg string) []string {
	if r.body == nil {
		return []string{msg}
	}
	var chunks []string
	rest := msg
	for {
		loc := r.body.FindStringIndex(rest)
		if loc == nil {
			break
		}
		chunks = append(chunks, rest[:loc[0]])
		rest = rest[loc[0]+1:]
	}
	return append(chunks, rest)
}

// Ignored reports whether any ignore pattern matches the subject.
func (r *Rules) Ignored(subject string) bool {
	for _, re := range r.ignores {
		if re.MatchString(subject) {
			return true
		}
	}
	return false
}

// SectionFor returns the label of the first section matching subject. A
// section with no patterns matches everything. ok is false when the table
// has no match for subject.
func (r *Rules) SectionFor(subject string) (string, bool) {
	for _, sec := range r.sections {
		if len(sec.res) == 0 {
			return sec.label, true
		}
		for _, re := range sec.res {
			if re.MatchString(subject) {
				return sec.label, true
			}
		}
	}
	return "", false
}

// AcceptTag reports whether a tag name marks a release boundary.
func (r *Rules) AcceptTag(name string) bool {
	if r.tag == nil {
		return true
	}
	return r.tag.MatchString(name)
}

// Normalize applies the configured rewrites, in order, to an extracted
// subject.
func (r *Rules) Normalize(subject string) string {
	for _, rw := range r.rewrites {
		subject = rw.re.ReplaceAllString(subject, rw.replace)
	}
	return strings.TrimSpace(subject)
}

// SectionRelease returns the release type hint for a section label.
func (r *Rules) SectionRelease(label string) ReleaseType {
	if b := r.cfg.SectionBump(label); b != "" {
		return ReleaseTypeFromString(b)
	}
	return ReleaseSkip
}

// Extract pulls the subject pattern's named groups out of a raw subject
// line. ok is false when the pattern does not match; text then holds the
// raw subject unchanged.
func (r *Rules) Extract(subject string) (typ, scope, text string, ok bool) {
	text = subject
	if r.subject == nil {
		return "", "", text, false
	}
	m := r.subject.FindStringSubmatch(subject)
	if m == nil {
		return "", "", text, false
	}
	if i := r.subject.SubexpIndex("type"); i > 0 {
		typ = m[i]
	}
	if i := r.subject.SubexpIndex("scope"); i > 0 {
		scope = m[i]
	}
	if i := r.subject.SubexpIndex("subject"); i > 0 {
		text = m[i]
	}
	return typ, scope, text, true
}

// Classify splits a commit message into logical entries, drops ignored
// ones and labels the rest with their section. Subjects are extracted
// through the subject pattern's named groups when it matches, and
// normalized either way.
func (r *Rules) Classify(c *model.Commit) []*Entry {
	var entries []*Entry
	for _, chunk := range r.Split(c.Message()) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		subject, body, _ := strings.Cut(chunk, "\n")
		subject = strings.TrimSpace(subject)
		if r.Ignored(subject) {
			continue
		}
		section, ok := r.SectionFor(subject)
		if !ok {
			continue
		}

		typ, scope, text, _ := r.Extract(subject)
		entries = append(entries, &Entry{
			Commit:  c,
			Section: section,
			Type:    typ,
			Scope:   scope,
			Subject: r.Normalize(text),
			Body:    strings.TrimSpace(body),
		})
	}
	return entries
}
