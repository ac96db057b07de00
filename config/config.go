// Package config holds the changelog policy table: the commit message
// pattern, ignore rules, subject rewrites, section buckets, body splitting
// and tag filtering. The table is loaded once at startup and read-only
// afterward.
package config

import (
	"fmt"
	"regexp"

	"github.com/imdario/mergo"
)

type Config struct {
	Verbose bool `json:"verbose,omitempty"`
	Quiet   bool `json:"quiet,omitempty"`
	Dryrun  bool `json:"dryrun,omitempty"`
	InCI    bool `json:"ci,omitempty"`

	// Name labels the project in rendered output. When empty, the remote
	// repository name is used if one can be read.
	Name string `json:"name,omitempty"`

	Output       string `json:"output,omitempty"`
	Format       string `json:"format,omitempty"`
	TemplatePath string `json:"template,omitempty"`
	Backend      string `json:"backend,omitempty"`

	// SubjectRE is the primary commit message pattern. Named groups type,
	// scope and subject are extracted from entry subjects that match.
	SubjectRE string `json:"subject_regex,omitempty"`
	// BodySplitRE marks the start of a new logical entry inside a single
	// commit message. The match must begin with the boundary newline.
	BodySplitRE string `json:"body_split_regex,omitempty"`
	// TagFilterRE accepts tags that mark release boundaries.
	TagFilterRE string `json:"tag_filter_regex,omitempty"`
	// IgnoreREs drop a logical entry when any of them match its subject.
	IgnoreREs []string `json:"ignore_regexes,omitempty"`
	// SubjectRewrites normalize extracted subjects, in order.
	SubjectRewrites []Rewrite `json:"subject_rewrites,omitempty"`
	// Sections bucket entries under the first label with a matching
	// pattern. A section with no patterns is the catch-all.
	Sections []Section `json:"sections,omitempty"`

	// UnreleasedLabel renders the pseudo-release that collects commits
	// newer than the latest accepted tag. %%version%% expands to
	// UnreleasedVersion, or to the inferred next version when unset.
	// %%date%% expands to the current date.
	UnreleasedLabel   string `json:"unreleased_version_label,omitempty"`
	UnreleasedVersion string `json:"unreleased_version,omitempty"`

	// SinceTag limits output to releases newer than the named tag.
	SinceTag string `json:"since_tag,omitempty"`

	Branches      []string `json:"branches,omitempty"`
	AllowedScopes []string `json:"allowed_scopes,omitempty"`
	AllowedTypes  []string `json:"allowed_types,omitempty"`
	Strict        bool     `json:"strict,omitempty"`

	Term TerminalIO `json:"-"`

	// BranchesSet records whether branches came from a flag or config file
	// rather than the default list.
	BranchesSet bool `json:"-"`
}

func New(overrides *Config) Config {
	return NewWithTerminalIO(overrides, nil)
}

func NewWithTerminalIO(overrides *Config, termio *TerminalIO) Config {
	cfg := GetDefault()
	if termio == nil {
		termio = &DefaultTermIO
	}
	cfg.Term = *termio

	if overrides != nil {
		if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
			panic(err)
		}
	}
	return cfg
}

// CatchAll returns the label of the section with no patterns, or "" when the
// table has none.
func (c *Config) CatchAll() string {
	for _, sec := range c.Sections {
		if len(sec.Patterns) == 0 {
			return sec.Label
		}
	}
	return ""
}

// SectionBump returns the release type hint configured for label.
func (c *Config) SectionBump(label string) string {
	for _, sec := range c.Sections {
		if sec.Label == label {
			return sec.Bump
		}
	}
	return ""
}

// Validate compiles every pattern in the table and checks its structural
// invariants. It is called once after the config is assembled so that a bad
// pattern fails at startup, never per commit.
func (c Config) Validate() error {
	if c.SubjectRE != "" {
		re, err := regexp.Compile(c.SubjectRE)
		if err != nil {
			return fmt.Errorf("config: invalid subject_regex: %w", err)
		}
		if re.SubexpIndex("subject") < 0 {
			return fmt.Errorf("config: subject_regex needs a (?P<subject>...) group")
		}
	}
	if c.BodySplitRE != "" {
		if _, err := regexp.Compile(c.BodySplitRE); err != nil {
			return fmt.Errorf("config: invalid body_split_regex: %w", err)
		}
	}
	if c.TagFilterRE != "" {
		if _, err := regexp.Compile(c.TagFilterRE); err != nil {
			return fmt.Errorf("config: invalid tag_filter_regex: %w", err)
		}
	}
	for _, expr := range c.IgnoreREs {
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("config: invalid ignore_regexes entry %q: %w", expr, err)
		}
	}
	for i, rw := range c.SubjectRewrites {
		if rw.Pattern == "" {
			return fmt.Errorf("config: subject_rewrites[%d] has no pattern", i)
		}
		if _, err := regexp.Compile(rw.Pattern); err != nil {
			return fmt.Errorf("config: invalid subject_rewrites pattern %q: %w", rw.Pattern, err)
		}
	}

	catchalls := 0
	for _, sec := range c.Sections {
		if err := sec.validate(); err != nil {
			return err
		}
		if len(sec.Patterns) == 0 {
			catchalls++
		}
	}
	if catchalls > 1 {
		return fmt.Errorf("config: found %d catch-all sections, want at most 1", catchalls)
	}

	switch c.Format {
	case "", "rest", "markdown":
	default:
		if c.TemplatePath == "" {
			return fmt.Errorf("config: unknown format %q (built in: rest, markdown)", c.Format)
		}
	}
	switch c.Backend {
	case "", "gitcli", "gitgo":
	default:
		return fmt.Errorf("config: unknown backend %q (available: gitcli, gitgo)", c.Backend)
	}
	return nil
}

func (c Config) Printf(msg string, args ...interface{}) {
	if c.Quiet {
		return
	}
	fmt.Fprintf(c.Term.Stderr, msg+"\n", args...)
}

func (c Config) Errorf(msg string, args ...interface{}) {
	fmt.Fprintf(c.Term.Stderr, msg+"\n", args...)
}

func (c Config) Debugf(msg string, args ...interface{}) {
	if !c.Verbose {
		return
	}
	c.Printf(msg, args...)
}
