package config

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Section is one ordered (label, patterns) pair of the classification table.
// The first section with a matching pattern wins; a section with no patterns
// collects everything left over. Bump is the release type hint (MAJOR, MINOR,
// PATCH, SKIP) contributed by entries in this section when the next version
// is inferred.
type Section struct {
	Label    string   `json:"label"`
	Patterns []string `json:"patterns,omitempty"`
	Bump     string   `json:"bump,omitempty"`
}

func (s *Section) validate() error {
	if s.Label == "" {
		return fmt.Errorf("config: section with patterns %v has no label", s.Patterns)
	}
	for _, expr := range s.Patterns {
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("config: invalid pattern %q in section %q: %w", expr, s.Label, err)
		}
	}
	switch s.Bump {
	case "", "SKIP", "PATCH", "MINOR", "MAJOR":
	default:
		return fmt.Errorf("config: section %q has unknown bump %q", s.Label, s.Bump)
	}
	return nil
}

// Rewrite is a (pattern, replacement template) pair applied to extracted
// subjects. Replace uses Go regexp expansion, so named groups are available
// as ${name}.
type Rewrite struct {
	Pattern string `json:"pattern"`
	Replace string `json:"replace"`
}

// TextSummary writes a human readable description of the policy table.
func (c *Config) TextSummary(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if c.SubjectRE != "" {
		bw.WriteString(fmt.Sprintf("Subject regexp: %s\n", c.SubjectRE))
	}
	if c.BodySplitRE != "" {
		bw.WriteString(fmt.Sprintf("Body split regexp: %s\n", c.BodySplitRE))
	}
	if c.TagFilterRE != "" {
		bw.WriteString(fmt.Sprintf("Tag filter regexp: %s\n", c.TagFilterRE))
	}

	if len(c.IgnoreREs) > 0 {
		bw.WriteString(fmt.Sprintf("Ignore regexps: %s\n", strings.Join(c.IgnoreREs, ", ")))
	}
	if len(c.SubjectRewrites) > 0 {
		bw.WriteString("Subject rewrites:\n")
		for _, rw := range c.SubjectRewrites {
			bw.WriteString(fmt.Sprintf("  %s -> %q\n", rw.Pattern, rw.Replace))
		}
	}

	if len(c.Sections) > 0 {
		bw.WriteString("Sections:\n")
		for _, sec := range c.Sections {
			if len(sec.Patterns) == 0 {
				bw.WriteString(fmt.Sprintf("  %16s: (catch-all)\n", sec.Label))
				continue
			}
			bw.WriteString(fmt.Sprintf("  %16s: %s\n", sec.Label, strings.Join(sec.Patterns, ", ")))
		}
	}

	if c.UnreleasedLabel != "" {
		bw.WriteString(fmt.Sprintf("Unreleased label: %s\n", c.UnreleasedLabel))
	}

	return bw.Flush()
}
