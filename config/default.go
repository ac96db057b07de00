package config

// GetDefault returns the stock policy table. The patterns follow the
// chg/fix/new commit message convention with optional audience scopes
// (dev, usr, pkg, test, doc) and trailing @audience markers.
func GetDefault() Config {
	return Config{
		Format:   "rest",
		Output:   "-",
		Branches: []string{"main", "master"},

		SubjectRE: `^(?P<type>[A-Za-z]+)\s*:\s*(?:(?P<scope>dev|use?r|pkg|test|doc)\s*:\s*)?(?P<subject>[^\n]*)$`,

		BodySplitRE: `\n[A-Za-z]+\s*:`,

		TagFilterRE: `^[0-9]+\.[0-9]+(\.[0-9]+)?$`,

		IgnoreREs: []string{
			`@minor`, `!minor`,
			`@cosmetic`, `!cosmetic`,
			`@refactor`, `!refactor`,
			`@wip`, `!wip`,
			`^([cC]hg|[fF]ix|[nN]ew)\s*:\s*[pP]kg\s*:`,
			`^([cC]hg|[fF]ix|[nN]ew)\s*:\s*[dD]ev\s*:`,
			`^(.{3}\s*:)?\s*[fF]irst commit.?\s*$`,
		},

		SubjectRewrites: []Rewrite{
			{
				Pattern: `^\s*(?P<text>.*?)(?:\s*[@!][a-z]+)*\s*$`,
				Replace: `${text}`,
			},
		},

		Sections: []Section{
			{
				Label:    "New",
				Patterns: []string{`^[nN]ew\s*:\s*((dev|use?r|pkg|test|doc)\s*:\s*)?([^\n]*)$`},
				Bump:     "MINOR",
			},
			{
				Label:    "Changes",
				Patterns: []string{`^[cC]hg\s*:\s*((dev|use?r|pkg|test|doc)\s*:\s*)?([^\n]*)$`},
				Bump:     "PATCH",
			},
			{
				Label:    "Fix",
				Patterns: []string{`^[fF]ix\s*:\s*((dev|use?r|pkg|test|doc)\s*:\s*)?([^\n]*)$`},
				Bump:     "PATCH",
			},
			{
				Label: "Other",
				Bump:  "SKIP",
			},
		},

		UnreleasedLabel: "%%version%% (unreleased)",
	}
}
