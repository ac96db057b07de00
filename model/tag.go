package model

import "time"

// Tag is a version control tag as reported by the vcs layer. When is the
// commit date of the tagged commit for lightweight tags, or the tag date for
// annotated ones.
type Tag struct {
	Name   string `json:"name"`
	Commit string `json:"commit"`
	When   time.Time
}

func (t *Tag) ShortCommit() string {
	if len(t.Commit) < 8 {
		return t.Commit
	}
	return t.Commit[:8]
}
