package commit

import (
	"time"

	"github.com/0k/chlog/model"
)

// Release is one changelog block: a released version with its entries
// bucketed by section, or the pending block when Unreleased is set.
type Release struct {
	Version    string            `json:"version"`
	Tag        *model.Tag        `json:"tag,omitempty"`
	Date       time.Time         `json:"date,omitempty"`
	Unreleased bool              `json:"unreleased,omitempty"`
	Sections   []*ReleaseSection `json:"sections,omitempty"`
}

// ReleaseSection groups the entries of one release under a section label.
// Only sections with entries appear on a release, in table order.
type ReleaseSection struct {
	Label   string   `json:"label"`
	Entries []*Entry `json:"entries"`
}

// Empty reports whether the release carries no entries.
func (r *Release) Empty() bool {
	for _, sec := range r.Sections {
		if len(sec.Entries) > 0 {
			return false
		}
	}
	return true
}

// Entries returns all entries of the release in section order.
func (r *Release) Entries() []*Entry {
	var entries []*Entry
	for _, sec := range r.Sections {
		entries = append(entries, sec.Entries...)
	}
	return entries
}
