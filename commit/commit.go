// Package commit contains code for reading and classifying commits.
package commit

import (
	"github.com/0k/chlog/model"
)

type ReleaseType int

const (
	_ ReleaseType = iota

	ReleaseSkip
	ReleasePatch
	ReleaseMinor
	ReleaseMajor
)

func (t ReleaseType) String() string {
	switch t {
	case ReleaseSkip:
		return "SKIP"
	case ReleasePatch:
		return "PATCH"
	case ReleaseMinor:
		return "MINOR"
	case ReleaseMajor:
		return "MAJOR"
	case 0:
		return "<INVALID>"
	default:
		return "<UNKNOWN>"
	}
}

func ReleaseTypeFromString(s string) ReleaseType {
	switch s {
	case "SKIP":
		return ReleaseSkip
	case "PATCH":
		return ReleasePatch
	case "MINOR":
		return ReleaseMinor
	case "MAJOR":
		return ReleaseMajor
	}
	panic("unknown release type: " + s)
}

// Entry is one logical changelog entry. A single commit message can
// contain several; each keeps a pointer to the commit it came from.
type Entry struct {
	Commit  *model.Commit `json:"-"`
	Section string        `json:"section"`
	Type    string        `json:"type,omitempty"`
	Scope   string        `json:"scope,omitempty"`
	Subject string        `json:"subject"`
	Body    string        `json:"body,omitempty"`
}

func (e *Entry) ShortID() string {
	if e.Commit == nil {
		return ""
	}
	return e.Commit.ShortID()
}

func (e *Entry) Author() string {
	if e.Commit == nil {
		return ""
	}
	return e.Commit.Author
}
