package commit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/0k/chlog/model"
)

// ParseReleaseTag parses a tag name accepted by the tag filter into a
// version. A leading "v" is allowed and two-part names like "2.3" coerce
// to patch zero.
func ParseReleaseTag(name string) (semver.Version, error) {
	s := strings.TrimPrefix(name, "v")
	if strings.Count(s, ".") == 1 {
		s += ".0"
	}
	v, err := semver.Parse(s)
	if err != nil {
		return semver.Version{}, fmt.Errorf("commit: tag %q is not a version: %w", name, err)
	}
	return v, nil
}

func bumpVersion(v semver.Version, t ReleaseType) semver.Version {
	switch t {
	case ReleaseMajor:
		return semver.Version{Major: v.Major + 1}
	case ReleaseMinor:
		return semver.Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// sortTagsByVersion orders tags ascending by parsed version. Names that do
// not parse sort before versions, by name.
func sortTagsByVersion(tags []*model.Tag) {
	vers := make(map[*model.Tag]semver.Version, len(tags))
	parsed := make(map[*model.Tag]bool, len(tags))
	for _, t := range tags {
		if v, err := ParseReleaseTag(t.Name); err == nil {
			vers[t] = v
			parsed[t] = true
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		a, b := tags[i], tags[j]
		if !parsed[a] || !parsed[b] {
			if parsed[a] != parsed[b] {
				return !parsed[a]
			}
			return a.Name < b.Name
		}
		return vers[a].LT(vers[b])
	})
}
