package commit

import (
	"testing"

	"github.com/blang/semver/v4"

	"github.com/0k/chlog/model"
)

func TestParseReleaseTag(t *testing.T) {
	tcs := []struct {
		tag     string
		expect  string
		wantErr bool
	}{
		{tag: "2.3.1", expect: "2.3.1"},
		{tag: "2.3", expect: "2.3.0"},
		{tag: "v1.0.2", expect: "1.0.2"},
		{tag: "0.0.1", expect: "0.0.1"},
		{tag: "release-2.3", wantErr: true},
		{tag: "1", wantErr: true},
		{tag: "", wantErr: true},
	}

	for _, tc := range tcs {
		t.Run(tc.tag, func(t *testing.T) {
			v, err := ParseReleaseTag(tc.tag)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", v)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if expect := semver.MustParse(tc.expect); v.NE(expect) {
				t.Errorf("expected %s, got %s", expect, v)
			}
		})
	}
}

func TestBumpVersion(t *testing.T) {
	base := semver.MustParse("1.2.3")
	tcs := []struct {
		t      ReleaseType
		expect string
	}{
		{ReleasePatch, "1.2.4"},
		{ReleaseMinor, "1.3.0"},
		{ReleaseMajor, "2.0.0"},
	}

	for _, tc := range tcs {
		t.Run(tc.t.String(), func(t *testing.T) {
			if got := bumpVersion(base, tc.t); got.NE(semver.MustParse(tc.expect)) {
				t.Errorf("expected %s, got %s", tc.expect, got)
			}
		})
	}
}

func TestSortTagsByVersion(t *testing.T) {
	tags := []*model.Tag{
		{Name: "0.10.0"},
		{Name: "2.3"},
		{Name: "0.2.0"},
		{Name: "0.2.1"},
	}
	sortTagsByVersion(tags)

	expect := []string{"0.2.0", "0.2.1", "0.10.0", "2.3"}
	for i, name := range expect {
		if tags[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, tags[i].Name)
		}
	}
}
