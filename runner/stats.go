package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stats counts changelog entries on the main branch, bucketed by
// section, commit type and scope.
type Stats struct {
	Commits int64
	Entries int64
	Counts  map[string][]*statCount
}

func (s *Stats) Add(bucket, name string, n int64) {
	counts := s.Counts[bucket]
	count, found := s.findCount(name, counts)
	if !found {
		counts = append(counts, count)
	}
	count.Add(n)

	s.Counts[bucket] = counts
}

func (s *Stats) findCount(name string, counts []*statCount) (*statCount, bool) {
	for _, c := range counts {
		if c.label == name {
			return c, true
		}
	}
	return &statCount{label: name}, false
}

func (s *Stats) sortedBuckets() []string {
	buckets := make([]string, len(s.Counts))
	i := 0
	for name := range s.Counts {
		buckets[i] = name
		i++
	}
	sort.Strings(buckets)
	return buckets
}

type statCount struct {
	label string
	n     int64
}

func (c *statCount) Add(n int64) {
	c.n += n
}

func (s *Stats) TextSummary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(fmt.Sprintf("%d commits, %d changelog entries\n\n", s.Commits, s.Entries))

	for _, name := range s.sortedBuckets() {
		counts := s.Counts[name]
		sort.Slice(counts, func(i, j int) bool {
			return counts[i].n > counts[j].n
		})
		bw.WriteString(fmt.Sprintf("%s:\n", toTitle(name)))
		for _, count := range counts {
			label := count.label
			if label == "" {
				label = "n/a"
			}
			bw.WriteString(fmt.Sprintf("  %20s\t\t%d\n", label, count.n))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// Stats classifies every commit on the main branch and tallies the
// surviving entries.
func (r *Runner) Stats(ctx context.Context) (*Stats, error) {
	if err := r.Check(ctx); err != nil && !isWrongBranchError(err) {
		return nil, err
	}

	commits, err := r.vcs.ReadCommits(ctx, r.mainBranch)
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		Commits: int64(len(commits)),
		Counts:  make(map[string][]*statCount),
	}

	rules := r.analyzer.Rules()
	for _, c := range commits {
		for _, e := range rules.Classify(c) {
			stats.Entries++
			stats.Add("section", e.Section, 1)
			stats.Add("commit_type", e.Type, 1)
			stats.Add("scope", e.Scope, 1)
		}
	}
	return stats, nil
}

var nonAlphaRE = regexp.MustCompile(`[^A-Za-z]`)

func toTitle(s string) string {
	s = nonAlphaRE.ReplaceAllLiteralString(s, " ")
	return cases.Title(language.English).String(s)
}
