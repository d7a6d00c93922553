// Package partition names time-partitioned indices from a strftime-style
// template, e.g. "socorro%Y%W" for one index per week.
package partition

import (
	"time"

	"github.com/ncruces/go-strftime"
)

const week = 7 * 24 * time.Hour

// DefaultTemplate yields one index per week (Monday-based week number).
const DefaultTemplate Template = "socorro%Y%W"

type Template string

// Format returns the index name for the partition containing at (UTC).
func (t Template) Format(at time.Time) string {
	return strftime.Format(string(t), at.UTC())
}

// Weekly returns the names of the lookback most recent weekly partitions,
// newest first, without duplicates.
func (t Template) Weekly(now time.Time, lookback int) []string {
	out := make([]string, 0, lookback)
	seen := make(map[string]bool, lookback)
	for i := 0; i < lookback; i++ {
		name := t.Format(now.Add(-time.Duration(i) * week))
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Between returns the partitions covering [from, to], oldest first.
func (t Template) Between(from, to time.Time) []string {
	var out []string
	seen := map[string]bool{}
	add := func(at time.Time) {
		name := t.Format(at)
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for d := from; !d.After(to); d = d.Add(week) {
		add(d)
	}
	add(to)
	return out
}
