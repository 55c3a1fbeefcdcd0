// Package resolve turns loosely typed user input into the values the API
// expects, with "did you mean" suggestions when the input is close.
package resolve

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

type lowerSource []string

func (s lowerSource) String(i int) string { return strings.ToLower(s[i]) }
func (s lowerSource) Len() int            { return len(s) }

// Suggest returns up to limit candidates close to query, best first.
//
// Fuzzy subsequence matches ("drvr" for DRIVER) rank first. Typos that break
// the subsequence ("DIRVER") fall back to edit distance, accepting at most
// one edit per three characters and never fewer than two.
func Suggest(query string, candidates []string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(c string) {
		if !seen[c] && len(out) < limit {
			seen[c] = true
			out = append(out, c)
		}
	}

	for _, m := range fuzzy.FindFrom(query, lowerSource(candidates)) {
		add(candidates[m.Index])
	}

	maxDist := max(2, len(query)/3)
	type scored struct {
		name string
		dist int
	}
	var near []scored
	for _, c := range candidates {
		if d := Distance(query, strings.ToLower(c)); d <= maxDist {
			near = append(near, scored{c, d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
	for _, s := range near {
		add(s.name)
	}
	return out
}

// Closest returns the candidate with the smallest case-insensitive edit
// distance to query, or "" when none is within maxDist.
func Closest(query string, candidates []string, maxDist int) string {
	query = strings.ToLower(query)
	best, bestDist := "", maxDist+1
	for _, c := range candidates {
		if d := Distance(query, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Distance computes the Levenshtein edit distance between two strings.
func Distance(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	row := make([]int, lb+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= la; i++ {
		prev := i - 1
		row[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			val := min(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = val
		}
	}
	return row[lb]
}
