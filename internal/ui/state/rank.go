package state

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/siyuan-tui/internal/siyuan"
)

// RankResults orders results so that those whose human path or content
// fuzzily match query come first, closest match first. Results that do not
// match keep their backend order after the matches.
func RankResults(results []siyuan.Result, query string) []siyuan.Result {
	trimmed := strings.TrimSpace(query)
	out := make([]siyuan.Result, len(results))
	copy(out, results)
	if trimmed == "" || len(out) < 2 {
		return out
	}

	targets := make([]string, len(out))
	for i, r := range out {
		targets[i] = r.HPath + " " + r.Content
	}
	distance := make(map[int]int, len(out))
	for _, rank := range fuzzy.RankFindNormalizedFold(trimmed, targets) {
		distance[rank.OriginalIndex] = rank.Distance
	}
	if len(distance) == 0 {
		return out
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		da, okA := distance[idx[a]]
		db, okB := distance[idx[b]]
		if okA != okB {
			return okA
		}
		return okA && da < db
	})
	ranked := make([]siyuan.Result, len(out))
	for i, j := range idx {
		ranked[i] = out[j]
	}
	return ranked
}
