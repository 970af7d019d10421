package wlang

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggestName returns a " (did you mean 'x'?)" hint, or "" when nothing
// in candidates is close to name.
func suggestName(name string, candidates []string) string {
	best := closestName(name, candidates)
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean '%s'?)", best)
}

func closestName(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}
	if ranks := fuzzy.RankFindFold(name, candidates); len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", min(3, len(name))
	lower := strings.ToLower(name)
	for _, candidate := range candidates {
		if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(candidate)); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

// Complete ranks candidates that fuzzily match word, prefix matches first.
func Complete(word string, candidates []string) []string {
	if word == "" {
		return nil
	}
	ranks := fuzzy.RankFindFold(word, candidates)
	sort.SliceStable(ranks, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(ranks[i].Target), strings.ToLower(word))
		pj := strings.HasPrefix(strings.ToLower(ranks[j].Target), strings.ToLower(word))
		if pi != pj {
			return pi
		}
		return ranks[i].Distance < ranks[j].Distance
	})
	out := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		if rank.Target != word {
			out = append(out, rank.Target)
		}
	}
	return out
}
