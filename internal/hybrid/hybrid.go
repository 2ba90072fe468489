// Package hybrid implements spec §4.7's Hybrid Matcher (C7): a thin
// score-fusion layer over the fuzzy (C5) and semantic (C6) matchers.
// Grounded on the teacher's layered-weight idiom in internal/config's
// scoring structs (named weight fields combined linearly).
package hybrid

import (
	"sort"

	"github.com/standardbeagle/repomap-engine/internal/fuzzy"
	"github.com/standardbeagle/repomap-engine/internal/semantic"
)

// Result is one fused match, score ∈ [0,1].
type Result struct {
	Name  string
	Score float64
}

// Match fuses fuzzy and semantic results per §4.7:
// score = α·fuzzy/100 + (1−α)·semantic, emitting results above
// max(fuzzyThreshold/100, semanticThreshold).
func Match(
	query string,
	universe []string,
	alpha float64,
	fuzzyThreshold float64,
	fuzzyStrategies []fuzzy.Strategy,
	semanticMatcher *semantic.Matcher,
	semanticThreshold float64,
) []Result {
	if query == "" {
		return nil
	}

	fuzzyResults := fuzzy.Match(query, universe, 0, fuzzyStrategies)
	fuzzyScores := make(map[string]float64, len(fuzzyResults))
	for _, r := range fuzzyResults {
		fuzzyScores[r.Name] = r.Score
	}

	semanticScores := make(map[string]float64)
	if semanticMatcher != nil && semanticMatcher.Trained() {
		for _, r := range semanticMatcher.Match(query, universe, 0) {
			semanticScores[r.Name] = r.Score
		}
	}

	floor := fuzzyThreshold / 100
	if semanticThreshold > floor {
		floor = semanticThreshold
	}

	seen := make(map[string]bool, len(universe))
	var results []Result
	for _, name := range universe {
		if seen[name] {
			continue
		}
		seen[name] = true
		f := fuzzyScores[name] / 100
		s := semanticScores[name]
		score := alpha*f + (1-alpha)*s
		if score >= floor {
			results = append(results, Result{Name: name, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})
	return results
}
