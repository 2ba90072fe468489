// Package fuzzy implements spec §4.5's Fuzzy Matcher (C5): multi-strategy
// approximate string matching over {prefix, substring, levenshtein, word},
// fused by max, scores in [0,100]. Grounded on the teacher's
// internal/semantic/fuzzy_matcher.go shape (single-algorithm toggle over
// github.com/hbollon/go-edlib), generalized to the spec's strategy set.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/repomap-engine/internal/identindex"
)

// Strategy is one of the four approximate-matching strategies of §4.5.
type Strategy string

const (
	StrategyPrefix      Strategy = "prefix"
	StrategySubstring   Strategy = "substring"
	StrategyLevenshtein Strategy = "levenshtein"
	StrategyWord        Strategy = "word"
)

// Result is one scored match, score ∈ [0,100].
type Result struct {
	Name  string
	Score float64
}

// Match scores every name in universe against query using the fusion (max)
// of the enabled strategies, drops results below threshold, and returns
// them sorted by score desc then name asc, per §4.5.
func Match(query string, universe []string, threshold float64, strategies []Strategy) []Result {
	if query == "" {
		return nil
	}
	if len(strategies) == 0 {
		strategies = []Strategy{StrategyPrefix, StrategySubstring, StrategyLevenshtein, StrategyWord}
	}

	queryWords := wordSet(query)
	var results []Result
	for _, name := range universe {
		best := 0.0
		for _, s := range strategies {
			score := scoreStrategy(s, query, name, queryWords)
			if score > best {
				best = score
			}
		}
		if best >= threshold {
			results = append(results, Result{Name: name, Score: best})
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

func scoreStrategy(s Strategy, query, name string, queryWords map[string]bool) float64 {
	switch s {
	case StrategyPrefix:
		return prefixScore(query, name)
	case StrategySubstring:
		return substringScore(query, name)
	case StrategyLevenshtein:
		return levenshteinScore(query, name)
	case StrategyWord:
		return wordScore(queryWords, name)
	default:
		return 0
	}
}

// prefixScore: 100 if name starts with query (case-folded); otherwise
// decays linearly with the shared-prefix length.
func prefixScore(query, name string) float64 {
	q, n := strings.ToLower(query), strings.ToLower(name)
	if strings.HasPrefix(n, q) {
		return 100
	}
	shared := sharedPrefixLen(q, n)
	if shared == 0 {
		return 0
	}
	denom := len(q)
	if len(n) > denom {
		denom = len(n)
	}
	return 100 * float64(shared) / float64(denom)
}

func sharedPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// substringScore: 90 if query is a contiguous case-folded substring of
// name, else 0.
func substringScore(query, name string) float64 {
	if strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
		return 90
	}
	return 0
}

// levenshteinScore: 100·(1 − d/max(|q|,|n|)), computed via go-edlib's
// normalized Levenshtein similarity.
func levenshteinScore(query, name string) float64 {
	if query == name {
		return 100
	}
	if query == "" || name == "" {
		return 0
	}
	sim, err := edlib.StringsSimilarity(query, name, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return 100 * float64(sim)
}

// wordScore: Jaccard similarity of the two identifiers' compound-word
// token sets, ×100.
func wordScore(queryWords map[string]bool, name string) float64 {
	nameWords := wordSet(name)
	if len(queryWords) == 0 && len(nameWords) == 0 {
		return 100
	}
	if len(queryWords) == 0 || len(nameWords) == 0 {
		return 0
	}
	intersection := 0
	for w := range queryWords {
		if nameWords[w] {
			intersection++
		}
	}
	union := len(queryWords) + len(nameWords) - intersection
	if union == 0 {
		return 0
	}
	return 100 * float64(intersection) / float64(union)
}

func wordSet(identifier string) map[string]bool {
	words := identindex.SplitWords(identifier)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}
