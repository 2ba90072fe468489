// Package semantic implements spec §4.6's Semantic (TF-IDF) Matcher (C6):
// a learned vocabulary of stemmed word tokens and character n-grams scored
// by TF-IDF weighted cosine similarity, plus a fixed-lexicon category
// classifier. Grounded on the teacher's internal/semantic/stemmer.go
// (github.com/surgebase/porter2 wrapping) and name_splitter.go (compound-
// identifier splitting), with vocabulary_analyzer.go's learn-then-score
// shape generalized to spec's exact TF/IDF/cosine formulas.
package semantic

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/surgebase/porter2"

	"github.com/standardbeagle/repomap-engine/internal/identindex"
)

// Result is one scored semantic match, score ∈ [0,1].
type Result struct {
	Name  string
	Score float64
}

// Matcher learns a TF-IDF vocabulary from a set of identifiers and scores
// queries against it by cosine similarity. Zero value is usable but
// untrained (Match on an untrained Matcher returns no results, per §4.8's
// "relevance: semantic if matcher is trained, else fuzzy" fallback rule).
type Matcher struct {
	mu sync.RWMutex

	trained bool
	idf     map[string]float64
	docs    map[string]map[string]float64 // identifier -> term -> tf-idf weight (L2-normalized)
	names   []string
}

// New returns an untrained Matcher.
func New() *Matcher {
	return &Matcher{}
}

// Learn (re)builds the vocabulary from identifiers. It is idempotent and
// additive in contract: re-learning replaces the prior state atomically
// (readers mid-Match see either the old or the new vocabulary, never a
// partial one).
func (m *Matcher) Learn(identifiers []string) {
	docs := make(map[string][]string, len(identifiers))
	df := make(map[string]int)

	for _, ident := range identifiers {
		terms := tokenize(ident)
		docs[ident] = terms
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	n := float64(len(identifiers))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((n+1)/(float64(count)+1)) + 1
	}

	weighted := make(map[string]map[string]float64, len(docs))
	for ident, terms := range docs {
		tf := make(map[string]int)
		for _, t := range terms {
			tf[t]++
		}
		vec := make(map[string]float64, len(tf))
		var norm float64
		for term, count := range tf {
			w := (1 + math.Log(float64(count))) * idf[term]
			vec[term] = w
			norm += w * w
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for term := range vec {
				vec[term] /= norm
			}
		}
		weighted[ident] = vec
	}

	names := make([]string, 0, len(identifiers))
	names = append(names, identifiers...)

	m.mu.Lock()
	m.idf = idf
	m.docs = weighted
	m.names = names
	m.trained = len(identifiers) > 0
	m.mu.Unlock()
}

// Trained reports whether Learn has been called with a non-empty set.
func (m *Matcher) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// Match scores query against the learned vocabulary's identifiers (or the
// supplied universe, if non-empty, restricted to learned identifiers) by
// cosine similarity, returning results above threshold sorted desc by
// score then asc by name.
func (m *Matcher) Match(query string, universe []string, threshold float64) []Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.trained || query == "" {
		return nil
	}

	queryVec := m.vectorize(tokenize(query))
	if len(queryVec) == 0 {
		return nil
	}

	candidates := universe
	if len(candidates) == 0 {
		candidates = m.names
	}

	var results []Result
	for _, name := range candidates {
		docVec, ok := m.docs[name]
		if !ok {
			continue
		}
		score := cosine(queryVec, docVec)
		if score >= threshold {
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

// vectorize weights query terms by the learned IDF (falling back to an IDF
// of 1 for out-of-vocabulary terms) and L2-normalizes, must be called with
// m.mu held.
func (m *Matcher) vectorize(terms []string) map[string]float64 {
	tf := make(map[string]int)
	for _, t := range terms {
		tf[t]++
	}
	vec := make(map[string]float64, len(tf))
	var norm float64
	for term, count := range tf {
		idf := m.idf[term]
		if idf == 0 {
			idf = 1
		}
		w := (1 + math.Log(float64(count))) * idf
		vec[term] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for term := range vec {
			vec[term] /= norm
		}
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	var dot float64
	for term, wa := range small {
		if wb, ok := large[term]; ok {
			dot += wa * wb
		}
	}
	return dot
}

// tokenize splits identifier into case-folded compound words, stems each
// with Porter2, and augments with character 3-grams of each stemmed token,
// per §4.6's vocabulary definition.
func tokenize(identifier string) []string {
	words := identindex.SplitWords(identifier)
	var terms []string
	for _, w := range words {
		w = strings.ToLower(w)
		if w == "" {
			continue
		}
		stem := porter2.Stem(w)
		terms = append(terms, stem)
		terms = append(terms, ngrams(stem, 3)...)
	}
	return terms
}

func ngrams(s string, n int) []string {
	runes := []rune(s)
	if len(runes) < n {
		return nil
	}
	out := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		out = append(out, string(runes[i:i+n]))
	}
	return out
}
