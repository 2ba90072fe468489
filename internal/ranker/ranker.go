// Package ranker implements spec §4.8's Context-Aware Ranker (C8): a
// composite per-symbol score combining relevance, centrality, context
// affinity to "current files", and a kind prior. Grounded on the weighted-
// sum idiom of the teacher's SemanticScoring config struct, and on
// XTheocharis-crush/internal/repomap's personalization-vector technique
// for context affinity via graph distance.
package ranker

import (
	"sort"

	"github.com/standardbeagle/repomap-engine/internal/config"
	"github.com/standardbeagle/repomap-engine/internal/fuzzy"
	"github.com/standardbeagle/repomap-engine/internal/graph"
	"github.com/standardbeagle/repomap-engine/internal/semantic"
	"github.com/standardbeagle/repomap-engine/internal/types"
)

// Candidate is one symbol the ranker scores, identified by its defining
// tag.
type Candidate struct {
	Tag types.Tag
}

// Scored is a ranked candidate with its composite score and file
// centrality (used for tie-breaking by callers that need it).
type Scored struct {
	Tag        types.Tag
	Score      float64
	Centrality float64
}

var kindPriors = map[types.Category]float64{
	types.CategoryClass:    1.0,
	types.CategoryFunction: 0.9,
	types.CategoryMethod:   0.9,
	types.CategoryConstant: 0.7,
	types.CategoryVariable: 0.5,
	types.CategoryOther:    0.4,
	types.CategoryImport:   0.4,
}

// Ranker composes spec §4.8's score over a fixed graph snapshot and
// centrality vector.
type Ranker struct {
	weights     config.RankerWeights
	g           *graph.Graph
	centrality  map[string]float64
	semanticM   *semantic.Matcher
	fuzzyStrats []fuzzy.Strategy
}

func New(weights config.RankerWeights, g *graph.Graph, centrality map[string]float64, semanticM *semantic.Matcher, fuzzyStrats []fuzzy.Strategy) *Ranker {
	return &Ranker{weights: weights, g: g, centrality: centrality, semanticM: semanticM, fuzzyStrats: fuzzyStrats}
}

// Rank scores and sorts candidates for intent + currentFiles context, per
// §4.8's formula and tie-break rule (higher centrality, then lower file
// path, then lower line).
func (r *Ranker) Rank(intent string, currentFiles []string, candidates []Candidate) []Scored {
	currentSet := make(map[string]bool, len(currentFiles))
	for _, f := range currentFiles {
		currentSet[f] = true
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Tag.Name
	}

	relevance := r.relevance(intent, names)

	out := make([]Scored, len(candidates))
	for i, c := range candidates {
		file := c.Tag.File
		cent := r.centrality[file]
		affinity := r.contextAffinity(file, currentSet)
		prior := kindPriors[c.Tag.Category]
		if prior == 0 {
			prior = kindPriors[types.CategoryOther]
		}

		score := r.weights.Relevance*relevance[c.Tag.Name] +
			r.weights.Centrality*cent +
			r.weights.ContextAffinity*affinity +
			r.weights.KindPrior*prior

		out[i] = Scored{Tag: c.Tag, Score: score, Centrality: cent}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Centrality != out[j].Centrality {
			return out[i].Centrality > out[j].Centrality
		}
		if out[i].Tag.File != out[j].Tag.File {
			return out[i].Tag.File < out[j].Tag.File
		}
		return out[i].Tag.Line < out[j].Tag.Line
	})
	return out
}

// relevance uses semantic similarity if the matcher is trained, else falls
// back to fuzzy, per §4.8.
func (r *Ranker) relevance(intent string, names []string) map[string]float64 {
	scores := make(map[string]float64, len(names))
	if intent == "" {
		return scores
	}
	if r.semanticM != nil && r.semanticM.Trained() {
		for _, res := range r.semanticM.Match(intent, names, 0) {
			scores[res.Name] = res.Score
		}
		return scores
	}
	for _, res := range fuzzy.Match(intent, names, 0, r.fuzzyStrats) {
		scores[res.Name] = res.Score / 100
	}
	return scores
}

// contextAffinity: 1 if file is a current file, else 1 − min(1, d/D) where
// d is the shortest path distance in the undirected projection of the
// dependency graph and D is the configured radius.
func (r *Ranker) contextAffinity(file string, currentFiles map[string]bool) float64 {
	if currentFiles[file] {
		return 1
	}
	if len(currentFiles) == 0 || r.g == nil {
		return 0
	}
	radius := r.weights.ContextRadius
	if radius <= 0 {
		radius = 4
	}

	minDist := -1
	for cf := range currentFiles {
		d := r.g.UndirectedDistance(cf, file, radius)
		if d < 0 {
			continue
		}
		if minDist < 0 || d < minDist {
			minDist = d
		}
	}
	if minDist < 0 {
		return 0
	}
	ratio := float64(minDist) / float64(radius)
	if ratio > 1 {
		ratio = 1
	}
	return 1 - ratio
}
