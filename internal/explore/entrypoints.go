// Package explore implements spec §4.9's Entrypoint Discoverer + Clusterer
// (C9) and §4.10's Tree Builder/Manager (C10). Clustering and tree
// construction are grounded on XTheocharis-crush/internal/repomap/
// treecontext.go's rank-then-build-context shape (tree construction from
// ranked definitions under a graph), read alongside the teacher's MCP
// context_manifest_expander.go for the clustering/fan-out/depth-cap idiom
// (shape only — that file is excluded API-surface code per spec
// Non-goals, not copied).
package explore

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/standardbeagle/repomap-engine/internal/fuzzy"
	"github.com/standardbeagle/repomap-engine/internal/identindex"
	"github.com/standardbeagle/repomap-engine/internal/semantic"
	"github.com/standardbeagle/repomap-engine/internal/types"
)

// DiscoveryConfig configures spec §4.9's thresholds.
type DiscoveryConfig struct {
	FuzzyThreshold    float64 // τ_fuzzy, default 0.7, compared against fuzzy score/100
	SemanticThreshold float64 // τ_sem, default 0.6
	MinClusterSize    int     // default 2
}

func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{FuzzyThreshold: 0.7, SemanticThreshold: 0.6, MinClusterSize: 2}
}

// Discover finds entrypoint candidates for intent by unioning fuzzy and
// semantic matches against the full identifier set, deduplicated by
// (identifier, file), per §4.9.
func Discover(intent string, idx *identindex.Index, semanticM *semantic.Matcher, fuzzyStrats []fuzzy.Strategy, cfg DiscoveryConfig) []types.Entrypoint {
	names := idx.Identifiers()
	if intent == "" || len(names) == 0 {
		return nil
	}

	fuzzyScore := make(map[string]float64, len(names))
	for _, r := range fuzzy.Match(intent, names, cfg.FuzzyThreshold*100, fuzzyStrats) {
		fuzzyScore[r.Name] = r.Score / 100
	}

	semScore := make(map[string]float64)
	if semanticM != nil && semanticM.Trained() {
		for _, r := range semanticM.Match(intent, names, cfg.SemanticThreshold) {
			semScore[r.Name] = r.Score
		}
	}

	type key struct{ identifier, file string }
	seen := make(map[key]bool)
	var out []types.Entrypoint

	for _, name := range names {
		fz, inFuzzy := fuzzyScore[name]
		sm, inSem := semScore[name]
		if !inFuzzy && !inSem {
			continue
		}
		score := math.Max(sm, fz)
		categories := semantic.Categories(name, 3)

		for _, file := range definingFiles(idx, name) {
			k := key{identifier: name, file: file}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, types.Entrypoint{
				Identifier: name,
				Location:   locationFor(idx, name, file),
				Score:      score,
				Categories: categories,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Identifier != out[j].Identifier {
			return out[i].Identifier < out[j].Identifier
		}
		return out[i].Location < out[j].Location
	})
	return out
}

// definingFiles returns the distinct files where name has a def tag,
// falling back to the files of its ref tags if it has no def.
func definingFiles(idx *identindex.Index, name string) []string {
	tags := idx.Lookup(name)
	seen := make(map[string]bool)
	var defs, refs []string
	for _, t := range tags {
		if t.Kind == types.TagDef {
			if !seen["d:"+t.File] {
				seen["d:"+t.File] = true
				defs = append(defs, t.File)
			}
		} else if !seen["r:"+t.File] {
			seen["r:"+t.File] = true
			refs = append(refs, t.File)
		}
	}
	sort.Strings(defs)
	if len(defs) > 0 {
		return defs
	}
	sort.Strings(refs)
	return refs
}

func locationFor(idx *identindex.Index, name, file string) string {
	for _, t := range idx.Lookup(name) {
		if t.File == file {
			return fmt.Sprintf("%s:%d", t.File, t.Line)
		}
	}
	return file
}

// Cluster assigns each entrypoint to a primary-category cluster, merging
// clusters smaller than minSize into "mixed", per §4.9.
func Cluster(entrypoints []types.Entrypoint, minClusterSize int) []types.TreeCluster {
	if minClusterSize < 1 {
		minClusterSize = 2
	}

	byCategory := make(map[string][]types.Entrypoint)
	for _, ep := range entrypoints {
		cat := "general"
		if len(ep.Categories) > 0 {
			cat = ep.Categories[0]
		}
		byCategory[cat] = append(byCategory[cat], ep)
	}

	var mixed []types.Entrypoint
	final := make(map[string][]types.Entrypoint)
	for cat, eps := range byCategory {
		if len(eps) < minClusterSize {
			mixed = append(mixed, eps...)
			continue
		}
		final[cat] = eps
	}
	if len(mixed) > 0 {
		final["mixed"] = append(final["mixed"], mixed...)
	}

	cats := make([]string, 0, len(final))
	for c := range final {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	clusters := make([]types.TreeCluster, 0, len(cats))
	for _, cat := range cats {
		eps := final[cat]
		clusters = append(clusters, types.TreeCluster{
			PrimaryCategory: cat,
			Entrypoints:     eps,
			ContextName:     contextName(cat, eps),
			Confidence:      confidence(eps),
		})
	}
	return clusters
}

// pairedLabels maps a frequency-ranked top-two category pair to a
// human-readable context name, per §4.9's "lookup table of paired and
// singleton labels".
var pairedLabels = map[[2]string]string{
	{"authentication", "security"}:   "Auth & Security",
	{"api", "network"}:               "API & Network Layer",
	{"database", "caching"}:          "Data & Caching Layer",
	{"error_handling", "validation"}: "Validation & Error Handling",
}

var singletonLabels = map[string]string{
	"authentication":  "Authentication",
	"error_handling":  "Error Handling",
	"validation":      "Validation",
	"api":             "API Layer",
	"database":        "Database Layer",
	"caching":         "Caching Layer",
	"security":        "Security",
	"network":         "Network Layer",
	"file_operations": "File Operations",
	"performance":     "Performance",
	"mixed":           "Mixed Components",
	"general":         "General Components",
}

func contextName(primary string, eps []types.Entrypoint) string {
	secondary := topSecondaryCategory(primary, eps)
	if secondary != "" {
		pair := [2]string{primary, secondary}
		if label, ok := pairedLabels[pair]; ok {
			return label
		}
		pair = [2]string{secondary, primary}
		if label, ok := pairedLabels[pair]; ok {
			return label
		}
	}
	if label, ok := singletonLabels[primary]; ok {
		return label
	}
	return strings.Title(strings.ReplaceAll(primary, "_", " ")) + " Components"
}

func topSecondaryCategory(primary string, eps []types.Entrypoint) string {
	counts := make(map[string]int)
	for _, ep := range eps {
		for _, c := range ep.Categories {
			if c != primary {
				counts[c]++
			}
		}
	}
	best, bestCount := "", 0
	var names []string
	for c := range counts {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// confidence: mean entrypoint score × (1 + log(1+|cluster|)/5), capped at 1.
func confidence(eps []types.Entrypoint) float64 {
	if len(eps) == 0 {
		return 0
	}
	var sum float64
	for _, ep := range eps {
		sum += ep.Score
	}
	mean := sum / float64(len(eps))
	c := mean * (1 + math.Log(1+float64(len(eps)))/5)
	if c > 1 {
		c = 1
	}
	return c
}
