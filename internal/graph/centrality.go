package graph

import (
	"math"
	"sort"

	"github.com/standardbeagle/repomap-engine/internal/types"
)

const (
	pageRankDamping    = 0.85
	pageRankTolerance  = 1e-6
	pageRankIterations = 100
)

// Centrality computes the per-node composite score of spec §3: a weighted
// combination of in-degree, out-degree, betweenness, and PageRank, each
// normalized to [0,1] before weighting, so the composite also lies in
// [0,1]. Ties in ranking are broken by the caller using (score desc,
// in-degree desc, path asc) per §4.4.
func (g *Graph) Centrality(weights types.CentralityWeights) map[string]float64 {
	n := len(g.Nodes)
	result := make(map[string]float64, n)
	if n == 0 {
		return result
	}

	inDeg := g.normalizedInDegree()
	outDeg := g.normalizedOutDegree()
	between := g.normalizedBetweenness()
	pr := g.normalizedPageRank()

	for _, node := range g.Nodes {
		result[node] = weights.InDegree*inDeg[node] +
			weights.OutDegree*outDeg[node] +
			weights.Betweenness*between[node] +
			weights.PageRank*pr[node]
	}
	return result
}

// RankByCentrality returns nodes sorted by descending centrality, with
// spec §4.4's stable tie-break: higher in-degree, then lexicographic path.
func (g *Graph) RankByCentrality(weights types.CentralityWeights) []string {
	scores := g.Centrality(weights)
	inDegRaw := make(map[string]int, len(g.Nodes))
	for _, node := range g.Nodes {
		inDegRaw[node] = len(g.in[node])
	}
	nodes := append([]string(nil), g.Nodes...)
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		if inDegRaw[a] != inDegRaw[b] {
			return inDegRaw[a] > inDegRaw[b]
		}
		return a < b
	})
	return nodes
}

func (g *Graph) normalizedInDegree() map[string]float64 {
	return normalizeCounts(g.Nodes, func(n string) float64 { return float64(len(g.in[n])) })
}

func (g *Graph) normalizedOutDegree() map[string]float64 {
	return normalizeCounts(g.Nodes, func(n string) float64 { return float64(len(g.out[n])) })
}

func normalizeCounts(nodes []string, count func(string) float64) map[string]float64 {
	max := 0.0
	raw := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		c := count(n)
		raw[n] = c
		if c > max {
			max = c
		}
	}
	out := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		if max > 0 {
			out[n] = raw[n] / max
		} else {
			out[n] = 0
		}
	}
	return out
}

// normalizedBetweenness computes unweighted directed shortest-path
// betweenness centrality (Brandes' algorithm) and normalizes by its
// observed maximum.
func (g *Graph) normalizedBetweenness() map[string]float64 {
	nodes := g.Nodes
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}
	adj := make([][]int, len(nodes))
	for _, e := range g.Edges {
		adj[index[e.From]] = append(adj[index[e.From]], index[e.To])
	}

	centrality := make([]float64, len(nodes))

	for s := range nodes {
		stack := []int{}
		preds := make([][]int, len(nodes))
		sigma := make([]float64, len(nodes))
		dist := make([]int, len(nodes))
		for i := range dist {
			dist[i] = -1
		}
		sigma[s] = 1
		dist[s] = 0
		queue := []int{s}

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range adj[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		delta := make([]float64, len(nodes))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				if sigma[w] > 0 {
					delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
				}
			}
			if w != s {
				centrality[w] += delta[w]
			}
		}
	}

	raw := make(map[string]float64, len(nodes))
	maxVal := 0.0
	for i, n := range nodes {
		raw[n] = centrality[i]
		if centrality[i] > maxVal {
			maxVal = centrality[i]
		}
	}
	out := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		if maxVal > 0 {
			out[n] = raw[n] / maxVal
		} else {
			out[n] = 0
		}
	}
	return out
}

// normalizedPageRank runs weighted PageRank over the edge set, grounded on
// XTheocharis-crush/internal/repomap/pagerank.go's iterative-update shape
// (damping 0.85, tolerance 1e-6, up to 100 iterations), with uniform
// (non-personalized) teleportation and normalized to [0,1] by its max.
func (g *Graph) normalizedPageRank() map[string]float64 {
	nodes := g.Nodes
	n := len(nodes)
	index := make(map[string]int, n)
	for i, node := range nodes {
		index[node] = i
	}

	outWeight := make([]float64, n)
	type inboundEdge struct {
		from   int
		weight float64
	}
	incoming := make([][]inboundEdge, n)

	for _, e := range g.Edges {
		if e.Weight <= 0 {
			continue
		}
		fromIdx, toIdx := index[e.From], index[e.To]
		outWeight[fromIdx] += float64(e.Weight)
		incoming[toIdx] = append(incoming[toIdx], inboundEdge{from: fromIdx, weight: float64(e.Weight)})
	}

	uniform := make([]float64, n)
	for i := range uniform {
		uniform[i] = 1.0 / float64(n)
	}

	rank := append([]float64(nil), uniform...)
	for iter := 0; iter < pageRankIterations; iter++ {
		next := make([]float64, n)
		for i := range next {
			next[i] = (1 - pageRankDamping) * uniform[i]
		}

		var danglingMass float64
		for i, w := range outWeight {
			if w <= 0 {
				danglingMass += rank[i]
			}
		}
		if danglingMass > 0 {
			scaled := pageRankDamping * danglingMass
			for i := range next {
				next[i] += scaled * uniform[i]
			}
		}

		for toIdx, inEdges := range incoming {
			var sum float64
			for _, in := range inEdges {
				if outWeight[in.from] <= 0 {
					continue
				}
				sum += rank[in.from] * (in.weight / outWeight[in.from])
			}
			next[toIdx] += pageRankDamping * sum
		}

		var delta float64
		for i := range next {
			delta += math.Abs(next[i] - rank[i])
		}
		rank = next
		if delta < pageRankTolerance {
			break
		}
	}

	maxVal := 0.0
	for _, v := range rank {
		if v > maxVal {
			maxVal = v
		}
	}
	out := make(map[string]float64, n)
	for i, node := range nodes {
		if maxVal > 0 {
			out[node] = rank[i] / maxVal
		} else {
			out[node] = 0
		}
	}
	return out
}
