package graph

import (
	"sort"

	"github.com/standardbeagle/repomap-engine/internal/types"
)

// Impact performs a reverse-edge BFS from changed, up to depth hops, per
// spec §4.4: Risk = min(1, affected_count/total_nodes + cycle_penalty),
// cycle_penalty = 0.2 if any affected node lies on a cycle.
func (g *Graph) Impact(changed []string, depth int) types.ImpactResult {
	changedSet := make(map[string]bool, len(changed))
	for _, c := range changed {
		changedSet[c] = true
	}

	visited := make(map[string]bool)
	queue := make([]struct {
		node string
		d    int
	}, 0, len(changed))
	for _, c := range changed {
		if !visited[c] {
			visited[c] = true
			queue = append(queue, struct {
				node string
				d    int
			}{c, 0})
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.d >= depth {
			continue
		}
		for _, e := range g.in[cur.node] {
			if !visited[e.From] {
				visited[e.From] = true
				queue = append(queue, struct {
					node string
					d    int
				}{e.From, cur.d + 1})
			}
		}
	}

	affected := make([]string, 0, len(visited))
	for n := range visited {
		affected = append(affected, n)
	}
	sort.Strings(affected)

	cycleNodes := make(map[string]bool)
	for _, cyc := range g.Cycles() {
		for _, n := range cyc {
			cycleNodes[n] = true
		}
	}

	onCycle := make(map[string]bool)
	anyOnCycle := false
	for _, n := range affected {
		if cycleNodes[n] {
			onCycle[n] = true
			anyOnCycle = true
		}
	}

	cyclePenalty := 0.0
	if anyOnCycle {
		cyclePenalty = 0.2
	}

	total := len(g.Nodes)
	risk := cyclePenalty
	if total > 0 {
		risk = float64(len(affected))/float64(total) + cyclePenalty
	}
	if risk > 1 {
		risk = 1
	}

	return types.ImpactResult{
		Affected:     affected,
		Risk:         risk,
		OnCycle:      onCycle,
		CyclePenalty: cyclePenalty,
	}
}
