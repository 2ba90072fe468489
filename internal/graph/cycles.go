package graph

import "sort"

// Cycles returns Tarjan's strongly-connected components of size ≥ 2, plus
// any self-loop, per spec §4.4. Each returned cycle is sorted
// lexicographically for determinism; cycles themselves are ordered by
// their lexicographically smallest member.
func (g *Graph) Cycles() [][]string {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n] = i
	}
	adj := make([][]int, len(g.Nodes))
	selfLoop := make(map[int]bool)
	for _, e := range g.Edges {
		from, to := index[e.From], index[e.To]
		if from == to {
			selfLoop[from] = true
			continue
		}
		adj[from] = append(adj[from], to)
	}

	t := &tarjan{
		adj:     adj,
		index:   make([]int, len(g.Nodes)),
		lowlink: make([]int, len(g.Nodes)),
		onStack: make([]bool, len(g.Nodes)),
	}
	for i := range t.index {
		t.index[i] = -1
	}

	for v := range g.Nodes {
		if t.index[v] == -1 {
			t.strongConnect(v)
		}
	}

	var cycles [][]string
	for _, comp := range t.sccs {
		if len(comp) >= 2 {
			names := indicesToNames(comp, g.Nodes)
			sort.Strings(names)
			cycles = append(cycles, names)
		} else if len(comp) == 1 && selfLoop[comp[0]] {
			cycles = append(cycles, []string{g.Nodes[comp[0]]})
		}
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

func indicesToNames(indices []int, nodes []string) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = nodes[idx]
	}
	return out
}

type tarjan struct {
	adj     [][]int
	index   []int
	lowlink []int
	onStack []bool
	stack   []int
	counter int
	sccs    [][]int
}

func (t *tarjan) strongConnect(v int) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adj[v] {
		if t.index[w] == -1 {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []int
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, comp)
	}
}
