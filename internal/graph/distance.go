package graph

// UndirectedDistance returns the shortest-path distance between from and to
// in the undirected projection of the graph (edges traversable in either
// direction), capped at maxDepth hops. Returns -1 if unreachable within
// maxDepth. Used by C8's context-affinity computation (spec §4.8).
func (g *Graph) UndirectedDistance(from, to string, maxDepth int) int {
	if from == to {
		return 0
	}
	visited := map[string]bool{from: true}
	frontier := []string{from}
	for depth := 1; depth <= maxDepth; depth++ {
		var next []string
		for _, node := range frontier {
			for _, e := range g.out[node] {
				if e.To == to {
					return depth
				}
				if !visited[e.To] {
					visited[e.To] = true
					next = append(next, e.To)
				}
			}
			for _, e := range g.in[node] {
				if e.From == to {
					return depth
				}
				if !visited[e.From] {
					visited[e.From] = true
					next = append(next, e.From)
				}
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return -1
}
