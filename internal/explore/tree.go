package explore

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/standardbeagle/repomap-engine/internal/config"
	"github.com/standardbeagle/repomap-engine/internal/graph"
	"github.com/standardbeagle/repomap-engine/internal/identindex"
	"github.com/standardbeagle/repomap-engine/internal/semantic"
	"github.com/standardbeagle/repomap-engine/internal/types"
)

// candidate is a scored child proposal before fan-out trimming.
type candidate struct {
	node  *types.TreeNode
	score float64
}

// Manager implements spec §4.10's Tree Builder/Manager (C10): build,
// focus, expand, prune, map over exploration trees rooted at entrypoints.
// Grounded on XTheocharis-crush/internal/repomap's tree-from-ranked-defs
// shape, adapted to operate over the dependency graph's neighbor sets
// instead of a flat rank list.
type Manager struct {
	g          *graph.Graph
	idx        *identindex.Index
	centrality map[string]float64
	cfg        config.TreeConfig

	defsByFile map[string][]types.Tag // cached at construction
}

func NewManager(g *graph.Graph, idx *identindex.Index, centrality map[string]float64, cfg config.TreeConfig) *Manager {
	m := &Manager{g: g, idx: idx, centrality: centrality, cfg: cfg}
	m.defsByFile = make(map[string][]types.Tag)
	for _, name := range idx.Identifiers() {
		for _, t := range idx.Lookup(name) {
			if t.Kind == types.TagDef {
				m.defsByFile[t.File] = append(m.defsByFile[t.File], t)
			}
		}
	}
	return m
}

func (m *Manager) fanout() int {
	if m.cfg.Fanout <= 0 {
		return 10
	}
	return m.cfg.Fanout
}

func (m *Manager) maxNodes() int {
	if m.cfg.MaxNodes <= 0 {
		return 500
	}
	return m.cfg.MaxNodes
}

func (m *Manager) maxDepth() int {
	if m.cfg.MaxDepth <= 0 {
		return 4
	}
	return m.cfg.MaxDepth
}

// Build constructs a fresh ExplorationTree rooted at entrypoint, per
// §4.10. Root is depth 0, node_type entrypoint. Children are files/symbols
// reachable from the root's file, scored by centrality and cluster
// relevance, capped at cfg.Fanout per node and cfg.MaxNodes in total.
func (m *Manager) Build(treeID string, ep types.Entrypoint, contextName string, now time.Time) *types.ExplorationTree {
	root := &types.TreeNode{
		Identifier: ep.Identifier,
		Location:   ep.Location,
		NodeType:   types.NodeEntrypoint,
		Depth:      0,
	}

	tree := &types.ExplorationTree{
		TreeID:         treeID,
		RootEntrypoint: ep,
		MaxDepth:       m.maxDepth(),
		MaxNodes:       m.maxNodes(),
		Root:           root,
		ExpandedAreas:  make(map[string]bool),
		PrunedAreas:    make(map[string]bool),
		ContextName:    contextName,
		Confidence:     ep.Score,
		CreatedAt:      now,
		LastModified:   now,
	}

	count := 1
	ancestors := map[types.NodeKey]bool{root.Key(): true}
	m.expandNode(root, tree, ep.Categories, ancestors, &count)
	root.Expanded = true
	return tree
}

// expandNode appends children to node from its file's dependency-graph
// neighborhood, respecting depth, fan-out, and node-count caps. ancestors
// holds every (identifier, file) pair on the path from root to node
// (inclusive); a candidate sharing a key with any ancestor is skipped,
// per §4.10's cycle-safety rule.
func (m *Manager) expandNode(node *types.TreeNode, tree *types.ExplorationTree, clusterCategories []string, ancestors map[types.NodeKey]bool, count *int) {
	if node.Depth >= tree.MaxDepth || *count >= tree.MaxNodes {
		return
	}

	file := fileOf(node.Location)
	var candidates []candidate

	for _, t := range m.defsByFile[file] {
		if t.Name == node.Identifier {
			continue
		}
		key := types.NodeKey{Identifier: t.Name, File: t.File}
		if ancestors[key] {
			continue
		}
		child := &types.TreeNode{
			Identifier: t.Name,
			Location:   locationString(t.File, t.Line),
			NodeType:   nodeTypeFor(t.Category),
			Depth:      node.Depth + 1,
		}
		candidates = append(candidates, candidate{node: child, score: m.score(t.File, clusterCategories, t.Name)})
	}

	if m.g != nil {
		for _, e := range m.g.Out(file) {
			key := types.NodeKey{Identifier: e.To, File: e.To}
			if ancestors[key] {
				continue
			}
			child := &types.TreeNode{
				Identifier: e.To,
				Location:   e.To,
				NodeType:   types.NodeImport,
				Depth:      node.Depth + 1,
			}
			candidates = append(candidates, candidate{node: child, score: m.score(e.To, clusterCategories, e.To)})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].node.Identifier < candidates[j].node.Identifier
	})

	added := 0
	for _, c := range candidates {
		if added >= m.fanout() || *count >= tree.MaxNodes {
			break
		}
		parentKey := node.Key()
		c.node.Parent = &parentKey
		node.Children = append(node.Children, c.node)
		*count++
		added++

		childAncestors := make(map[types.NodeKey]bool, len(ancestors)+1)
		for k := range ancestors {
			childAncestors[k] = true
		}
		childAncestors[c.node.Key()] = true
		m.expandNode(c.node, tree, clusterCategories, childAncestors, count)
	}
}

func (m *Manager) score(file string, clusterCategories []string, identifier string) float64 {
	s := m.centrality[file]
	if len(clusterCategories) > 0 {
		ownCategories := semantic.Categories(identifier, 3)
		for _, c := range clusterCategories {
			for _, oc := range ownCategories {
				if c == oc {
					s += 0.25
					break
				}
			}
		}
	}
	return s
}

func nodeTypeFor(cat types.Category) types.NodeType {
	switch cat {
	case types.CategoryFunction, types.CategoryMethod:
		return types.NodeFunction
	case types.CategoryClass:
		return types.NodeClass
	case types.CategoryImport:
		return types.NodeImport
	default:
		return types.NodeSymbol
	}
}

func locationString(file string, line int) string {
	if line <= 0 {
		return file
	}
	return file + ":" + strconv.Itoa(line)
}

func fileOf(location string) string {
	if i := strings.LastIndexByte(location, ':'); i >= 0 {
		return location[:i]
	}
	return location
}
