package explore

import (
	"strings"
	"time"

	"github.com/standardbeagle/repomap-engine/internal/errlib"
	"github.com/standardbeagle/repomap-engine/internal/types"
)

// Focus sets session.CurrentFocus to treeID, per §4.10.
func Focus(session *types.ExplorationSession, treeID string, now time.Time) error {
	if _, ok := session.Trees[treeID]; !ok {
		return errlib.NotFound("explore.Focus", errString("tree not found")).WithContext(treeID)
	}
	session.CurrentFocus = treeID
	session.LastActivity = now
	return nil
}

// Expand locates nodes whose identifier or location contains area
// (case-insensitive) within the target tree, and appends dependency-graph-
// derived children not already present. Re-expanding an already-expanded
// area is a no-op recorded only once in ExpandedAreas, per §4.10's
// idempotence law.
func (m *Manager) Expand(session *types.ExplorationSession, area, treeID string, now time.Time) error {
	tree, err := resolveTree(session, treeID)
	if err != nil {
		return err
	}

	matches := findMatching(tree.Root, area)
	if len(matches) == 0 {
		return errlib.NotFound("explore.Expand", errString("no matching node")).WithContext(area)
	}

	alreadyExpanded := tree.ExpandedAreas[area]

	nodeCount := countNodes(tree.Root)
	if nodeCount >= tree.MaxNodes {
		return errlib.Capacity("explore.Expand", errString("tree at max_nodes")).WithContext(treeID)
	}

	if !alreadyExpanded {
		for _, node := range matches {
			if node.Expanded {
				continue
			}
			ancestors := ancestorKeySet(tree.Root, node)
			m.expandNode(node, tree, m.clusterCategoriesFor(tree), ancestors, &nodeCount)
			node.Expanded = true
		}
	}

	tree.ExpandedAreas[area] = true
	tree.LastModified = now
	return nil
}

// Prune removes subtrees whose root node matches area (case-insensitive
// identifier/location substring) from the target tree, recording the area
// in PrunedAreas. Pruning the root collapses the tree to just its root.
// Pruning is destructive by design: a subsequent Expand of the same area
// is not required to restore the prior state, per spec §8.
func (m *Manager) Prune(session *types.ExplorationSession, area, treeID string, now time.Time) error {
	tree, err := resolveTree(session, treeID)
	if err != nil {
		return err
	}

	if matchesNode(tree.Root, area) {
		tree.Root.Children = nil
		tree.Root.Pruned = true
		tree.Root.Expanded = false
		tree.PrunedAreas[area] = true
		tree.LastModified = now
		return nil
	}

	removed := pruneChildren(tree.Root, area)
	if !removed {
		return errlib.NotFound("explore.Prune", errString("no matching node")).WithContext(area)
	}
	tree.PrunedAreas[area] = true
	tree.LastModified = now
	return nil
}

// Map serializes the current tree state of treeID (or the session's
// focused tree if treeID is empty) for rendering by C13.
func Map(session *types.ExplorationSession, treeID string) (*types.ExplorationTree, error) {
	if treeID == "" {
		treeID = session.CurrentFocus
	}
	return resolveTree(session, treeID)
}

func resolveTree(session *types.ExplorationSession, treeID string) (*types.ExplorationTree, error) {
	if treeID == "" {
		treeID = session.CurrentFocus
	}
	tree, ok := session.Trees[treeID]
	if !ok {
		return nil, errlib.NotFound("explore.resolveTree", errString("tree not found")).WithContext(treeID)
	}
	return tree, nil
}

func (m *Manager) clusterCategoriesFor(tree *types.ExplorationTree) []string {
	return tree.RootEntrypoint.Categories
}

func findMatching(node *types.TreeNode, area string) []*types.TreeNode {
	var out []*types.TreeNode
	var walk func(n *types.TreeNode)
	walk = func(n *types.TreeNode) {
		if matchesNode(n, area) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(node)
	return out
}

func matchesNode(n *types.TreeNode, area string) bool {
	area = strings.ToLower(area)
	return strings.Contains(strings.ToLower(n.Identifier), area) ||
		strings.Contains(strings.ToLower(n.Location), area)
}

func pruneChildren(node *types.TreeNode, area string) bool {
	removed := false
	kept := node.Children[:0]
	for _, c := range node.Children {
		if matchesNode(c, area) {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	node.Children = kept
	for _, c := range node.Children {
		if pruneChildren(c, area) {
			removed = true
		}
	}
	return removed
}

func countNodes(node *types.TreeNode) int {
	n := 1
	for _, c := range node.Children {
		n += countNodes(c)
	}
	return n
}

// ancestorKeySet walks root to find node and returns the set of
// (identifier, file) keys on the path from root to node, inclusive.
func ancestorKeySet(root, target *types.TreeNode) map[types.NodeKey]bool {
	path := make(map[types.NodeKey]bool)
	var walk func(n *types.TreeNode, trail map[types.NodeKey]bool) bool
	walk = func(n *types.TreeNode, trail map[types.NodeKey]bool) bool {
		trail[n.Key()] = true
		if n == target {
			for k := range trail {
				path[k] = true
			}
			return true
		}
		for _, c := range n.Children {
			childTrail := make(map[types.NodeKey]bool, len(trail)+1)
			for k := range trail {
				childTrail[k] = true
			}
			if walk(c, childTrail) {
				return true
			}
		}
		return false
	}
	walk(root, make(map[types.NodeKey]bool))
	return path
}

type errString string

func (e errString) Error() string { return string(e) }
