// Package format implements spec §4.13's Hierarchical Formatter (C13):
// render(tree, budget, include_code) -> string. Tree-glyph recursion
// (prefix/connector/childPrefix) is grounded on
// theRebelliousNerd-codenerd/internal/mangle/proof_tree.go's
// RenderASCII/renderNodeASCII, generalized from a binary EDB/IDB proof tree
// to spec's n-ary ExplorationTree and given budget-aware trimming in place
// of that renderer's unconditional full-tree walk.
package format

import (
	"strconv"
	"strings"

	"github.com/standardbeagle/repomap-engine/internal/tokenest"
	"github.com/standardbeagle/repomap-engine/internal/types"
)

// Node-level annotations the formatter consumes. Populated by the caller
// (typically the engine, after running C12 over each node's symbol body)
// via TreeNode.StructuralInfo under these well-known keys.
const (
	KeySignature         = "signature"
	KeyCriticalLines     = "critical_lines"     // "\n"-joined "line:text"
	KeyDependencySummary = "dependency_summary" // e.g. "called by 3 files"
	KeyUsageSummary      = "usage_summary"
)

// Mode selects the renderer's output shape.
type Mode int

const (
	ModeText Mode = iota
	ModeJSON
)

// Options configures a single Render call.
type Options struct {
	Budget      int // total token budget; <=0 renders nothing, per §4.13's boundary case
	IncludeCode bool
	Mode        Mode
}

// workNode is a mutable render-time copy of a TreeNode, trimmed in place as
// the budget pass proceeds.
type workNode struct {
	src           *types.TreeNode
	signature     string
	sigTruncated  bool
	criticalLines []string // already-formatted "💡 Critical: ..." lines, most important first
	context       []string
	children      []*workNode
	depth         int
}

// Render serializes tree within budget tokens (estimated via est), per
// §4.13. A budget of 0 (or below) returns the empty string with no error,
// the spec's explicit boundary case for a caller with nothing left to
// spend.
func Render(tree *types.ExplorationTree, est tokenest.Estimator, opts Options) string {
	if opts.Budget <= 0 {
		return ""
	}
	if est == nil {
		est = tokenest.NewDefaultEstimator()
	}
	root := buildWorkNode(tree.Root, 0)
	fit(root, est, opts)

	switch opts.Mode {
	case ModeJSON:
		return renderJSON(root)
	default:
		return renderText(root)
	}
}

func buildWorkNode(n *types.TreeNode, depth int) *workNode {
	w := &workNode{src: n, depth: depth}
	if n.StructuralInfo != nil {
		w.signature = n.StructuralInfo[KeySignature]
		if cl := n.StructuralInfo[KeyCriticalLines]; cl != "" {
			for _, line := range strings.Split(cl, "\n") {
				if line != "" {
					w.criticalLines = append(w.criticalLines, line)
				}
			}
		}
		if dep := n.StructuralInfo[KeyDependencySummary]; dep != "" {
			w.context = append(w.context, dep)
		}
		if use := n.StructuralInfo[KeyUsageSummary]; use != "" {
			w.context = append(w.context, use)
		}
	}
	for _, c := range n.Children {
		w.children = append(w.children, buildWorkNode(c, depth+1))
	}
	return w
}

// fit trims root in priority order — context, then extra critical lines,
// then extra children farthest-depth-first, then signatures truncated to
// name+arity — stopping as soon as the rendered estimate fits opts.Budget.
// Structure (node identifiers and the tree shape) is never removed.
//
// This realizes §4.13's context/critical/signature/structure priority as an
// ordered trim rather than a fixed percentage split: a literal per-category
// token allocation would either waste budget on a category with nothing left
// to cut, or cut a higher-priority category while a lower one still has
// shrinkable content, so the category that is actually lowest-priority and
// still present is trimmed first, every time.
func fit(root *workNode, est tokenest.Estimator, opts Options) {
	fits := func() bool {
		return est.Estimate(renderText(root)) <= opts.Budget
	}
	if fits() {
		return
	}

	dropContext(root)
	if fits() {
		return
	}

	// "extra" critical lines: trim surplus down to the single best per
	// node before touching tree shape.
	capCriticalLines(root, 1)
	if fits() {
		return
	}

	for {
		deepest := deepestPrunable(root, root)
		if deepest == nil {
			break
		}
		removeChild(root, deepest)
		if fits() {
			return
		}
	}

	// Tree shape is now minimal (root only, if it came to that); only as a
	// last resort before truncating signatures do remaining critical lines
	// give way.
	capCriticalLines(root, 0)
	if fits() {
		return
	}

	truncateSignatures(root)
}

func dropContext(n *workNode) {
	n.context = nil
	for _, c := range n.children {
		dropContext(c)
	}
}

func capCriticalLines(n *workNode, keep int) {
	if len(n.criticalLines) > keep {
		n.criticalLines = n.criticalLines[:keep]
	}
	for _, c := range n.children {
		capCriticalLines(c, keep)
	}
}

// deepestPrunable returns the deepest leaf node in the tree (excluding
// root), so repeated calls remove farthest nodes first.
func deepestPrunable(root, n *workNode) *workNode {
	var best *workNode
	var walk func(w *workNode)
	walk = func(w *workNode) {
		if w != root && (best == nil || w.depth > best.depth) {
			best = w
		}
		for _, c := range w.children {
			walk(c)
		}
	}
	walk(n)
	return best
}

func removeChild(root, target *workNode) bool {
	var walk func(w *workNode) bool
	walk = func(w *workNode) bool {
		for i, c := range w.children {
			if c == target {
				w.children = append(w.children[:i], w.children[i+1:]...)
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(root)
}

func truncateSignatures(n *workNode) {
	if !n.sigTruncated {
		n.signature = nameAndArity(n.signature, n.src.Identifier)
		n.sigTruncated = true
	}
	for _, c := range n.children {
		truncateSignatures(c)
	}
}

// nameAndArity reduces a full signature line to "identifier(N)" where N is
// a best-effort parameter count, falling back to bare "identifier" when the
// signature has no parenthesized parameter list.
func nameAndArity(sig, identifier string) string {
	open := strings.IndexByte(sig, '(')
	closeIdx := strings.IndexByte(sig, ')')
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return identifier
	}
	params := strings.TrimSpace(sig[open+1 : closeIdx])
	if params == "" {
		return identifier + "()"
	}
	n := len(strings.Split(params, ","))
	return identifier + "(" + strconv.Itoa(n) + ")"
}

// renderText walks root with tree-glyph guides (├── / │   / └──), one line
// per symbol in the form "path:line: signature", plus optional critical-
// line and context annotations. Any budget trimming already happened in
// fit before this is called.
func renderText(root *workNode) string {
	var sb strings.Builder
	writeNode(&sb, root, "", true, true)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *workNode, prefix string, isLast, isRoot bool) {
	if !isRoot {
		connector := "├── "
		if isLast {
			connector = "└── "
		}
		sb.WriteString(prefix + connector + nodeLine(n) + "\n")
	} else {
		sb.WriteString(nodeLine(n) + "\n")
	}

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	for _, line := range n.criticalLines {
		sb.WriteString(childPrefix + "💡 Critical: " + line + "\n")
	}
	for _, ctx := range n.context {
		sb.WriteString(childPrefix + ctx + "\n")
	}

	for i, c := range n.children {
		writeNode(sb, c, childPrefix, i == len(n.children)-1, false)
	}
}

func nodeLine(n *workNode) string {
	loc := n.src.Location
	if n.signature != "" {
		return loc + ": " + n.signature
	}
	return loc + ": " + n.src.Identifier
}
