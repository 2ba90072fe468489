package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// LineKind categorizes a source line by the AST node kind enclosing its
// start, per spec §4.12's critical-line pattern categories.
type LineKind string

const (
	LineReturn      LineKind = "return"
	LineThrow       LineKind = "throw"
	LineConditional LineKind = "conditional"
	LineCall        LineKind = "call"
	LineLoop        LineKind = "loop"
	LineAssignment  LineKind = "assignment"
	LineDocstring   LineKind = "docstring"
)

// LineSignal is one classified line found while walking a parsed file.
type LineSignal struct {
	Line int
	Text string
	Kind LineKind
}

// nodeKindsByLanguage maps each supported language to the tree-sitter node
// kind names (as returned by Node.Kind()) that indicate each LineKind. This
// is why critical-line extraction is language-aware rather than text-
// pattern-based: a line is tagged by what the grammar actually parsed it
// as, not by keyword search.
var nodeKindsByLanguage = map[string]map[LineKind][]string{
	"go": {
		LineReturn:      {"return_statement"},
		LineConditional: {"if_statement"},
		LineCall:        {"call_expression"},
		LineLoop:        {"for_statement"},
		LineAssignment:  {"assignment_statement", "short_var_declaration"},
		LineDocstring:   {"comment"},
	},
	"javascript": {
		LineReturn:      {"return_statement"},
		LineThrow:       {"throw_statement"},
		LineConditional: {"if_statement"},
		LineCall:        {"call_expression"},
		LineLoop:        {"for_statement", "for_in_statement", "while_statement"},
		LineAssignment:  {"assignment_expression", "variable_declarator"},
		LineDocstring:   {"comment"},
	},
	"typescript": {
		LineReturn:      {"return_statement"},
		LineThrow:       {"throw_statement"},
		LineConditional: {"if_statement"},
		LineCall:        {"call_expression"},
		LineLoop:        {"for_statement", "for_in_statement", "while_statement"},
		LineAssignment:  {"assignment_expression", "variable_declarator"},
		LineDocstring:   {"comment"},
	},
	"python": {
		LineReturn:      {"return_statement"},
		LineThrow:       {"raise_statement"},
		LineConditional: {"if_statement"},
		LineCall:        {"call"},
		LineLoop:        {"for_statement", "while_statement"},
		LineAssignment:  {"assignment"},
		LineDocstring:   {"string"},
	},
	"rust": {
		LineReturn:      {"return_expression"},
		LineThrow:       {"macro_invocation"}, // panic!/bail! stand in for throw
		LineConditional: {"if_expression"},
		LineCall:        {"call_expression"},
		LineLoop:        {"for_expression", "while_expression", "loop_expression"},
		LineAssignment:  {"let_declaration", "assignment_expression"},
		LineDocstring:   {"line_comment", "block_comment"},
	},
	"java": {
		LineReturn:      {"return_statement"},
		LineThrow:       {"throw_statement"},
		LineConditional: {"if_statement"},
		LineCall:        {"method_invocation"},
		LineLoop:        {"for_statement", "enhanced_for_statement", "while_statement"},
		LineAssignment:  {"assignment_expression", "local_variable_declaration"},
		LineDocstring:   {"line_comment", "block_comment"},
	},
	"php": {
		LineReturn:      {"return_statement"},
		LineThrow:       {"throw_expression"},
		LineConditional: {"if_statement"},
		LineCall:        {"function_call_expression"},
		LineLoop:        {"for_statement", "foreach_statement", "while_statement"},
		LineAssignment:  {"assignment_expression"},
		LineDocstring:   {"comment"},
	},
	"csharp": {
		LineReturn:      {"return_statement"},
		LineThrow:       {"throw_statement"},
		LineConditional: {"if_statement"},
		LineCall:        {"invocation_expression"},
		LineLoop:        {"for_statement", "foreach_statement", "while_statement"},
		LineAssignment:  {"assignment_expression", "variable_declaration"},
		LineDocstring:   {"comment"},
	},
	"cpp": {
		LineReturn:      {"return_statement"},
		LineThrow:       {"throw_statement"},
		LineConditional: {"if_statement"},
		LineCall:        {"call_expression"},
		LineLoop:        {"for_statement", "while_statement"},
		LineAssignment:  {"assignment_expression", "declaration"},
		LineDocstring:   {"comment"},
	},
	"zig": {
		LineConditional: {"IfExpr"},
		LineCall:        {"SuffixExpr"},
		LineLoop:        {"ForExpr", "WhileExpr"},
		LineAssignment:  {"VarDecl"},
	},
}

// CriticalLines walks the parsed tree for relPath and returns every line
// whose enclosing node kind maps to a LineKind, per spec §4.12. Unsupported
// extensions and languages with no pattern table return nil.
func (e *Extractor) CriticalLines(relPath string, content []byte) []LineSignal {
	ext := extOf(relPath)
	e.mu.Lock()
	qk, ok := e.byExt[ext]
	e.mu.Unlock()
	if !ok {
		return nil
	}

	kinds := nodeKindsByLanguage[qk.language]
	if kinds == nil {
		return nil
	}
	kindOf := make(map[string]LineKind, len(kinds))
	for lk, names := range kinds {
		for _, n := range names {
			kindOf[n] = lk
		}
	}

	tree := qk.parser.Parse(content, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	var out []LineSignal
	seen := make(map[int]bool)
	var walk func(n sitter.Node)
	walk = func(n sitter.Node) {
		if lk, ok := kindOf[n.Kind()]; ok {
			line := int(n.StartPosition().Row) + 1
			if !seen[line] {
				seen[line] = true
				out = append(out, LineSignal{Line: line, Text: signatureLine(content, n), Kind: lk})
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				walk(*child)
			}
		}
	}
	walk(tree.RootNode())
	return out
}
