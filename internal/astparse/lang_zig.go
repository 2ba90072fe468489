package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
)

// setupZig wires the Zig grammar. Zig's own node names are PascalCase
// (mirrored from the reference compiler's AST), unlike the snake_case
// grammars above, so the query vocabulary intentionally differs in shape.
func setupZig(e *Extractor) {
	parser := sitter.NewParser()
	language := sitter.NewLanguage(tree_sitter_zig.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	queryStr := `
        (FnProto name: (IDENTIFIER) @function.name) @function
        (VarDecl name: (IDENTIFIER) @variable.name) @variable
    `
	query, _ := sitter.NewQuery(language, queryStr)
	e.register(".zig", "zig", parser, query)
}
