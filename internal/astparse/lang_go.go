package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

func setupGo(e *Extractor) {
	parser := sitter.NewParser()
	language := sitter.NewLanguage(tree_sitter_go.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	queryStr := `
        (function_declaration name: (identifier) @function.name) @function
        (method_declaration
            name: (field_identifier) @method.name) @method
        (type_declaration
            (type_spec name: (type_identifier) @class.name)) @class
        (const_spec name: (identifier) @constant.name) @constant
        (var_spec name: (identifier) @variable.name) @variable
        (import_spec path: (interpreted_string_literal) @import.source) @import
        (call_expression function: (identifier) @call.name) @call
    `
	query, _ := sitter.NewQuery(language, queryStr)
	e.register(".go", "go", parser, query)
}
