package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

func setupJavaScript(e *Extractor) {
	parser := sitter.NewParser()
	language := sitter.NewLanguage(tree_sitter_javascript.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	queryStr := `
        (function_declaration name: (identifier) @function.name) @function
        (generator_function_declaration name: (identifier) @function.name) @function
        (variable_declarator
            name: (identifier) @function.name
            value: [(arrow_function) (function_expression) (generator_function)]) @function
        (variable_declarator
            name: (identifier) @variable.name
            value: (_) @variable.value) @variable
        (method_definition name: (property_identifier) @method.name) @method
        (class_declaration name: (identifier) @class.name) @class
        (import_statement source: (string) @import.source) @import
        (call_expression function: (identifier) @call.name) @call
    `
	query, _ := sitter.NewQuery(language, queryStr)
	e.register(".js", "javascript", parser, query)
	e.register(".jsx", "javascript", parser, query)
}
