package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

func setupPython(e *Extractor) {
	parser := sitter.NewParser()
	language := sitter.NewLanguage(tree_sitter_python.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	queryStr := `
        (class_definition
            body: (block
                (function_definition name: (identifier) @method.name))) @method
        (function_definition name: (identifier) @function.name) @function
        (class_definition name: (identifier) @class.name) @class
        (import_statement name: (dotted_name) @import.name) @import
        (import_from_statement module_name: (dotted_name) @import.name) @import
        (call function: (identifier) @call.name) @call
    `
	query, _ := sitter.NewQuery(language, queryStr)
	e.register(".py", "python", parser, query)
}
