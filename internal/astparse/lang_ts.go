package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func setupTypeScript(e *Extractor) {
	parser := sitter.NewParser()
	language := sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	queryStr := `
        (function_declaration name: (identifier) @function.name) @function
        (generator_function_declaration name: (identifier) @function.name) @function
        (method_definition name: (property_identifier) @method.name) @method
        (function_expression name: (identifier) @function.name) @function
        (class_declaration name: (type_identifier) @class.name) @class
        (interface_declaration name: (type_identifier) @interface.name) @interface
        (enum_declaration name: (identifier) @enum.name) @enum
        (import_statement source: (string) @import.source) @import
        (call_expression function: (identifier) @call.name) @call
    `
	query, _ := sitter.NewQuery(language, queryStr)
	e.register(".ts", "typescript", parser, query)

	tsxParser := sitter.NewParser()
	tsxLanguage := sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	if err := tsxParser.SetLanguage(tsxLanguage); err != nil {
		return
	}
	tsxQuery, _ := sitter.NewQuery(tsxLanguage, queryStr)
	e.register(".tsx", "typescript", tsxParser, tsxQuery)
}
