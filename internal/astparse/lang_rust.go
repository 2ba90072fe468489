package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

func setupRust(e *Extractor) {
	parser := sitter.NewParser()
	language := sitter.NewLanguage(tree_sitter_rust.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	queryStr := `
        (impl_item
            body: (declaration_list
                (function_item name: (identifier) @method.name))) @method
        (trait_item
            body: (declaration_list
                (function_item name: (identifier) @method.name))) @method
        (function_item name: (identifier) @function.name) @function
        (struct_item name: (type_identifier) @struct.name) @struct
        (enum_item name: (type_identifier) @enum.name) @enum
        (trait_item name: (type_identifier) @interface.name) @interface
        (const_item name: (identifier) @constant.name) @constant
        (mod_item name: (identifier) @module.name) @module
        (use_declaration argument: (_) @import.name) @import
        (call_expression function: (identifier) @call.name) @call
    `
	query, _ := sitter.NewQuery(language, queryStr)
	e.register(".rs", "rust", parser, query)
}
