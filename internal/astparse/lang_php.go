package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

func setupPHP(e *Extractor) {
	parser := sitter.NewParser()
	language := sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	queryStr := `
        (class_declaration
            body: (declaration_list
                (method_declaration name: (name) @method.name))) @method
        (interface_declaration
            body: (declaration_list
                (method_declaration name: (name) @method.name))) @method
        (function_definition name: (name) @function.name) @function
        (class_declaration name: (name) @class.name) @class
        (interface_declaration name: (name) @interface.name) @interface
        (trait_declaration name: (name) @interface.name) @interface
        (enum_declaration name: (name) @enum.name) @enum
        (namespace_definition name: (namespace_name) @module.name) @module
        (namespace_use_declaration (namespace_use_clause (qualified_name) @import.name)) @import
        (property_declaration (property_element (variable_name) @field.name)) @field
        (const_declaration (const_element (name) @constant.name)) @constant
        (function_call_expression function: (name) @call.name) @call
    `
	query, _ := sitter.NewQuery(language, queryStr)
	e.register(".php", "php", parser, query)
	e.register(".phtml", "php", parser, query)
}
