package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
)

func setupCSharp(e *Extractor) {
	parser := sitter.NewParser()
	language := sitter.NewLanguage(tree_sitter_c_sharp.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	queryStr := `
        (method_declaration name: (identifier) @method.name) @method
        (constructor_declaration name: (identifier) @constructor.name) @constructor
        (class_declaration name: (identifier) @class.name) @class
        (record_declaration name: (identifier) @class.name) @class
        (interface_declaration name: (identifier) @interface.name) @interface
        (struct_declaration name: (identifier) @struct.name) @struct
        (enum_declaration name: (identifier) @enum.name) @enum
        (delegate_declaration name: (identifier) @delegate.name) @delegate
        (property_declaration name: (identifier) @property.name) @property
        (field_declaration (variable_declaration (variable_declarator name: (identifier) @field.name))) @field
        (event_field_declaration (variable_declaration (variable_declarator name: (identifier) @event.name))) @event
        (namespace_declaration name: (_) @module.name) @module
        (using_directive (qualified_name) @using.name) @using
        (using_directive (identifier) @using.name) @using
        (invocation_expression function: (identifier) @call.name) @call
    `
	query, _ := sitter.NewQuery(language, queryStr)
	e.register(".cs", "csharp", parser, query)
}
