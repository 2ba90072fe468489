package astparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

func setupCPP(e *Extractor) {
	parser := sitter.NewParser()
	language := sitter.NewLanguage(tree_sitter_cpp.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	queryStr := `
        (function_definition
            declarator: (function_declarator
                declarator: (identifier) @function.name)) @function
        (function_definition
            declarator: (function_declarator
                declarator: (field_identifier) @method.name)) @method
        (function_definition
            declarator: (function_declarator
                declarator: (qualified_identifier
                    name: (identifier) @method.name))) @method
        (class_specifier name: (type_identifier) @class.name) @class
        (struct_specifier name: (type_identifier) @struct.name) @struct
        (enum_specifier name: (type_identifier) @enum.name) @enum
        (namespace_definition name: (identifier) @module.name) @module
        (preproc_include path: (_) @import.name) @import
        (using_declaration (qualified_identifier) @using.name) @using
        (call_expression function: (identifier) @call.name) @call
    `
	query, _ := sitter.NewQuery(language, queryStr)
	for _, ext := range []string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"} {
		e.register(ext, "cpp", parser, query)
	}
}
