// Package astparse implements spec §4.2's AST Tag Extractor contract
// (extract_tags(file) -> []Tag) on top of real tree-sitter grammars, one
// file per language, following the per-language Parser+Query setup of the
// teacher's internal/parser/parser_language_setup.go. Per spec's explicit
// "zero regex patterns" rule, no language here is parsed with a regular
// expression; unsupported extensions return an empty tag list and no
// error, per §4.2.
package astparse

import (
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/repomap-engine/internal/types"
)

// queryKind classifies which capture groups a language query produces so
// extraction can be shared across languages.
type queryKind struct {
	parser   *sitter.Parser
	query    *sitter.Query
	language string
}

// Extractor holds one tree-sitter parser+query per supported extension.
// A single Extractor's Extract is not safe for concurrent use: tree-sitter
// parsers are not reentrant across goroutines. Callers that parallelize
// extraction (engine.Engine.extractTags) give each worker goroutine its own
// Extractor instead of sharing one behind a lock.
type Extractor struct {
	mu    sync.Mutex
	byExt map[string]*queryKind
}

// New builds an Extractor with every supported language wired in.
func New() *Extractor {
	e := &Extractor{byExt: make(map[string]*queryKind)}
	for _, setup := range []func(*Extractor){
		setupGo, setupJavaScript, setupTypeScript, setupPython, setupRust,
		setupJava, setupPHP, setupCSharp, setupCPP, setupZig,
	} {
		setup(e)
	}
	return e
}

func (e *Extractor) register(ext, language string, parser *sitter.Parser, query *sitter.Query) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if query == nil {
		return
	}
	e.byExt[ext] = &queryKind{parser: parser, query: query, language: language}
}

// SupportsExtension reports whether ext (including the leading dot) has a
// registered grammar.
func (e *Extractor) SupportsExtension(ext string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.byExt[ext]
	return ok
}

// Extract parses content (the file at relPath) and returns its def/ref/
// import tags. Unsupported extensions return (nil, nil), per §4.2.
func (e *Extractor) Extract(relPath string, content []byte) ([]types.Tag, error) {
	ext := extOf(relPath)
	e.mu.Lock()
	qk, ok := e.byExt[ext]
	e.mu.Unlock()
	if !ok {
		return nil, nil
	}

	tree := qk.parser.Parse(content, nil)
	if tree == nil {
		return nil, nil
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	matches := qc.Matches(qk.query, tree.RootNode(), content)
	captureNames := qk.query.CaptureNames()

	var tags []types.Tag
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		names := make(map[string]string, 4)
		for _, c := range match.Captures {
			cn := captureNames[c.Index]
			if strings.HasSuffix(cn, ".name") || strings.HasSuffix(cn, ".source") {
				names[cn] = string(content[c.Node.StartByte():c.Node.EndByte()])
			}
		}

		for _, c := range match.Captures {
			cn := captureNames[c.Index]
			node := c.Node
			line := int(node.StartPosition().Row) + 1

			switch cn {
			case "function", "delegate":
				tags = append(tags, defTag(names[cn+".name"], types.CategoryFunction, relPath, line, qk.language, signatureLine(content, node)))
			case "method", "constructor":
				tags = append(tags, defTag(names[cn+".name"], types.CategoryMethod, relPath, line, qk.language, signatureLine(content, node)))
			case "class", "interface", "struct", "enum", "trait", "record":
				tags = append(tags, defTag(names[cn+".name"], types.CategoryClass, relPath, line, qk.language, signatureLine(content, node)))
			case "variable", "field", "property", "event":
				tags = append(tags, defTag(names[cn+".name"], types.CategoryVariable, relPath, line, qk.language, ""))
			case "constant":
				tags = append(tags, defTag(names[cn+".name"], types.CategoryConstant, relPath, line, qk.language, ""))
			case "namespace", "package", "module":
				if n := names[cn+".name"]; n != "" {
					tags = append(tags, defTag(n, types.CategoryOther, relPath, line, qk.language, ""))
				}
			case "import", "using":
				src := names[cn+".source"]
				if src == "" {
					src = names[cn+".name"]
				}
				src = strings.Trim(src, "\"'`")
				if src != "" {
					tags = append(tags, types.Tag{
						Name: src, Kind: types.TagDef, Category: types.CategoryImport,
						File: relPath, Line: line, Language: qk.language,
					})
				}
			case "call":
				if n := names[cn+".name"]; n != "" {
					tags = append(tags, types.Tag{
						Name: n, Kind: types.TagRef, Category: types.CategoryOther,
						File: relPath, Line: line, Language: qk.language,
					})
				}
			}
		}
	}

	return tags, nil
}

func defTag(name string, cat types.Category, file string, line int, lang, sig string) types.Tag {
	return types.Tag{
		Name: name, Kind: types.TagDef, Category: cat, File: file, Line: line,
		Signature: sig, Language: lang,
	}
}

// signatureLine returns the single source line the node starts on, trimmed,
// used as the def tag's signature text.
func signatureLine(content []byte, node sitter.Node) string {
	start := int(node.StartByte())
	end := start
	for end < len(content) && content[end] != '\n' {
		end++
	}
	lineStart := start
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	return strings.TrimSpace(string(content[lineStart:end]))
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(path[i:])
}
