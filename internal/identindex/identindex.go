// Package identindex implements spec §4.3's Identifier Index (C3):
// normalizing extracted tags into an in-memory index keyed by identifier,
// with a case-folded secondary map and compound-identifier word splitting
// for word-level fuzzy matching. Grounded on the teacher's dual exact/
// case-folded lookup idiom and its compound-identifier splitter
// (internal/semantic/name_splitter.go).
package identindex

import (
	"strings"
	"unicode"

	"github.com/standardbeagle/repomap-engine/internal/types"
)

// Index is the rebuildable identifier → tag mapping of spec §3/§4.3.
type Index struct {
	byName     map[string][]int
	byFold     map[string][]int
	byWord     map[string][]int
	tags       []types.Tag
	identifiers []string // deduplicated, stable-sorted by first occurrence
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		byName: make(map[string][]int),
		byFold: make(map[string][]int),
		byWord: make(map[string][]int),
	}
}

// Rebuild replaces the index contents atomically from the given tag set.
// It is idempotent: calling it twice with the same tags produces the same
// index. Readers holding a prior *Index are unaffected (see Engine's
// snapshot-pointer usage) — Rebuild mutates in place, so callers that need
// old-vs-new isolation should keep the old *Index and swap pointers, per
// spec §5's "readers see either the old or new snapshot" rule.
func (idx *Index) Rebuild(tags []types.Tag) {
	idx.byName = make(map[string][]int, len(tags))
	idx.byFold = make(map[string][]int, len(tags))
	idx.byWord = make(map[string][]int, len(tags))
	idx.tags = make([]types.Tag, len(tags))
	copy(idx.tags, tags)

	seen := make(map[string]bool, len(tags))
	idx.identifiers = idx.identifiers[:0]

	for i, tag := range idx.tags {
		idx.byName[tag.Name] = append(idx.byName[tag.Name], i)
		fold := strings.ToLower(tag.Name)
		idx.byFold[fold] = append(idx.byFold[fold], i)

		for _, word := range SplitWords(tag.Name) {
			w := strings.ToLower(word)
			idx.byWord[w] = append(idx.byWord[w], i)
		}

		if !seen[tag.Name] {
			seen[tag.Name] = true
			idx.identifiers = append(idx.identifiers, tag.Name)
		}
	}
}

// Lookup returns all tags recorded exactly under name.
func (idx *Index) Lookup(name string) []types.Tag {
	return idx.tagsAt(idx.byName[name])
}

// LookupFold is a case-insensitive variant of Lookup.
func (idx *Index) LookupFold(name string) []types.Tag {
	return idx.tagsAt(idx.byFold[strings.ToLower(name)])
}

// LookupWord returns tags whose identifier contains word as one of its
// compound-identifier word tokens (case-insensitive).
func (idx *Index) LookupWord(word string) []types.Tag {
	return idx.tagsAt(idx.byWord[strings.ToLower(word)])
}

func (idx *Index) tagsAt(indices []int) []types.Tag {
	if len(indices) == 0 {
		return nil
	}
	out := make([]types.Tag, len(indices))
	for i, idxPos := range indices {
		out[i] = idx.tags[idxPos]
	}
	return out
}

// Identifiers returns every distinct identifier name in the index, in
// first-occurrence order. This is the "universe" C5/C6/C9 match against.
func (idx *Index) Identifiers() []string {
	out := make([]string, len(idx.identifiers))
	copy(out, idx.identifiers)
	return out
}

// Words returns every distinct word token produced by compound-identifier
// splitting across the index, used to seed C6's vocabulary.
func (idx *Index) Words() []string {
	out := make([]string, 0, len(idx.byWord))
	for w := range idx.byWord {
		out = append(out, w)
	}
	return out
}

// Len returns the total number of indexed tags.
func (idx *Index) Len() int { return len(idx.tags) }

// SplitWords splits a compound identifier (camelCase, snake_case,
// kebab-case, PascalCase) into its constituent word tokens.
func SplitWords(identifier string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(identifier)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			startOfAcronymWord := i > 0 && unicode.IsUpper(runes[i-1]) && nextLower
			if prevLower || startOfAcronymWord {
				flush()
			}
			cur.WriteRune(unicode.ToLower(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}
