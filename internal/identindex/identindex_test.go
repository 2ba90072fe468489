package identindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/repomap-engine/internal/types"
)

func TestSplitWords(t *testing.T) {
	cases := map[string][]string{
		"authenticateUser":  {"authenticate", "user"},
		"authenticate_user": {"authenticate", "user"},
		"authenticate-user": {"authenticate", "user"},
		"AuthenticateUser":  {"authenticate", "user"},
		"HTTPServer":        {"http", "server"},
		"userID":            {"user", "id"},
		"simple":            {"simple"},
	}
	for in, want := range cases {
		assert.Equal(t, want, SplitWords(in), "input %q", in)
	}
}

func TestRebuildAndLookup(t *testing.T) {
	idx := New()
	tags := []types.Tag{
		{Name: "authenticate_user", Kind: types.TagDef, Category: types.CategoryFunction, File: "auth.go", Line: 10},
		{Name: "AuthenticateUser", Kind: types.TagRef, Category: types.CategoryOther, File: "main.go", Line: 5},
	}
	idx.Rebuild(tags)

	require.Len(t, idx.Lookup("authenticate_user"), 1)
	require.Len(t, idx.LookupFold("AUTHENTICATE_USER"), 1)
	require.Len(t, idx.LookupFold("authenticateuser"), 1) // matches only "AuthenticateUser"; underscore isn't stripped by fold

	words := idx.LookupWord("user")
	assert.Len(t, words, 2)

	assert.ElementsMatch(t, []string{"authenticate_user", "AuthenticateUser"}, idx.Identifiers())
	assert.Equal(t, 2, idx.Len())
}

func TestRebuildIsIdempotentAndReplacesState(t *testing.T) {
	idx := New()
	idx.Rebuild([]types.Tag{{Name: "foo", Kind: types.TagDef, Category: types.CategoryFunction, File: "a.go", Line: 1}})
	assert.Len(t, idx.Identifiers(), 1)

	idx.Rebuild([]types.Tag{{Name: "bar", Kind: types.TagDef, Category: types.CategoryFunction, File: "b.go", Line: 1}})
	assert.Equal(t, []string{"bar"}, idx.Identifiers())
	assert.Empty(t, idx.Lookup("foo"))
}
