package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntrainedMatcherReturnsNoResults(t *testing.T) {
	m := New()
	assert.False(t, m.Trained())
	assert.Empty(t, m.Match("auth", nil, 0))
}

func TestLearnAndMatchFindsRelatedIdentifiers(t *testing.T) {
	m := New()
	m.Learn([]string{"authenticate_user", "login_handler", "render_widget", "database_query"})
	require.True(t, m.Trained())

	results := m.Match("authentication login", nil, 0.01)
	require.NotEmpty(t, results)
	names := make(map[string]bool, len(results))
	for _, r := range results {
		names[r.Name] = true
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
	assert.True(t, names["authenticate_user"] || names["login_handler"])
}

func TestRelearnReplacesVocabularyAtomically(t *testing.T) {
	m := New()
	m.Learn([]string{"authenticate_user"})
	require.True(t, m.Trained())

	m.Learn([]string{"render_widget"})
	results := m.Match("authenticate", nil, 0.0)
	for _, r := range results {
		assert.NotEqual(t, "authenticate_user", r.Name)
	}
}

func TestCategoriesInferAuthentication(t *testing.T) {
	cats := Categories("authenticate_user_login", 3)
	assert.Contains(t, cats, "authentication")
}

func TestCategoriesEmptyForMeaninglessIdentifier(t *testing.T) {
	cats := Categories("xq7", 3)
	assert.Empty(t, cats)
}
