package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultMap(results []Result) map[string]float64 {
	m := make(map[string]float64, len(results))
	for _, r := range results {
		m[r.Name] = r.Score
	}
	return m
}

// TestFuzzyExactScenario mirrors spec §8 scenario 1.
func TestFuzzyExactScenario(t *testing.T) {
	universe := []string{"authenticate_user", "login", "logout"}
	results := Match("authenticate_user", universe, 50, []Strategy{StrategyPrefix, StrategySubstring, StrategyLevenshtein})
	require.NotEmpty(t, results)
	assert.Equal(t, "authenticate_user", results[0].Name)
	assert.Equal(t, 100.0, results[0].Score)
}

// TestFuzzyPrefixAndWordScenario mirrors spec §8 scenario 2.
func TestFuzzyPrefixAndWordScenario(t *testing.T) {
	universe := []string{"auth", "authenticate", "user_auth", "database"}
	results := Match("auth", universe, 50, []Strategy{StrategyPrefix, StrategyWord})
	m := resultMap(results)

	assert.Equal(t, 100.0, m["auth"])
	authenticateScore, ok := m["authenticate"]
	require.True(t, ok)
	assert.GreaterOrEqual(t, authenticateScore, 50.0)
	assert.Equal(t, 50.0, m["user_auth"])
	_, hasDatabase := m["database"]
	assert.False(t, hasDatabase)
}

func TestEmptyQueryReturnsEmpty(t *testing.T) {
	results := Match("", []string{"a", "b"}, 0, nil)
	assert.Empty(t, results)
}

func TestResultsSortedByScoreDescThenNameAsc(t *testing.T) {
	universe := []string{"zzz_auth", "aaa_auth"}
	results := Match("auth", universe, 0, []Strategy{StrategyWord})
	require.Len(t, results, 2)
	assert.Equal(t, "aaa_auth", results[0].Name)
}

func TestThresholdDropsLowScores(t *testing.T) {
	universe := []string{"completely_unrelated_term"}
	results := Match("auth", universe, 50, []Strategy{StrategyPrefix, StrategySubstring, StrategyWord})
	assert.Empty(t, results)
}
