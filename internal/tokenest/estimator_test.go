package tokenest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 0, EstimateTokens("   "))
}

func TestEstimateIsMonotoneUnderConcatenation(t *testing.T) {
	prefixes := []string{
		"func authenticateUser(",
		"func authenticateUser(ctx context.Context",
		"func authenticateUser(ctx context.Context, req *LoginRequest) (*Session, error) {",
	}
	prev := 0
	for _, p := range prefixes {
		got := EstimateTokens(p)
		assert.GreaterOrEqual(t, got, prev, "estimate for %q regressed", p)
		prev = got
	}
}

func TestEstimateGrowsWithAppendedText(t *testing.T) {
	base := "hello world"
	longer := base + " this is a longer sentence with more words"
	assert.Greater(t, EstimateTokens(longer), EstimateTokens(base))
}

func TestSubTokenCountSplitsCamelCaseAndPunctuation(t *testing.T) {
	assert.GreaterOrEqual(t, subTokenCount("userID"), 2)
	assert.GreaterOrEqual(t, subTokenCount("HTTPServer"), 2)
	assert.GreaterOrEqual(t, subTokenCount("foo.Bar()"), 3)
	assert.Equal(t, 1, subTokenCount("hello"))
}

func TestEstimateScalesRoughlyWithLength(t *testing.T) {
	short := "a b c"
	long := strings.Repeat("word ", 100)
	assert.Greater(t, EstimateTokens(long), EstimateTokens(short)*10)
}
