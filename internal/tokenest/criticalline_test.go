package tokenest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/repomap-engine/internal/astparse"
)

const goSample = `package auth

func authenticateUser(name string) (*Session, error) {
	if name == "" {
		return nil, errInvalidName
	}
	hashed := hashPassword(name)
	session := lookupSession(hashed)
	for i := 0; i < 3; i++ {
		session = retry(session)
	}
	return session, nil
}
`

func TestCriticalLinesFindsReturnAndConditional(t *testing.T) {
	ex := astparse.New()
	lines := CriticalLines(ex, "auth/login.go", []byte(goSample), 1, 0, "authentication", DefaultExtractorConfig())
	require.NotEmpty(t, lines)

	var sawReturn, sawConditional bool
	for _, l := range lines {
		if l.Score >= 0.9 {
			sawReturn = true
		}
		if l.Score >= 0.8 {
			sawConditional = true
		}
	}
	assert.True(t, sawReturn || sawConditional)
}

func TestCriticalLinesRespectsLineRange(t *testing.T) {
	ex := astparse.New()
	lines := CriticalLines(ex, "auth/login.go", []byte(goSample), 100, 0, "authentication", DefaultExtractorConfig())
	assert.Empty(t, lines)
}

func TestCriticalLinesCapsAtTopN(t *testing.T) {
	ex := astparse.New()
	cfg := ExtractorConfig{Threshold: 0.3, TopN: 2}
	lines := CriticalLines(ex, "auth/login.go", []byte(goSample), 1, 0, "authentication", cfg)
	assert.LessOrEqual(t, len(lines), 2)
}

func TestCriticalLinesUnsupportedExtensionReturnsNil(t *testing.T) {
	ex := astparse.New()
	lines := CriticalLines(ex, "auth/login.unknownlang", []byte(goSample), 1, 0, "", DefaultExtractorConfig())
	assert.Empty(t, lines)
}
