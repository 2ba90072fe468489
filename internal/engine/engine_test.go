package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/repomap-engine/internal/config"
	"github.com/standardbeagle/repomap-engine/internal/format"
	"github.com/standardbeagle/repomap-engine/internal/session"
)

const authSource = `package auth

func authenticate_user(name string, password string) (*Session, error) {
	hashed := hash_password(password)
	if hashed == "" {
		return nil, errNoPassword
	}
	return &Session{User: name}, nil
}

func hash_password(raw string) string {
	return raw + "-hashed"
}

type Session struct {
	User string
}
`

const widgetSource = `package ui

func render_widget(name string) string {
	return "<div>" + name + "</div>"
}
`

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "auth"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ui"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "auth", "login.go"), []byte(authSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ui", "widget.go"), []byte(widgetSource), 0o644))

	cfg := config.Default(root)
	cfg.SessionDir = filepath.Join(t.TempDir(), "sessions")

	e, err := New(cfg)
	require.NoError(t, err)
	return e, root
}

func TestAnalyzeCountsFilesAndIdentifiers(t *testing.T) {
	e, _ := newTestEngine(t)
	info, err := e.Analyze(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, info.FileCount)
	require.Greater(t, info.IdentifierCount, 0)
	require.Equal(t, 2, info.FileTypeHistogram["go"])
}

func TestSearchFuzzyFindsDefinedIdentifier(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Analyze(context.Background())
	require.NoError(t, err)

	matches := e.Search("authenticate", StrategyFuzzy, 50, 10)
	require.NotEmpty(t, matches)

	found := false
	for _, m := range matches {
		if m.Name == "authenticate_user" {
			found = true
		}
	}
	require.True(t, found)
}

func TestSearchHybridRespectsLimit(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Analyze(context.Background())
	require.NoError(t, err)

	matches := e.Search("user", StrategyHybrid, 0, 1)
	require.LessOrEqual(t, len(matches), 1)
}

func TestRankForIntentOrdersByComposite(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Analyze(context.Background())
	require.NoError(t, err)

	scored := e.RankForIntent("authentication login", nil, 5)
	require.NotEmpty(t, scored)
	for i := 1; i < len(scored); i++ {
		require.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}
}

func TestCentralityAndCyclesAfterAnalyze(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Analyze(context.Background())
	require.NoError(t, err)

	cent := e.Centrality()
	require.NotNil(t, cent)
	require.Empty(t, e.FindCycles())
}

func TestImpactReportsAffectedFiles(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Analyze(context.Background())
	require.NoError(t, err)

	result := e.Impact([]string{"auth/login.go"}, 2)
	require.GreaterOrEqual(t, result.Risk, 0.0)
}

// TestExploreFocusExpandPruneSessionRoundTrip exercises the literal
// end-to-end scenario: explore an intent, get a session id matching the
// store's id format, focus a tree, expand an area, save (implicit in
// Expand), reload via a fresh engine pointed at the same session dir, and
// confirm the expanded area and new child survive.
func TestExploreFocusExpandPruneSessionRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Analyze(context.Background())
	require.NoError(t, err)

	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	sess, err := e.Explore("authentication login", "", now)
	require.NoError(t, err)
	require.True(t, session.ValidID(sess.SessionID))
	require.NotEmpty(t, sess.Trees)

	var treeID string
	for id := range sess.Trees {
		treeID = id
		break
	}

	require.NoError(t, e.Focus(sess.SessionID, treeID, now))
	require.NoError(t, e.Expand(sess.SessionID, "password", treeID, now))

	reloaded, err := e.Map(sess.SessionID, treeID)
	require.NoError(t, err)
	require.True(t, reloaded.ExpandedAreas["password"])

	ids, err := e.SessionList()
	require.NoError(t, err)
	require.Contains(t, ids, sess.SessionID)

	require.NoError(t, e.Prune(sess.SessionID, "password", treeID, now))
	pruned, err := e.Map(sess.SessionID, treeID)
	require.NoError(t, err)
	require.True(t, pruned.PrunedAreas["password"])

	require.NoError(t, e.SessionDelete(sess.SessionID))
	ids, err = e.SessionList()
	require.NoError(t, err)
	require.NotContains(t, ids, sess.SessionID)
}

func TestExploreWithBlankSessionIDDerivesOne(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Analyze(context.Background())
	require.NoError(t, err)

	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	sess, err := e.Explore("render widget ui", "", now)
	require.NoError(t, err)
	require.Equal(t, "0731_render_widget_ui", sess.SessionID)
}

func TestRenderProducesTreeWithinBudget(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Analyze(context.Background())
	require.NoError(t, err)

	now := time.Now().UTC()
	sess, err := e.Explore("authentication", "auth_session", now)
	require.NoError(t, err)

	for _, t2 := range sess.Trees {
		out := e.Render(t2, 512, format.ModeText, false)
		require.NotEmpty(t, out)
		break
	}
}

func TestDeriveSessionIDTruncatesToLimit(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	long := "this is a very long intent string that keeps going and going and going and going and going"
	id := DeriveSessionID(long, now)
	require.LessOrEqual(t, len(id), 64)
	require.True(t, session.ValidID(id))
}

func TestDeriveSessionIDEmptyIntentFallsBackToDatePrefix(t *testing.T) {
	now := time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC)
	id := DeriveSessionID("!!!", now)
	require.Equal(t, "0506", id)
}
