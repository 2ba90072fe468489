package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/repomap-engine/internal/errlib"
	"github.com/standardbeagle/repomap-engine/internal/types"
)

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("0731_authentication_login_e"))
	assert.True(t, ValidID("abc123"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("has space"))
	assert.False(t, ValidID("has/slash"))
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	now := time.Now()
	sess := types.NewSession("0731_authentication_login_e", "/proj", now)
	sess.Trees["t1"] = &types.ExplorationTree{
		TreeID: "t1",
		Root:   &types.TreeNode{Identifier: "authenticate_user", Location: "auth/login.go:10", NodeType: types.NodeEntrypoint},
	}

	require.NoError(t, store.Save(sess))

	loaded, err := store.Load(sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, loaded.SessionID)
	assert.Equal(t, sess.ProjectPath, loaded.ProjectPath)
	require.Contains(t, loaded.Trees, "t1")
	assert.Equal(t, "authenticate_user", loaded.Trees["t1"].Root.Identifier)
}

func TestParentIsNotPersistedAndIsReconstructedOnLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	child := &types.TreeNode{Identifier: "hash_password", Location: "auth/login.go:20", NodeType: types.NodeFunction}
	grandchild := &types.TreeNode{Identifier: "normalize", Location: "auth/login.go:30", NodeType: types.NodeFunction}
	child.Children = []*types.TreeNode{grandchild}
	root := &types.TreeNode{Identifier: "authenticate_user", Location: "auth/login.go:10", NodeType: types.NodeEntrypoint}
	root.Children = []*types.TreeNode{child}

	rootKey := root.Key()
	childKey := child.Key()
	child.Parent = &rootKey
	grandchild.Parent = &childKey

	sess := types.NewSession("0731_parent_reconstruction", "/proj", time.Now())
	sess.Trees["t1"] = &types.ExplorationTree{TreeID: "t1", Root: root}
	require.NoError(t, store.Save(sess))

	raw, err := os.ReadFile(filepath.Join(dir, "0731_parent_reconstruction.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "\"Parent\"", "Parent must never be written to the session document")

	loaded, err := store.Load(sess.SessionID)
	require.NoError(t, err)

	loadedRoot := loaded.Trees["t1"].Root
	assert.Nil(t, loadedRoot.Parent, "root has no parent")

	loadedChild := loadedRoot.Children[0]
	require.NotNil(t, loadedChild.Parent)
	assert.Equal(t, loadedRoot.Key(), *loadedChild.Parent)

	loadedGrandchild := loadedChild.Children[0]
	require.NotNil(t, loadedGrandchild.Parent)
	assert.Equal(t, loadedChild.Key(), *loadedGrandchild.Parent)
}

func TestLoadUnknownSessionReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	_, err = store.Load("does_not_exist")
	require.Error(t, err)
	kind, ok := errlib.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errlib.KindNotFound, kind)
}

func TestLoadRejectsNewerSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	env := envelope{SchemaVersion: CurrentSchemaVersion + 1, Session: types.NewSession("futuredoc", "/proj", time.Now())}
	data, err := json.Marshal(env)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "futuredoc.json"), data, 0o644))

	_, err = store.Load("futuredoc")
	require.Error(t, err)
	kind, ok := errlib.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errlib.KindSchema, kind)
}

func TestListReturnsSortedIDs(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	for _, id := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(t, store.Save(types.NewSession(id, "/proj", time.Now())))
	}

	ids, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, ids)
}

func TestDeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(types.NewSession("gone", "/proj", time.Now())))
	require.NoError(t, store.Delete("gone"))
	require.NoError(t, store.Delete("gone"))

	_, err = store.Load("gone")
	require.Error(t, err)
}

func TestConcurrentWriterTimesOutWithConflictError(t *testing.T) {
	dir := t.TempDir()
	clockCalls := 0
	store, err := New(dir, WithLockTimeout(10*time.Millisecond), WithClock(func() time.Time {
		clockCalls++
		base := time.Unix(0, 0)
		if clockCalls == 1 {
			return base
		}
		return base.Add(time.Second) // deadline always already elapsed after the first call
	}))
	require.NoError(t, err)

	// Simulate a held lock by creating the lock file out of band.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "busy.lock"), nil, 0o644))

	err = store.Save(types.NewSession("busy", "/proj", time.Now()))
	require.Error(t, err)
	kind, ok := errlib.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errlib.KindConflict, kind)
}
