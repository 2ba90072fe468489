// Package session implements spec §4.11's Session Store (C11): atomic,
// schema-versioned persistence of ExplorationSessions keyed by an opaque
// external id. Grounded on the teacher's own plain-file-I/O state
// persistence idiom (no pack repo ships a cross-process file-lock or
// document-store library for single-file documents, so this package is
// standard library only: encoding/json, os, time).
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/standardbeagle/repomap-engine/internal/errlib"
	"github.com/standardbeagle/repomap-engine/internal/types"
)

// CurrentSchemaVersion is bumped whenever the on-disk envelope shape changes
// in a way existing documents can't be read as-is.
const CurrentSchemaVersion = 1

// idPattern is the only constraint the store places on session ids. The
// human-facing format (MMDD_<normalized_query>) is a convention of the
// caller, not something this package parses or enforces.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// ValidID reports whether id satisfies the store's allowed id format.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// envelope is the self-describing on-disk document. Extra preserves fields
// written by a newer schema version that this build doesn't understand, so
// a round-trip save never silently drops data it can't interpret.
type envelope struct {
	SchemaVersion int                        `json:"schema_version"`
	Session       *types.ExplorationSession  `json:"session"`
	Extra         map[string]json.RawMessage `json:"extra,omitempty"`
}

// Store persists ExplorationSessions as one JSON document per session id
// under dir, one file per session, guarded by a sibling lock file.
type Store struct {
	dir         string
	lockTimeout time.Duration
	now         func() time.Time
}

// Option configures a Store at construction.
type Option func(*Store)

// WithClock overrides the time source used for lock-acquisition deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLockTimeout overrides the default 5s exclusive-writer wait.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

// New creates a Store rooted at dir, creating dir if it does not exist.
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errlib.FileAccess("session.New", err).WithContext(dir)
	}
	s := &Store{dir: dir, lockTimeout: 5 * time.Second, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) docPath(id string) string  { return filepath.Join(s.dir, id+".json") }
func (s *Store) lockPath(id string) string { return filepath.Join(s.dir, id+".lock") }
func (s *Store) tmpPath(id string) string  { return filepath.Join(s.dir, id+".json.tmp") }

// Load reads and deserializes the session document for id. A schema version
// newer than CurrentSchemaVersion, or one this build cannot migrate, is
// reported as an error rather than partially loaded.
func (s *Store) Load(id string) (*types.ExplorationSession, error) {
	if !ValidID(id) {
		return nil, errlib.InvalidInput("session.Load", errString("invalid session id")).WithContext(id)
	}

	unlock, err := s.lock(id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	raw, err := os.ReadFile(s.docPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errlib.NotFound("session.Load", err).WithContext(id)
		}
		return nil, errlib.FileAccess("session.Load", err).WithContext(id)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errlib.Schema("session.Load", err).WithContext(id)
	}

	migrated, err := migrate(env)
	if err != nil {
		return nil, errlib.Schema("session.Load", err).WithContext(id)
	}

	for _, tree := range migrated.Session.Trees {
		rebuildParents(tree)
	}
	return migrated.Session, nil
}

// rebuildParents reconstructs every node's weak Parent back-reference after
// Unmarshal. Parent is never persisted (TreeNode.Parent is `json:"-"`), so
// each load walks the tree once, setting every child's Parent from its
// already-known parent key before descending further.
func rebuildParents(tree *types.ExplorationTree) {
	if tree == nil || tree.Root == nil {
		return
	}
	var walk func(n *types.TreeNode, parent *types.NodeKey)
	walk = func(n *types.TreeNode, parent *types.NodeKey) {
		n.Parent = parent
		key := n.Key()
		for _, c := range n.Children {
			walk(c, &key)
		}
	}
	walk(tree.Root, nil)
}

// migrate upgrades env in place to CurrentSchemaVersion, or fails if no
// migration path exists. There is only one schema version today, so this is
// the identity migration plus a forward-compatibility guard.
func migrate(env envelope) (envelope, error) {
	if env.SchemaVersion > CurrentSchemaVersion {
		return envelope{}, errString("session document schema version is newer than this build supports")
	}
	if env.SchemaVersion < 1 || env.Session == nil {
		return envelope{}, errString("session document missing required fields")
	}
	return env, nil
}

// Save atomically writes session's document: marshal, write to a temp file
// in the same directory, then rename over the final path. The rename is
// the only step visible to a concurrent reader, so a reader never observes
// a partially written document.
func (s *Store) Save(sess *types.ExplorationSession) error {
	if !ValidID(sess.SessionID) {
		return errlib.InvalidInput("session.Save", errString("invalid session id")).WithContext(sess.SessionID)
	}

	unlock, err := s.lock(sess.SessionID)
	if err != nil {
		return err
	}
	defer unlock()

	env := envelope{SchemaVersion: CurrentSchemaVersion, Session: sess}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errlib.Internal("session.Save", err).WithContext(sess.SessionID)
	}

	tmp := s.tmpPath(sess.SessionID)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errlib.FileAccess("session.Save", err).WithContext(sess.SessionID)
	}
	if err := os.Rename(tmp, s.docPath(sess.SessionID)); err != nil {
		os.Remove(tmp)
		return errlib.FileAccess("session.Save", err).WithContext(sess.SessionID)
	}
	return nil
}

// List returns all session ids currently persisted, sorted for
// determinism.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errlib.FileAccess("session.List", err).WithContext(s.dir)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the document for id. Deleting a nonexistent session is
// not an error: delete is idempotent.
func (s *Store) Delete(id string) error {
	if !ValidID(id) {
		return errlib.InvalidInput("session.Delete", errString("invalid session id")).WithContext(id)
	}
	unlock, err := s.lock(id)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.docPath(id)); err != nil && !os.IsNotExist(err) {
		return errlib.FileAccess("session.Delete", err).WithContext(id)
	}
	return nil
}

// lock acquires the exclusive per-id lock file, polling until acquired or
// s.lockTimeout elapses, in which case it reports ConflictError. The
// returned func releases the lock and must be called exactly once.
func (s *Store) lock(id string) (func(), error) {
	path := s.lockPath(id)
	deadline := s.now().Add(s.lockTimeout)
	const pollInterval = 5 * time.Millisecond

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, errlib.FileAccess("session.lock", err).WithContext(id)
		}
		if s.now().After(deadline) {
			return nil, errlib.Conflict("session.lock", errString("timed out waiting for session lock")).WithContext(id)
		}
		time.Sleep(pollInterval)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
