// Package engine wires together every component of spec §6's external
// interface: C1-C14 are constructed once, held behind an atomically-
// swapped snapshot, and exposed through the operation table
// (analyze/search/rank_for_intent/explore/focus/expand/prune/map/impact/
// centrality/find_cycles/session_list/session_delete). Grounded on
// cmd/lci/main.go's construction-time wiring style (explicit init, no
// global state, per spec §9's "global mutable state" design note).
package engine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/repomap-engine/internal/astparse"
	"github.com/standardbeagle/repomap-engine/internal/cache"
	"github.com/standardbeagle/repomap-engine/internal/config"
	"github.com/standardbeagle/repomap-engine/internal/errlib"
	"github.com/standardbeagle/repomap-engine/internal/explore"
	"github.com/standardbeagle/repomap-engine/internal/format"
	"github.com/standardbeagle/repomap-engine/internal/fuzzy"
	"github.com/standardbeagle/repomap-engine/internal/graph"
	"github.com/standardbeagle/repomap-engine/internal/hybrid"
	"github.com/standardbeagle/repomap-engine/internal/identindex"
	"github.com/standardbeagle/repomap-engine/internal/logging"
	"github.com/standardbeagle/repomap-engine/internal/ranker"
	"github.com/standardbeagle/repomap-engine/internal/scanner"
	"github.com/standardbeagle/repomap-engine/internal/semantic"
	"github.com/standardbeagle/repomap-engine/internal/session"
	"github.com/standardbeagle/repomap-engine/internal/tokenest"
	"github.com/standardbeagle/repomap-engine/internal/types"
)

// SearchStrategy selects which of C5/C6/C7 a Search call uses.
type SearchStrategy string

const (
	StrategyFuzzy    SearchStrategy = "fuzzy"
	StrategySemantic SearchStrategy = "semantic"
	StrategyHybrid   SearchStrategy = "hybrid"
)

// Match is one search result, score normalized to the [0,1]/[0,100]
// convention of whichever strategy produced it.
type Match struct {
	Name  string
	Score float64
}

// ProjectInfo is analyze's return value, per §6.
type ProjectInfo struct {
	FileCount               int
	IdentifierCount         int
	FileTypeHistogram       map[string]int
	IdentifierKindHistogram map[string]int
	Duration                time.Duration
}

// snapshot is the whole of C3/C4/C6's derived state, atomically swapped so
// readers never see a partially rebuilt index or graph, per spec §5's
// shared-resources rule.
type snapshot struct {
	files      []types.FileRecord
	idx        *identindex.Index
	g          *graph.Graph
	centrality map[string]float64
	semanticM  *semantic.Matcher
	digest     uint64 // combined content hash, used as C14's cache key component
}

// Engine is the top-level wiring object. One Engine serves one project
// root for its lifetime.
type Engine struct {
	cfg       *config.Config
	log       logging.Logger
	cache     *cache.Cache
	sessions  *session.Store
	estimator tokenest.Estimator

	snap atomic.Pointer[snapshot]
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithEstimator overrides the default token estimator, per spec §9's
// "injected tokenizer" design note.
func WithEstimator(est tokenest.Estimator) Option {
	return func(e *Engine) { e.estimator = est }
}

// New constructs an Engine for cfg, validating cfg and creating the
// session store's directory. No project scan happens until Analyze runs.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := session.New(cfg.SessionDir)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		log:       logging.NoOp(),
		cache:     cache.New(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second, cache.SystemClock()),
		sessions:  store,
		estimator: tokenest.NewDefaultEstimator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.snap.Store(&snapshot{idx: identindex.New(), g: graph.NewBuilder(e.log).Build(nil, nil), semanticM: semantic.New()})
	return e, nil
}

// Analyze runs C1 (scan) and C2 (extract) over cfg.Project.Root, rebuilds
// C3/C4/C6 as a whole, swaps in the new snapshot atomically, and reports
// project statistics, per §6.
func (e *Engine) Analyze(ctx context.Context) (ProjectInfo, error) {
	start := time.Now()

	sc := scanner.New(e.cfg.Scan.SupportedExtensions, e.cfg.Scan.IgnorePatterns, e.cfg.Scan.MaxFileBytes, e.cfg.Workers, scanner.WithLogger(e.log))
	files, contents, err := sc.ScanFiles(ctx, e.cfg.Project.Root)
	if err != nil {
		return ProjectInfo{}, err
	}

	fileTypeHist := make(map[string]int)
	for _, f := range files {
		fileTypeHist[f.Language]++
	}

	tagsByFile, err := e.extractTags(ctx, files, contents)
	if err != nil {
		return ProjectInfo{}, err
	}

	var allTags []types.Tag
	for _, tags := range tagsByFile {
		allTags = append(allTags, tags...)
	}
	sort.SliceStable(allTags, func(i, j int) bool {
		if allTags[i].File != allTags[j].File {
			return allTags[i].File < allTags[j].File
		}
		return allTags[i].Line < allTags[j].Line
	})

	idx := identindex.New()
	idx.Rebuild(allTags)

	g := graph.NewBuilder(e.log).Build(files, allTags)
	centrality := g.Centrality(types.DefaultCentralityWeights())

	semanticM := semantic.New()
	semanticM.Learn(idx.Identifiers())

	digest := snapshotDigest(files)
	e.snap.Store(&snapshot{files: files, idx: idx, g: g, centrality: centrality, semanticM: semanticM, digest: digest})
	e.cache.Clear() // prior snapshot's cached results no longer apply, per §5

	kindHist := make(map[string]int)
	for _, tag := range allTags {
		kindHist[string(tag.Category)]++
	}

	return ProjectInfo{
		FileCount:               len(files),
		IdentifierCount:         len(idx.Identifiers()),
		FileTypeHistogram:       fileTypeHist,
		IdentifierKindHistogram: kindHist,
		Duration:                time.Since(start),
	}, nil
}

// extractTags runs C2 over files with a bounded worker pool, one
// *astparse.Extractor per worker (tree-sitter parsers are not reentrant
// across goroutines, so the pool cannot share a single Extractor), per
// spec §5's "file scanning and tag extraction are embarrassingly parallel
// at file granularity" rule. Results are returned indexed by files'
// position so the caller can join them in deterministic path order.
func (e *Engine) extractTags(ctx context.Context, files []types.FileRecord, contents map[string][]byte) ([][]types.Tag, error) {
	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	tagsByFile := make([][]types.Tag, len(files))
	indices := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			extractor := astparse.New()
			for i := range indices {
				f := files[i]
				tags, err := extractor.Extract(f.Path, contents[f.Path])
				if err != nil {
					e.log.Warnf("extract %s: %v", f.Path, err)
					continue
				}
				tagsByFile[i] = tags
			}
			return gctx.Err()
		})
	}

	g.Go(func() error {
		defer close(indices)
		for i := range files {
			select {
			case indices <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, errlib.Canceled("engine.extractTags", err).WithContext(e.cfg.Project.Root)
		}
		return nil, errlib.Internal("engine.extractTags", err).WithContext(e.cfg.Project.Root)
	}
	return tagsByFile, nil
}

func (e *Engine) current() *snapshot { return e.snap.Load() }

// snapshotDigest combines every file's (path, content hash) into one
// cache-key component, per spec §3's cache entry definition ("content
// hash (for cache keys)"). files are already path-sorted by the scanner.
func snapshotDigest(files []types.FileRecord) uint64 {
	params := make([]string, len(files))
	for i, f := range files {
		params[i] = f.Path + ":" + strconv.FormatUint(f.ContentHash, 36)
	}
	return cache.ParamDigest(params...)
}

func (e *Engine) fuzzyStrategies() []fuzzy.Strategy {
	strats := make([]fuzzy.Strategy, 0, len(e.cfg.Fuzzy.Strategies))
	for _, s := range e.cfg.Fuzzy.Strategies {
		strats = append(strats, fuzzy.Strategy(s))
	}
	return strats
}

// Search implements §6's search(query, strategy, threshold, limit), per-
// strategy dispatch to C5/C6/C7, truncated to limit preserving order.
// Results are memoized in C14 keyed by the current snapshot's content
// digest plus the call's parameters, per spec §3's cache entry definition.
func (e *Engine) Search(query string, strategy SearchStrategy, threshold float64, limit int) []Match {
	snap := e.current()

	key := cache.Key(snap.digest, "search", string(strategy), query,
		strconv.FormatFloat(threshold, 'f', -1, 64), strconv.Itoa(limit))
	if cached, ok := e.cache.Get(key); ok {
		return cached.([]Match)
	}

	out := e.search(snap, query, strategy, threshold, limit)
	e.cache.Put(key, out)
	return out
}

func (e *Engine) search(snap *snapshot, query string, strategy SearchStrategy, threshold float64, limit int) []Match {
	universe := snap.idx.Identifiers()

	var out []Match
	switch strategy {
	case StrategySemantic:
		for _, r := range snap.semanticM.Match(query, universe, threshold) {
			out = append(out, Match{Name: r.Name, Score: r.Score})
		}
	case StrategyHybrid:
		for _, r := range hybrid.Match(query, universe, e.cfg.HybridAlpha, e.cfg.Fuzzy.Threshold, e.fuzzyStrategies(), snap.semanticM, e.cfg.Semantic.Threshold) {
			if r.Score >= threshold {
				out = append(out, Match{Name: r.Name, Score: r.Score})
			}
		}
	default:
		for _, r := range fuzzy.Match(query, universe, threshold, e.fuzzyStrategies()) {
			out = append(out, Match{Name: r.Name, Score: r.Score})
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RankForIntent implements §6's rank_for_intent, running C8 over every
// identifier in the current snapshot.
func (e *Engine) RankForIntent(intent string, currentFiles []string, limit int) []ranker.Scored {
	snap := e.current()
	r := ranker.New(e.cfg.Ranker, snap.g, snap.centrality, snap.semanticM, e.fuzzyStrategies())

	candidates := make([]ranker.Candidate, 0, snap.idx.Len())
	for _, name := range snap.idx.Identifiers() {
		for _, tag := range snap.idx.Lookup(name) {
			if tag.Kind == types.TagDef {
				candidates = append(candidates, ranker.Candidate{Tag: tag})
			}
		}
	}

	scored := r.Rank(intent, currentFiles, candidates)
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// Impact implements §6's impact(changed_files, depth) over C4.
func (e *Engine) Impact(changed []string, depth int) types.ImpactResult {
	return e.current().g.Impact(changed, depth)
}

// Centrality implements §6's centrality() over C4.
func (e *Engine) Centrality() map[string]float64 {
	return e.current().centrality
}

// FindCycles implements §6's find_cycles() over C4.
func (e *Engine) FindCycles() [][]string {
	return e.current().g.Cycles()
}

// Render implements C13's render(tree, budget, include_code).
func (e *Engine) Render(tree *types.ExplorationTree, budget int, mode format.Mode, includeCode bool) string {
	return format.Render(tree, e.estimator, format.Options{Budget: budget, Mode: mode, IncludeCode: includeCode})
}

// Explore implements §6's explore(intent, project_root, session_id?): it
// discovers entrypoints (C9), clusters them, builds one ExplorationTree per
// cluster (C10), and persists the result (C11). A blank sessionID derives
// one via DeriveSessionID.
func (e *Engine) Explore(intent, sessionID string, now time.Time) (*types.ExplorationSession, error) {
	if sessionID == "" {
		sessionID = DeriveSessionID(intent, now)
	}
	if !session.ValidID(sessionID) {
		return nil, errlib.InvalidInput("engine.Explore", fmt.Errorf("invalid session id %q", sessionID))
	}

	snap := e.current()
	discCfg := explore.DefaultDiscoveryConfig()
	eps := explore.Discover(intent, snap.idx, snap.semanticM, e.fuzzyStrategies(), discCfg)
	clusters := explore.Cluster(eps, discCfg.MinClusterSize)

	mgr := explore.NewManager(snap.g, snap.idx, snap.centrality, e.cfg.Tree)
	sess := types.NewSession(sessionID, e.cfg.Project.Root, now)

	for i, cl := range clusters {
		if len(cl.Entrypoints) == 0 {
			continue
		}
		treeID := fmt.Sprintf("tree_%d", i)
		tree := mgr.Build(treeID, cl.Entrypoints[0], cl.ContextName, now)
		sess.Trees[treeID] = tree
		if i == 0 {
			sess.CurrentFocus = treeID
		}
	}

	if err := e.sessions.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (e *Engine) loadSession(sessionID string) (*types.ExplorationSession, error) {
	return e.sessions.Load(sessionID)
}

// Focus implements §6's focus(session_id, tree_id).
func (e *Engine) Focus(sessionID, treeID string, now time.Time) error {
	sess, err := e.loadSession(sessionID)
	if err != nil {
		return err
	}
	if err := explore.Focus(sess, treeID, now); err != nil {
		return err
	}
	return e.sessions.Save(sess)
}

// Expand implements §6's expand(session_id, area, tree_id?).
func (e *Engine) Expand(sessionID, area, treeID string, now time.Time) error {
	sess, err := e.loadSession(sessionID)
	if err != nil {
		return err
	}
	snap := e.current()
	mgr := explore.NewManager(snap.g, snap.idx, snap.centrality, e.cfg.Tree)
	if err := mgr.Expand(sess, area, treeID, now); err != nil {
		return err
	}
	return e.sessions.Save(sess)
}

// Prune implements §6's prune(session_id, area, tree_id?).
func (e *Engine) Prune(sessionID, area, treeID string, now time.Time) error {
	sess, err := e.loadSession(sessionID)
	if err != nil {
		return err
	}
	snap := e.current()
	mgr := explore.NewManager(snap.g, snap.idx, snap.centrality, e.cfg.Tree)
	if err := mgr.Prune(sess, area, treeID, now); err != nil {
		return err
	}
	return e.sessions.Save(sess)
}

// Map implements §6's map(session_id, tree_id?).
func (e *Engine) Map(sessionID, treeID string) (*types.ExplorationTree, error) {
	sess, err := e.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	return explore.Map(sess, treeID)
}

// SessionList implements §6's session_list().
func (e *Engine) SessionList() ([]string, error) {
	return e.sessions.List()
}

// SessionDelete implements §6's session_delete(id).
func (e *Engine) SessionDelete(id string) error {
	return e.sessions.Delete(id)
}

var normalizeRe = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSessionID derives the source-convention `MMDD_<normalized_query>`
// id, per spec §4.11's stated human-facing format. Truncated as needed to
// satisfy the store's 64-character id limit; callers may always supply
// their own id instead since the core treats session ids as opaque.
func DeriveSessionID(intent string, now time.Time) string {
	normalized := strings.Trim(normalizeRe.ReplaceAllString(strings.ToLower(intent), "_"), "_")
	prefix := now.Format("0102")
	const maxLen = 64
	budget := maxLen - len(prefix) - 1
	if budget < 0 {
		budget = 0
	}
	if len(normalized) > budget {
		normalized = strings.TrimRight(normalized[:budget], "_")
	}
	if normalized == "" {
		return prefix
	}
	return prefix + "_" + normalized
}
