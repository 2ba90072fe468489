// Package scanner implements spec §4.1's Project Scanner (C1): deterministic,
// ignore-aware file enumeration with parallel stat/read, grounded on the
// teacher's internal/config/gitignore.go glob semantics (ported onto
// github.com/bmatcuk/doublestar/v4) and its errgroup-based worker pool idiom.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/repomap-engine/internal/cache"
	"github.com/standardbeagle/repomap-engine/internal/errlib"
	"github.com/standardbeagle/repomap-engine/internal/logging"
	"github.com/standardbeagle/repomap-engine/internal/types"
)

// Scanner enumerates candidate source files under a project root.
type Scanner struct {
	extensions   map[string]bool
	ignorePatterns []string
	maxFileBytes int64
	workers      int
	log          logging.Logger
}

// Option configures a Scanner at construction.
type Option func(*Scanner)

func WithLogger(l logging.Logger) Option {
	return func(s *Scanner) { s.log = l }
}

// New builds a Scanner. extensions are matched case-insensitively and must
// include the leading dot (".go"); ignorePatterns use gitignore-style
// doublestar glob semantics, matched relative to root.
func New(extensions []string, ignorePatterns []string, maxFileBytes int64, workers int, opts ...Option) *Scanner {
	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[strings.ToLower(e)] = true
	}
	if workers < 1 {
		workers = 1
	}
	s := &Scanner{
		extensions:     extSet,
		ignorePatterns: ignorePatterns,
		maxFileBytes:   maxFileBytes,
		workers:        workers,
		log:            logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks root and returns file paths (repo-relative, sorted) that pass
// the extension and ignore filters. It fails only if root itself cannot be
// read; per-file errors are logged and the file is skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]string, error) {
	if root == "" {
		return nil, errlib.InvalidInput("scanner.Scan", errAlreadyReported("empty root"))
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errlib.FileAccess("scanner.Scan", err).WithContext(root)
	}
	if !info.IsDir() {
		return nil, errlib.FileAccess("scanner.Scan", errAlreadyReported("root is not a directory")).WithContext(root)
	}

	var relPaths []string
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			s.log.Warnf("scan: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel == "." {
			return nil
		}
		slashRel := filepath.ToSlash(rel)

		if d.IsDir() {
			if s.isIgnored(slashRel + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil || !withinRoot(root, target) {
				s.log.Warnf("scan: skipping symlink outside root: %s", path)
				return nil
			}
		}

		if s.isIgnored(slashRel) {
			return nil
		}
		if !s.hasSupportedExtension(slashRel) {
			return nil
		}

		fi, statErr := d.Info()
		if statErr != nil {
			s.log.Warnf("scan: cannot stat %s: %v", path, statErr)
			return nil
		}
		if s.maxFileBytes > 0 && fi.Size() > s.maxFileBytes {
			s.log.Warnf("scan: skipping %s: %d bytes exceeds max_file_bytes", slashRel, fi.Size())
			return nil
		}

		relPaths = append(relPaths, slashRel)
		return nil
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return nil, errlib.Canceled("scanner.Scan", walkErr).WithContext(root)
		}
		return nil, errlib.FileAccess("scanner.Scan", walkErr).WithContext(root)
	}

	sort.Strings(relPaths)
	return relPaths, nil
}

// ScanFiles runs Scan and reads+hashes each surviving file with a bounded
// worker pool, joining results in deterministic path order (§5's ordering
// guarantee: "parallel tag extraction joins into a deterministic order by
// sorting the per-file results by path before concatenation").
func (s *Scanner) ScanFiles(ctx context.Context, root string) ([]types.FileRecord, map[string][]byte, error) {
	relPaths, err := s.Scan(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	records := make([]types.FileRecord, len(relPaths))
	contents := make([][]byte, len(relPaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, rel := range relPaths {
		i, rel := i, rel
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			abs := filepath.Join(root, filepath.FromSlash(rel))
			data, readErr := os.ReadFile(abs)
			if readErr != nil {
				s.log.Warnf("scan: cannot read %s: %v", rel, readErr)
				return nil
			}
			fi, statErr := os.Stat(abs)
			if statErr != nil {
				s.log.Warnf("scan: cannot stat %s: %v", rel, statErr)
				return nil
			}
			records[i] = types.FileRecord{
				Path:        rel,
				Language:    languageOf(rel),
				ModTime:     fi.ModTime(),
				Bytes:       fi.Size(),
				ContentHash: cache.HashBytes(data),
			}
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, nil, errlib.Canceled("scanner.ScanFiles", err).WithContext(root)
		}
		return nil, nil, errlib.Internal("scanner.ScanFiles", err).WithContext(root)
	}

	byPath := make(map[string][]byte, len(relPaths))
	out := make([]types.FileRecord, 0, len(relPaths))
	for i, rel := range relPaths {
		if contents[i] == nil {
			continue // read failed, already logged
		}
		out = append(out, records[i])
		byPath[rel] = contents[i]
	}
	return out, byPath, nil
}

func (s *Scanner) hasSupportedExtension(relPath string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(relPath))
	return s.extensions[ext]
}

func (s *Scanner) isIgnored(relPath string) bool {
	for _, pattern := range s.ignorePatterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		// also match the pattern against the path with trailing slash
		// stripped, so "dist/**" matches the "dist/" directory entry itself.
		if strings.HasSuffix(relPath, "/") {
			if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/**")+"/**", relPath); ok {
				return true
			}
		}
	}
	return false
}

func withinRoot(root, target string) bool {
	root = filepath.Clean(root)
	target = filepath.Clean(target)
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func languageOf(relPath string) string {
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".go":
		return "go"
	case ".js", ".jsx":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".py":
		return "python"
	case ".rs":
		return "rust"
	case ".java":
		return "java"
	case ".php", ".phtml":
		return "php"
	case ".cs":
		return "csharp"
	case ".cpp", ".cc", ".cxx", ".c", ".h", ".hpp":
		return "cpp"
	case ".zig":
		return "zig"
	default:
		return ""
	}
}

type scanError string

func (e scanError) Error() string { return string(e) }

func errAlreadyReported(msg string) error { return scanError(msg) }
