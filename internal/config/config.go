// Package config holds the engine's configuration, covering every option in
// spec §6's table, plus defaults and validation. The struct-of-structs
// shape and the KDL loading path follow the teacher's internal/config
// package.
package config

import (
	"fmt"
	"runtime"

	"github.com/standardbeagle/repomap-engine/internal/errlib"
)

// Config is the top-level configuration for an engine instance.
type Config struct {
	Version int

	Project ProjectConfig
	Scan    ScanConfig
	Fuzzy   FuzzyConfig
	Semantic SemanticConfig
	HybridAlpha float64
	Ranker   RankerWeights
	Tree     TreeConfig
	Cache    CacheConfig
	Workers  int
	SessionDir string
	MapTokens  int
}

type ProjectConfig struct {
	Root string
	Name string
}

type ScanConfig struct {
	SupportedExtensions []string
	IgnorePatterns      []string
	MaxFileBytes        int64
}

type FuzzyConfig struct {
	Enabled    bool
	Threshold  float64 // 0-100
	Strategies []string
}

type SemanticConfig struct {
	Enabled   bool
	Threshold float64 // 0-1
}

// RankerWeights overrides spec §4.8's composite-score weights.
type RankerWeights struct {
	Relevance       float64
	Centrality      float64
	ContextAffinity float64
	KindPrior       float64
	ContextRadius   int // D in spec §4.8
}

type TreeConfig struct {
	MaxDepth int
	MaxNodes int
	Fanout   int
}

type CacheConfig struct {
	MaxEntries int
	TTLSeconds int
}

// DefaultExtensions is the set of extensions C1 considers by default,
// matching the languages internal/astparse has grammars for.
func DefaultExtensions() []string {
	return []string{
		".go", ".js", ".jsx", ".ts", ".tsx", ".py", ".rs", ".java",
		".php", ".cs", ".c", ".h", ".cpp", ".hpp", ".cc", ".zig",
	}
}

// DefaultIgnorePatterns mirrors the teacher's baseline exclusion set.
func DefaultIgnorePatterns() []string {
	return []string{
		".git/**", "node_modules/**", "vendor/**", "dist/**", "build/**",
		"target/**", "*.min.js", "*.lock", "__pycache__/**",
	}
}

// Default returns a Config with every spec §6 option set to a sane default.
func Default(projectRoot string) *Config {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return &Config{
		Version: 1,
		Project: ProjectConfig{Root: projectRoot},
		Scan: ScanConfig{
			SupportedExtensions: DefaultExtensions(),
			IgnorePatterns:      DefaultIgnorePatterns(),
			MaxFileBytes:        2 * 1024 * 1024,
		},
		Fuzzy: FuzzyConfig{
			Enabled:    true,
			Threshold:  50,
			Strategies: []string{"prefix", "substring", "levenshtein", "word"},
		},
		Semantic:    SemanticConfig{Enabled: true, Threshold: 0.15},
		HybridAlpha: 0.5,
		Ranker: RankerWeights{
			Relevance:       0.40,
			Centrality:      0.30,
			ContextAffinity: 0.20,
			KindPrior:       0.10,
			ContextRadius:   4,
		},
		Tree:       TreeConfig{MaxDepth: 4, MaxNodes: 500, Fanout: 10},
		Cache:      CacheConfig{MaxEntries: 10000, TTLSeconds: 600},
		Workers:    workers,
		SessionDir: ".repomap/sessions",
		MapTokens:  4096,
	}
}

// Validate enforces the invariants spec §7's InvalidInput kind covers.
func (c *Config) Validate() error {
	if c.Project.Root == "" {
		return errlib.InvalidInput("config.Validate", fmt.Errorf("project root is empty"))
	}
	if c.Workers < 1 {
		return errlib.InvalidInput("config.Validate", fmt.Errorf("workers must be >= 1"))
	}
	if c.Fuzzy.Threshold < 0 || c.Fuzzy.Threshold > 100 {
		return errlib.InvalidInput("config.Validate", fmt.Errorf("fuzzy threshold must be in [0,100]"))
	}
	if c.Semantic.Threshold < 0 || c.Semantic.Threshold > 1 {
		return errlib.InvalidInput("config.Validate", fmt.Errorf("semantic threshold must be in [0,1]"))
	}
	if c.HybridAlpha < 0 || c.HybridAlpha > 1 {
		return errlib.InvalidInput("config.Validate", fmt.Errorf("hybrid alpha must be in [0,1]"))
	}
	if c.Tree.MaxDepth < 0 || c.Tree.MaxNodes < 1 || c.Tree.Fanout < 1 {
		return errlib.InvalidInput("config.Validate", fmt.Errorf("tree config must have positive bounds"))
	}
	if c.Cache.MaxEntries < 1 {
		return errlib.InvalidInput("config.Validate", fmt.Errorf("cache max_entries must be >= 1"))
	}
	return nil
}
