package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default("/tmp/project")
	require.NoError(t, cfg.Validate())
	require.Equal(t, 1, cfg.Version)
	require.NotEmpty(t, cfg.Scan.SupportedExtensions)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default("/tmp/project")
	cfg.Project.Root = ""
	require.Error(t, cfg.Validate())

	cfg = Default("/tmp/project")
	cfg.Fuzzy.Threshold = 150
	require.Error(t, cfg.Validate())

	cfg = Default("/tmp/project")
	cfg.HybridAlpha = 2
	require.Error(t, cfg.Validate())
}

func TestLoadKDLMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.Equal(t, dir, cfg.Project.Root)
}

func TestLoadKDLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
project {
    name "demo"
}
fuzzy {
    threshold 70
}
semantic {
    enabled #false
}
tree {
    max_depth 6
    max_nodes 250
}
workers 2
map_tokens 8192
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".repomap.kdl"), []byte(content), 0o644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.Equal(t, "demo", cfg.Project.Name)
	require.Equal(t, 70.0, cfg.Fuzzy.Threshold)
	require.False(t, cfg.Semantic.Enabled)
	require.Equal(t, 6, cfg.Tree.MaxDepth)
	require.Equal(t, 250, cfg.Tree.MaxNodes)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, 8192, cfg.MapTokens)
}

func TestDetectBuildArtifactIgnoresReadsCargoTargetDir(t *testing.T) {
	dir := t.TempDir()
	cargo := `
[package]
name = "demo"

[build]
target-dir = "out"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(cargo), 0o644))

	patterns := DetectBuildArtifactIgnores(dir)
	require.Contains(t, patterns, "out/**")
}

func TestDetectBuildArtifactIgnoresFallsBackToConventionalDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{}`), 0o644))

	patterns := DetectBuildArtifactIgnores(dir)
	require.Contains(t, patterns, "dist/**")
	require.Contains(t, patterns, "build/**")
}

func TestDetectBuildArtifactIgnoresEmptyWhenNoManifests(t *testing.T) {
	dir := t.TempDir()
	require.Empty(t, DetectBuildArtifactIgnores(dir))
}
