package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestScanFiltersByExtensionAndIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "README.md", "# hello\n")
	writeFile(t, root, "vendor/dep.go", "package dep\n")
	writeFile(t, root, "node_modules/pkg/index.js", "module.exports = {}\n")

	s := New([]string{".go", ".js"}, []string{"vendor/**", "node_modules/**"}, 0, 2)
	paths, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, paths)
}

func TestScanDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.go", "package b\n")
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "c/c.go", "package c\n")

	s := New([]string{".go"}, nil, 0, 4)
	paths, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go", "c/c.go"}, paths)
}

func TestScanSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.go", "package big\n// filler\n")

	s := New([]string{".go"}, nil, 5, 1) // 5 bytes cap, file is bigger
	paths, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestScanFailsOnUnreadableRoot(t *testing.T) {
	s := New([]string{".go"}, nil, 0, 1)
	_, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestScanFilesReturnsContentAndHash(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.go", "package b\n")

	s := New([]string{".go"}, nil, 0, 2)
	records, contents, err := s.ScanFiles(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a.go", records[0].Path)
	assert.Equal(t, "b.go", records[1].Path)
	assert.Equal(t, "go", records[0].Language)
	assert.NotZero(t, records[0].ContentHash)
	assert.Equal(t, []byte("package a\n"), contents["a.go"])
}
