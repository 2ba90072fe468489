//go:build leaktests
// +build leaktests

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"
)

// TestScanFilesNoGoroutineLeak guards the errgroup-based worker pool: every
// worker goroutine must exit once Scan returns, success or error.
func TestScanFilesNoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pkg"), 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		name := filepath.Join(root, "pkg", "file"+string(rune('a'+i))+".go")
		if err := os.WriteFile(name, []byte("package pkg\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s := New([]string{".go"}, nil, 0, 4)
	if _, _, err := s.ScanFiles(context.Background(), root); err != nil {
		t.Fatalf("ScanFiles: %v", err)
	}
}

// TestScanFilesNoGoroutineLeakOnCancel exercises the worker pool's
// cancellation path, the likelier source of a leaked goroutine.
func TestScanFilesNoGoroutineLeakOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New([]string{".go"}, nil, 0, 2)
	_, _, _ = s.ScanFiles(ctx, root)
}
