package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			absPath:  "/home/user/project/src/main.go",
			rootDir:  "/home/user/project",
			expected: "src/main.go",
		},
		{
			name:     "nested relative path",
			absPath:  "/home/user/project/internal/core/search.go",
			rootDir:  "/home/user/project",
			expected: "internal/core/search.go",
		},
		{
			name:     "root level file",
			absPath:  "/home/user/project/README.md",
			rootDir:  "/home/user/project",
			expected: "README.md",
		},
		{
			name:     "already relative path",
			absPath:  "src/main.go",
			rootDir:  "/home/user/project",
			expected: "src/main.go",
		},
		{
			name:     "path outside root falls back to absolute",
			absPath:  "/other/location/file.go",
			rootDir:  "/home/user/project",
			expected: "/other/location/file.go",
		},
		{
			name:     "empty root directory",
			absPath:  "/home/user/project/file.go",
			rootDir:  "",
			expected: "/home/user/project/file.go",
		},
		{
			name:     "empty absolute path",
			absPath:  "",
			rootDir:  "/home/user/project",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToRelative(tt.absPath, tt.rootDir)
			want := tt.expected
			if runtime.GOOS == "windows" {
				result = filepath.ToSlash(result)
				want = filepath.ToSlash(want)
			}
			if result != want {
				t.Errorf("ToRelative(%q, %q) = %q, want %q", tt.absPath, tt.rootDir, result, want)
			}
		})
	}
}

func TestToAbsolute(t *testing.T) {
	root := "/home/user/project"

	if got := ToAbsolute("/already/absolute.go", root); got != "/already/absolute.go" {
		t.Errorf("ToAbsolute with absolute input = %q, want unchanged", got)
	}

	want := filepath.Clean(filepath.Join(root, "src/main.go"))
	if got := ToAbsolute("src/main.go", root); got != want {
		t.Errorf("ToAbsolute(%q, %q) = %q, want %q", "src/main.go", root, got, want)
	}
}

func TestToRelativeThenToAbsoluteRoundTrips(t *testing.T) {
	root := "/home/user/project"
	abs := "/home/user/project/internal/core/search.go"

	rel := ToRelative(abs, root)
	if rel != "internal/core/search.go" {
		t.Fatalf("ToRelative = %q", rel)
	}
	if got := ToAbsolute(rel, root); got != abs {
		t.Errorf("round trip: ToAbsolute(%q, %q) = %q, want %q", rel, root, got, abs)
	}
}
