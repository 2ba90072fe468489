package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// DetectBuildArtifactIgnores scans projectRoot for language build manifests
// and returns extra glob patterns C1 should ignore (build output
// directories), mirroring the teacher's BuildArtifactDetector. Only Cargo.toml
// is parsed structurally (via go-toml); other languages use well-known
// conventional output directories since their manifests (package.json,
// pyproject.toml) don't reliably name an output directory.
func DetectBuildArtifactIgnores(projectRoot string) []string {
	var patterns []string

	if data, err := os.ReadFile(filepath.Join(projectRoot, "Cargo.toml")); err == nil {
		var manifest struct {
			Package struct {
				Name string `toml:"name"`
			} `toml:"package"`
			Build struct {
				TargetDir string `toml:"target-dir"`
			} `toml:"build"`
		}
		if toml.Unmarshal(data, &manifest) == nil {
			targetDir := manifest.Build.TargetDir
			if targetDir == "" {
				targetDir = "target"
			}
			patterns = append(patterns, targetDir+"/**")
		}
	}

	if _, err := os.Stat(filepath.Join(projectRoot, "package.json")); err == nil {
		patterns = append(patterns, "dist/**", "build/**", ".next/**", "coverage/**")
	}
	if _, err := os.Stat(filepath.Join(projectRoot, "pyproject.toml")); err == nil {
		patterns = append(patterns, "*.egg-info/**", ".venv/**", "dist/**")
	}
	if _, err := os.Stat(filepath.Join(projectRoot, "pom.xml")); err == nil {
		patterns = append(patterns, "target/**")
	}

	return patterns
}
