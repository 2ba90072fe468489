// Package version holds build-time version metadata for the engine.
package version

const (
	// Version is the current semantic version of the engine.
	Version = "0.1.0"

	// BuildDate is set during build time (use -ldflags).
	BuildDate = "development"

	// GitCommit is set during build time (use -ldflags).
	GitCommit = "unknown"
)

// Info returns the short version string.
func Info() string { return Version }

// FullInfo returns a detailed version string.
func FullInfo() string {
	return "repomap-engine " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
