// Package version provides version information for the CRML CLI.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// LanguageVersion is the CRML language version this CLI targets.
const LanguageVersion = "1.1"

// BundleVersion is the portfolio bundle format version this CLI emits.
const BundleVersion = "1.0"

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// LanguageVersion is the CRML language version this CLI targets.
	LanguageVersion string `json:"languageVersion"`

	// BundleVersion is the portfolio bundle format version.
	BundleVersion string `json:"bundleVersion"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:         Version,
		GitCommit:       GitCommit,
		BuildDate:       BuildDate,
		GoVersion:       runtime.Version(),
		LanguageVersion: LanguageVersion,
		BundleVersion:   BundleVersion,
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("CRML CLI:\n  Version:  %s\n  Build ID: %s/%s\n\nCRML:\n  Language: %s\n  Bundle:   %s",
		i.Version, i.BuildDate, i.GitCommit, i.LanguageVersion, i.BundleVersion)
}
