// Package version exposes build information set at link time.
package version

import "runtime"

// These are set via -ldflags at build time.
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)

// GoInfo is the Go toolchain version used for the build.
var GoInfo = runtime.Version()
