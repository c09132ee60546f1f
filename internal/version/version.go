// Package version exposes the build identity stamped into the amora binary
// via -ldflags "-X" at release time.
package version

var (
	// Version is the release tag, or "dev" for unstamped local builds.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
