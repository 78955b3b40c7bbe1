// Package version holds build metadata for the claimsleuth binary,
// stamped through -ldflags at release time.
package version

var (
	// Version is the claimsleuth release tag.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "unknown"
	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)
