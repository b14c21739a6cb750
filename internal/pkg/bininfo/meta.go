// Package bininfo holds build metadata injected with
// -ldflags "-X github.com/lottostats/backend/internal/pkg/bininfo.Version=...".
// Keep the variable names stable.
package bininfo

var (
	// Version is the SemVer of the build, with the git commit appended after
	// a plus sign when available.
	Version = "v0.0.0"

	// BuildTime is an RFC 3339 timestamp.
	BuildTime = "1970-01-01T00:00:00Z"
)
