// Package version carries the build metadata stamped into the
// binaries.  The values are injected with ldflags by the build
// numbering script; the defaults identify an unstamped development
// build.
package version

import "fmt"

var (
	// Version is the semantic version string.
	Version = "0.0.0-dev"

	// BuildDate is the stamp date, YYYY-MM-DD.
	BuildDate = "unknown"

	// BuildTime is the stamp time of day, HH:MM:SS.
	BuildTime = "unknown"

	// BuildNumber increments monotonically with each stamped build.
	BuildNumber = "0"
)

// Long returns the full identification line printed by the version
// subcommands.
func Long() string {
	return fmt.Sprintf("%s build %s (%s %s)", Version, BuildNumber, BuildDate, BuildTime)
}
