// Package build holds build-time information.
package build

// Version is the application version.
// It defaults to "dev" and can be overwritten by linker flags.
var Version = "dev"

// Commit and Date are set by linker flags in release builds.
var (
	Commit = "none"
	Date   = "unknown"
)

// String returns the version line printed by the CLI.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
