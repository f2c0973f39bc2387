package version

import "fmt"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// productName prefixes the User-Agent header.
const productName = "card-gate"

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the version with commit and build time.
func Full() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", productName, Version, Commit, BuildTime)
}

// UserAgent returns the User-Agent value sent with authority requests.
func UserAgent() string {
	return productName + "/" + Version
}
