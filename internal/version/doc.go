// Package version exposes build metadata for the card-gate binaries.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
// UserAgent is what the endpoint presents to the remote authority.
package version
