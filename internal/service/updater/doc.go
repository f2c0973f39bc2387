// Package updater replaces the card-gate binary with a newer release.
//
// A release is described by a small YAML manifest: version, download URL and
// the base64 SHA-512 checksum of the binary. The update is applied in place
// with go-update, which verifies the checksum before swapping files.
package updater
