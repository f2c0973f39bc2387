// Package packager prepares the release manifest consumed by the updater.
//
// It checksums a built card-gate binary, records the release version and
// download URL, and writes the YAML manifest next to it. Both files are then
// uploaded to the location update.manifest_url points at.
package packager
