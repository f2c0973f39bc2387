package updater

import (
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goversion "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// DefaultFileMode is applied to the replaced binary.
	DefaultFileMode os.FileMode = 0o755

	// DefaultChecksumFunction is used to calculate release checksums.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512
)

var (
	errHashUnavailable = errors.New("hash function unavailable")
	errManifestVersion = errors.New("manifest has no version")
	errManifestURL     = errors.New("manifest has no url")
	errManifestSum     = errors.New("manifest has no checksum")
)

// Manifest describes one published release.
type Manifest struct {
	// Version is the semantic version of the release.
	Version string `yaml:"version"`
	// URL locates the binary; relative URLs resolve against the manifest URL.
	URL string `yaml:"url"`
	// Checksum is the base64 SHA-512 of the binary.
	Checksum string `yaml:"checksum"`
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	switch {
	case m.Version == "":
		return nil, errManifestVersion
	case m.URL == "":
		return nil, errManifestURL
	case m.Checksum == "":
		return nil, errManifestSum
	}

	if _, err := goversion.NewVersion(m.Version); err != nil {
		return nil, fmt.Errorf("manifest version %q: %w", m.Version, err)
	}

	if _, err := m.Sum(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Sum decodes the checksum.
func (m *Manifest) Sum() ([]byte, error) {
	sum, err := base64.StdEncoding.DecodeString(m.Checksum)
	if err != nil {
		return nil, fmt.Errorf("decode checksum: %w", err)
	}

	return sum, nil
}

// NewerThan reports whether the manifest version is greater than current.
// An unparsable current version always needs an update.
func (m *Manifest) NewerThan(current string) bool {
	remote, err := goversion.NewVersion(m.Version)
	if err != nil {
		return false
	}

	local, err := goversion.NewVersion(current)
	if err != nil {
		return true
	}

	return remote.GreaterThan(local)
}

// Checksum returns the release checksum of data, base64 encoded.
func Checksum(data []byte) (string, error) {
	if !DefaultChecksumFunction.Available() {
		return "", fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	_, _ = hasher.Write(data)

	return base64.StdEncoding.EncodeToString(hasher.Sum(nil)), nil
}

// FileChecksum returns the release checksum of the file at path.
func FileChecksum(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	return Checksum(contents)
}
