package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/service/updater"
)

// DefaultManifestFilename is written next to the binary when no output is given.
const DefaultManifestFilename = "card-gate.yaml"

// manifestFileMode is applied to the written manifest.
const manifestFileMode os.FileMode = 0o644

var (
	errNoBinary  = errors.New("binary path is empty")
	errNoVersion = errors.New("release version is empty")
)

// Options contains inputs for the packager entry point.
type Options struct {
	// Binary is the path of the release binary.
	Binary string
	// Version is the release version recorded in the manifest.
	Version string
	// URL locates the binary for updaters; defaults to the binary's file name,
	// which resolves relative to the manifest URL.
	URL string
	// Output is the manifest path; defaults to DefaultManifestFilename in the
	// binary's directory.
	Output string
}

// Run builds the manifest and writes it to disk. It returns the manifest path.
func Run(ctx context.Context, opts *Options) (string, error) {
	ctx = logger.WithName(ctx, "packager")

	manifest, err := Build(*opts)
	if err != nil {
		return "", err
	}

	output := opts.Output
	if output == "" {
		output = filepath.Join(filepath.Dir(opts.Binary), DefaultManifestFilename)
	}

	logger.InfoKV(ctx, "Saving release manifest", "path", output, "version", manifest.Version)

	if err = Save(output, manifest); err != nil {
		return "", err
	}

	printNextSteps(ctx, opts.Binary, output)

	return output, nil
}

// Build checksums the binary and returns its manifest.
func Build(opts Options) (*updater.Manifest, error) {
	switch {
	case opts.Binary == "":
		return nil, errNoBinary
	case opts.Version == "":
		return nil, errNoVersion
	}

	info, err := os.Stat(opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", opts.Binary, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", opts.Binary, os.ErrInvalid)
	}

	checksum, err := updater.FileChecksum(opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", opts.Binary, err)
	}

	url := opts.URL
	if url == "" {
		url = filepath.Base(opts.Binary)
	}

	manifest := &updater.Manifest{
		Version:  strings.TrimPrefix(opts.Version, "v"),
		URL:      url,
		Checksum: checksum,
	}

	contents, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, err
	}

	// Reject what the updater would refuse to read.
	if _, err = updater.ParseManifest(contents); err != nil {
		return nil, err
	}

	return manifest, nil
}

// Save writes the manifest as YAML.
func Save(path string, manifest *updater.Manifest) error {
	contents, err := yaml.Marshal(manifest)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Clean(path), contents, manifestFileMode)
}

func printNextSteps(ctx context.Context, binary, manifest string) {
	var builder strings.Builder

	builder.WriteString("Upload the following files to the update location:\n")
	builder.WriteString(binary)
	builder.WriteString(",\n")
	builder.WriteString(manifest)
	builder.WriteString("\nThen point update.manifest_url at the uploaded ")
	builder.WriteString(filepath.Base(manifest))

	logger.Info(ctx, builder.String())
}
