package updater

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/card-gate/internal/logger"
)

const (
	// DefaultTimeout bounds each download.
	DefaultTimeout = 2 * time.Minute

	maxManifestSize = 64 << 10
	maxBinarySize   = 256 << 20
)

var (
	errBadHTTPStatus    = errors.New("unexpected http status")
	errNoManifestURL    = errors.New("update manifest url is not configured")
	errTooLarge         = errors.New("download exceeds size limit")
	errNoTargetBinary   = errors.New("target binary path is empty")
	errNoCurrentVersion = errors.New("current version is empty")
)

// Updater checks for and applies releases.
type Updater struct {
	client      *http.Client
	manifestURL string
	targetPath  string
	current     string
}

// New creates an Updater that replaces targetPath, currently at version current.
func New(manifestURL, targetPath, current string) (*Updater, error) {
	switch {
	case manifestURL == "":
		return nil, errNoManifestURL
	case targetPath == "":
		return nil, errNoTargetBinary
	case current == "":
		return nil, errNoCurrentVersion
	}

	return &Updater{
		client:      &http.Client{Timeout: DefaultTimeout},
		manifestURL: manifestURL,
		targetPath:  targetPath,
		current:     current,
	}, nil
}

// Check downloads the manifest and reports whether it is newer.
func (u *Updater) Check(ctx context.Context) (*Manifest, bool, error) {
	data, err := u.download(ctx, u.manifestURL, maxManifestSize)
	if err != nil {
		return nil, false, fmt.Errorf("download manifest: %w", err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, false, err
	}

	return manifest, manifest.NewerThan(u.current), nil
}

// Apply downloads the release binary and swaps it in after checksum verification.
func (u *Updater) Apply(ctx context.Context, manifest *Manifest) error {
	binaryURL, err := u.resolve(manifest.URL)
	if err != nil {
		return err
	}

	sum, err := manifest.Sum()
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Downloading release", "version", manifest.Version, "url", binaryURL)

	data, err := u.download(ctx, binaryURL, maxBinarySize)
	if err != nil {
		return fmt.Errorf("download release: %w", err)
	}

	if _, err = os.Stat(u.targetPath); errors.Is(err, os.ErrNotExist) {
		if err = os.WriteFile(u.targetPath, nil, DefaultFileMode); err != nil {
			return fmt.Errorf("create target: %w", err)
		}
	}

	logger.Debug(ctx, "Applying update")

	err = goupdate.Apply(bytes.NewReader(data), goupdate.Options{
		TargetPath: u.targetPath,
		TargetMode: DefaultFileMode,
		Checksum:   sum,
		Hash:       DefaultChecksumFunction,
	})
	if err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	oldFile := u.targetPath + ".old"
	if _, statErr := os.Stat(oldFile); statErr == nil {
		_ = os.Remove(oldFile)
	}

	logger.InfoKV(ctx, "Update applied", "version", manifest.Version, "path", u.targetPath)

	return nil
}

// Run checks for a release and applies it when newer. It reports whether an
// update was applied.
func (u *Updater) Run(ctx context.Context) (bool, error) {
	ctx = logger.WithName(ctx, "updater")

	manifest, newer, err := u.Check(ctx)
	if err != nil {
		return false, err
	}

	if !newer {
		logger.InfoKV(ctx, "Already up to date", "current", u.current, "published", manifest.Version)

		return false, nil
	}

	logger.InfoKV(ctx, "Update available", "current", u.current, "published", manifest.Version)

	if err = u.Apply(ctx, manifest); err != nil {
		return false, err
	}

	return true, nil
}

func (u *Updater) resolve(ref string) (string, error) {
	base, err := url.Parse(u.manifestURL)
	if err != nil {
		return "", fmt.Errorf("parse manifest url: %w", err)
	}

	target, err := base.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse release url: %w", err)
	}

	return target.String(), nil
}

func (u *Updater) download(ctx context.Context, target string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", target, response.Status, errBadHTTPStatus)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, limit+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w", target, errTooLarge)
	}

	return data, nil
}
