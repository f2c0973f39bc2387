package updater

import (
	"context"
	"fmt"
	"os"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/version"
)

// Options contains inputs for the updater entry point.
type Options struct {
	// ConfigPath specifies the settings file holding update.manifest_url.
	ConfigPath string
	// ManifestURL overrides the configured manifest URL.
	ManifestURL string
	// Target is the binary to replace; defaults to the running executable.
	Target string
}

// Execute loads settings and updates the target binary when a newer release
// is published.
func Execute(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "card-gate-updater")

	manifestURL := opts.ManifestURL
	if manifestURL == "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		manifestURL = cfg.Update.ManifestURL
	}

	target := opts.Target
	if target == "" {
		executable, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}

		target = executable
	}

	u, err := New(manifestURL, target, version.Short())
	if err != nil {
		return err
	}

	updated, err := u.Run(ctx)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if updated {
		logger.Info(ctx, "Restart card-gate to run the new release")
	}

	return nil
}
