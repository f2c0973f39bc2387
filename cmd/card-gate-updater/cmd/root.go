package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/service/updater"
	"github.com/oshokin/card-gate/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// manifestURL overrides update.manifest_url.
	manifestURL string

	// rootCmd represents the base command for self-updating.
	rootCmd = &cobra.Command{
		Use:   "card-gate-updater [target-binary]",
		Short: "Replace card-gate with the latest published release.",
		Long: `Downloads the release manifest from update.manifest_url and, when it
announces a newer version, downloads the binary, verifies its SHA-512
checksum and swaps it in place.

The target binary defaults to this executable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var target string
			if len(args) > 0 {
				target = args[0]
			}

			options := &updater.Options{
				ConfigPath:  configPath,
				ManifestURL: manifestURL,
				Target:      target,
			}

			return updater.Execute(ctx, options)
		},
	}
)

// Execute runs the card-gate-updater CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&manifestURL, "manifest", "m", "", "release manifest URL (default from config)")
}
