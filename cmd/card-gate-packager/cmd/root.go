package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/card-gate/internal/service/packager"
	"github.com/oshokin/card-gate/internal/version"
)

var (
	// releaseVersion is recorded in the manifest.
	releaseVersion string
	// releaseURL locates the binary for updaters.
	releaseURL string
	// output is the manifest path.
	output string

	// rootCmd represents the base command for preparing release metadata.
	rootCmd = &cobra.Command{
		Use:   "card-gate-packager [binary]",
		Short: "Prepare the release manifest for distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &packager.Options{
				Binary:  args[0],
				Version: releaseVersion,
				URL:     releaseURL,
				Output:  output,
			}

			_, err := packager.Run(ctx, options)

			return err
		},
	}
)

// Execute runs the card-gate-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVar(&releaseVersion, "release", version.Short(), "release version")
	rootCmd.Flags().StringVar(&releaseURL, "url", "", "binary download URL (default: file name next to the manifest)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "manifest path (default: "+
		packager.DefaultManifestFilename+" next to the binary)")
}
