package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/service/endpoint"
	"github.com/oshokin/card-gate/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// allowMultiple skips the single instance check.
	allowMultiple bool

	// rootCmd represents the base command for running the card endpoint.
	rootCmd = &cobra.Command{
		Use:   "card-gate",
		Short: "Run the access card endpoint.",
		Long: `Reads contactless cards and asks the remote authority whether each card
starts or ends a session.

The endpoint keeps the network link up, suppresses repeated reads of the same
card, drives the status lights and buzzer, and reports every outcome to the
peer device. Health is served over gRPC on health_addr when configured.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &endpoint.Options{
				ConfigPath:    configPath,
				AllowMultiple: allowMultiple,
			}

			return endpoint.Run(ctx, options)
		},
	}
)

// Execute runs the card-gate CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	// Hidden flag for running a second endpoint against simulated hardware.
	rootCmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false, "skip the single instance check")

	err := rootCmd.Flags().MarkHidden("allow-multiple")
	if err != nil {
		panic(err)
	}
}
