package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/service/common"
	"github.com/oshokin/card-gate/internal/service/status"
	"github.com/oshokin/card-gate/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// address overrides health_addr from the configuration.
	address string
	// asJSON switches the report to protojson.
	asJSON bool
	// timeout bounds each health call.
	timeout time.Duration

	// rootCmd represents the base command for querying endpoint health.
	rootCmd = &cobra.Command{
		Use:   "card-gate-status [service...]",
		Short: "Query the health of a running card-gate.",
		Long: `Asks a running endpoint for the serving status of the process, the network
link and the card reader.

The address is taken from --address, then from health_addr in the
configuration file. Exits with non-zero status when any queried service is
not serving.`,
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &status.Options{
				ConfigPath: configPath,
				Address:    address,
				Services:   args,
				JSON:       asJSON,
				Timeout:    timeout,
				Out:        os.Stdout,
			}

			return status.Run(ctx, options)
		},
		SilenceUsage: true,
	}
)

// Execute runs the card-gate-status CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&address, "address", "a", "", "health endpoint address (default from config, then "+
		status.DefaultAddress+")")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per service")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", common.DefaultCallTimeout, "timeout for each call")
}
