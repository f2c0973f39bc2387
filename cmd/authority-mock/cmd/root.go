package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/mockauthority"
	"github.com/oshokin/card-gate/internal/telemetry"
	"github.com/oshokin/card-gate/internal/version"
)

var (
	// listenAddress for the HTTP server.
	listenAddress string
	// token accepted by the mock.
	token string
	// allowed cards; empty accepts every card.
	allowed []string
	// otlpEndpoint receives spans when set.
	otlpEndpoint string

	// rootCmd represents the base command for the mock authority.
	rootCmd = &cobra.Command{
		Use:   "authority-mock",
		Short: "Serve a local stand-in for the remote access authority.",
		Long: `Implements the check_and_toggle contract: each accepted card flips between
"session_started" and "session_ended". Unknown cards and wrong tokens are
denied with HTTP 200. /legacy/access answers with a redirect to /api/access.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			ctx = logger.WithName(ctx, "authority-mock")

			shutdown := telemetry.Init(ctx, config.Telemetry{
				Endpoint:    otlpEndpoint,
				Insecure:    true,
				SampleRatio: 1,
			})

			defer func() {
				_ = shutdown(context.Background())
			}()

			return mockauthority.Serve(ctx, listenAddress, mockauthority.New(token, allowed...))
		},
	}
)

// Execute runs the authority-mock CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&listenAddress, "addr", "a", "127.0.0.1:8080", "listen address")
	rootCmd.Flags().StringVarP(&token, "token", "t", mockauthority.DefaultToken, "accepted shared secret")
	rootCmd.Flags().StringSliceVar(&allowed, "allow", nil, "accepted card UIDs (default: all)")
	rootCmd.Flags().StringVar(&otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP collector host:port")
}
