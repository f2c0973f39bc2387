package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/mockauthority"
	"github.com/oshokin/card-gate/internal/service/console"
	"github.com/oshokin/card-gate/internal/version"
)

var (
	// authorityURL is the authority base URL; empty starts the built-in mock.
	authorityURL string
	// token is the shared secret sent with every request.
	token string
	// cooldown is the debounce window.
	cooldown time.Duration
	// commands run in order instead of an interactive session.
	commands []string

	// rootCmd represents the base command for the simulation shell.
	rootCmd = &cobra.Command{
		Use:   "card-gate-console",
		Short: "Drive the card endpoint from an interactive shell.",
		Long: `Runs the real decision controller against a simulated reader, link,
indicators and peer. Time only moves on "advance", so debounce windows and
feedback patterns can be stepped through by hand.

Without --authority a mock authority is started on a loopback port.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &console.Options{
				AuthorityURL: authorityURL,
				Token:        token,
				Cooldown:     cooldown,
				Commands:     commands,
			}

			return console.Run(ctx, options)
		},
	}
)

// Execute runs the card-gate-console CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVar(&authorityURL, "authority", "", "authority base URL (default: built-in mock)")
	rootCmd.Flags().StringVar(&token, "token", mockauthority.DefaultToken, "shared secret")
	rootCmd.Flags().DurationVar(&cooldown, "cooldown", config.DefaultCooldown, "debounce window")
	rootCmd.Flags().StringArrayVarP(&commands, "exec", "e", nil, "run a command and exit (repeatable)")
}
