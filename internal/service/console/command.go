package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/mockauthority"
)

// Options controls the console.
type Options struct {
	// AuthorityURL is the authority base URL; empty starts the built-in mock.
	AuthorityURL string
	// Token is the shared secret.
	Token string
	// Cooldown is the debounce window.
	Cooldown time.Duration
	// Commands are run in order instead of an interactive session.
	Commands []string
}

var errUsage = errors.New("usage")

// Run starts the shell.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "card-gate-console")

	baseURL := opts.AuthorityURL
	if baseURL == "" {
		mock, err := mockauthority.Start(ctx, "127.0.0.1:0", mockauthority.New(opts.Token))
		if err != nil {
			return err
		}

		defer func() {
			_ = mock.Shutdown()
		}()

		baseURL = mock.URL(mockauthority.PathCheck)
	}

	c := New(ctx, Settings{BaseURL: baseURL, Token: opts.Token, Cooldown: opts.Cooldown})
	shell := NewShell(ctx, c)

	if len(opts.Commands) > 0 {
		for _, line := range opts.Commands {
			if err := shell.Process(strings.Fields(line)...); err != nil {
				return err
			}
		}

		return nil
	}

	go func() {
		<-ctx.Done()
		shell.Close()
	}()

	shell.Printf("authority: %s\n", baseURL)
	shell.Run()

	return nil
}

// NewShell binds the console commands to an ishell shell.
func NewShell(ctx context.Context, c *Console) *ishell.Shell {
	shell := ishell.New()
	shell.SetPrompt("card-gate> ")

	shell.AddCmd(&ishell.Cmd{
		Name: "tap",
		Help: "tap <uid>: present a card",
		Func: func(sc *ishell.Context) {
			if len(sc.Args) != 1 {
				sc.Err(fmt.Errorf("%w: tap <uid>", errUsage))

				return
			}

			events, err := c.Tap(ctx, sc.Args[0])
			if err != nil {
				sc.Err(err)

				return
			}

			for _, e := range events {
				sc.Println(Describe(e))
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "link",
		Help: "link up|down: switch the simulated network",
		Func: func(sc *ishell.Context) {
			if len(sc.Args) != 1 || (sc.Args[0] != "up" && sc.Args[0] != "down") {
				sc.Err(fmt.Errorf("%w: link up|down", errUsage))

				return
			}

			sc.Println("link:", c.SetLink(ctx, sc.Args[0] == "up"))
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "health",
		Help: "run a link health check",
		Func: func(sc *ishell.Context) {
			sc.Println("link:", c.Health(ctx))
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "advance",
		Help: "advance <duration>: move the virtual clock, e.g. advance 2s",
		Func: func(sc *ishell.Context) {
			if len(sc.Args) != 1 {
				sc.Err(fmt.Errorf("%w: advance <duration>", errUsage))

				return
			}

			d, err := time.ParseDuration(sc.Args[0])
			if err != nil {
				sc.Err(err)

				return
			}

			c.Advance(d)
			sc.Println("advanced", d)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "show link, faults and debounce state",
		Func: func(sc *ishell.Context) {
			sc.Println(c.Status())
		},
	})

	return shell
}
