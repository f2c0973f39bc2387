package mockauthority

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oshokin/card-gate/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server is a running mock authority.
type Server struct {
	srv  *http.Server
	addr net.Addr
	done chan struct{}
}

// Start listens on address and serves a in the background.
func Start(ctx context.Context, address string, a *Authority) (*Server, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	s := &Server{
		srv: &http.Server{
			Handler:           a.Handler(),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		addr: lis.Addr(),
		done: make(chan struct{}),
	}

	go func() {
		defer close(s.done)

		if serveErr := s.srv.Serve(lis); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Mock authority stopped", "error", serveErr)
		}
	}()

	logger.InfoKV(ctx, "Mock authority listening", "address", s.addr.String())

	return s, nil
}

// URL returns the base URL of route path.
func (s *Server) URL(path string) string {
	return "http://" + s.addr.String() + path
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	<-s.done

	return err
}

// Serve runs a on address until ctx is canceled.
func Serve(ctx context.Context, address string, a *Authority) error {
	s, err := Start(ctx, address, a)
	if err != nil {
		return err
	}

	<-ctx.Done()

	logger.Info(ctx, "Shutting down mock authority")

	return s.Shutdown()
}
