package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/oshokin/card-gate/internal/api/grpc/health"
	"github.com/oshokin/card-gate/internal/logger"
)

// ErrNoListenAddress indicates the endpoint is disabled or misconfigured.
var ErrNoListenAddress = errors.New("no health listen address configured")

// ListenAndServe listens on address and serves until ctx is canceled.
func ListenAndServe(ctx context.Context, address string, status *health.Status) error {
	listenAddress, err := resolveListenAddress(address)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	return Serve(ctx, lis, status)
}

// Serve serves the health service on lis until ctx is canceled.
func Serve(ctx context.Context, lis net.Listener, status *health.Status) error {
	ctx = logger.WithName(ctx, "health-server")

	grpcServer := grpc.NewServer()
	status.Register(grpcServer)

	logger.InfoKV(ctx, "Health endpoint listening", "listen_address", lis.Addr().String())

	// stop ends the watcher when Serve fails on its own; done is closed once
	// the server is down so Serve never returns before it.
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		select {
		case <-ctx.Done():
			status.Shutdown()
			grpcServer.GracefulStop()
		case <-stop:
			status.Shutdown()
			grpcServer.Stop()
		}
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		close(stop)
		<-done

		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Health endpoint stopped")

	return nil
}

// resolveListenAddress accepts "host:port" or a bare ":port".
func resolveListenAddress(address string) (string, error) {
	if address == "" {
		return "", ErrNoListenAddress
	}

	if _, _, err := net.SplitHostPort(address); err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", address, err)
	}

	return address, nil
}
