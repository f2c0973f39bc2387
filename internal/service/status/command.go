package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/card-gate/internal/api/grpc/health"
	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/service/common"
)

// DefaultAddress is dialed when neither a flag nor the config names one.
const DefaultAddress = "127.0.0.1:7070"

// ErrNotServing is returned when any queried service is not serving.
var ErrNotServing = errors.New("endpoint is not fully serving")

// Options controls the status query.
type Options struct {
	// ConfigPath is read for health_addr when Address is empty.
	ConfigPath string
	// Address overrides the endpoint address.
	Address string
	// Services to query; empty means all.
	Services []string
	// JSON prints one protojson object per service.
	JSON bool
	// Timeout bounds each call.
	Timeout time.Duration
	// Out receives the report.
	Out io.Writer
}

// Run queries the endpoint and writes a report.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "card-gate-status")

	address := resolveAddress(ctx, opts)

	client, err := common.Dial(ctx, address, common.WithCallTimeout(opts.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	services := opts.Services
	if len(services) == 0 {
		services = health.Services()
	}

	allServing := true

	for _, service := range services {
		resp, checkErr := client.Check(ctx, service)
		if checkErr != nil {
			return checkErr
		}

		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			allServing = false
		}

		if err = report(opts.Out, service, resp, opts.JSON); err != nil {
			return err
		}
	}

	if !allServing {
		return ErrNotServing
	}

	return nil
}

func resolveAddress(ctx context.Context, opts *Options) string {
	if opts.Address != "" {
		return opts.Address
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		logger.DebugKV(ctx, "No usable settings, using the default address", "error", err)

		return DefaultAddress
	}

	if cfg.HealthAddress == "" {
		return DefaultAddress
	}

	return cfg.HealthAddress
}

func report(out io.Writer, service string, resp *healthpb.HealthCheckResponse, asJSON bool) error {
	name := service
	if name == health.ServiceProcess {
		name = "process"
	}

	if !asJSON {
		_, err := fmt.Fprintf(out, "%-18s %s\n", name, resp.GetStatus())

		return err
	}

	entry, err := structpb.NewStruct(map[string]any{
		"service": name,
		"status":  resp.GetStatus().String(),
	})
	if err != nil {
		return err
	}

	data, err := protojson.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	_, err = fmt.Fprintln(out, string(data))

	return err
}
