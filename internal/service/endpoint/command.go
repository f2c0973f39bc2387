package endpoint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/oshokin/card-gate/internal/api/grpc/health"
	"github.com/oshokin/card-gate/internal/clock"
	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/device/rpi"
	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/service/authority"
	"github.com/oshokin/card-gate/internal/service/common"
	"github.com/oshokin/card-gate/internal/service/feedback"
	"github.com/oshokin/card-gate/internal/service/gate"
	"github.com/oshokin/card-gate/internal/service/link"
	"github.com/oshokin/card-gate/internal/service/peer"
	"github.com/oshokin/card-gate/internal/service/reader"
	"github.com/oshokin/card-gate/internal/service/server"
	"github.com/oshokin/card-gate/internal/telemetry"
	"github.com/oshokin/card-gate/internal/version"
)

// ReaderFaultReason lights the fault indicator while no reader is usable.
const ReaderFaultReason = "reader"

// shutdownTimeout bounds flushing traces on exit.
const shutdownTimeout = 5 * time.Second

// Options controls the endpoint process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// AllowMultiple skips the single instance check.
	AllowMultiple bool
}

// Run loads configuration and runs the endpoint until ctx is canceled.
//
//nolint:funlen // Wiring reads best top to bottom.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCloser, err := logger.Configure(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	defer func() {
		_ = logCloser.Close()
	}()

	ctx = logger.WithName(ctx, "card-gate")

	if !opts.AllowMultiple {
		if err = common.EnsureSingleInstance(); err != nil {
			return err
		}
	}

	logBanner(ctx, cfg)

	shutdownTracing := telemetry.Init(ctx, cfg.Telemetry)

	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		_ = shutdownTracing(flushCtx)
	}()

	panel, err := OpenPanel(ctx, cfg.Indicators)
	if err != nil {
		return fmt.Errorf("open indicators: %w", err)
	}

	clk := clock.System{}
	signaler := feedback.NewSignaler(panel, clk)
	status := health.NewStatus()

	defer signaler.Off(ctx)

	supervisor := link.NewSupervisor(OpenNetwork(cfg.WiFi), clk,
		link.WithConnectTimeout(cfg.ConnectTimeout),
		link.WithFaultIndicator(signaler),
		link.WithObserver(status.SetLink),
	)

	cardReader := OpenReader(ctx, cfg.Reader, signaler, status)

	defer func() {
		_ = cardReader.Close()
	}()

	notifier := OpenPeer(ctx, cfg.Peer)

	defer func() {
		_ = notifier.Close()
	}()

	engine := authority.NewEngine(supervisor,
		authority.WithTimeout(cfg.Authority.Timeout),
		authority.WithTransport(telemetry.Transport(nil)),
	)

	controller := gate.NewController(gate.Deps{
		Reader:    cardReader,
		Requester: engine,
		Tokens:    authority.NewTokenSource(cfg.Authority.Token, cfg.Authority.TokenFile),
		BaseURL:   cfg.Authority.BaseURL,
		Signals:   signaler,
		Peer:      notifier,
		Clock:     clk,
	},
		gate.WithCooldown(cfg.Cooldown),
		gate.WithPollInterval(cfg.PollInterval),
		gate.WithHealthInterval(cfg.HealthInterval),
		gate.WithHealthChecker(supervisor),
	)

	serverDone := startHealthServer(ctx, cfg.HealthAddress, status)

	supervisor.EnsureConnected(ctx)

	err = controller.Run(ctx)

	<-serverDone

	return err
}

// OpenPanel returns GPIO indicators or the log panel.
func OpenPanel(ctx context.Context, cfg config.Indicators) (feedback.Panel, error) {
	if cfg.Type == config.IndicatorsLog {
		return feedback.NewLogPanel(ctx), nil
	}

	return rpi.OpenPanel(cfg)
}

// OpenNetwork returns the configured link backend.
func OpenNetwork(cfg config.WiFi) link.Network {
	if cfg.Backend == config.LinkNMCLI {
		return link.NewNMCLI(cfg.SSID, cfg.Password, cfg.Interface)
	}

	return link.NewInterface(cfg.Interface)
}

// OpenReader opens the configured reader. A reader that cannot be opened
// raises the reader fault and is replaced by one that never sees a card.
func OpenReader(
	ctx context.Context,
	cfg config.Reader,
	faults link.FaultIndicator,
	status *health.Status,
) reader.Reader {
	r, err := openReader(ctx, cfg)
	if err != nil {
		logger.ErrorKV(ctx, "Card reader unavailable", "type", cfg.Type, "error", err)
		faults.RaiseFault(ctx, ReaderFaultReason)
		status.SetReader(false)

		return reader.None{}
	}

	status.SetReader(true)

	return r
}

var errReaderDisabled = errors.New("reader disabled by configuration")

func openReader(ctx context.Context, cfg config.Reader) (reader.Reader, error) {
	switch cfg.Type {
	case config.ReaderMFRC522:
		return rpi.OpenMFRC522(cfg)
	case config.ReaderLines:
		return reader.OpenLines(ctx, cfg.Device)
	default:
		return nil, errReaderDisabled
	}
}

// OpenPeer opens the configured peer, falling back to the log.
func OpenPeer(ctx context.Context, cfg config.Peer) peer.Notifier {
	notifier, err := peer.Open(ctx, cfg)
	if err != nil {
		logger.WarnKV(ctx, "Peer unavailable, lines go to the log", "type", cfg.Type, "error", err)

		return peer.Log{}
	}

	return notifier
}

func startHealthServer(ctx context.Context, address string, status *health.Status) <-chan struct{} {
	done := make(chan struct{})

	if address == "" {
		close(done)

		return done
	}

	go func() {
		defer close(done)

		if err := server.ListenAndServe(ctx, address, status); err != nil {
			logger.ErrorKV(ctx, "Health endpoint failed", "error", err)
		}
	}()

	return done
}

func logBanner(ctx context.Context, cfg *config.Config) {
	actor, err := common.DetectActor()
	if err != nil {
		actor = common.Actor{Hostname: "unknown", Username: fmt.Sprint(os.Getuid())}
	}

	logger.InfoKV(ctx, version.Full(),
		"actor", actor.String(),
		"authority", cfg.Authority.BaseURL,
		"wifi", cfg.WiFi.Backend,
		"reader", cfg.Reader.Type,
		"indicators", cfg.Indicators.Type,
		"peer", cfg.Peer.Type,
		"health_addr", cfg.HealthAddress,
		"cooldown", cfg.Cooldown,
	)
}
