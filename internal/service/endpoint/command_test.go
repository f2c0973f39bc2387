package endpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/card-gate/internal/api/grpc/health"
	"github.com/oshokin/card-gate/internal/clock"
	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/service/feedback"
	"github.com/oshokin/card-gate/internal/service/link"
	"github.com/oshokin/card-gate/internal/service/peer"
	"github.com/oshokin/card-gate/internal/service/reader"
)

type faultRecorder struct{ raised []string }

func (f *faultRecorder) RaiseFault(_ context.Context, reason string) { f.raised = append(f.raised, reason) }
func (f *faultRecorder) ClearFault(context.Context, string)          {}

func readerStatus(t *testing.T, status *health.Status) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := status.Check(context.Background(), health.ServiceReader)
	require.NoError(t, err)

	return resp.GetStatus()
}

// TestOpenReader_FallsBackWithFault keeps running without a reader.
func TestOpenReader_FallsBackWithFault(t *testing.T) {
	t.Parallel()

	faults := &faultRecorder{}
	status := health.NewStatus()

	r := OpenReader(context.Background(), config.Reader{
		Type:   config.ReaderLines,
		Device: filepath.Join(t.TempDir(), "missing"),
	}, faults, status)

	require.IsType(t, reader.None{}, r)
	require.Equal(t, []string{ReaderFaultReason}, faults.raised)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, readerStatus(t, status))

	r = OpenReader(context.Background(), config.Reader{Type: config.ReaderNone}, faults, status)
	require.IsType(t, reader.None{}, r)
	require.Len(t, faults.raised, 2)
}

// TestOpenReader_Lines opens a line reader and reports it healthy.
func TestOpenReader_Lines(t *testing.T) {
	t.Parallel()

	device := filepath.Join(t.TempDir(), "cards")
	require.NoError(t, os.WriteFile(device, []byte("DEADBEEF\n"), 0o600))

	faults := &faultRecorder{}
	status := health.NewStatus()

	r := OpenReader(context.Background(), config.Reader{Type: config.ReaderLines, Device: device}, faults, status)
	t.Cleanup(func() { _ = r.Close() })

	require.IsType(t, &reader.Lines{}, r)
	require.Empty(t, faults.raised)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, readerStatus(t, status))

	require.Eventually(t, func() bool { return r.CardPresent(context.Background()) }, time.Second, 10*time.Millisecond)
}

// TestOpenPeer_FallsBackToLog survives a missing serial device.
func TestOpenPeer_FallsBackToLog(t *testing.T) {
	t.Parallel()

	notifier := OpenPeer(context.Background(), config.Peer{
		Type:   config.PeerSerial,
		Device: filepath.Join(t.TempDir(), "ttyNothing"),
	})
	require.IsType(t, peer.Log{}, notifier)
}

// TestOpenPanelAndNetwork picks the non-hardware backends.
func TestOpenPanelAndNetwork(t *testing.T) {
	t.Parallel()

	panel, err := OpenPanel(context.Background(), config.Indicators{Type: config.IndicatorsLog})
	require.NoError(t, err)
	require.NoError(t, feedback.NewSignaler(panel, clock.NewFake(time.Unix(0, 0))).ReadAck(context.Background()))

	require.IsType(t, &link.Interface{}, OpenNetwork(config.WiFi{Backend: config.LinkInterface}))
	require.IsType(t, &link.NMCLI{}, OpenNetwork(config.WiFi{Backend: config.LinkNMCLI, SSID: "door"}))
}
