package health

import (
	"context"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/card-gate/internal/service/link"
)

// Service names reported by the health endpoint.
const (
	// ServiceProcess is the overall process status.
	ServiceProcess = ""
	// ServiceLink is SERVING while the network link is connected.
	ServiceLink = "card-gate.link"
	// ServiceReader is SERVING while the card reader is usable.
	ServiceReader = "card-gate.reader"
)

// Services lists every reported service name.
func Services() []string {
	return []string{ServiceProcess, ServiceLink, ServiceReader}
}

// Status translates endpoint state into health statuses.
type Status struct {
	server *grpchealth.Server
}

// NewStatus creates a Status with every service NOT_SERVING except the process.
func NewStatus() *Status {
	server := grpchealth.NewServer()
	server.SetServingStatus(ServiceProcess, healthpb.HealthCheckResponse_SERVING)
	server.SetServingStatus(ServiceLink, healthpb.HealthCheckResponse_NOT_SERVING)
	server.SetServingStatus(ServiceReader, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Status{server: server}
}

// Register adds the health service to registrar.
func (s *Status) Register(registrar grpc.ServiceRegistrar) {
	healthpb.RegisterHealthServer(registrar, s.server)
}

// SetLink records the link state. Its signature matches link.WithObserver.
func (s *Status) SetLink(state link.State) {
	s.server.SetServingStatus(ServiceLink, servingIf(state == link.Connected))
}

// SetReader records whether the reader opened.
func (s *Status) SetReader(ok bool) {
	s.server.SetServingStatus(ServiceReader, servingIf(ok))
}

// Shutdown reports NOT_SERVING for everything and ignores later updates.
func (s *Status) Shutdown() {
	s.server.Shutdown()
}

// Check answers a health check in-process.
func (s *Status) Check(ctx context.Context, service string) (*healthpb.HealthCheckResponse, error) {
	return s.server.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
}

func servingIf(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}

	return healthpb.HealthCheckResponse_NOT_SERVING
}
