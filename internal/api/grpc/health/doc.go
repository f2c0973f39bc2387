// Package health exposes the endpoint's liveness over the standard
// grpc.health.v1 service.
//
// The control loop pushes link and reader state into a Status; the gRPC
// server goroutine only reads it through the thread-safe health server.
package health
