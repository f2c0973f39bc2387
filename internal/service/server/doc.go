// Package server runs the local gRPC health endpoint next to the control loop.
package server
