// Package common holds helpers shared by several binaries.
//
// It provides a lightweight gRPC health client with call timeouts, a guard
// against running two endpoints on the same hardware, and host/user
// detection for the startup banner.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
