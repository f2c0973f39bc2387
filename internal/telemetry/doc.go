// Package telemetry configures OpenTelemetry tracing for authority requests.
package telemetry
