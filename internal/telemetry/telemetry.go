package telemetry

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/version"
)

const (
	serviceName     = "card-gate"
	exporterTimeout = 5 * time.Second
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Init installs a global tracer provider. Without an endpoint spans are
// sampled but never exported. An exporter that fails to start is logged and
// skipped; tracing never prevents the endpoint from running.
func Init(ctx context.Context, cfg config.Telemetry) ShutdownFunc {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version.Short()),
	))
	if err != nil {
		res = resource.Default()
	}

	opts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(Sampler(cfg.SampleRatio)),
	}

	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		exporterOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithTimeout(exporterTimeout),
		}

		if cfg.Insecure {
			exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
		}

		exporter, expErr := otlptracehttp.New(ctx, exporterOpts...)
		if expErr != nil {
			logger.WarnKV(ctx, "Trace exporter disabled", "endpoint", endpoint, "error", expErr)
		} else {
			opts = append(opts, trace.WithBatcher(exporter))
		}
	}

	tp := trace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown
}

// Sampler returns a parent-based ratio sampler; the ratio is clamped to [0, 1].
func Sampler(ratio float64) trace.Sampler {
	ratio = min(max(ratio, 0), 1)

	return trace.ParentBased(trace.TraceIDRatioBased(ratio))
}

// Transport wraps base, or the default transport, with client spans.
func Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return otelhttp.NewTransport(base)
}

// Middleware instruments inbound HTTP handlers.
func Middleware(operation string) func(http.Handler) http.Handler {
	return otelhttp.NewMiddleware(operation)
}
