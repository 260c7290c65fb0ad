// internal/telemetry/telemetry.go

// Package telemetry installs the process-wide OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"

	"github.com/utakatalp/icehockey-dashboard/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "hockeydash"

// NewTracerProvider builds an SDK tracer provider. With a tracing endpoint
// configured, spans are batched to that OTLP/gRPC collector; extra options
// such as span processors are applied after.
func NewTracerProvider(ctx context.Context, cfg config.ObservabilityConfig, version string, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
	)
	all := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.TracingEndpoint != "" {
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.TracingEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		all = append(all, sdktrace.WithBatcher(exp))
	}
	return sdktrace.NewTracerProvider(append(all, opts...)...), nil
}

// Install sets tp as the global provider. The returned func flushes and
// stops it.
func Install(tp *sdktrace.TracerProvider) func(context.Context) error {
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
