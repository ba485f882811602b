// Package telemetry initializes OpenTelemetry tracing. When no OTLP
// endpoint is configured the tracer provider stays a no-op, so span
// creation is always safe.
package telemetry

import (
	"context"
	"fmt"

	"github.com/decisionloom/decisionloom/internal/config"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/decisionloom/decisionloom"

// Tracer returns the process-wide tracer for LLM and pipeline spans
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// Init configures the global tracer provider. Returns a shutdown function
// to flush spans on exit. Tracing is disabled when no endpoint is set.
func Init(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		log.Warn().Msg("OTLP endpoint not set, tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint+"/v1/traces"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	log.Info().Str("endpoint", cfg.Endpoint).Msg("OpenTelemetry initialized")
	return provider.Shutdown, nil
}
