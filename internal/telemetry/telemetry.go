// Package telemetry traces engine operations over OTLP/HTTP.
//
// Spans are cheap to create at any time: until Setup installs a real
// provider every tracer comes from the global no-op one.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const serviceName = "dungeonbuilder"

// EndpointEnv overrides the collector address for this program only.
const EndpointEnv = "DUNGEONBUILDER_OTLP_ENDPOINT"

// Setup exports spans to the collector named by the OTEL_EXPORTER_OTLP_*
// variables and tags them with the given build version. The returned
// function flushes pending spans.
func Setup(ctx context.Context, version string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(serviceAttrs(version)...))
	if err != nil {
		return nil, fmt.Errorf("describing service: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

func serviceAttrs(version string) []attribute.KeyValue {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return []attribute.KeyValue{
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
		attribute.String("host.name", host),
		attribute.String("os.type", runtime.GOOS),
		attribute.String("process.runtime.version", runtime.Version()),
	}
}

// Tracer returns the tracer for one engine component ("session", "levelio", ...).
func Tracer(component string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + component)
}

// Disable drops every span from now on.
func Disable() {
	otel.SetTracerProvider(noop.NewTracerProvider())
}

// Endpoint copies EndpointEnv into OTEL_EXPORTER_OTLP_ENDPOINT when that is
// unset, then reports whether any collector address is configured.
func Endpoint() bool {
	if v := os.Getenv(EndpointEnv); v != "" && os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", v)
	}
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" || os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") != ""
}
