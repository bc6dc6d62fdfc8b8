// Package tracing installs the OpenTelemetry tracer provider used by the service.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrNilContext is returned when Init is called without a context.
var ErrNilContext = errors.New("tracing: nil context")

// ShutdownFunc flushes and stops the installed provider.
type ShutdownFunc func(context.Context) error

type config struct {
	enabled     bool
	serviceName string
	version     string
	out         io.Writer
}

// Option configures Init.
type Option func(*config)

// WithEnabled toggles span export. Disabled tracing leaves the global no-op provider in place.
func WithEnabled(enabled bool) Option {
	return func(c *config) { c.enabled = enabled }
}

// WithService sets the service.name and service.version resource attributes.
func WithService(name, version string) Option {
	return func(c *config) {
		if name != "" {
			c.serviceName = name
		}
		if version != "" {
			c.version = version
		}
	}
}

// WithWriter redirects exported spans.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// Init sets the global tracer provider. The returned ShutdownFunc is never nil.
func Init(ctx context.Context, opts ...Option) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if ctx == nil {
		return noop, ErrNilContext
	}

	cfg := config{serviceName: "launchcircle", version: "dev", out: os.Stdout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.enabled {
		return noop, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(cfg.out))
	if err != nil {
		return noop, fmt.Errorf("create exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.serviceName),
		attribute.String("service.version", cfg.version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
