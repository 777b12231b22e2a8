package otel

import (
	"context"
	"sync"
	"time"

	"easyloan/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	connectTimeout  = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

var (
	tracer     trace.Tracer
	reportOnce sync.Once
)

func noopShutdown(context.Context) error { return nil }

// Setup installs the global tracer provider and propagator. With no collector
// URL, or a collector that cannot be reached, tracing stays off and startup continues.
func Setup(ctx context.Context, serviceName, collectorURL string) (func(context.Context) error, error) {
	if collectorURL == "" {
		logger.Info("OTLP collector not configured, tracing disabled")
		return noopShutdown, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceNamespace("easyloan"),
	))
	if err != nil {
		return nil, err
	}

	exporter, err := newExporter(ctx, collectorURL)
	if err != nil {
		reportOnce.Do(func() { logger.Error("OTLP connection error", err) })
		return noopShutdown, nil
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	tracer = provider.Tracer(serviceName)

	return func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		return provider.Shutdown(shutdownCtx)
	}, nil
}

func newExporter(ctx context.Context, collectorURL string) (sdktrace.SpanExporter, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return otlptracehttp.New(connectCtx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(collectorURL),
	)
}

func GetTracer() trace.Tracer {
	if tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return tracer
}

// StartSpan opens an internal span on the service tracer. With tracing
// disabled ctx is returned as is.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, noop.Span{}
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
