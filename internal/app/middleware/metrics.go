package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func NewMetricMiddleware(meter metric.Meter) gin.HandlerFunc {
	durationHistogram, _ := meter.Int64Histogram(
		"http.server.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency of HTTP requests."),
	)
	requestCounter, _ := meter.Int64Counter(
		"http.server.requests_total",
		metric.WithDescription("Total HTTP requests."),
	)
	errorCounter, _ := meter.Int64Counter(
		"http.server.error_requests_total",
		metric.WithDescription("HTTP requests answered with a 4xx or 5xx status."),
	)
	responseSizeHistogram, _ := meter.Int64Histogram(
		"http.server.response_size_bytes",
		metric.WithUnit("bytes"),
		metric.WithDescription("Size of HTTP responses."),
	)

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		ctx := c.Request.Context()
		attrs := metric.WithAttributes(
			semconv.HTTPRouteKey.String(c.FullPath()),
			semconv.HTTPMethodKey.String(c.Request.Method),
			semconv.HTTPStatusCodeKey.Int(status),
			attribute.Bool("http.authenticated", c.GetHeader("Authorization") != ""),
		)

		durationHistogram.Record(ctx, time.Since(start).Milliseconds(), attrs)
		requestCounter.Add(ctx, 1, attrs)
		responseSizeHistogram.Record(ctx, int64(c.Writer.Size()), attrs)
		if status >= 400 {
			errorCounter.Add(ctx, 1, attrs)
		}
	}
}
