package logger

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	traceIDKey   contextKey = "trace_id"
	requestIDKey contextKey = "request_id"
)

var (
	log         = zap.NewNop()
	serviceName = "easyloan"
)

// Init builds the process-wide JSON logger. Until it is called every log call is a no-op.
func Init(level, service string) error {
	if service != "" {
		serviceName = service
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.Encoding = "json"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "log_level"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.StacktraceKey = ""
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.OutputPaths = []string{"stdout"}

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	log = built.With(zap.String("service_name", serviceName))
	return nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = log.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// contextFields prefers an explicit trace id over the active span's.
func contextFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	} else if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	return fields
}

// CONTEXT-AWARE LOGGING //

func CtxInfo(ctx context.Context, msg string, fields ...zap.Field) {
	log.Info(msg, contextFields(ctx, fields)...)
}

func CtxError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	log.Error(msg, contextFields(ctx, fields)...)
}

func CtxDebug(ctx context.Context, msg string, fields ...zap.Field) {
	log.Debug(msg, contextFields(ctx, fields)...)
}

func CtxWarn(ctx context.Context, msg string, fields ...zap.Field) {
	log.Warn(msg, contextFields(ctx, fields)...)
}

// NON-CONTEXT LOGGING //

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	log.Error(msg, fields...)
}
