package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withObserver(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	previous := log
	log = zap.New(core)
	t.Cleanup(func() { log = previous })
	return logs
}

func TestContextFields(t *testing.T) {
	t.Run("trace and request ids are attached", func(t *testing.T) {
		logs := withObserver(t)
		ctx := WithRequestID(WithTraceID(context.Background(), "trace-1"), "req-1")

		CtxInfo(ctx, "loan applied", zap.String("loan_id", "LOAN-1"))

		entries := logs.All()
		assert.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "trace-1", fields["trace_id"])
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "LOAN-1", fields["loan_id"])
	})

	t.Run("error field is appended", func(t *testing.T) {
		logs := withObserver(t)

		CtxError(context.Background(), "insert failed", assert.AnError)

		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, assert.AnError.Error(), entries[0].ContextMap()["error"])
	})

	t.Run("missing ids are not logged", func(t *testing.T) {
		logs := withObserver(t)

		CtxWarn(context.Background(), "loan not found")

		fields := logs.All()[0].ContextMap()
		assert.NotContains(t, fields, "trace_id")
		assert.NotContains(t, fields, "request_id")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zap.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zap.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zap.InfoLevel, parseLevel("verbose"))
}
