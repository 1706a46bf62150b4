package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)
	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_MissingLogger(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger, "missing logger must fall back to a no-op, not nil")
}

func TestWithRequestID(t *testing.T) {
	logger, logs := observedLogger()
	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("hello")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithLaneID(t *testing.T) {
	logger, logs := observedLogger()
	ctx, enriched := WithLaneID(context.Background(), logger, "lane-9")

	assert.Equal(t, "lane-9", GetLaneID(ctx))

	enriched.Info("scan")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "lane-9", entries[0].ContextMap()["lane_id"])
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	logger := zap.NewNop()
	assert.Equal(t, logger, WithTraceContext(context.Background(), logger))
}

func TestContextLogger(t *testing.T) {
	t.Run("injects request and lane ids into entries", func(t *testing.T) {
		logger, logs := observedLogger()
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")
		ctx = context.WithValue(ctx, LaneIDKey, "lane-1")

		WithLogger(ctx, logger).Info("finalized")

		entries := logs.All()
		assert.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-7", fields["request_id"])
		assert.Equal(t, "lane-1", fields["lane_id"])
	})

	t.Run("L falls back to no-op without a context logger", func(t *testing.T) {
		assert.NotPanics(t, func() {
			L(context.Background()).Info("no logger attached")
		})
	})

	t.Run("With adds fields to children", func(t *testing.T) {
		logger, logs := observedLogger()
		cl := WithLogger(context.Background(), logger).With(zap.String("component", "checkout"))
		cl.Warn("discrepancy")

		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, "checkout", entries[0].ContextMap()["component"])
	})
}
