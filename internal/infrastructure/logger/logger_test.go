package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("console format", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
		logger.Info("test message")
	})

	t.Run("json format", func(t *testing.T) {
		logger, err := New(ProductionConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}

func TestContext(t *testing.T) {
	t.Run("logger round trip", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("missing logger yields nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request id round trip", func(t *testing.T) {
		ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")
		assert.NotNil(t, enriched)
		assert.Equal(t, "req-123", GetRequestID(ctx))
	})

	t.Run("missing request id", func(t *testing.T) {
		assert.Equal(t, "", GetRequestID(context.Background()))
	})
}
