package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/s3info/logger"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("Debug", func(t *testing.T) {
		l, err := logger.New(&logger.Config{Level: "debug", Format: "console"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("WarnJSON", func(t *testing.T) {
		l, err := logger.New(&logger.Config{Level: "warn", Format: "json"})
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		_, err := logger.New(&logger.Config{Level: "loud"})
		assert.Error(t, err)
	})
}
