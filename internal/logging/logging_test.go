package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/config"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"", zapcore.InfoLevel},
		{"chatty", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			logger, err := New(config.LogConfig{Level: tc.level})
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.want))
			if tc.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tc.want-1))
			}
		})
	}
}

func TestInit_ReplacesGlobal(t *testing.T) {
	restore, err := Init(config.LogConfig{Level: "error", Pretty: true})
	require.NoError(t, err)
	assert.False(t, zap.L().Core().Enabled(zapcore.WarnLevel))
	restore()
	assert.NotEqual(t, zapcore.ErrorLevel, zap.L().Level())
}
