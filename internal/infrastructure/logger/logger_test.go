package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestForEnvironment(t *testing.T) {
	assert.Equal(t, "json", ForEnvironment("production").Format)
	dev := ForEnvironment("development")
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, "info", dev.Level)
	assert.Equal(t, "stdout", dev.Output)
}

func TestNew_Stdout(t *testing.T) {
	log, err := New(config.LogConfig{Level: "warn", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(config.LogConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	log.Info("ledger ready")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"ledger ready"`)
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestNew_UnwritableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "app.log")
	_, err := New(config.LogConfig{Output: path})
	assert.Error(t, err)
}
