package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(Config{Level: tt.level})
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestNew_ConsoleJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Console: true, Out: &buf})
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("tool", "read_file").Msg("tool finished")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "read_file", entry["tool"])
	assert.Equal(t, "tool finished", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Console: true, Pretty: true, Out: &buf})
	require.NoError(t, err)

	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "agent.log")
	l, err := New(Config{File: path})
	require.NoError(t, err)

	l.Warn().Msg("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNew_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Console: true, Out: &buf, Secrets: []string{"sk-secret-123", ""}})
	require.NoError(t, err)

	l.Error().Str("header", "Bearer sk-secret-123").Msg("request failed")
	assert.NotContains(t, buf.String(), "sk-secret-123")
	assert.Contains(t, buf.String(), "[REDACTED]")
}

func TestNew_Discard(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	l.Info().Msg("nowhere")
	assert.NoError(t, l.Close())
}
