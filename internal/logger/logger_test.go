package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.WarnLevel, false},
		{"ERROR", zerolog.ErrorLevel, false},
		{"DISABLED", zerolog.Disabled, false},
		{"TRACE", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_WritesConsoleLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)

	l.Warn().Str("field", "BMI").Msg("rejected")

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "rejected")
	assert.Contains(t, out, "field=BMI")
	assert.Contains(t, out, "logger_test.go:")
}

func TestInit_File(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	path := filepath.Join(t.TempDir(), "glucoguard.log")

	closeFn, err := Init(Options{Level: "INFO", File: path})
	require.NoError(t, err)

	log.Info().Msg("bundle loaded")
	log.Debug().Msg("hidden")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bundle loaded")
	assert.NotContains(t, string(data), "hidden")
}

func TestInit_BadLevel(t *testing.T) {
	_, err := Init(Options{Level: "LOUD"})
	assert.Error(t, err)
}
