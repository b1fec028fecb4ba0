package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvfinder/tvfinder/internal/config"
)

func TestNew_JSONToOutAndRecent(t *testing.T) {
	var out bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Out: &out, RecentSize: 2})
	require.NoError(t, l.SetLevel("info"))

	comp := l.WithComponent("tvmaze")
	comp.Info().Int("showId", 139).Msg("first")
	comp.Info().Msg("second")
	comp.Info().Msg("third")
	comp.Debug().Msg("hidden")

	assert.Contains(t, out.String(), `"message":"third"`)
	assert.NotContains(t, out.String(), "hidden")

	entries := l.GetRecentLogs()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, "third", entries[1].Message)
	assert.Equal(t, "tvmaze", entries[1].Component)
	assert.Equal(t, "info", entries[1].Level)
}

func TestSetLevel_ReachesComponentLoggers(t *testing.T) {
	var out bytes.Buffer
	l := New(Config{Format: "json", Out: &out})
	comp := l.WithComponent("api")

	require.NoError(t, l.SetLevel("error"))
	comp.Warn().Msg("dropped")
	assert.Empty(t, out.String())
	assert.Equal(t, zerolog.ErrorLevel, comp.Level())

	require.NoError(t, comp.SetLevel("debug"))
	l.Debug().Msg("kept")
	assert.Contains(t, out.String(), "kept")

	assert.Error(t, l.SetLevel("loud"))
}

func TestNew_FileOutput(t *testing.T) {
	dir := t.TempDir()
	l := New(Config{Format: "json", Path: dir, Out: &bytes.Buffer{}})
	t.Cleanup(func() { _ = l.Close() })

	l.Error().Msg("to file")

	path := l.GetLogFilePath()
	assert.Equal(t, filepath.Join(dir, "tvfinder.log"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.LoggingConfig{Level: "warn", Format: "json", Path: "/var/log", MaxSizeMB: 3})
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "/var/log", cfg.Path)
	assert.Equal(t, 3, cfg.MaxSizeMB)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRecent_IgnoresNonJSON(t *testing.T) {
	r := NewRecent(4)
	n, err := r.Write([]byte("plain text\n"))
	require.NoError(t, err)
	assert.Equal(t, len("plain text\n"), n)
	assert.Empty(t, r.Entries())
}
