package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	lg, closer, err := New(Options{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closer()

	lg.Info("turn handled", Module("session"), Err(errors.New("boom")))
	lg.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, `"msg":"turn handled"`)
	assert.Contains(t, out, `"module":"session"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.NotContains(t, out, "hidden")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tvyn.log")
	lg, closer, err := New(Options{Level: "debug", File: path}, nil)
	require.NoError(t, err)

	lg.Debug("written to file")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
