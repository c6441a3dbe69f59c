package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInit_File(t *testing.T) {
	dir := t.TempDir()
	closeLog, err := Init(Options{Enabled: true, LogDir: dir, Level: slog.LevelDebug})
	require.NoError(t, err)

	Debug("loaded", "path", "libhostfxr.so")
	require.NoError(t, closeLog())
	L = slog.New(slog.DiscardHandler)

	data, err := os.ReadFile(filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix))
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"loaded"`)
	require.Contains(t, string(data), `"path":"libhostfxr.so"`)
}

func TestInit_Verbose(t *testing.T) {
	var buf bytes.Buffer
	_, err := Init(Options{Verbose: true, Stderr: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { L = slog.New(slog.DiscardHandler) })

	Info("evaluate", "function", "hostfxr::main")
	Debug("hidden")
	require.Contains(t, buf.String(), "function=hostfxr::main")
	require.NotContains(t, buf.String(), "hidden")
}

func TestInit_Disabled(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(Options{LogDir: dir})
	require.NoError(t, err)

	Error("dropped")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, name := range []string{
		"hostctl-2025-01-01.log",
		"hostctl-2025-02-20.log",
		"hostctl-garbage.log",
		"other-2020-01-01.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	cleanOldLogs(dir, now)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, "hostctl-2025-02-20.log hostctl-garbage.log other-2020-01-01.log", strings.Join(names, " "))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
}
