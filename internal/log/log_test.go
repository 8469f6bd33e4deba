package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		name       string
		verbose    bool
		quiet      bool
		configured string
		want       slog.Level
	}{
		{"default", false, false, "", slog.LevelInfo},
		{"configured debug", false, false, "DEBUG", slog.LevelDebug},
		{"configured warn", false, false, "warning", slog.LevelWarn},
		{"configured error", false, false, " error ", slog.LevelError},
		{"unknown falls back", false, false, "chatty", slog.LevelInfo},
		{"verbose wins", true, false, "error", slog.LevelDebug},
		{"quiet wins", true, true, "debug", slog.LevelWarn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Level(tc.verbose, tc.quiet, tc.configured))
		})
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(&buf, slog.LevelWarn)
	slog.Info("hidden")
	slog.Warn("shown", "rows", 3)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "msg=shown")
	require.Contains(t, out, "rows=3")
}

func TestOpenFileCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "chargemap", "chargemap.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("again\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "line\nagain\n", string(data))
}
