package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ParseLevel(t *testing.T) {
	var testCases = []struct {
		in    string
		level slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range testCases {
		level, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.level, level, tc.in)
	}

	_, err := ParseLevel("loud")
	require.ErrorContains(t, err, `invalid log level "loud"`)
}

func Test_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(buf, FormatText, "info")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("message committed", "action", "mint")
	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "message committed")
	require.Contains(t, out, "action=mint")
}

func Test_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(buf, FormatJSON, "debug")
	require.NoError(t, err)

	log.Debug("delivering message", "sender", "osmo1abc")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "delivering message", rec["msg"])
	require.Equal(t, "DEBUG", rec["level"])
	require.Equal(t, "osmo1abc", rec["sender"])
}

func Test_UnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "xml", "")
	require.EqualError(t, err, `log format "xml" is not supported`)
}
