package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger_LevelFiltersRecords(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{name: "debug keeps everything", level: "debug", wantDebug: true, wantInfo: true, wantWarn: true},
		{name: "warn drops info", level: "warn", wantDebug: false, wantInfo: false, wantWarn: true},
		{name: "uppercase is accepted", level: "WARN", wantDebug: false, wantInfo: false, wantWarn: true},
		{name: "unknown level falls back to info", level: "chatty", wantDebug: false, wantInfo: true, wantWarn: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			var buf bytes.Buffer
			logger := newLogger(tc.level, "text", &buf)

			// --- Act ---
			logger.Debug("debug record")
			logger.Info("info record")
			logger.Warn("warn record")

			// --- Assert ---
			out := buf.String()
			require.Equal(t, tc.wantDebug, strings.Contains(out, "debug record"))
			require.Equal(t, tc.wantInfo, strings.Contains(out, "info record"))
			require.Equal(t, tc.wantWarn, strings.Contains(out, "warn record"))
		})
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf bytes.Buffer
	logger := newLogger("info", "json", &buf)

	// --- Act ---
	logger.Info("structured record", "cell", "A/x")

	// --- Assert ---
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "structured record", record["msg"])
	require.Equal(t, "A/x", record["cell"])
}

func TestNewLogger_TextFormatByDefault(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf bytes.Buffer
	logger := newLogger("info", "text", &buf)

	// --- Act ---
	logger.Info("plain record")

	// --- Assert ---
	out := buf.String()
	require.Contains(t, out, "msg=\"plain record\"")
	require.False(t, strings.HasPrefix(out, "{"))
}
