package app

import (
	"io"
	"log/slog"
)

// newLogger builds the App's isolated logger from the CLI-supplied level and
// format. The global slog default is never touched, so parallel tests can run
// apps with independent log sinks.
//
// The level string is parsed by slog itself (case-insensitive, including
// offset forms like "warn+2"); anything unparsable falls back to info rather
// than failing the run.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
