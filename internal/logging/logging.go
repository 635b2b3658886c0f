// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the diagnostic logger shared by the pipeline stages.
// Human-readable progress lines are written separately to an io.Writer.
package logging

import (
	"io"

	"github.com/phuslu/log"
)

// New returns a console logger writing to w at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func New(level string, w io.Writer) *log.Logger {
	lvl := log.ParseLevel(level)
	if level == "" {
		lvl = log.InfoLevel
	}
	return &log.Logger{
		Level:      lvl,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer: w,
		},
	}
}

// Discard returns a logger that drops every entry. Used by tests and by
// callers that pass a nil logger.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: log.IOWriter{Writer: io.Discard},
	}
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
