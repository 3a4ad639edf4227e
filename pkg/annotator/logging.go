// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package annotator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Version is stamped on every log line. Release builds set it with
// -ldflags "-X github.com/mesh-intelligence/source-annotator/pkg/annotator.Version=<tag>".
var Version = "dev"

const serviceName = "source-annotator"

// Logger is the run logger. Records at or above the configured level go
// to the terminal; error records are also appended to the error log sink.
type Logger struct {
	*slog.Logger
	sink io.Closer
}

// NewLogger builds the two-sink logger for one run. When the error log
// file cannot be opened, a warning is logged and the logger runs with the
// terminal sink only.
func NewLogger(cfg Config, terminal io.Writer) *Logger {
	cfg.applyDefaults()
	term := newHandler(terminal, cfg.LogFormat, parseLevel(cfg.LogLevel))

	sink, sinkErr := openLogSink(cfg.ErrorLogFile)
	var h slog.Handler = term
	if sinkErr == nil {
		h = teeHandler{term, slog.NewTextHandler(sink, &slog.HandlerOptions{Level: slog.LevelError})}
	}

	l := &Logger{
		Logger: slog.New(h).With(
			"service", serviceName,
			"version", Version,
			"run_id", uuid.NewString(),
		),
	}
	if sinkErr != nil {
		l.Warn("error log unavailable, logging to terminal only", "error", sinkErr)
	} else {
		l.sink = sink
	}
	return l
}

// Close closes the error log sink, if one is open.
func (l *Logger) Close() error {
	if l.sink == nil {
		return nil
	}
	err := l.sink.Close()
	l.sink = nil
	return err
}

// openLogSink opens path for appending, creating it when missing.
func openLogSink(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("openLogSink: %w", err)
	}
	return f, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// teeHandler fans each record out to every handler enabled for its level.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
