// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package annotator reads one JSON document, wraps it with the count of its
// top-level array elements, prints the result, and keeps a best-effort copy
// on disk.
package annotator

import (
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"
)

// Annotator runs the read, parse, annotate, write pipeline once per call
// to Run. Create one with New.
type Annotator struct {
	cfg   Config
	log   *slog.Logger
	start time.Time
}

// Result describes a completed run.
type Result struct {
	SourceCount int
	Elapsed     time.Duration

	// Saved is false when the output file could not be written.
	Saved bool
}

// New creates an Annotator with the given configuration. It applies
// defaults to any zero-value Config fields. A nil logger discards output.
func New(cfg Config, log *slog.Logger) *Annotator {
	cfg.applyDefaults()
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Annotator{cfg: cfg, log: log}
}

// Config returns a copy of the Annotator's configuration.
func (a *Annotator) Config() Config { return a.cfg }

// Since sets the instant elapsed time is measured from, normally process
// start. Without it Run measures from its own entry.
func (a *Annotator) Since(start time.Time) *Annotator {
	a.start = start
	return a
}

// Run reads one JSON document from in, writes the annotated document and a
// newline to out, and saves the same document to the configured output
// file. Read, parse, serialize, and out write failures are logged and
// returned. A failed save is logged and reported through Result.Saved only.
func (a *Annotator) Run(in io.Reader, out io.Writer) (Result, error) {
	start := a.start
	if start.IsZero() {
		start = time.Now()
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return Result{}, a.fail("failed to read from stdin", fmt.Errorf("%w: %w", ErrRead, err))
	}
	if !utf8.Valid(data) {
		return Result{}, a.fail("failed to read from stdin", fmt.Errorf("%w: stream did not contain valid UTF-8", ErrRead))
	}
	a.log.Debug("input read", "bytes", len(data))

	v, err := Decode(data)
	if err != nil {
		return Result{}, a.fail("failed to parse JSON", err)
	}

	doc := Annotate(v)
	encoded, err := Encode(doc, a.cfg.IndentString())
	if err != nil {
		return Result{}, a.fail("failed to serialize JSON", err)
	}

	if _, err := fmt.Fprintf(out, "%s\n", encoded); err != nil {
		return Result{}, a.fail("failed to write to stdout", fmt.Errorf("%w: %w", ErrWrite, err))
	}

	res := Result{SourceCount: doc.SourceCount, Saved: true}
	if err := SaveFile(a.cfg.OutputFile, encoded); err != nil {
		a.log.Error("error saving to file", "path", a.cfg.OutputFile, "error", err)
		res.Saved = false
	}

	res.Elapsed = time.Since(start)
	a.log.Info("processing completed",
		"elapsed", res.Elapsed.Round(time.Microsecond).String(),
		"source_count", res.SourceCount,
		"saved", res.Saved)
	return res, nil
}

// fail logs a fatal error once and returns it.
func (a *Annotator) fail(msg string, err error) error {
	a.log.Error(msg, "error", err)
	return err
}
