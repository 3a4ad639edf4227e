// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package annotator

import "errors"

// Sentinel errors for each failing step of a run. Callers match them with
// errors.Is; the wrapped cause carries the detail.
var (
	// ErrRead means standard input could not be read or was not UTF-8.
	ErrRead = errors.New("reading input")

	// ErrParse means the input was not exactly one well-formed JSON value.
	ErrParse = errors.New("parsing input")

	// ErrSerialize means the output document could not be encoded.
	ErrSerialize = errors.New("serializing output")

	// ErrWrite means the output document could not be written to standard output.
	ErrWrite = errors.New("writing output")

	// ErrConfig means the configuration file could not be loaded.
	ErrConfig = errors.New("loading configuration")

	// ErrSave means the output file could not be written. Never fatal.
	ErrSave = errors.New("saving output file")
)

// Exit codes, following sysexits(3).
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitDataErr  = 65
	ExitSoftware = 70
	ExitIOErr    = 74
	ExitConfig   = 78
)

// IsFatal reports whether err must abort the process with a non-zero exit.
// A nil error and a failed file save are not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrSave)
}

// ExitCode maps an error returned by Run or LoadConfig to a process exit code.
func ExitCode(err error) int {
	switch {
	case !IsFatal(err):
		return ExitOK
	case errors.Is(err, ErrRead), errors.Is(err, ErrWrite):
		return ExitIOErr
	case errors.Is(err, ErrParse):
		return ExitDataErr
	case errors.Is(err, ErrSerialize):
		return ExitSoftware
	case errors.Is(err, ErrConfig):
		return ExitConfig
	default:
		return ExitFailure
	}
}
