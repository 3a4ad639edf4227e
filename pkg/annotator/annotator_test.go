// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package annotator

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAnnotator returns an Annotator whose output file lives in a temp
// directory and whose log lines are captured in the returned buffer.
func newTestAnnotator(t *testing.T) (*Annotator, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), DefaultOutputFile)
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(cfg, log), &logs
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

// --- Run: success path ---

func TestRun_ArrayInput(t *testing.T) {
	t.Parallel()
	a, logs := newTestAnnotator(t)
	var out bytes.Buffer

	res, err := a.Run(strings.NewReader(`[1,2,3]`), &out)
	require.NoError(t, err)
	assert.Equal(t, 3, res.SourceCount)
	assert.True(t, res.Saved)

	assert.True(t, strings.HasSuffix(out.String(), "}\n"), "stdout must end with a newline")
	assert.Equal(t, `{"source_count":3,"processed_data":[1,2,3]}`, compact(t, out.Bytes()))
	assert.Contains(t, logs.String(), "processing completed")
	assert.Contains(t, logs.String(), "source_count=3")
}

func TestRun_ObjectInput(t *testing.T) {
	t.Parallel()
	a, _ := newTestAnnotator(t)
	var out bytes.Buffer

	res, err := a.Run(strings.NewReader(`{"a":1}`), &out)
	require.NoError(t, err)
	assert.Zero(t, res.SourceCount)
	assert.Equal(t, `{"source_count":0,"processed_data":{"a":1}}`, compact(t, out.Bytes()))
}

func TestRun_ScalarInputs(t *testing.T) {
	t.Parallel()
	for _, input := range []string{`"s"`, `42`, `-3.5`, `true`, `null`} {
		a, _ := newTestAnnotator(t)
		var out bytes.Buffer
		res, err := a.Run(strings.NewReader(input), &out)
		require.NoError(t, err, input)
		assert.Zero(t, res.SourceCount, input)
		assert.Equal(t, `{"source_count":0,"processed_data":`+input+`}`, compact(t, out.Bytes()), input)
	}
}

func TestRun_FileMatchesStdout(t *testing.T) {
	t.Parallel()
	a, _ := newTestAnnotator(t)
	var out bytes.Buffer

	_, err := a.Run(strings.NewReader(`[{"name":"x"},{"name":"y"}]`), &out)
	require.NoError(t, err)

	saved, err := os.ReadFile(a.Config().OutputFile)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(out.String(), "\n"), string(saved))
}

func TestRun_OverwritesExistingFile(t *testing.T) {
	t.Parallel()
	a, _ := newTestAnnotator(t)
	path := a.Config().OutputFile
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("stale "), 1000), 0o644))

	_, err := a.Run(strings.NewReader(`[]`), &bytes.Buffer{})
	require.NoError(t, err)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"source_count":0,"processed_data":[]}`, compact(t, saved))
}

func TestRun_ElapsedMeasuredFromStart(t *testing.T) {
	t.Parallel()
	a, logs := newTestAnnotator(t)

	res, err := a.Since(time.Now().Add(-time.Minute)).Run(strings.NewReader(`[1]`), &bytes.Buffer{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Elapsed, time.Minute)
	assert.Contains(t, logs.String(), "elapsed=1m0")
}

func TestRun_UsesConfiguredIndent(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), DefaultOutputFile)
	cfg.Indent = 4
	var out bytes.Buffer

	_, err := New(cfg, nil).Run(strings.NewReader(`[1]`), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\n    \"source_count\": 1,")
}

// --- Run: non-fatal save failure ---

func TestRun_SaveFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	a, logs := newTestAnnotator(t)
	a.cfg.OutputFile = filepath.Join(t.TempDir(), "missing", DefaultOutputFile)
	var out bytes.Buffer

	res, err := a.Run(strings.NewReader(`[1,2,3]`), &out)
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.Equal(t, 3, res.SourceCount)
	assert.Equal(t, `{"source_count":3,"processed_data":[1,2,3]}`, compact(t, out.Bytes()))
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "error saving to file")
	assert.Contains(t, logs.String(), "processing completed")
}

// --- Run: fatal failures ---

func TestRun_InvalidJSON(t *testing.T) {
	t.Parallel()
	a, logs := newTestAnnotator(t)
	var out bytes.Buffer

	_, err := a.Run(strings.NewReader("not json"), &out)
	require.ErrorIs(t, err, ErrParse)
	assert.True(t, IsFatal(err))
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "failed to parse JSON")
	assert.NotContains(t, logs.String(), "processing completed")

	_, statErr := os.Stat(a.Config().OutputFile)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "output file must not be written on parse failure")
}

func TestRun_LoneSurrogate(t *testing.T) {
	t.Parallel()
	a, logs := newTestAnnotator(t)
	var out bytes.Buffer

	_, err := a.Run(strings.NewReader(`["\ud800"]`), &out)
	require.ErrorIs(t, err, ErrParse)
	assert.Equal(t, ExitDataErr, ExitCode(err))
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "failed to parse JSON")
}

func TestRun_EmptyInput(t *testing.T) {
	t.Parallel()
	a, _ := newTestAnnotator(t)
	var out bytes.Buffer

	_, err := a.Run(strings.NewReader(""), &out)
	require.ErrorIs(t, err, ErrParse)
	assert.Empty(t, out.String())
}

func TestRun_InvalidUTF8(t *testing.T) {
	t.Parallel()
	a, logs := newTestAnnotator(t)
	var out bytes.Buffer

	_, err := a.Run(bytes.NewReader([]byte{'"', 0xff, 0xfe, '"'}), &out)
	require.ErrorIs(t, err, ErrRead)
	assert.Equal(t, ExitIOErr, ExitCode(err))
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "failed to read from stdin")
}

func TestRun_ReadFailure(t *testing.T) {
	t.Parallel()
	a, _ := newTestAnnotator(t)
	var out bytes.Buffer

	_, err := a.Run(iotest.ErrReader(errors.New("device gone")), &out)
	require.ErrorIs(t, err, ErrRead)
	assert.Contains(t, err.Error(), "device gone")
	assert.Empty(t, out.String())
}

func TestRun_WriteFailure(t *testing.T) {
	t.Parallel()
	a, logs := newTestAnnotator(t)

	_, err := a.Run(strings.NewReader(`[1]`), failingWriter{})
	require.ErrorIs(t, err, ErrWrite)
	assert.Contains(t, logs.String(), "failed to write to stdout")
}
