// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

// smokeCase is one end-to-end invocation of the built binary.
type smokeCase struct {
	name     string
	stdin    string
	wantOut  string // compact JSON; empty means no stdout expected
	wantExit int

	// blockWrites puts directories where processed_data.json and
	// errors.log go, so both writes fail.
	blockWrites bool
	wantStderr  []string
}

var smokeCases = []smokeCase{
	{name: "array", stdin: "[1,2,3]", wantOut: `{"source_count":3,"processed_data":[1,2,3]}`},
	{name: "object", stdin: `{"a":1}`, wantOut: `{"source_count":0,"processed_data":{"a":1}}`},
	{name: "scalar", stdin: `"x"`, wantOut: `{"source_count":0,"processed_data":"x"}`},
	{name: "invalid", stdin: "not json", wantExit: 65, wantStderr: []string{"failed to parse JSON"}},
	{name: "invalid-utf8", stdin: "[\"\xff\"]", wantExit: 74, wantStderr: []string{"failed to read from stdin"}},
	{name: "lone-surrogate", stdin: `["\ud800"]`, wantExit: 65, wantStderr: []string{"surrogate"}},
	{
		name:        "unwritable",
		stdin:       "[1,2,3]",
		wantOut:     `{"source_count":3,"processed_data":[1,2,3]}`,
		blockWrites: true,
		wantStderr:  []string{"error log unavailable", "error saving to file"},
	},
}

// Smoke builds the binary and runs it against fixed inputs in a scratch
// directory, checking stdout, exit status, and the files it leaves behind.
func (Test) Smoke() error {
	mg.Deps(Build)
	logf("test:smoke: starting")

	bin, err := filepath.Abs(filepath.Join(binaryDir, binaryName))
	if err != nil {
		return fmt.Errorf("resolving binary path: %w", err)
	}

	for _, tc := range smokeCases {
		if err := runSmokeCase(bin, tc); err != nil {
			return fmt.Errorf("test:smoke %s: %w", tc.name, err)
		}
		logf("test:smoke: %s passed", tc.name)
	}

	fmt.Println("Smoke test PASSED")
	return nil
}

func runSmokeCase(bin string, tc smokeCase) error {
	dir, err := os.MkdirTemp("", "annotate-smoke-")
	if err != nil {
		return fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if tc.blockWrites {
		for _, name := range []string{"processed_data.json", "errors.log"} {
			if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
				return fmt.Errorf("blocking %s: %w", name, err)
			}
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(tc.stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exit := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Errorf("running %s: %w", bin, err)
		}
		exit = exitErr.ExitCode()
	}
	if exit != tc.wantExit {
		return fmt.Errorf("exit %d, want %d; stderr:\n%s", exit, tc.wantExit, stderr.String())
	}
	for _, want := range tc.wantStderr {
		if !strings.Contains(stderr.String(), want) {
			return fmt.Errorf("stderr missing %q:\n%s", want, stderr.String())
		}
	}

	if tc.wantOut == "" {
		if stdout.Len() != 0 {
			return fmt.Errorf("unexpected stdout: %q", stdout.String())
		}
		logged, err := os.ReadFile(filepath.Join(dir, "errors.log"))
		if err != nil || len(logged) == 0 {
			return fmt.Errorf("errors.log missing or empty")
		}
		return nil
	}

	var got bytes.Buffer
	if err := json.Compact(&got, stdout.Bytes()); err != nil {
		return fmt.Errorf("stdout is not JSON: %w", err)
	}
	if got.String() != tc.wantOut {
		return fmt.Errorf("stdout %s, want %s", got.String(), tc.wantOut)
	}
	if tc.blockWrites {
		return nil
	}
	saved, err := os.ReadFile(filepath.Join(dir, "processed_data.json"))
	if err != nil {
		return fmt.Errorf("reading processed_data.json: %w", err)
	}
	if string(saved) != strings.TrimSuffix(stdout.String(), "\n") {
		return fmt.Errorf("processed_data.json differs from stdout")
	}
	return nil
}
