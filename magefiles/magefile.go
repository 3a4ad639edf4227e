// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides the mage build targets for the source-annotator
// repository.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups the testing targets.
type Test mg.Namespace

const (
	binaryDir   = "bin"
	binaryName  = "annotate"
	mainPackage = "./cmd/annotate"
	coverFile   = "coverage.out"
	versionVar  = "github.com/mesh-intelligence/source-annotator/pkg/annotator.Version"
)

// Default target when mage runs without arguments.
var Default = Build

// logf prints a timestamped log line to stderr.
func logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "[%s] %s\n", time.Now().Format(time.RFC3339), msg)
}

// version returns the nearest git tag (v0.YYYYMMDD.N), or "dev" outside
// a tagged checkout.
func version() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || out == "" {
		return "dev"
	}
	return out
}

// --- Top-level targets ---

// Build compiles the annotate binary into bin/, stamping the git version.
func Build() error {
	outPath := filepath.Join(binaryDir, binaryName)
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version())
	logf("build: go build -ldflags %q -o %s %s", ldflags, outPath, mainPackage)
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", outPath, mainPackage); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	logf("build: done")
	return nil
}

// Install runs go install for the annotate command.
func Install() error {
	logf("install: go install %s", mainPackage)
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version())
	if err := sh.RunV("go", "install", "-ldflags", ldflags, mainPackage); err != nil {
		return fmt.Errorf("go install: %w", err)
	}
	logf("install: done")
	return nil
}

// Lint runs golangci-lint on the project.
func Lint() error {
	logf("lint: running golangci-lint")
	if err := sh.RunV("golangci-lint", "run", "./..."); err != nil {
		return fmt.Errorf("golangci-lint: %w", err)
	}
	logf("lint: done")
	return nil
}

// Clean removes build artifacts, coverage output, and files a local run
// of annotate leaves behind.
func Clean() error {
	for _, path := range []string{binaryDir, coverFile, "processed_data.json", "errors.log"} {
		logf("clean: removing %s", path)
		if err := sh.Rm(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	logf("clean: done")
	return nil
}

// --- Test targets ---

// Unit runs go test on all packages.
func (Test) Unit() error {
	return sh.RunV("go", "test", "./...")
}

// Cover runs the unit tests with a coverage profile and prints the
// per-function summary.
func (Test) Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile="+coverFile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverFile)
}
