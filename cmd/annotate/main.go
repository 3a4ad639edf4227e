// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command annotate reads a JSON document from standard input and prints it
// wrapped with the number of its top-level array elements. The result is
// also written to processed_data.json; errors are appended to errors.log.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mesh-intelligence/source-annotator/pkg/annotator"
)

func main() {
	start := time.Now()
	cmd := newRootCmd(nil, start)
	if err := cmd.Execute(); err != nil {
		code := annotator.ExitCode(err)
		// Pipeline errors are already logged; usage errors are not.
		if code == annotator.ExitFailure {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(code)
	}
}
