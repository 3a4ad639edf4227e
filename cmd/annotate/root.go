// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/source-annotator/pkg/annotator"
)

// newRootCmd builds the annotate command. When base is nil the
// configuration comes from ConfigFromEnv; tests pass their own. Elapsed
// time in the completion log line is measured from start.
func newRootCmd(base *annotator.Config, start time.Time) *cobra.Command {
	return &cobra.Command{
		Use:   "annotate",
		Short: "Wrap a JSON document from stdin with its top-level element count",
		Long: `annotate reads one JSON document from standard input and prints

  {"source_count": <n>, "processed_data": <document>}

where n is the number of top-level array elements (0 for any other value).
The same document is written to processed_data.json in the working
directory. Error-level log lines are appended to errors.log.

Set ANNOTATE_CONFIG to a YAML file to change log_level, log_format,
or indent.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cfgErr := loadConfig(base)

			log := annotator.NewLogger(cfg, cmd.ErrOrStderr())
			defer log.Close()

			if cfgErr != nil {
				log.Error("invalid configuration", "env", annotator.ConfigEnv, "error", cfgErr)
				return cfgErr
			}

			_, err := annotator.New(cfg, log.Logger).Since(start).Run(cmd.InOrStdin(), cmd.OutOrStdout())
			return err
		},
	}
}

// loadConfig returns base when set, otherwise the environment config.
// On failure it still returns defaults so the error can be logged.
func loadConfig(base *annotator.Config) (annotator.Config, error) {
	if base != nil {
		return *base, nil
	}
	cfg, err := annotator.ConfigFromEnv()
	if err != nil {
		return annotator.DefaultConfig(), err
	}
	return cfg, nil
}
