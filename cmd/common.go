// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"os"

	"github.com/latticedb/shardrouter/config"
	"github.com/latticedb/shardrouter/logger"
	"github.com/spf13/cobra"
)

// loadConfig reads the --config flag (falling back to config.NewDefault
// when it's unset) and returns the parsed Config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.NewDefault(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return config.Unmarshal(data)
}

// resolveLogger reads the --log-file flag and returns a Logger writing
// there, or logger.NopLogger if the flag is unset. The returned *os.File
// underlying the writer is intentionally left open for the life of the
// process; shardroutectl is a one-shot CLI with no shutdown hook to close it
// from.
func resolveLogger(cmd *cobra.Command) (logger.Logger, error) {
	path, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return logger.NopLogger, nil
	}
	fw, err := logger.NewFileWriter(path)
	if err != nil {
		return nil, err
	}
	return logger.NewVerboseLogger(fw), nil
}
