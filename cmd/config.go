// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"

	"github.com/latticedb/shardrouter/config"
	"github.com/spf13/cobra"
)

// newConfigCommand returns a command that prints a default, fully populated
// cluster config, handing back a filled-in fixture rather than an empty
// shell.
func newConfigCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print a default cluster config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(config.NewDefault())
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, string(data))
			return nil
		},
	}
}
