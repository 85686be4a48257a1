// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package cmd wires shardroutectl's subcommands together. It's a read-only
// demonstration harness over the topology package: load a cluster fixture,
// build its routing tables, and print what each iterator policy would hand
// a caller — there's no server loop here, nothing binds a port.
package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// NewRootCommand returns the shardroutectl root command with all
// subcommands attached.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "shardroutectl",
		Short: "Inspect and exercise a shard routing table from a cluster fixture.",
		Long: `shardroutectl loads a TOML description of a cluster's nodes and one
index's shard placement, builds the corresponding routing tables, and can
print them, wire-encode them, or walk them with any iterator selection
policy.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := bindConfig(v, cmd.Flags()); err != nil {
				return err
			}
			// Copy environment values back onto flags left unset on the
			// command line, since the subcommands read their flags directly.
			var setErr error
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				if setErr == nil && !f.Changed && v.IsSet(f.Name) {
					setErr = cmd.Flags().Set(f.Name, v.GetString(f.Name))
				}
			})
			return setErr
		},
	}
	rc.PersistentFlags().StringP("config", "c", "", "Path to a cluster TOML config file.")
	rc.PersistentFlags().String("log-file", "", "Path to a log file; if set, Builder diagnostics are appended there instead of discarded.")

	rc.AddCommand(newConfigCommand(stdin, stdout, stderr))
	rc.AddCommand(newBuildCommand(stdin, stdout, stderr))
	rc.AddCommand(newIterateCommand(stdin, stdout, stderr))
	rc.AddCommand(newNodesCommand(stdin, stdout, stderr))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// bindConfig binds cmd-line flags to viper and lets environment variables
// (prefixed SHARDROUTECTL_) override defaults, in flag > env > default
// precedence.
func bindConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix("SHARDROUTECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return nil
}
