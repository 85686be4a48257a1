// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"

	"github.com/latticedb/shardrouter/config"
	pnet "github.com/latticedb/shardrouter/net"
	"github.com/spf13/cobra"
)

// newNodesCommand returns a command that lists the cluster's nodes and the
// addresses they'd be dialed at.
func newNodesCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var filter pnet.URI

	c := &cobra.Command{
		Use:   "nodes",
		Short: "List the cluster's nodes and their dial addresses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			nodes, err := config.BuildNodeSet(cfg)
			if err != nil {
				return err
			}

			filtering := cmd.Flags().Changed("address")
			for _, n := range nodes.All() {
				if n.Address == nil {
					fmt.Fprintf(stdout, "%-12s  (no address)\n", n.ID)
					continue
				}
				if filtering && !n.Address.Equals(&filter) {
					continue
				}
				fmt.Fprintf(stdout, "%-12s  %-21s  %-26s  status: %s\n",
					n.ID, n.Address.HostPort(), n.Address.Normalize(), n.Address.Path("/status"))
			}
			return nil
		},
	}
	c.Flags().Var(&filter, "address", "Only show the node whose address equals this one (scheme://host:port).")
	return c
}
