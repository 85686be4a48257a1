// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/latticedb/shardrouter/config"
	"github.com/latticedb/shardrouter/topology"
	"github.com/spf13/cobra"
)

// newBuildCommand returns a command that builds every shard's routing
// table from the loaded config and prints, for each shard, a summary line,
// one line per replica, and a line with its fat-encoded wire bytes.
func newBuildCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build routing tables from a cluster config and print them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := resolveLogger(cmd)
			if err != nil {
				return err
			}
			rs, err := config.BuildRoutingSetWithLogger(cfg, log)
			if err != nil {
				return err
			}

			shards := make([]uint64, 0, len(cfg.Index.Shards))
			for _, sc := range cfg.Index.Shards {
				shards = append(shards, sc.Number)
			}
			sort.Slice(shards, func(i, j int) bool { return shards[i] < shards[j] })

			for _, shardNum := range shards {
				t := rs.Table(shardNum)
				printTableSummary(stdout, t)
				wire := topology.EncodeFat(t)
				fmt.Fprintf(stdout, "  wire: %s\n", hex.EncodeToString(wire))
			}
			return nil
		},
	}
}

func printTableSummary(w io.Writer, t *topology.IndexShardRoutingTable) {
	fmt.Fprintf(w, "%s (size=%d, active=%d, assigned=%d, allocatedPostApi=%v)\n",
		t.ShardId(), t.Size(), len(t.ActiveShards()), len(t.AssignedShards()), t.AllocatedPostApi())
	for _, sr := range t.Shards() {
		fmt.Fprintf(w, "  %s\n", sr)
	}
}
