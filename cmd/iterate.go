// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/latticedb/shardrouter/config"
	"github.com/latticedb/shardrouter/errors"
	"github.com/latticedb/shardrouter/topology"
	"github.com/spf13/cobra"
)

const CodeUnknownPolicy errors.Code = "UnknownIteratorPolicy"

// newIterateCommand returns a command that walks one shard's routing table
// with a chosen selection policy and prints the resulting order.
func newIterateCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var shardNum uint64
	var policy string
	var node string
	var attrs []string

	c := &cobra.Command{
		Use:   "iterate",
		Short: "Walk a shard's routing table with a given iterator policy.",
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
			t := rs.Table(shardNum)
			if t == nil {
				return fmt.Errorf("no table for shard %d", shardNum)
			}

			nodes, err := config.BuildNodeSet(cfg)
			if err != nil {
				return err
			}

			it, err := resolveIterator(t, policy, node, attrs, nodes)
			if err != nil {
				return err
			}

			for {
				sr, ok := it.Next()
				if !ok {
					break
				}
				fmt.Fprintln(stdout, sr)
			}
			return nil
		},
	}

	c.Flags().Uint64Var(&shardNum, "shard", 0, "Shard number to iterate.")
	c.Flags().StringVar(&policy, "policy", "shards", "Iterator policy: shards, shards-random, active, active-random, assigned, assigned-random, primary, primary-first-active, prefer-node, prefer-node-active, prefer-node-assigned, only-node-active, prefer-attributes-active.")
	c.Flags().StringVar(&node, "node", "", "Node id for prefer-node*/only-node-active policies.")
	c.Flags().StringSliceVar(&attrs, "attr", nil, "Attribute name(s) for prefer-attributes-active, in order.")
	return c
}

func resolveIterator(t *topology.IndexShardRoutingTable, policy, node string, attrs []string, nodes *topology.NodeSet) (*topology.ShardIterator, error) {
	switch strings.ToLower(policy) {
	case "shards":
		return t.ShardsIt(), nil
	case "shards-random":
		return t.ShardsRandomIt(), nil
	case "active":
		return t.ActiveShardsIt(), nil
	case "active-random":
		return t.ActiveShardsRandomIt(), nil
	case "assigned":
		return t.AssignedShardsIt(), nil
	case "assigned-random":
		return t.AssignedShardsRandomIt(), nil
	case "primary":
		return t.PrimaryShardIt(), nil
	case "primary-first-active":
		return t.PrimaryFirstActiveShardsIt(), nil
	case "prefer-node":
		return t.PreferNodeShardsIt(node), nil
	case "prefer-node-active":
		return t.PreferNodeActiveShardsIt(node), nil
	case "prefer-node-assigned":
		return t.PreferNodeAssignedShardsIt(node), nil
	case "only-node-active":
		return t.OnlyNodeActiveShardsIt(node), nil
	case "prefer-attributes-active":
		return t.PreferAttributesActiveShardsIt(attrs, nodes.Local(), nodes), nil
	default:
		return nil, errors.New(CodeUnknownPolicy, "iterate: unknown policy "+policy)
	}
}
