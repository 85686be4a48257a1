// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package config

import (
	"strings"

	"github.com/latticedb/shardrouter/errors"
	"github.com/latticedb/shardrouter/logger"
	pnet "github.com/latticedb/shardrouter/net"
	"github.com/latticedb/shardrouter/topology"
)

const CodeUnknownState errors.Code = "UnknownState"

var stateByName = map[string]topology.State{
	"UNASSIGNED":   topology.UNASSIGNED,
	"INITIALIZING": topology.INITIALIZING,
	"STARTED":      topology.STARTED,
	"RELOCATING":   topology.RELOCATING,
}

// BuildNodeSet turns cfg's node list into a topology.NodeSet rooted at
// cfg.LocalNodeID.
func BuildNodeSet(cfg *Config) (*topology.NodeSet, error) {
	nodes := make([]*topology.Node, 0, len(cfg.Nodes))
	for _, nc := range cfg.Nodes {
		var addr *pnet.URI
		if nc.Address != "" {
			a, err := pnet.NewURIFromAddress(nc.Address)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing address for node %s", nc.ID)
			}
			addr = a
		}
		nodes = append(nodes, &topology.Node{
			ID:         nc.ID,
			Address:    addr,
			Attributes: nc.Attributes,
		})
	}
	return topology.NewNodeSet(cfg.LocalNodeID, nodes...), nil
}

// BuildRoutingSet turns cfg.Index into a topology.RoutingSet, one table per
// configured shard, built concurrently. Builder diagnostics are discarded;
// use BuildRoutingSetWithLogger to capture them.
func BuildRoutingSet(cfg *Config) (*topology.RoutingSet, error) {
	return BuildRoutingSetWithLogger(cfg, logger.NopLogger)
}

// BuildRoutingSetWithLogger is BuildRoutingSet, but routes every shard's
// Builder diagnostics (duplicate-assignment warnings, attribute-cache
// activity) through log instead of discarding them.
func BuildRoutingSetWithLogger(cfg *Config, log logger.Logger) (*topology.RoutingSet, error) {
	byShard := make(map[uint64][]topology.ShardRouting, len(cfg.Index.Shards))
	for _, sc := range cfg.Index.Shards {
		id := topology.NewShardId(cfg.Index.Name, sc.Number)
		entries := make([]topology.ShardRouting, 0, len(sc.Replicas))
		for _, rc := range sc.Replicas {
			state, ok := stateByName[strings.ToUpper(rc.State)]
			if !ok {
				return nil, errors.New(CodeUnknownState, "config: unknown replica state "+rc.State)
			}
			sr := topology.NewUnassignedShardRouting(id, rc.Primary)
			sr.State = state
			sr.Version = rc.Version
			if state != topology.UNASSIGNED {
				sr.CurrentNodeId = rc.NodeID
			}
			entries = append(entries, sr)
		}
		byShard[sc.Number] = entries
	}

	rs := topology.NewRoutingSet(cfg.Index.Name)
	rs.SetLogger(log)
	if err := rs.BuildConcurrently(byShard); err != nil {
		return nil, err
	}
	return rs, nil
}
