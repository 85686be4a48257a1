// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology_test

import "github.com/latticedb/shardrouter/topology"

// entry is a terse way to describe a ShardRouting in test tables.
type entry struct {
	primary bool
	node    string
	state   topology.State
	version uint64
}

func (e entry) build(id topology.ShardId) topology.ShardRouting {
	sr := topology.NewUnassignedShardRouting(id, e.primary)
	sr.CurrentNodeId = e.node
	sr.State = e.state
	sr.Version = e.version
	if e.state == topology.RELOCATING {
		sr.RelocatingNodeId = e.node + "-dst"
	}
	return sr
}

func mustBuild(t interface{ Fatalf(string, ...interface{}) }, id topology.ShardId, entries ...entry) *topology.IndexShardRoutingTable {
	b := topology.NewBuilder(id)
	for _, e := range entries {
		b.AddShard(e.build(id))
	}
	table, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return table
}

func nodeNames(shards []topology.ShardRouting) []string {
	out := make([]string, len(shards))
	for i, sr := range shards {
		out[i] = sr.CurrentNodeId
	}
	return out
}
