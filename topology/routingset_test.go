// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology_test

import (
	"testing"

	"github.com/latticedb/shardrouter/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingSet_BuildConcurrently(t *testing.T) {
	rs := topology.NewRoutingSet("events")

	byShard := make(map[uint64][]topology.ShardRouting)
	for shard := uint64(0); shard < 8; shard++ {
		id := topology.NewShardId("events", shard)
		sr := topology.NewUnassignedShardRouting(id, true)
		sr.CurrentNodeId = "node-1"
		sr.State = topology.STARTED
		byShard[shard] = []topology.ShardRouting{sr}
	}

	require.NoError(t, rs.BuildConcurrently(byShard))
	assert.Equal(t, 8, rs.NumShards())

	for shard := uint64(0); shard < 8; shard++ {
		table := rs.Table(shard)
		require.NotNil(t, table)
		assert.Equal(t, shard, table.ShardId().ShardNum)
	}

	assert.Len(t, rs.AllActiveShards(), 8)
}

func TestRoutingSet_TableMissing(t *testing.T) {
	rs := topology.NewRoutingSet("events")
	assert.Nil(t, rs.Table(0))
}
