// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology_test

import (
	"testing"

	"github.com/latticedb/shardrouter/errors"
	"github.com/latticedb/shardrouter/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build_Empty(t *testing.T) {
	id := topology.NewShardId("events", 0)
	table, err := topology.NewBuilder(id).Build()
	require.NoError(t, err)

	assert.Equal(t, 0, table.Size())
	assert.Nil(t, table.PrimaryShard())
	assert.Empty(t, table.ActiveShards())
	assert.Empty(t, table.AssignedShards())
}

func TestBuilder_Build_CalledTwice(t *testing.T) {
	id := topology.NewShardId("events", 0)
	b := topology.NewBuilder(id)
	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, topology.CodeBuilderSpent))
}

func TestBuilder_AddShard_DuplicateNodeDropped(t *testing.T) {
	id := topology.NewShardId("events", 0)
	table := mustBuild(t, id,
		entry{primary: true, node: "node-1", state: topology.STARTED},
		entry{primary: false, node: "node-1", state: topology.STARTED},
	)

	assert.Equal(t, 1, table.Size())
	assert.True(t, table.PrimaryShard().Primary)
}

func TestBuilder_RemoveShard(t *testing.T) {
	id := topology.NewShardId("events", 0)
	sr := topology.NewUnassignedShardRouting(id, true)
	sr.CurrentNodeId = "node-1"
	sr.State = topology.STARTED

	b := topology.NewBuilder(id)
	b.AddShard(sr)
	b.RemoveShard(sr)
	table, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 0, table.Size())
}

func TestBuilder_Build_ForcesAllocatedPostApi(t *testing.T) {
	id := topology.NewShardId("events", 0)
	table := mustBuild(t, id, entry{primary: true, node: "node-1", state: topology.STARTED})
	assert.True(t, table.AllocatedPostApi())
}

func TestBuilder_BuildAndNormalize(t *testing.T) {
	id := topology.NewShardId("events", 0)
	b := topology.NewBuilder(id)
	e1 := entry{primary: true, node: "node-1", state: topology.STARTED, version: 5}.build(id)
	e2 := entry{primary: false, node: "node-2", state: topology.STARTED, version: 3}.build(id)
	b.AddShard(e1)
	b.AddShard(e2)

	table, err := b.BuildAndNormalize()
	require.NoError(t, err)
	for _, sr := range table.Shards() {
		assert.Equal(t, uint64(5), sr.Version)
	}
}
