// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package config_test

import (
	"testing"

	"github.com/latticedb/shardrouter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_MarshalUnmarshalRoundTrip(t *testing.T) {
	cfg := config.NewDefault()

	data, err := config.Marshal(cfg)
	require.NoError(t, err)

	got, err := config.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestBuildNodeSet(t *testing.T) {
	cfg := config.NewDefault()

	nodes, err := config.BuildNodeSet(cfg)
	require.NoError(t, err)

	assert.NotNil(t, nodes.Local())
	assert.Equal(t, "node-1", nodes.Local().ID)
	assert.NotNil(t, nodes.ByID("node-2"))
	zone, ok := nodes.ByID("node-2").Attribute("zone")
	assert.True(t, ok)
	assert.Equal(t, "us-west", zone)
}

func TestBuildRoutingSet(t *testing.T) {
	cfg := config.NewDefault()

	rs, err := config.BuildRoutingSet(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, rs.NumShards())

	shard0 := rs.Table(0)
	require.NotNil(t, shard0)
	assert.Equal(t, 3, shard0.Size())
	require.NotNil(t, shard0.PrimaryShard())
	assert.Equal(t, "node-1", shard0.PrimaryShard().CurrentNodeId)
}

func TestBuildRoutingSet_UnknownState(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Index.Shards[0].Replicas[0].State = "BOGUS"

	_, err := config.BuildRoutingSet(cfg)
	assert.Error(t, err)
}
