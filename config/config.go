// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package config holds the TOML-backed configuration for shardroutectl: a
// fixed description of a cluster's nodes and one index's shard assignments,
// loaded once and turned into a topology.RoutingSet.
package config

import "github.com/pelletier/go-toml"

// Config is the root configuration object, marshaled to/from TOML.
type Config struct {
	LocalNodeID string       `toml:"local-node-id"`
	Index       IndexConfig  `toml:"index"`
	Nodes       []NodeConfig `toml:"node"`
}

// IndexConfig names the index whose routing table(s) shardroutectl builds
// and describes its shards' replica placement.
type IndexConfig struct {
	Name   string        `toml:"name"`
	Shards []ShardConfig `toml:"shard"`
}

// ShardConfig is one shard's replica list: one entry per replica, in the
// order they should be added to the Builder.
type ShardConfig struct {
	Number   uint64          `toml:"number"`
	Replicas []ReplicaConfig `toml:"replica"`
}

// ReplicaConfig is a single ShardRouting, flattened for TOML.
type ReplicaConfig struct {
	Primary bool   `toml:"primary"`
	NodeID  string `toml:"node-id"`
	State   string `toml:"state"`
	Version uint64 `toml:"version"`
}

// NodeConfig describes one cluster member and its attributes.
type NodeConfig struct {
	ID         string            `toml:"id"`
	Address    string            `toml:"address"`
	Attributes map[string]string `toml:"attributes"`
}

// NewDefault returns a small three-node, two-shard fixture, useful as a
// starting point for a local config file.
func NewDefault() *Config {
	return &Config{
		LocalNodeID: "node-1",
		Index: IndexConfig{
			Name: "events",
			Shards: []ShardConfig{
				{
					Number: 0,
					Replicas: []ReplicaConfig{
						{Primary: true, NodeID: "node-1", State: "STARTED"},
						{Primary: false, NodeID: "node-2", State: "STARTED"},
						{Primary: false, NodeID: "node-3", State: "INITIALIZING"},
					},
				},
				{
					Number: 1,
					Replicas: []ReplicaConfig{
						{Primary: true, NodeID: "node-2", State: "STARTED"},
						{Primary: false, NodeID: "node-3", State: "STARTED"},
					},
				},
			},
		},
		Nodes: []NodeConfig{
			{ID: "node-1", Address: "10.0.0.1:10101", Attributes: map[string]string{"zone": "us-east"}},
			{ID: "node-2", Address: "10.0.0.2:10101", Attributes: map[string]string{"zone": "us-west"}},
			{ID: "node-3", Address: "10.0.0.3:10101", Attributes: map[string]string{"zone": "us-east"}},
		},
	}
}

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	return toml.Marshal(*cfg)
}

// Unmarshal parses TOML bytes into a Config.
func Unmarshal(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
