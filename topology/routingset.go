// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

import (
	"sync"

	"github.com/latticedb/shardrouter/logger"
	"golang.org/x/sync/errgroup"
)

// RoutingSet owns every IndexShardRoutingTable for one index: the container
// a cluster-state consumer holds once it's grouped raw ShardRouting entries
// by shard number. It adds nothing to IndexShardRoutingTable's own
// semantics; it only organizes many of them and builds them concurrently.
type RoutingSet struct {
	indexName string
	log       logger.Logger

	mu     sync.RWMutex
	tables map[uint64]*IndexShardRoutingTable
}

// NewRoutingSet returns an empty RoutingSet for indexName.
func NewRoutingSet(indexName string) *RoutingSet {
	return &RoutingSet{indexName: indexName, log: logger.NopLogger, tables: make(map[uint64]*IndexShardRoutingTable)}
}

// SetLogger attaches a logger passed through to every shard's Builder, so
// Builder diagnostics (the silent-duplicate-assignment drop) and the
// attribute-cache-miss trail surface wherever the caller routes this
// RoutingSet's logger to.
func (rs *RoutingSet) SetLogger(l logger.Logger) {
	if l == nil {
		l = logger.NopLogger
	}
	rs.log = l
}

// Table returns the table for shardNum, or nil if it hasn't been built.
func (rs *RoutingSet) Table(shardNum uint64) *IndexShardRoutingTable {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.tables[shardNum]
}

// Set installs t under its own shard number, replacing any existing table
// for that shard.
func (rs *RoutingSet) Set(t *IndexShardRoutingTable) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.tables[t.ShardId().ShardNum] = t
}

// NumShards returns the number of shards with a built table.
func (rs *RoutingSet) NumShards() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.tables)
}

// BuildConcurrently builds one table per entry in byShard (keyed by shard
// number, valued by that shard's accumulated ShardRouting entries) and
// installs each successfully built one into rs. Each shard's Builder.Build
// runs on its own goroutine; every goroutine runs to completion (nothing is
// cancelled on error) and the first error is returned.
func (rs *RoutingSet) BuildConcurrently(byShard map[uint64][]ShardRouting) error {
	var g errgroup.Group
	for shardNum, entries := range byShard {
		shardNum, entries := shardNum, entries
		g.Go(func() error {
			b := NewBuilder(NewShardId(rs.indexName, shardNum))
			b.SetLogger(rs.log)
			for _, sr := range entries {
				b.AddShard(sr)
			}
			t, err := b.BuildAndNormalize()
			if err != nil {
				return err
			}
			rs.Set(t)
			return nil
		})
	}
	return g.Wait()
}

// AllActiveShards returns ActiveShards() from every built table, flattened.
func (rs *RoutingSet) AllActiveShards() []ShardRouting {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	var out []ShardRouting
	for _, t := range rs.tables {
		out = append(out, t.ActiveShards()...)
	}
	return out
}
