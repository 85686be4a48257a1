// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/latticedb/shardrouter/logger"
)

func init() {
	rand.Seed(time.Now().UTC().UnixNano())
}

// IndexShardRoutingTable is one instance per (index, shardNumber): an
// observationally immutable grouping of every replica of that shard, plus
// the precomputed subsequences and caches the iterator policies need.
//
// Once built, every field but counter and cache is fixed for the lifetime of
// the instance; readers never need to synchronize to read
// Shards/PrimaryShard/ActiveShards/AssignedShards. counter admits lock-free
// fetch-and-increment; cache (the attribute-group cache) follows copy-on-write
// under cacheMu, published through an atomic.Value so readers never take a
// lock.
type IndexShardRoutingTable struct {
	shardId ShardId

	shards         []ShardRouting
	primary        *ShardRouting
	replicas       []ShardRouting
	activeShards   []ShardRouting
	assignedShards []ShardRouting

	allocatedPostApi bool

	counter int64 // atomic; seeded uniformly at random in [0, len(shards))

	cacheMu sync.Mutex
	cache   atomic.Value // holds map[string]AttributesRoutings, never mutated in place

	log logger.Logger
}

// ShardId returns the (index, shard number) this table describes.
func (t *IndexShardRoutingTable) ShardId() ShardId { return t.shardId }

// Size returns the number of replicas in the group.
func (t *IndexShardRoutingTable) Size() int { return len(t.shards) }

// Shards returns all replicas, in Builder insertion order.
func (t *IndexShardRoutingTable) Shards() []ShardRouting { return t.shards }

// PrimaryShard returns the primary replica, or nil if none is present (an
// under-allocated or empty shard group).
func (t *IndexShardRoutingTable) PrimaryShard() *ShardRouting { return t.primary }

// ReplicaShards returns every non-primary replica, in Shards() order.
func (t *IndexShardRoutingTable) ReplicaShards() []ShardRouting { return t.replicas }

// ActiveShards returns every replica in an active state (STARTED or
// RELOCATING), in Shards() order.
func (t *IndexShardRoutingTable) ActiveShards() []ShardRouting { return t.activeShards }

// AssignedShards returns every replica assigned to a node, in Shards() order.
func (t *IndexShardRoutingTable) AssignedShards() []ShardRouting { return t.assignedShards }

// AllocatedPostApi reports whether any primary in this shard's lineage has
// ever become active. Sticky once true; enforced by Builder.
func (t *IndexShardRoutingTable) AllocatedPostApi() bool { return t.allocatedPostApi }

// CountWithState returns the number of replicas in the given state.
func (t *IndexShardRoutingTable) CountWithState(state State) int {
	n := 0
	for _, sr := range t.shards {
		if sr.State == state {
			n++
		}
	}
	return n
}

// ShardsWithState returns every replica whose state is one of states, in
// Shards() order.
func (t *IndexShardRoutingTable) ShardsWithState(states ...State) []ShardRouting {
	var out []ShardRouting
	for _, sr := range t.shards {
		for _, s := range states {
			if sr.State == s {
				out = append(out, sr)
				break
			}
		}
	}
	return out
}

// ShardsMatchingNode returns every replica (from the full Shards() list, not
// just AssignedShards) currently assigned to nodeID, preserving Shards()
// order. It's the read-only query OnlyNodeActiveShardsIt is built on, and is
// exposed directly as public API since "what does this host own" is a
// useful query in its own right, not just an iterator internal.
func (t *IndexShardRoutingTable) ShardsMatchingNode(nodeID string) []ShardRouting {
	var out []ShardRouting
	for _, sr := range t.shards {
		if sr.CurrentNodeId == nodeID {
			out = append(out, sr)
		}
	}
	return out
}

// NormalizeVersions returns a table logically identical to t except that
// every replica's Version is raised to the maximum Version present. If t has
// at most one shard, or all versions already agree, t itself is returned
// (identity) rather than a needless copy.
func (t *IndexShardRoutingTable) NormalizeVersions() *IndexShardRoutingTable {
	if len(t.shards) <= 1 {
		return t
	}

	var max uint64
	allEqual := true
	for i, sr := range t.shards {
		if sr.Version > max {
			max = sr.Version
		}
		if i > 0 && sr.Version != t.shards[0].Version {
			allEqual = false
		}
	}
	if allEqual {
		return t
	}

	normalized := make([]ShardRouting, len(t.shards))
	changed := false
	for i, sr := range t.shards {
		if sr.Version == max {
			normalized[i] = sr
		} else {
			normalized[i] = sr.withVersion(max)
			changed = true
		}
	}
	if !changed {
		return t
	}

	b := NewBuilder(t.shardId)
	b.allocatedPostApi = t.allocatedPostApi
	b.SetLogger(t.log)
	for _, sr := range normalized {
		b.AddShard(sr)
	}
	out, _ := b.Build()
	return out
}

// nextRotation is the randomized-start primitive behind every *RandomIt
// policy: it increments the table's counter exactly once and returns a
// non-negative index usable to rotate a sequence of length n. The value fed
// to modulo is taken as an absolute value first, to tolerate signed
// wraparound of the underlying counter.
func (t *IndexShardRoutingTable) nextRotation(n int) int {
	if n == 0 {
		return 0
	}
	v := atomic.AddInt64(&t.counter, 1) - 1
	return absMod(v, n)
}

func absMod(v int64, n int) int {
	if v < 0 {
		v = -v
	}
	return int(v % int64(n))
}

func seedCounter(n int) int64 {
	if n <= 0 {
		return 0
	}
	return int64(rand.Intn(n))
}

// attributeRoutings returns the AttributesRoutings for key, computing and
// publishing it on a cache miss. Reads take no lock (single atomic.Value
// load); writes take cacheMu, recheck, and publish a whole new map — cache
// entries are never mutated once inserted.
func (t *IndexShardRoutingTable) attributeRoutings(key AttributesKey, local *Node, lookup NodeLookup) AttributesRoutings {
	if m, ok := t.cache.Load().(map[string]AttributesRoutings); ok {
		if ar, ok := m[key.String()]; ok {
			return ar
		}
	}

	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()

	// Re-check: another writer may have published this key while we
	// waited for the lock.
	old, _ := t.cache.Load().(map[string]AttributesRoutings)
	if ar, ok := old[key.String()]; ok {
		return ar
	}

	if metricsEnabled {
		attributeCacheMisses.WithLabelValues(t.shardId.IndexName).Inc()
	}
	if t.log != nil {
		t.log.Debugf("routing: attribute cache miss for %s key=%s", t.shardId, key)
	}

	ar := groupByAttributes(t.activeShards, key.Names(), local, lookup)

	fresh := make(map[string]AttributesRoutings, len(old)+1)
	for k, v := range old {
		fresh[k] = v
	}
	fresh[key.String()] = ar
	t.cache.Store(fresh)

	return ar
}
