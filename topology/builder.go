// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

import (
	"github.com/latticedb/shardrouter/logger"
)

// Builder accumulates ShardRouting entries for a single shard and produces a
// frozen IndexShardRoutingTable. A Builder is open (accepts AddShard/
// RemoveShard) until Build is called, after which it's spent: call NewBuilder
// again for another table.
type Builder struct {
	shardId          ShardId
	shards           []ShardRouting
	allocatedPostApi bool
	log              logger.Logger
	built            bool
}

// NewBuilder returns an open Builder for shardId.
func NewBuilder(shardId ShardId) *Builder {
	return &Builder{shardId: shardId, log: logger.NopLogger}
}

// SetLogger attaches a logger used for non-fatal Builder diagnostics (the
// silent-duplicate-drop note). Nil resets to a no-op logger.
func (b *Builder) SetLogger(l logger.Logger) {
	if l == nil {
		l = logger.NopLogger
	}
	b.log = l
}

// AllocatedPostApi seeds the allocatedPostApi flag explicitly. Build will
// still force it to true if any primary entry is active, but this lets
// callers carry forward an already-true flag from a prior table in the same
// shard's lineage, since the flag is sticky across builds.
func (b *Builder) AllocatedPostApi(v bool) *Builder {
	b.allocatedPostApi = v
	return b
}

// AddShard appends entry to the group, unless doing so would assign two
// entries to the same node, in which case entry is dropped silently rather
// than returning an error: a duplicate assignment is treated as a no-op
// resubmission, not a conflict.
func (b *Builder) AddShard(entry ShardRouting) *Builder {
	if entry.AssignedToNode() {
		for _, existing := range b.shards {
			if existing.AssignedToNode() && existing.CurrentNodeId == entry.CurrentNodeId {
				b.log.Warnf("routing: dropping duplicate assignment for %s on node %s", b.shardId, entry.CurrentNodeId)
				return b
			}
		}
	}
	b.shards = append(b.shards, entry)
	return b
}

// RemoveShard removes the first entry structurally equal to entry, if any.
func (b *Builder) RemoveShard(entry ShardRouting) *Builder {
	for i, existing := range b.shards {
		if existing == entry {
			b.shards = append(b.shards[:i], b.shards[i+1:]...)
			return b
		}
	}
	return b
}

// Build freezes the accumulated entries into an IndexShardRoutingTable. An
// empty shard list is legal and yields an empty, iterable-but-fruitless
// table. Build may only be called once per Builder.
func (b *Builder) Build() (*IndexShardRoutingTable, error) {
	if b.built {
		return nil, errBuilderAlreadyBuilt
	}
	b.built = true

	for _, sr := range b.shards {
		if sr.Primary && sr.Active() {
			b.allocatedPostApi = true
			break
		}
	}

	t := &IndexShardRoutingTable{
		shardId:          b.shardId,
		shards:           append([]ShardRouting(nil), b.shards...),
		allocatedPostApi: b.allocatedPostApi,
		log:              b.log,
	}

	for _, sr := range t.shards {
		if sr.Primary {
			p := sr
			t.primary = &p
		} else {
			t.replicas = append(t.replicas, sr)
		}
		if sr.Active() {
			t.activeShards = append(t.activeShards, sr)
		}
		if sr.AssignedToNode() {
			t.assignedShards = append(t.assignedShards, sr)
		}
	}

	t.counter = seedCounter(len(t.shards))

	return t, nil
}

// BuildAndNormalize is Build followed by NormalizeVersions, a convenience for
// callers that are merging partial updates into a shard group and want one
// consistent epoch exposed immediately.
func (b *Builder) BuildAndNormalize() (*IndexShardRoutingTable, error) {
	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	return t.NormalizeVersions(), nil
}
