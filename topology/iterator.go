// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

// ShardIterator is a single-pass cursor over a materialized ordered sequence
// of ShardRouting. It holds the ordered slice itself, not a reference to the
// table that produced it (the identity-order policies hand it the table's
// own immutable slice; the others build a fresh one), so an iterator remains
// valid (and independently consumable) even after its parent table is no
// longer referenced elsewhere.
// Restart is not supported; construct a new iterator for another pass.
type ShardIterator struct {
	shardId ShardId
	seq     []ShardRouting
	pos     int
}

func newShardIterator(shardId ShardId, seq []ShardRouting) *ShardIterator {
	return &ShardIterator{shardId: shardId, seq: seq}
}

// ShardId returns the shard this iterator was built for.
func (it *ShardIterator) ShardId() ShardId { return it.shardId }

// Remaining returns how many elements Next() will still yield.
func (it *ShardIterator) Remaining() int {
	if it.pos >= len(it.seq) {
		return 0
	}
	return len(it.seq) - it.pos
}

// Next returns the next ShardRouting, or (ShardRouting{}, false) once the
// iterator is exhausted. Not an error: an iterator over an empty sequence
// simply never returns true.
func (it *ShardIterator) Next() (ShardRouting, bool) {
	if it.pos >= len(it.seq) {
		return ShardRouting{}, false
	}
	sr := it.seq[it.pos]
	it.pos++
	return sr, true
}

// Drain consumes the rest of the iterator into a slice. Convenience for
// tests and callers that want the whole ordering rather than stepping it.
func (it *ShardIterator) Drain() []ShardRouting {
	out := make([]ShardRouting, 0, it.Remaining())
	for {
		sr, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, sr)
	}
	return out
}

// rotate returns a new slice containing seq rotated left by k positions:
// rotate(seq, k)[i] == seq[(k+i) mod n]. k may be any int (including
// negative or >= n); it's normalized by absMod first.
func rotate(seq []ShardRouting, k int) []ShardRouting {
	n := len(seq)
	if n == 0 {
		return nil
	}
	k = absMod(int64(k), n)
	out := make([]ShardRouting, n)
	for i := 0; i < n; i++ {
		out[i] = seq[(k+i)%n]
	}
	return out
}

// swapToFront swaps element 0 with the first element (at position >= 1, or
// position 0 itself if it already matches) satisfying match, if any. It's a
// single swap, not a shift: positions 1..n-1 retain their post-rotation order
// except that the former position-0 element now occupies the swapped slot.
func swapToFront(seq []ShardRouting, match func(ShardRouting) bool) []ShardRouting {
	if len(seq) == 0 {
		return seq
	}
	if match(seq[0]) {
		return seq
	}
	for i := 1; i < len(seq); i++ {
		if match(seq[i]) {
			seq[0], seq[i] = seq[i], seq[0]
			break
		}
	}
	return seq
}

func byNode(nodeID string) func(ShardRouting) bool {
	return func(sr ShardRouting) bool { return sr.CurrentNodeId == nodeID }
}

func byPrimary() func(ShardRouting) bool {
	return func(sr ShardRouting) bool { return sr.Primary }
}

func recordDispatch(policy string) {
	if metricsEnabled {
		iteratorDispatches.WithLabelValues(policy).Inc()
	}
}

// ShardsIt returns an iterator over all replicas in Shards() order.
func (t *IndexShardRoutingTable) ShardsIt() *ShardIterator {
	recordDispatch("shards")
	return newShardIterator(t.shardId, t.shards)
}

// ShardsItFrom returns an iterator over all replicas rotated to start at
// index i.
func (t *IndexShardRoutingTable) ShardsItFrom(i int) *ShardIterator {
	recordDispatch("shards_from")
	return newShardIterator(t.shardId, rotate(t.shards, i))
}

// ShardsRandomIt returns an iterator over all replicas rotated to a random
// start, advancing the table's counter exactly once.
func (t *IndexShardRoutingTable) ShardsRandomIt() *ShardIterator {
	recordDispatch("shards_random")
	k := t.nextRotation(len(t.shards))
	return newShardIterator(t.shardId, rotate(t.shards, k))
}

// ActiveShardsIt returns an iterator over ActiveShards() in order.
func (t *IndexShardRoutingTable) ActiveShardsIt() *ShardIterator {
	recordDispatch("active")
	return newShardIterator(t.shardId, t.activeShards)
}

// ActiveShardsItFrom returns an iterator over ActiveShards() rotated to
// start at index i.
func (t *IndexShardRoutingTable) ActiveShardsItFrom(i int) *ShardIterator {
	recordDispatch("active_from")
	return newShardIterator(t.shardId, rotate(t.activeShards, i))
}

// ActiveShardsRandomIt returns an iterator over ActiveShards() rotated to a
// random start, advancing the table's counter exactly once.
func (t *IndexShardRoutingTable) ActiveShardsRandomIt() *ShardIterator {
	recordDispatch("active_random")
	k := t.nextRotation(len(t.activeShards))
	return newShardIterator(t.shardId, rotate(t.activeShards, k))
}

// AssignedShardsIt returns an iterator over AssignedShards() in order.
func (t *IndexShardRoutingTable) AssignedShardsIt() *ShardIterator {
	recordDispatch("assigned")
	return newShardIterator(t.shardId, t.assignedShards)
}

// AssignedShardsItFrom returns an iterator over AssignedShards() rotated to
// start at index i.
func (t *IndexShardRoutingTable) AssignedShardsItFrom(i int) *ShardIterator {
	recordDispatch("assigned_from")
	return newShardIterator(t.shardId, rotate(t.assignedShards, i))
}

// AssignedShardsRandomIt returns an iterator over AssignedShards() rotated
// to a random start, advancing the table's counter exactly once.
func (t *IndexShardRoutingTable) AssignedShardsRandomIt() *ShardIterator {
	recordDispatch("assigned_random")
	k := t.nextRotation(len(t.assignedShards))
	return newShardIterator(t.shardId, rotate(t.assignedShards, k))
}

// PrimaryShardIt returns an iterator yielding just the primary, or nothing
// if there is none.
func (t *IndexShardRoutingTable) PrimaryShardIt() *ShardIterator {
	recordDispatch("primary")
	if t.primary == nil {
		return newShardIterator(t.shardId, nil)
	}
	return newShardIterator(t.shardId, []ShardRouting{*t.primary})
}

// PrimaryFirstActiveShardsIt rotates ActiveShards() to a random start (one
// counter increment) and then swaps the primary (if it's among the active
// shards) into position 0.
func (t *IndexShardRoutingTable) PrimaryFirstActiveShardsIt() *ShardIterator {
	recordDispatch("primary_first_active")
	k := t.nextRotation(len(t.activeShards))
	seq := rotate(t.activeShards, k)
	seq = swapToFront(seq, byPrimary())
	return newShardIterator(t.shardId, seq)
}

// PreferNodeShardsIt rotates Shards() to a random start (one counter
// increment) and swaps a replica assigned to nodeID into position 0, if one
// exists in the source sequence.
func (t *IndexShardRoutingTable) PreferNodeShardsIt(nodeID string) *ShardIterator {
	recordDispatch("prefer_node")
	k := t.nextRotation(len(t.shards))
	seq := rotate(t.shards, k)
	seq = swapToFront(seq, byNode(nodeID))
	return newShardIterator(t.shardId, seq)
}

// PreferNodeActiveShardsIt is PreferNodeShardsIt over ActiveShards().
func (t *IndexShardRoutingTable) PreferNodeActiveShardsIt(nodeID string) *ShardIterator {
	recordDispatch("prefer_node_active")
	k := t.nextRotation(len(t.activeShards))
	seq := rotate(t.activeShards, k)
	seq = swapToFront(seq, byNode(nodeID))
	return newShardIterator(t.shardId, seq)
}

// PreferNodeAssignedShardsIt is PreferNodeShardsIt over AssignedShards().
func (t *IndexShardRoutingTable) PreferNodeAssignedShardsIt(nodeID string) *ShardIterator {
	recordDispatch("prefer_node_assigned")
	k := t.nextRotation(len(t.assignedShards))
	seq := rotate(t.assignedShards, k)
	seq = swapToFront(seq, byNode(nodeID))
	return newShardIterator(t.shardId, seq)
}

// OnlyNodeActiveShardsIt returns the replicas assigned to nodeID, preserving
// Shards() order. Note: this filters the FULL Shards() list, not
// ActiveShards(), despite the "Active" in its name — this mismatch is
// intentional and preserved on purpose; see
// TestOnlyNodeActiveShardsIt_FiltersAllShards.
func (t *IndexShardRoutingTable) OnlyNodeActiveShardsIt(nodeID string) *ShardIterator {
	recordDispatch("only_node_active")
	return newShardIterator(t.shardId, t.ShardsMatchingNode(nodeID))
}

// PreferAttributesActiveShardsIt groups ActiveShards() by whether the
// assigned node shares attrs with local (via lookup), using a cache keyed by
// the attribute names alone (AttributesKey). withSameAttribute and
// withoutSameAttribute are each rotated independently by the SAME index —
// computed once from the table's counter if idx is omitted, or taken
// directly from idx[0] if provided — and never interleaved: every shard in
// the rotated withSameAttribute sequence precedes every shard in the rotated
// withoutSameAttribute sequence (P5).
func (t *IndexShardRoutingTable) PreferAttributesActiveShardsIt(attrs []string, local *Node, lookup NodeLookup, idx ...int) *ShardIterator {
	recordDispatch("prefer_attributes_active")
	key := NewAttributesKey(attrs...)
	ar := t.attributeRoutings(key, local, lookup)

	var k int
	if len(idx) > 0 {
		k = idx[0]
	} else {
		k = t.nextRotation(len(t.activeShards))
	}

	seq := make([]ShardRouting, 0, ar.TotalSize)
	seq = append(seq, rotate(ar.WithSameAttribute, k)...)
	seq = append(seq, rotate(ar.WithoutSameAttribute, k)...)
	return newShardIterator(t.shardId, seq)
}
