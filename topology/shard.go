// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

import "fmt"

// State represents where a shard replica is in its allocation lifecycle.
//
//	UNASSIGNED --allocate--> INITIALIZING --start--> STARTED --relocateOut--> RELOCATING
//	     ^                       |                      ^                          |
//	     +----------fail/cancel--+                      +---------relocateDone-----+
//
// Only STARTED and RELOCATING are active. Only non-UNASSIGNED replicas have
// a currentNodeId. Transitions are authored by the cluster-state publisher;
// this package only reports state, it never drives the transitions.
type State int8

const (
	// UNASSIGNED is the initial state: no node has been assigned.
	UNASSIGNED State = iota
	// INITIALIZING means a node has been assigned and is recovering data.
	INITIALIZING
	// STARTED means the replica is serving reads. Active.
	STARTED
	// RELOCATING means the replica is serving reads while moving to another
	// node. Active.
	RELOCATING
)

func (s State) String() string {
	switch s {
	case UNASSIGNED:
		return "UNASSIGNED"
	case INITIALIZING:
		return "INITIALIZING"
	case STARTED:
		return "STARTED"
	case RELOCATING:
		return "RELOCATING"
	default:
		return fmt.Sprintf("State(%d)", int8(s))
	}
}

// Active reports whether the state admits reads.
func (s State) Active() bool {
	return s == STARTED || s == RELOCATING
}

// ShardId identifies one shard of one index. Equality and use as a map key
// are structural: two ShardIds with the same IndexName and ShardNum are the
// same shard.
type ShardId struct {
	IndexName string
	ShardNum  uint64
}

// NewShardId returns a ShardId for the given index and shard number.
func NewShardId(indexName string, shardNum uint64) ShardId {
	return ShardId{IndexName: indexName, ShardNum: shardNum}
}

func (s ShardId) String() string {
	return fmt.Sprintf("%s/%d", s.IndexName, s.ShardNum)
}

// ShardRouting describes one replica (primary or otherwise) of one shard.
type ShardRouting struct {
	ShardId ShardId

	// Primary is true for exactly one entry per fully allocated shard
	// group.
	Primary bool

	// CurrentNodeId is the node this replica is assigned to. Empty iff
	// State == UNASSIGNED.
	CurrentNodeId string

	// RelocatingNodeId is the destination node while State == RELOCATING.
	// Empty otherwise.
	RelocatingNodeId string

	State State

	// Version is a monotonic epoch assigned by the cluster-state
	// publisher. Not interpreted by this package beyond NormalizeVersions.
	Version uint64

	// AllocationId is an opaque identifier correlating this routing entry
	// with the underlying on-disk allocation. May be empty.
	AllocationId string
}

// NewUnassignedShardRouting returns a ShardRouting for shard id, not yet
// assigned to any node.
func NewUnassignedShardRouting(shardId ShardId, primary bool) ShardRouting {
	return ShardRouting{
		ShardId: shardId,
		Primary: primary,
		State:   UNASSIGNED,
	}
}

// Active reports whether this replica's state admits reads.
func (r ShardRouting) Active() bool {
	return r.State.Active()
}

// AssignedToNode reports whether this replica currently has a node.
func (r ShardRouting) AssignedToNode() bool {
	return r.CurrentNodeId != ""
}

// withVersion returns a copy of r with Version set to v. Used by
// NormalizeVersions, which never mutates an existing ShardRouting (the
// owning table is observationally immutable once built).
func (r ShardRouting) withVersion(v uint64) ShardRouting {
	r.Version = v
	return r
}

func (r ShardRouting) String() string {
	node := r.CurrentNodeId
	if node == "" {
		node = "<unassigned>"
	}
	primary := ""
	if r.Primary {
		primary = " primary"
	}
	return fmt.Sprintf("%s[%s%s @%s v%d]", r.ShardId, r.State, primary, node, r.Version)
}
