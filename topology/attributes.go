// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

import "strings"

// AttributesKey is the ordered tuple of attribute names used as a cache key
// for preferAttributesActiveShardsIt groupings. Equality is element-wise over
// the ordered name sequence. Go maps require comparable/hashable keys, so the
// tuple is interned into a single string (names can't themselves contain the
// separator byte, which is fine since attribute names come from cluster
// configuration, not user input).
type AttributesKey struct {
	names []string
	key   string
}

// NewAttributesKey builds an AttributesKey from an ordered list of attribute
// names. The order matters: ("rack", "zone") and ("zone", "rack") are
// different keys — it's an ordered tuple, not a set.
func NewAttributesKey(names ...string) AttributesKey {
	cp := make([]string, len(names))
	copy(cp, names)
	return AttributesKey{
		names: cp,
		key:   strings.Join(cp, "\x00"),
	}
}

// Names returns the attribute names in this key, in order.
func (k AttributesKey) Names() []string {
	return k.names
}

func (k AttributesKey) String() string {
	return k.key
}

// AttributesRoutings partitions a table's activeShards relative to one local
// node's attribute values: shards whose assigned node shares the requested
// attributes with the local node, and shards that don't.
type AttributesRoutings struct {
	WithSameAttribute    []ShardRouting
	WithoutSameAttribute []ShardRouting
	TotalSize            int
}

func newAttributesRoutings(withSame, withoutSame []ShardRouting) AttributesRoutings {
	return AttributesRoutings{
		WithSameAttribute:    withSame,
		WithoutSameAttribute: withoutSame,
		TotalSize:            len(withSame) + len(withoutSame),
	}
}

// groupByAttributes implements the cache-miss path of
// PreferAttributesActiveShardsIt: starting from all of
// activeShards, for each attribute name (in order) move every shard whose
// assigned node shares that attribute's value with the local node from "from"
// into "to". Attributes absent on the local node are skipped entirely.
func groupByAttributes(activeShards []ShardRouting, attrs []string, local *Node, lookup NodeLookup) AttributesRoutings {
	from := make([]ShardRouting, len(activeShards))
	copy(from, activeShards)
	var to []ShardRouting

	for _, a := range attrs {
		if local == nil {
			break
		}
		v, ok := local.Attribute(a)
		if !ok {
			continue
		}

		var stillFrom []ShardRouting
		for _, sr := range from {
			if nodeHasAttribute(sr, a, v, lookup) {
				to = append(to, sr)
			} else {
				stillFrom = append(stillFrom, sr)
			}
		}
		from = stillFrom
	}

	return newAttributesRoutings(to, from)
}

func nodeHasAttribute(sr ShardRouting, attr, value string, lookup NodeLookup) bool {
	if !sr.AssignedToNode() || lookup == nil {
		return false
	}
	n := lookup.ByID(sr.CurrentNodeId)
	if n == nil {
		return false
	}
	v, ok := n.Attribute(attr)
	return ok && v == value
}
