// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

import (
	"sort"

	pnet "github.com/latticedb/shardrouter/net"
)

// Node is a member of the cluster, as seen by the routing layer. Only ID and
// Attributes are used by the routing algorithms themselves; Address is kept
// for callers (the CLI, tests) that want to print or dial a node.
type Node struct {
	ID         string
	Address    *pnet.URI
	Attributes map[string]string
}

// Attribute returns the value of attribute name and whether it was present.
// Absence of an attribute is distinct from an empty-string value: both are
// representable, and preferAttributesActiveShardsIt only compares present
// values.
func (n *Node) Attribute(name string) (string, bool) {
	if n == nil || n.Attributes == nil {
		return "", false
	}
	v, ok := n.Attributes[name]
	return v, ok
}

// Nodes is a sortable slice of *Node, sorted by ID.
type Nodes []*Node

func (n Nodes) Len() int           { return len(n) }
func (n Nodes) Less(i, j int) bool { return n[i].ID < n[j].ID }
func (n Nodes) Swap(i, j int)      { n[i], n[j] = n[j], n[i] }

// ByID is an alias for Nodes kept for call-site clarity at sort.Sort/
// sort.Stable call sites.
type ByID = Nodes

// SortByID sorts nodes in place by ID.
func SortByID(nodes []*Node) {
	sort.Sort(Nodes(nodes))
}

// NodeLookup is a handle to the cluster's node membership: something that
// can resolve a node ID to its attributes and report which node is "local"
// for the purposes of PreferAttributesActiveShardsIt.
type NodeLookup interface {
	// Local returns the local node, or nil if unknown.
	Local() *Node
	// ByID returns the node with the given ID, or nil if unknown.
	ByID(id string) *Node
}

// NodeSet is a simple in-memory NodeLookup backed by a map of node ID to
// *Node.
type NodeSet struct {
	localID string
	byID    map[string]*Node
}

// NewNodeSet returns a NodeSet whose local node is localID. localID need not
// already be present in nodes; Local() returns nil until it is added.
func NewNodeSet(localID string, nodes ...*Node) *NodeSet {
	ns := &NodeSet{
		localID: localID,
		byID:    make(map[string]*Node, len(nodes)),
	}
	for _, n := range nodes {
		ns.byID[n.ID] = n
	}
	return ns
}

// Add registers or replaces a node.
func (ns *NodeSet) Add(n *Node) {
	ns.byID[n.ID] = n
}

// Local implements NodeLookup.
func (ns *NodeSet) Local() *Node {
	return ns.byID[ns.localID]
}

// ByID implements NodeLookup.
func (ns *NodeSet) ByID(id string) *Node {
	return ns.byID[id]
}

// All returns every registered node, sorted by ID.
func (ns *NodeSet) All() []*Node {
	out := make([]*Node, 0, len(ns.byID))
	for _, n := range ns.byID {
		out = append(out, n)
	}
	SortByID(out)
	return out
}
