// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

import (
	"encoding/binary"
	"fmt"

	"github.com/latticedb/shardrouter/errors"
)

// Two wire shapes encode an IndexShardRoutingTable:
//
//   - "fat": carries its own index name, usable standalone.
//   - "thin": omits the index name; the caller supplies it on decode (the
//     shard number is still encoded), for use inside a larger envelope that
//     already groups entries by index.
//
// Both share the same per-shard layout: a primary flag byte, two
// optionally-present UTF-8 strings (currentNodeId, relocatingNodeId), a
// state byte, a varint version, and an optionally-present allocationId
// string. "Optionally present" is itself encoded as a leading presence byte
// followed by a length-prefixed string when present — see putOptString /
// getOptString.
//
// All integers are unsigned varints, matching encoding/binary's 7-bit
// continuation scheme; there's no reason to hand-roll a format the standard
// library already implements correctly (see DESIGN.md).

const maxReasonableStringLen = 1 << 20 // 1 MiB; guards a corrupt length prefix

// EncodeFat serializes t including its index name: the result can be
// decoded with DecodeFat alone.
func EncodeFat(t *IndexShardRoutingTable) []byte {
	buf := make([]byte, 0, 64+32*len(t.shards))
	buf = putString(buf, t.shardId.IndexName)
	buf = putUvarint(buf, t.shardId.ShardNum)
	buf = putBool(buf, t.allocatedPostApi)
	buf = putUvarint(buf, uint64(len(t.shards)))
	for _, sr := range t.shards {
		buf = putShardRouting(buf, sr)
	}
	return buf
}

// DecodeFat parses bytes produced by EncodeFat into a fresh table built
// through a Builder (so the duplicate-assignment rule, I3, applies to
// decoded streams exactly as it does to programmatically built ones).
func DecodeFat(data []byte) (*IndexShardRoutingTable, error) {
	indexName, rest, err := getString(data)
	if err != nil {
		return nil, err
	}
	shardNum, rest, err := getUvarint(rest)
	if err != nil {
		return nil, err
	}
	return decodeBody(NewShardId(indexName, shardNum), rest)
}

// EncodeThin serializes t without its index name; the caller must supply it
// (via DecodeThin) to reconstruct full ShardIds.
func EncodeThin(t *IndexShardRoutingTable) []byte {
	buf := make([]byte, 0, 32+32*len(t.shards))
	buf = putUvarint(buf, t.shardId.ShardNum)
	buf = putBool(buf, t.allocatedPostApi)
	buf = putUvarint(buf, uint64(len(t.shards)))
	for _, sr := range t.shards {
		buf = putShardRouting(buf, sr)
	}
	return buf
}

// DecodeThin parses bytes produced by EncodeThin, given the index name the
// caller already knows from its enclosing context.
func DecodeThin(indexName string, data []byte) (*IndexShardRoutingTable, error) {
	shardNum, rest, err := getUvarint(data)
	if err != nil {
		return nil, err
	}
	return decodeBody(NewShardId(indexName, shardNum), rest)
}

func decodeBody(shardId ShardId, data []byte) (*IndexShardRoutingTable, error) {
	allocatedPostApi, rest, err := getBool(data)
	if err != nil {
		return nil, err
	}
	count, rest, err := getUvarint(rest)
	if err != nil {
		return nil, err
	}
	if count > uint64(len(rest)) {
		// The smallest possible per-shard encoding is several bytes
		// (primary byte, two absent-string flags, state byte, a
		// 1-byte version, an absent allocationId flag), so a shard
		// count exceeding the remaining byte count on its own already
		// proves a corrupt length prefix.
		return nil, errCodec(CodeDecodeOversized, "routing: decoded shard count %d exceeds remaining input", count)
	}

	b := NewBuilder(shardId)
	b.AllocatedPostApi(allocatedPostApi)
	for i := uint64(0); i < count; i++ {
		var sr ShardRouting
		sr, rest, err = getShardRouting(shardId, rest)
		if err != nil {
			return nil, err
		}
		b.AddShard(sr)
	}
	return b.Build()
}

func putShardRouting(buf []byte, sr ShardRouting) []byte {
	buf = putBool(buf, sr.Primary)
	buf = putOptString(buf, sr.CurrentNodeId)
	buf = putOptString(buf, sr.RelocatingNodeId)
	buf = append(buf, byte(sr.State))
	buf = putUvarint(buf, sr.Version)
	buf = putOptString(buf, sr.AllocationId)
	return buf
}

func getShardRouting(shardId ShardId, data []byte) (ShardRouting, []byte, error) {
	primary, rest, err := getBool(data)
	if err != nil {
		return ShardRouting{}, nil, err
	}
	currentNodeId, rest, err := getOptString(rest)
	if err != nil {
		return ShardRouting{}, nil, err
	}
	relocatingNodeId, rest, err := getOptString(rest)
	if err != nil {
		return ShardRouting{}, nil, err
	}
	if len(rest) < 1 {
		return ShardRouting{}, nil, errCodec(CodeDecodeTruncated, "routing: truncated before state byte")
	}
	stateByte := rest[0]
	state := State(stateByte)
	rest = rest[1:]
	if state < UNASSIGNED || state > RELOCATING {
		return ShardRouting{}, nil, errCodec(CodeDecodeInvalidState, "routing: invalid state byte %d", stateByte)
	}
	version, rest, err := getUvarint(rest)
	if err != nil {
		return ShardRouting{}, nil, err
	}
	allocationId, rest, err := getOptString(rest)
	if err != nil {
		return ShardRouting{}, nil, err
	}

	if state == UNASSIGNED && currentNodeId != "" {
		return ShardRouting{}, nil, errCodec(CodeDecodeInvariant, "routing: UNASSIGNED entry carries a currentNodeId")
	}

	return ShardRouting{
		ShardId:          shardId,
		Primary:          primary,
		CurrentNodeId:    currentNodeId,
		RelocatingNodeId: relocatingNodeId,
		State:            state,
		Version:          version,
		AllocationId:     allocationId,
	}, rest, nil
}

func putBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func getBool(data []byte) (bool, []byte, error) {
	if len(data) < 1 {
		return false, nil, errCodec(CodeDecodeTruncated, "routing: truncated before bool byte")
	}
	return data[0] != 0, data[1:], nil
}

func putUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func getUvarint(data []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, nil, errCodec(CodeDecodeTruncated, "routing: truncated or invalid varint")
	}
	return v, data[n:], nil
}

func putString(buf []byte, s string) []byte {
	buf = putUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func getString(data []byte) (string, []byte, error) {
	n, rest, err := getUvarint(data)
	if err != nil {
		return "", nil, err
	}
	if n > maxReasonableStringLen {
		return "", nil, errCodec(CodeDecodeOversized, "routing: string length %d exceeds sanity limit", n)
	}
	if n > uint64(len(rest)) {
		return "", nil, errCodec(CodeDecodeTruncated, "routing: truncated string, want %d bytes, have %d", n, len(rest))
	}
	return string(rest[:n]), rest[n:], nil
}

// putOptString encodes a possibly-empty string as a presence byte followed
// by a length-prefixed string when present. Distinguishing "absent" from
// "present but empty" matters for CurrentNodeId/RelocatingNodeId/
// AllocationId, all of which use "" to mean "not set" at the model layer
// too, so in practice the two collapse — but keeping the presence byte
// keeps this codec correct if that ever changes.
func putOptString(buf []byte, s string) []byte {
	if s == "" {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	return putString(buf, s)
}

func getOptString(data []byte) (string, []byte, error) {
	present, rest, err := getBool(data)
	if err != nil {
		return "", nil, err
	}
	if !present {
		return "", rest, nil
	}
	return getString(rest)
}

func errCodec(code errors.Code, format string, args ...interface{}) error {
	return errors.New(code, fmt.Sprintf(format, args...))
}
