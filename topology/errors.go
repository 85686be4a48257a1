// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

import (
	"github.com/latticedb/shardrouter/errors"
)

const (
	// CodeBuilderSpent marks a Build() call on an already-built Builder.
	CodeBuilderSpent errors.Code = "BuilderSpent"
	// CodeDecodeTruncated marks wire bytes that end before the codec
	// expected them to.
	CodeDecodeTruncated errors.Code = "DecodeTruncated"
	// CodeDecodeInvalidState marks a state byte outside {UNASSIGNED,
	// INITIALIZING, STARTED, RELOCATING}.
	CodeDecodeInvalidState errors.Code = "DecodeInvalidState"
	// CodeDecodeInvariant marks a decoded entry that violates a data-model
	// invariant the codec can detect directly, such as an UNASSIGNED entry
	// carrying a currentNodeId.
	CodeDecodeInvariant errors.Code = "DecodeInvariant"
	// CodeDecodeOversized marks a length prefix implausibly larger than the
	// remaining input, guarding against a corrupt length field causing an
	// enormous allocation.
	CodeDecodeOversized errors.Code = "DecodeOversized"
)

var errBuilderAlreadyBuilt = errors.New(CodeBuilderSpent, "routing: Builder.Build called more than once")
