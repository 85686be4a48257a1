// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/latticedb/shardrouter/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execRoot(t *testing.T, args ...string) string {
	var out bytes.Buffer
	rc := cmd.NewRootCommand(os.Stdin, &out, &out)
	rc.SetArgs(args)
	require.NoError(t, rc.Execute())
	return out.String()
}

func TestRootCommand_Help(t *testing.T) {
	out := execRoot(t, "--help")
	assert.True(t, strings.Contains(out, "Usage:"))
	assert.True(t, strings.Contains(out, "Available Commands:"))
}

func TestRootCommand_Config(t *testing.T) {
	out := execRoot(t, "config")
	assert.True(t, strings.Contains(out, "local-node-id"))
}

func TestRootCommand_Build(t *testing.T) {
	out := execRoot(t, "build")
	assert.True(t, strings.Contains(out, "events/0"))
	assert.True(t, strings.Contains(out, "wire:"))
}

func TestRootCommand_Iterate(t *testing.T) {
	out := execRoot(t, "iterate", "--shard", "0", "--policy", "primary")
	assert.True(t, strings.Contains(out, "primary"))
}

func TestRootCommand_Iterate_UnknownPolicy(t *testing.T) {
	var out bytes.Buffer
	rc := cmd.NewRootCommand(os.Stdin, &out, &out)
	rc.SetArgs([]string{"iterate", "--policy", "bogus"})
	err := rc.Execute()
	assert.Error(t, err)
}
