package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmdParsesFlags(t *testing.T) {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", "/tmp/z.yaml", "-v", "--hotkey", "Alt+F9"}))
	assert.Equal(t, "/tmp/z.yaml", opts.configFile)
	assert.True(t, opts.verbose)
	assert.Equal(t, "Alt+F9", opts.hotkey)
}

func TestNewRootCmdRejectsUnknownFlag(t *testing.T) {
	cmd := newRootCmd(&mainOptions{})
	assert.Error(t, cmd.ParseFlags([]string{"--run-once"}))
}
