package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ztools-native/src/events"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&cliOptions{})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeysCommand(t *testing.T) {
	out, err := execute(t, "keys")
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Contains(t, names, "Enter")
	assert.Contains(t, names, "Right Control")
	assert.Contains(t, names, "F12")
}

func TestParseEffect(t *testing.T) {
	tests := []struct {
		in      string
		want    events.Effect
		wantErr bool
	}{
		{"mouse", events.EffectMouse, false},
		{"Keyboard", events.EffectKeyboard, false},
		{"both", events.EffectBoth, false},
		{"1", events.EffectMouse, false},
		{"2", events.EffectKeyboard, false},
		{"3", events.EffectBoth, false},
		{"0", 0, true},
		{"4", 0, true},
		{"trackpad", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseEffect(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, events.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"unknown key", []string{"tap", "notakey"}, events.ErrUnknownKey},
		{"unknown modifier", []string{"tap", "a", "hyper"}, events.ErrUnknownKey},
		{"bad effect", []string{"hook", "--effect", "9"}, events.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"tap"},
		{"window", "activate"},
		{"files", "set"},
		{"keys", "extra"},
		{"nope"},
	} {
		_, err := execute(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestPersistentFlags(t *testing.T) {
	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--verbose", "--config", "/tmp/z.yaml"}))
	assert.True(t, opts.verbose)
	assert.Equal(t, "/tmp/z.yaml", opts.configFile)
}

func TestEmitStreamEvent(t *testing.T) {
	var out bytes.Buffer
	a := &app{opts: &cliOptions{}, out: &out}
	require.NoError(t, a.emit(streamEvent{Type: events.TypeClipboardChanged}))
	require.NoError(t, a.emit(streamEvent{Type: events.TypeMouseAction, Event: events.MouseAction{Code: events.MouseLeftDown, X: 3, Y: 4}}))
	assert.Equal(t,
		"{\"type\":\"ClipboardChanged\"}\n{\"type\":\"MouseAction\",\"event\":{\"code\":1,\"x\":3,\"y\":4}}\n",
		out.String())
}

func TestFileItems(t *testing.T) {
	items, err := fileItems(nil, []string{"/tmp/a", "/tmp/b"}, false)
	require.NoError(t, err)
	assert.Equal(t, []any{"/tmp/a", "/tmp/b"}, items)

	items, err = fileItems(strings.NewReader(`["/tmp/a", {"path": "/tmp/b", "isDirectory": true}]`), nil, true)
	require.NoError(t, err)
	assert.Equal(t, []any{"/tmp/a", map[string]any{"path": "/tmp/b", "isDirectory": true}}, items)

	for _, in := range []string{"", "[]", `{"path": "/tmp/a"}`, "not json"} {
		_, err := fileItems(strings.NewReader(in), nil, true)
		assert.ErrorIs(t, err, events.ErrInvalidArgument, "%q", in)
	}
}

func TestFilesSetJSONInput(t *testing.T) {
	run := func(stdin string, args ...string) error {
		cmd := newRootCmd(&cliOptions{})
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	assert.ErrorIs(t, run("[]", "files", "set", "--json"), events.ErrInvalidArgument)
	assert.ErrorIs(t, run("oops", "files", "set", "--json"), events.ErrInvalidArgument)
	assert.Error(t, run(`["/tmp/a"]`, "files", "set", "--json", "/tmp/b"))
}
