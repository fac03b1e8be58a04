package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypes(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{ClipboardChanged{}, TypeClipboardChanged},
		{WindowFocusChanged{}, TypeWindowFocusChanged},
		{MouseAction{Code: MouseLeftDown}, TypeMouseAction},
		{KeyAction{Key: "A"}, TypeKeyAction},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ev.Type())
	}
}

func TestWindowDescriptorOmitsMissingFields(t *testing.T) {
	b, err := json.Marshal(WindowDescriptor{ProcessID: 42, AppName: "notepad"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"processId":42,"appName":"notepad"}`, string(b))

	b, err = json.Marshal(WindowDescriptor{AppName: "Finder", Bounds: &Rect{X: 0, Y: 25, Width: 800, Height: 600}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"appName":"Finder","x":0,"y":25,"width":800,"height":600}`, string(b))
}

func TestWindowDescriptorIsZero(t *testing.T) {
	assert.True(t, WindowDescriptor{}.IsZero())
	assert.False(t, WindowDescriptor{Title: "x"}.IsZero())
}

func TestEffect(t *testing.T) {
	assert.True(t, EffectMouse.Mouse())
	assert.False(t, EffectMouse.Keyboard())
	assert.True(t, EffectBoth.Mouse() && EffectBoth.Keyboard())
	assert.False(t, Effect(0).Valid())
	assert.False(t, Effect(4).Valid())
}

func TestParseEffect(t *testing.T) {
	tests := []struct {
		in      string
		want    Effect
		wantErr bool
	}{
		{"1", EffectMouse, false},
		{"2", EffectKeyboard, false},
		{"3", EffectBoth, false},
		{"mouse", EffectMouse, false},
		{"Keyboard", EffectKeyboard, false},
		{"both", EffectBoth, false},
		{"0", 0, true},
		{"4", 0, true},
		{"wheel", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEffect(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMouseCodeString(t *testing.T) {
	assert.Equal(t, "LeftDown", MouseLeftDown.String())
	assert.Equal(t, "RightUp", MouseRightUp.String())
	assert.Equal(t, "Unknown", MouseCode(9).String())
}
