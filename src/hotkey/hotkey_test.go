package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ztools-native/src/events"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Combo
		display string
	}{
		{"Ctrl+Shift+A", Combo{Mods: []string{ModCtrl, ModShift}, Key: "a"}, "Ctrl+Shift+A"},
		{"shift+ctrl+a", Combo{Mods: []string{ModCtrl, ModShift}, Key: "a"}, "Ctrl+Shift+A"},
		{" Alt + F5 ", Combo{Mods: []string{ModAlt}, Key: "f5"}, "Alt+F5"},
		{"cmd+option+space", Combo{Mods: []string{ModAlt, ModSuper}, Key: "space"}, "Alt+Super+Space"},
		{"win+return", Combo{Mods: []string{ModSuper}, Key: "enter"}, "Super+Enter"},
		{"ctrl+control+esc", Combo{Mods: []string{ModCtrl}, Key: "escape"}, "Ctrl+Escape"},
		{"Ctrl+9", Combo{Mods: []string{ModCtrl}, Key: "9"}, "Ctrl+9"},
		{"ctrl+F12", Combo{Mods: []string{ModCtrl}, Key: "f12"}, "Ctrl+F12"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.display, got.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"a",
		"ctrl+",
		"hyper+a",
		"ctrl+f13",
		"ctrl+f01",
		"ctrl+pagedown",
		"ctrl+shift",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, events.ErrInvalidArgument)
		})
	}
}

func TestRegisterNilCallback(t *testing.T) {
	_, err := Register("Ctrl+Shift+A", nil)
	assert.Error(t, err)
}
