//go:build windows || linux || darwin

package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEverySupportedKeyResolves(t *testing.T) {
	for name := range keyMap {
		assert.True(t, supportedKey(name), name)
	}
	for _, name := range []string{"a", "z", "0", "9", "f1", "f12", "space", "tab", "enter", "escape", "delete", "left", "right", "up", "down"} {
		_, ok := keyMap[name]
		assert.True(t, ok, name)
	}
	for _, m := range modOrder {
		_, ok := modifierMap[m]
		assert.True(t, ok, m)
	}
}
