package keymap

// Windows virtual-key codes.
var windowsVK = map[uint32]string{
	0x08: Backspace,
	0x09: Tab,
	0x0D: Enter,
	0x10: Shift,
	0x11: Control,
	0x12: Alt,
	0x14: CapsLock,
	0x1B: Escape,
	0x20: Space,
	0x21: PageUp,
	0x22: PageDown,
	0x23: End,
	0x24: Home,
	0x25: Left,
	0x26: Up,
	0x27: Right,
	0x28: Down,
	0x2D: Insert,
	0x2E: Delete,
	0x5B: Meta,
	0x5C: RightMeta,
	0xA0: Shift,
	0xA1: RightShift,
	0xA2: Control,
	0xA3: RightControl,
	0xA4: Alt,
	0xA5: RightAlt,
	0xBA: ";",
	0xBB: "=",
	0xBC: ",",
	0xBD: "-",
	0xBE: ".",
	0xBF: "/",
	0xC0: "`",
	0xDB: "[",
	0xDC: "\\",
	0xDD: "]",
	0xDE: "'",
}

func init() {
	for c := uint32('A'); c <= 'Z'; c++ {
		windowsVK[c] = string(rune(c))
	}
	for c := uint32('0'); c <= '9'; c++ {
		windowsVK[c] = string(rune(c))
	}
	for i := uint32(0); i < 12; i++ {
		windowsVK[0x70+i] = fmtF(int(i) + 1)
	}
	windowsReverse = invert(windowsVK)
}

var windowsReverse map[string]uint32

// FromWindowsVK maps a virtual-key code to its canonical name.
func FromWindowsVK(vk uint32) string {
	return windowsVK[vk]
}

// WindowsVK returns the virtual-key code used to synthesize name. Modifiers
// resolve to the generic VK_SHIFT/VK_CONTROL/VK_MENU codes.
func WindowsVK(name string) (uint32, bool) {
	vk, ok := windowsReverse[name]
	return vk, ok
}
