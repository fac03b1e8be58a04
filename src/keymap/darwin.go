package keymap

// macOS CGKeyCode values (ANSI layout).
var darwinCodes = map[uint16]string{
	0: "A", 11: "B", 8: "C", 2: "D", 14: "E", 3: "F", 5: "G", 4: "H", 34: "I",
	38: "J", 40: "K", 37: "L", 46: "M", 45: "N", 31: "O", 35: "P", 12: "Q",
	15: "R", 1: "S", 17: "T", 32: "U", 9: "V", 13: "W", 7: "X", 16: "Y", 6: "Z",

	29: "0", 18: "1", 19: "2", 20: "3", 21: "4", 23: "5", 22: "6", 26: "7", 28: "8", 25: "9",

	122: "F1", 120: "F2", 99: "F3", 118: "F4", 96: "F5", 97: "F6",
	98: "F7", 100: "F8", 101: "F9", 109: "F10", 103: "F11", 111: "F12",

	36:  Enter,
	48:  Tab,
	49:  Space,
	51:  Backspace,
	117: Delete,
	53:  Escape,
	57:  CapsLock,
	63:  Fn,
	114: Insert,
	115: Home,
	119: End,
	116: PageUp,
	121: PageDown,
	123: Left,
	124: Right,
	125: Down,
	126: Up,

	50: "`", 27: "-", 24: "=", 33: "[", 30: "]", 42: "\\",
	41: ";", 39: "'", 43: ",", 47: ".", 44: "/",

	56: Shift,
	60: RightShift,
	59: Control,
	62: RightControl,
	58: Alt,
	61: RightAlt,
	55: Meta,
	54: RightMeta,
}

var darwinReverse = invert(darwinCodes)

// FromDarwin maps a CGKeyCode to its canonical name.
func FromDarwin(code uint16) string {
	return darwinCodes[code]
}

// DarwinCode returns the CGKeyCode used to synthesize name.
func DarwinCode(name string) (uint16, bool) {
	c, ok := darwinReverse[name]
	return c, ok
}
