package events

import "encoding/json"

// Event is the base interface for every normalized OS notification.
type Event interface {
	Type() string
}

// Type constants for event identification
const (
	TypeClipboardChanged   = "ClipboardChanged"
	TypeWindowFocusChanged = "WindowFocusChanged"
	TypeMouseAction        = "MouseAction"
	TypeKeyAction          = "KeyAction"
)

// ClipboardChanged carries no payload. Listeners re-read the clipboard when
// they need the content.
type ClipboardChanged struct{}

func (ClipboardChanged) Type() string { return TypeClipboardChanged }

// WindowFocusChanged - emitted on every foreground transition and once on monitor start
type WindowFocusChanged struct {
	Window WindowDescriptor
}

func (WindowFocusChanged) Type() string { return TypeWindowFocusChanged }

// MouseCode identifies a primary or secondary button transition.
type MouseCode int

const (
	MouseLeftDown  MouseCode = 1
	MouseLeftUp    MouseCode = 2
	MouseRightDown MouseCode = 3
	MouseRightUp   MouseCode = 4
)

func (c MouseCode) String() string {
	switch c {
	case MouseLeftDown:
		return "LeftDown"
	case MouseLeftUp:
		return "LeftUp"
	case MouseRightDown:
		return "RightDown"
	case MouseRightUp:
		return "RightUp"
	default:
		return "Unknown"
	}
}

// MouseAction - a button transition at screen coordinates
type MouseAction struct {
	Code MouseCode `json:"code"`
	X    int       `json:"x"`
	Y    int       `json:"y"`
}

func (MouseAction) Type() string { return TypeMouseAction }

// KeyAction - a key transition with the state of the other held modifiers.
// Shift/Ctrl/Alt/Meta never report the modifier that is the subject of the
// event itself.
type KeyAction struct {
	Key         string `json:"keyName"`
	Shift       bool   `json:"shift"`
	Ctrl        bool   `json:"ctrl"`
	Alt         bool   `json:"alt"`
	Meta        bool   `json:"meta"`
	FlagsChange bool   `json:"flagsChange"`
}

func (KeyAction) Type() string { return TypeKeyAction }

// Modifiers is the held-modifier snapshot a backend reads alongside a key event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Rect is a bounds rectangle in virtual-screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowDescriptor describes the foreground window. Every field is
// best-effort: a failed lookup leaves it empty and it is omitted on encode.
type WindowDescriptor struct {
	ProcessID      int    `json:"processId,omitempty"`
	AppName        string `json:"appName,omitempty"`
	BundleID       string `json:"bundleId,omitempty"`
	Title          string `json:"title,omitempty"`
	App            string `json:"app,omitempty"`
	Bounds         *Rect  `json:"-"`
	ExecutablePath string `json:"appPath,omitempty"`
}

// MarshalJSON flattens Bounds into x/y/width/height when present.
func (w WindowDescriptor) MarshalJSON() ([]byte, error) {
	type plain WindowDescriptor
	out := struct {
		plain
		X      *int `json:"x,omitempty"`
		Y      *int `json:"y,omitempty"`
		Width  *int `json:"width,omitempty"`
		Height *int `json:"height,omitempty"`
	}{plain: plain(w)}
	if w.Bounds != nil {
		b := *w.Bounds
		out.X, out.Y, out.Width, out.Height = &b.X, &b.Y, &b.Width, &b.Height
	}
	return json.Marshal(out)
}

// IsZero reports whether no lookup succeeded at all.
func (w WindowDescriptor) IsZero() bool {
	return w.ProcessID == 0 && w.AppName == "" && w.BundleID == "" &&
		w.Title == "" && w.App == "" && w.Bounds == nil && w.ExecutablePath == ""
}

// CaptureResult - the single terminal outcome of a region capture session
type CaptureResult struct {
	Success bool `json:"success"`
	Width   int  `json:"width"`
	Height  int  `json:"height"`
}

// Effect selects which input hooks are installed.
type Effect int

const (
	EffectMouse    Effect = 1
	EffectKeyboard Effect = 2
	EffectBoth     Effect = EffectMouse | EffectKeyboard
)

func (e Effect) Valid() bool { return e >= EffectMouse && e <= EffectBoth }

func (e Effect) Mouse() bool { return e&EffectMouse != 0 }

func (e Effect) Keyboard() bool { return e&EffectKeyboard != 0 }
