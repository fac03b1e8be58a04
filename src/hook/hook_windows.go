//go:build windows

package hook

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"ztools-native/src/events"
	"ztools-native/src/keymap"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14
	hcAction     = 0
	pmNoRemove   = 0

	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msllHookStruct struct {
	Pt          win.POINT
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// Hook procedures are process-wide; the installed backend is reached
// through activeHook.
var (
	activeHook   atomic.Pointer[llBackend]
	keyboardProc = windows.NewCallback(keyboardHookProc)
	mouseProc    = windows.NewCallback(mouseHookProc)
)

type llBackend struct {
	effect  events.Effect
	tracker *Tracker
	emit    func(events.Event)

	threadID uint32
	keyboard uintptr
	mouse    uintptr
	woken    atomic.Bool
}

func newNativeBackend(effect events.Effect) (backend, error) {
	return &llBackend{effect: effect, tracker: NewTracker()}, nil
}

func (b *llBackend) Open(emit func(events.Event)) error {
	b.emit = emit
	atomic.StoreUint32(&b.threadID, windows.GetCurrentThreadId())

	// Force creation of this thread's message queue so Wake can post to it.
	var msg win.MSG
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, win.WM_USER, win.WM_USER, pmNoRemove)

	b.seedTracker()
	if !activeHook.CompareAndSwap(nil, b) {
		return fmt.Errorf("%w: another low-level hook is installed", events.ErrSubscriptionFailed)
	}

	module := uintptr(win.GetModuleHandle(nil))
	if b.effect.Keyboard() {
		h, _, err := procSetWindowsHookExW.Call(whKeyboardLL, keyboardProc, module, 0)
		if h == 0 {
			b.unhook()
			return fmt.Errorf("%w: SetWindowsHookEx(WH_KEYBOARD_LL): %v", events.ErrSubscriptionFailed, err)
		}
		b.keyboard = h
	}
	if b.effect.Mouse() {
		h, _, err := procSetWindowsHookExW.Call(whMouseLL, mouseProc, module, 0)
		if h == 0 {
			b.unhook()
			return fmt.Errorf("%w: SetWindowsHookEx(WH_MOUSE_LL): %v", events.ErrSubscriptionFailed, err)
		}
		b.mouse = h
	}
	return nil
}

func (b *llBackend) Run() {
	if b.woken.Load() {
		return
	}
	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 || ret == -1 {
			return
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

func (b *llBackend) Wake() {
	b.woken.Store(true)
	if tid := atomic.LoadUint32(&b.threadID); tid != 0 {
		procPostThreadMessageW.Call(uintptr(tid), win.WM_QUIT, 0, 0)
	}
}

func (b *llBackend) Close() {
	b.unhook()
	b.tracker.Reset()
}

func (b *llBackend) unhook() {
	if b.keyboard != 0 {
		procUnhookWindowsHookEx.Call(b.keyboard)
		b.keyboard = 0
	}
	if b.mouse != 0 {
		procUnhookWindowsHookEx.Call(b.mouse)
		b.mouse = 0
	}
	activeHook.CompareAndSwap(b, nil)
}

// seedTracker records modifiers already held when the hook is installed.
func (b *llBackend) seedTracker() {
	for _, vk := range []uint32{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0x5B, 0x5C} {
		state, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
		if state&0x8000 != 0 {
			b.tracker.Apply(keymap.FromWindowsVK(vk), true)
		}
	}
}

func (b *llBackend) onKey(msg uintptr, kb *kbdllHookStruct) {
	name := keymap.FromWindowsVK(kb.VkCode)
	var down bool
	switch msg {
	case wmKeyDown, wmSysKeyDown:
		down = true
	case wmKeyUp, wmSysKeyUp:
		down = false
	default:
		return
	}
	held := b.tracker.Apply(name, down)
	if ka, ok := TranslateKey(RawKey{Key: name, Down: down, Held: held}); ok {
		b.emit(ka)
	}
}

func (b *llBackend) onMouse(msg uintptr, ms *msllHookStruct) {
	var button MouseButton
	var down bool
	switch msg {
	case wmLButtonDown:
		button, down = ButtonLeft, true
	case wmLButtonUp:
		button = ButtonLeft
	case wmRButtonDown:
		button, down = ButtonRight, true
	case wmRButtonUp:
		button = ButtonRight
	default:
		return
	}
	if ma, ok := TranslateMouse(button, down, int(ms.Pt.X), int(ms.Pt.Y)); ok {
		b.emit(ma)
	}
}

func keyboardHookProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) == hcAction {
		if b := activeHook.Load(); b != nil && b.keyboard != 0 {
			b.onKey(wParam, (*kbdllHookStruct)(unsafe.Pointer(lParam)))
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return r
}

func mouseHookProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) == hcAction {
		if b := activeHook.Load(); b != nil && b.mouse != 0 {
			b.onMouse(wParam, (*msllHookStruct)(unsafe.Pointer(lParam)))
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return r
}
