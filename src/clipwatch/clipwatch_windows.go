//go:build windows

package clipwatch

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

var (
	user32                            = windows.NewLazySystemDLL("user32.dll")
	procAddClipboardFormatListener    = user32.NewProc("AddClipboardFormatListener")
	procRemoveClipboardFormatListener = user32.NewProc("RemoveClipboardFormatListener")
	procPostThreadMessageW            = user32.NewProc("PostThreadMessageW")
	procPeekMessageW                  = user32.NewProc("PeekMessageW")
)

const (
	wmClipboardUpdate = 0x031D
	hwndMessage       = ^uintptr(2) // (HWND)-3
	pmNoRemove        = 0
)

var (
	className   = windows.StringToUTF16Ptr("ZToolsClipboardListener")
	classAtom   atomic.Uint32
	activeWatch atomic.Pointer[listenerBackend]
	wndProc     = windows.NewCallback(listenerWndProc)
)

// listenerBackend owns a message-only window registered as a clipboard
// format listener.
type listenerBackend struct {
	emit     func(events.Event)
	hwnd     win.HWND
	threadID atomic.Uint32
	woken    atomic.Bool
}

func newBackend() monitor.Backend {
	return &listenerBackend{}
}

func registerClass() error {
	if classAtom.Load() != 0 {
		return nil
	}
	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		LpfnWndProc:   wndProc,
		HInstance:     win.GetModuleHandle(nil),
		LpszClassName: className,
	}
	atom := win.RegisterClassEx(&wc)
	if atom == 0 {
		return fmt.Errorf("RegisterClassEx failed: %v", windows.GetLastError())
	}
	classAtom.Store(uint32(atom))
	return nil
}

func (b *listenerBackend) Open(emit func(events.Event)) error {
	b.emit = emit
	b.threadID.Store(windows.GetCurrentThreadId())

	var msg win.MSG
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, win.WM_USER, win.WM_USER, pmNoRemove)

	if err := registerClass(); err != nil {
		return fmt.Errorf("%w: %v", events.ErrSubscriptionFailed, err)
	}
	if !activeWatch.CompareAndSwap(nil, b) {
		return fmt.Errorf("%w: clipboard listener already installed", events.ErrSubscriptionFailed)
	}
	b.hwnd = win.CreateWindowEx(0, className, nil, 0, 0, 0, 0, 0,
		win.HWND(hwndMessage), 0, win.GetModuleHandle(nil), nil)
	if b.hwnd == 0 {
		activeWatch.CompareAndSwap(b, nil)
		return fmt.Errorf("%w: CreateWindowEx: %v", events.ErrSubscriptionFailed, windows.GetLastError())
	}
	if r, _, err := procAddClipboardFormatListener.Call(uintptr(b.hwnd)); r == 0 {
		win.DestroyWindow(b.hwnd)
		b.hwnd = 0
		activeWatch.CompareAndSwap(b, nil)
		return fmt.Errorf("%w: AddClipboardFormatListener: %v", events.ErrSubscriptionFailed, err)
	}
	return nil
}

func (b *listenerBackend) Run() {
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

func (b *listenerBackend) Wake() {
	b.woken.Store(true)
	if tid := b.threadID.Load(); tid != 0 {
		procPostThreadMessageW.Call(uintptr(tid), win.WM_QUIT, 0, 0)
	}
}

func (b *listenerBackend) Close() {
	if b.hwnd != 0 {
		procRemoveClipboardFormatListener.Call(uintptr(b.hwnd))
		win.DestroyWindow(b.hwnd)
		b.hwnd = 0
	}
	activeWatch.CompareAndSwap(b, nil)
}

func listenerWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	if msg == wmClipboardUpdate {
		if b := activeWatch.Load(); b != nil && b.hwnd == hwnd {
			b.emit(events.ClipboardChanged{})
		}
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}
