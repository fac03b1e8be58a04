//go:build windows

package focus

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

var (
	user32                    = windows.NewLazySystemDLL("user32.dll")
	procSetWinEventHook       = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent        = user32.NewProc("UnhookWinEvent")
	procPostThreadMessageW    = user32.NewProc("PostThreadMessageW")
	procPeekMessageW          = user32.NewProc("PeekMessageW")
	procGetWindowTextW        = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW  = user32.NewProc("GetWindowTextLengthW")
	procEnumWindows           = user32.NewProc("EnumWindows")
	procAttachThreadInput     = user32.NewProc("AttachThreadInput")
	procSetActiveWindow       = user32.NewProc("SetActiveWindow")
	procAllowSetForegroundWnd = user32.NewProc("AllowSetForegroundWindow")
)

const (
	eventSystemForeground = 0x0003
	winEventOutOfContext  = 0x0000
	winEventSkipOwnProc   = 0x0002
	pmNoRemove            = 0
	asfwAny               = ^uintptr(0)
)

var (
	activeFocus   atomic.Pointer[winEventBackend]
	winEventProc  = windows.NewCallback(foregroundProc)
	enumWindowsCb = windows.NewCallback(enumWindowsProc)
)

type winEventBackend struct {
	emit     func(events.Event)
	hook     uintptr
	filter   changeFilter
	threadID atomic.Uint32
	woken    atomic.Bool
}

func newBackend() (monitor.Backend, error) {
	return &winEventBackend{}, nil
}

func (b *winEventBackend) Open(emit func(events.Event)) error {
	b.emit = emit
	b.threadID.Store(windows.GetCurrentThreadId())

	var msg win.MSG
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, win.WM_USER, win.WM_USER, pmNoRemove)

	if !activeFocus.CompareAndSwap(nil, b) {
		return fmt.Errorf("%w: foreground hook already installed", events.ErrSubscriptionFailed)
	}
	h, _, err := procSetWinEventHook.Call(eventSystemForeground, eventSystemForeground, 0,
		winEventProc, 0, 0, winEventOutOfContext|winEventSkipOwnProc)
	if h == 0 {
		activeFocus.CompareAndSwap(b, nil)
		return fmt.Errorf("%w: SetWinEventHook: %v", events.ErrSubscriptionFailed, err)
	}
	b.hook = h

	if d := describe(win.GetForegroundWindow()); d != nil {
		b.filter.changed(descriptorKey(d))
		emit(events.WindowFocusChanged{Window: *d})
	}
	return nil
}

func (b *winEventBackend) Run() {
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

func (b *winEventBackend) Wake() {
	b.woken.Store(true)
	if tid := b.threadID.Load(); tid != 0 {
		procPostThreadMessageW.Call(uintptr(tid), win.WM_QUIT, 0, 0)
	}
}

func (b *winEventBackend) Close() {
	if b.hook != 0 {
		procUnhookWinEvent.Call(b.hook)
		b.hook = 0
	}
	activeFocus.CompareAndSwap(b, nil)
}

func foregroundProc(hook, event, hwnd, idObject, idChild, thread, timestamp uintptr) uintptr {
	if uint32(event) != eventSystemForeground {
		return 0
	}
	b := activeFocus.Load()
	if b == nil || b.hook == 0 {
		return 0
	}
	if d := describe(win.HWND(hwnd)); d != nil && b.filter.changed(descriptorKey(d)) {
		b.emit(events.WindowFocusChanged{Window: *d})
	}
	return 0
}

func active() (*events.WindowDescriptor, error) {
	d := describe(win.GetForegroundWindow())
	if d == nil {
		return nil, fmt.Errorf("%w: no foreground window", events.ErrLookupFailed)
	}
	return d, nil
}

// describe collects whatever can be read about hwnd. It returns nil only for
// a null window.
func describe(hwnd win.HWND) *events.WindowDescriptor {
	if hwnd == 0 {
		return nil
	}
	d := &events.WindowDescriptor{}

	var pid uint32
	win.GetWindowThreadProcessId(hwnd, &pid)
	d.ProcessID = int(pid)
	if path := processImage(pid); path != "" {
		d.ExecutablePath = path
		d.App = filepath.Base(path)
		d.AppName = appNameFromPath(path)
	}
	d.Title = windowText(hwnd)

	var r win.RECT
	if win.GetWindowRect(hwnd, &r) {
		d.Bounds = &events.Rect{
			X:      int(r.Left),
			Y:      int(r.Top),
			Width:  int(r.Right - r.Left),
			Height: int(r.Bottom - r.Top),
		}
	}
	return d
}

func processImage(pid uint32) string {
	if pid == 0 {
		return ""
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}

func windowText(hwnd win.HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	got, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:got])
}

type enumArgs struct {
	pid   uint32
	found win.HWND
}

func enumWindowsProc(hwnd, lParam uintptr) uintptr {
	args := (*enumArgs)(unsafe.Pointer(lParam))
	h := win.HWND(hwnd)
	if !win.IsWindowVisible(h) {
		return 1
	}
	if win.GetWindowLong(h, win.GWL_EXSTYLE)&win.WS_EX_TOOLWINDOW != 0 {
		return 1
	}
	var pid uint32
	win.GetWindowThreadProcessId(h, &pid)
	if pid == args.pid {
		args.found = h
		return 0
	}
	return 1
}

func activate(identifier string) (bool, error) {
	pid, ok := parsePID(identifier)
	if !ok {
		return false, fmt.Errorf("%w: expected a process id, got %q", events.ErrInvalidArgument, identifier)
	}
	args := enumArgs{pid: uint32(pid)}
	procEnumWindows.Call(enumWindowsCb, uintptr(unsafe.Pointer(&args)))
	if args.found == 0 {
		return false, nil
	}
	hwnd := args.found

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if win.IsIconic(hwnd) {
		win.ShowWindow(hwnd, win.SW_RESTORE)
	}

	fgThread := win.GetWindowThreadProcessId(win.GetForegroundWindow(), nil)
	targetThread := win.GetWindowThreadProcessId(hwnd, nil)
	selfThread := windows.GetCurrentThreadId()

	attach := func(from, to uint32, on bool) bool {
		var flag uintptr
		if on {
			flag = 1
		}
		r, _, _ := procAttachThreadInput.Call(uintptr(from), uintptr(to), flag)
		return r != 0
	}
	var fgAttached, selfAttached bool
	if fgThread != targetThread {
		fgAttached = attach(fgThread, targetThread, true)
	}
	if selfThread != targetThread && selfThread != fgThread {
		selfAttached = attach(selfThread, targetThread, true)
	}

	procAllowSetForegroundWnd.Call(asfwAny)
	win.BringWindowToTop(hwnd)
	win.SetForegroundWindow(hwnd)
	procSetActiveWindow.Call(uintptr(hwnd))
	win.SetFocus(hwnd)

	if fgAttached {
		attach(fgThread, targetThread, false)
	}
	if selfAttached {
		attach(selfThread, targetThread, false)
	}
	return win.GetForegroundWindow() == hwnd, nil
}
