//go:build windows

package clipfiles

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"ztools-native/src/events"
)

var (
	kernel32       = windows.NewLazySystemDLL("kernel32.dll")
	procGlobalSize = kernel32.NewProc("GlobalSize")
)

const (
	gmemMoveable = 0x0002
	gmemZeroInit = 0x0040
	gmemShare    = 0x2000
)

func openClipboard() bool {
	return win.OpenClipboard(0)
}

func readPaths(c Config) ([]string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !Retry(c.Attempts, c.Delay, openClipboard) {
		return nil, events.ErrClipboardBusy
	}
	defer win.CloseClipboard()

	if !win.IsClipboardFormatAvailable(win.CF_HDROP) {
		return nil, nil
	}
	h := win.HGLOBAL(win.GetClipboardData(win.CF_HDROP))
	if h == 0 {
		return nil, nil
	}
	size, _, _ := procGlobalSize.Call(uintptr(h))
	p := win.GlobalLock(h)
	if p == nil {
		return nil, fmt.Errorf("GlobalLock failed")
	}
	defer win.GlobalUnlock(h)

	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(p), size))
	return DecodeDropFiles(data), nil
}

func writePaths(c Config, paths []string) error {
	payload := EncodeDropFiles(paths)

	h := win.GlobalAlloc(gmemMoveable|gmemZeroInit|gmemShare, uintptr(len(payload)))
	if h == 0 {
		return fmt.Errorf("GlobalAlloc(%d) failed", len(payload))
	}
	p := win.GlobalLock(h)
	if p == nil {
		win.GlobalFree(h)
		return fmt.Errorf("GlobalLock failed")
	}
	copy(unsafe.Slice((*byte)(p), len(payload)), payload)
	win.GlobalUnlock(h)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !Retry(c.Attempts, c.Delay, openClipboard) {
		win.GlobalFree(h)
		return fmt.Errorf("%w: open failed after %d attempts", events.ErrClipboardBusy, c.Attempts)
	}
	win.EmptyClipboard()
	ok := win.SetClipboardData(win.CF_HDROP, win.HANDLE(h)) != 0
	win.CloseClipboard()
	if !ok {
		// Ownership only passes to the system on success.
		win.GlobalFree(h)
		return fmt.Errorf("SetClipboardData(CF_HDROP) failed")
	}
	return nil
}
