//go:build windows

package notification

import (
	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

// alert shows a modal, topmost message box.
func alert(title, message, _ string) error {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	m, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return err
	}
	win.MessageBox(0, m, t, win.MB_OK|win.MB_ICONERROR|win.MB_TOPMOST)
	return nil
}
