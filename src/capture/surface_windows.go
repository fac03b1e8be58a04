//go:build windows

package capture

import (
	"fmt"
	"image"
	"os"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	user32                           = windows.NewLazySystemDLL("user32.dll")
	procUpdateLayeredWindow          = user32.NewProc("UpdateLayeredWindow")
	procSetThreadDpiAwarenessContext = user32.NewProc("SetThreadDpiAwarenessContext")
	procAllowSetForegroundWindow     = user32.NewProc("AllowSetForegroundWindow")
	procPostMessageW                 = user32.NewProc("PostMessageW")
)

const (
	wmInterrupt                   = win.WM_APP + 1
	ulwAlpha                      = 0x2
	acSrcOver                     = 0x0
	acSrcAlpha                    = 0x1
	dpiAwarenessPerMonitorAwareV2 = ^uintptr(3) // (DPI_AWARENESS_CONTEXT)-4
)

type blendFunction struct {
	BlendOp             byte
	BlendFlags          byte
	SourceConstantAlpha byte
	AlphaFormat         byte
}

// The window procedure reaches the open surface through activeSurface.
var (
	activeSurface atomic.Pointer[layeredSurface]
	overlayProc   = windows.NewCallback(overlayWndProc)
)

// layeredSurface is a topmost per-pixel-alpha popup over the virtual screen.
type layeredSurface struct {
	bounds image.Rectangle
	driver Driver

	hwnd        atomic.Uintptr
	interrupted atomic.Bool

	memDC   win.HDC
	dib     win.HBITMAP
	oldBmp  win.HGDIOBJ
	bits    []byte
	pending []byte
}

func newPlatformSurface(bounds image.Rectangle) (Surface, error) {
	if bounds.Empty() {
		return nil, fmt.Errorf("capture: empty virtual screen %v", bounds)
	}
	return &layeredSurface{bounds: bounds}, nil
}

// prepareThread switches the session thread to per-monitor v2 DPI so the
// virtual screen bounds, the overlay and the sampled pixels all agree.
func prepareThread() {
	if err := procSetThreadDpiAwarenessContext.Find(); err != nil {
		zap.S().Debugf("capture: SetThreadDpiAwarenessContext unavailable: %v", err)
		return
	}
	if prev, _, _ := procSetThreadDpiAwarenessContext.Call(dpiAwarenessPerMonitorAwareV2); prev == 0 {
		zap.S().Debugf("capture: thread DPI awareness unchanged")
	}
}

func (s *layeredSurface) Run(d Driver) error {
	s.driver = d

	if !activeSurface.CompareAndSwap(nil, s) {
		return fmt.Errorf("capture: another overlay is open")
	}
	defer activeSurface.CompareAndSwap(s, nil)

	className := windows.StringToUTF16Ptr(fmt.Sprintf("ZToolsCaptureOverlay_%d", time.Now().UnixNano()))
	instance := win.GetModuleHandle(nil)
	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		LpfnWndProc:   overlayProc,
		HInstance:     instance,
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS)),
		LpszClassName: className,
	}
	if win.RegisterClassEx(&wc) == 0 {
		return fmt.Errorf("capture: RegisterClassEx failed")
	}
	defer win.UnregisterClass(className)

	if err := s.createBuffer(); err != nil {
		return err
	}
	defer s.releaseBuffer()

	size := s.bounds.Size()
	hwnd := win.CreateWindowEx(
		win.WS_EX_TOPMOST|win.WS_EX_LAYERED|win.WS_EX_TOOLWINDOW,
		className,
		windows.StringToUTF16Ptr("Region capture"),
		win.WS_POPUP,
		int32(s.bounds.Min.X), int32(s.bounds.Min.Y), int32(size.X), int32(size.Y),
		0, 0, instance, nil,
	)
	if hwnd == 0 {
		return fmt.Errorf("capture: CreateWindowEx failed")
	}
	s.hwnd.Store(uintptr(hwnd))
	zap.S().Debugf("capture: overlay %v hwnd=%v", s.bounds, hwnd)

	s.Present(nil)
	win.ShowWindow(hwnd, win.SW_SHOW)
	procAllowSetForegroundWindow.Call(uintptr(os.Getpid()))
	win.SetForegroundWindow(hwnd)
	win.BringWindowToTop(hwnd)
	win.SetFocus(hwnd)

	if s.interrupted.Load() {
		d.Cancel()
	}

	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 {
			return nil
		}
		if ret == -1 {
			return fmt.Errorf("capture: GetMessage failed")
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

func (s *layeredSurface) createBuffer() error {
	size := s.bounds.Size()
	s.memDC = win.CreateCompatibleDC(0)
	if s.memDC == 0 {
		return fmt.Errorf("capture: CreateCompatibleDC failed")
	}
	bmi := win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
		BiWidth:       int32(size.X),
		BiHeight:      -int32(size.Y),
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: win.BI_RGB,
	}
	var bits unsafe.Pointer
	s.dib = win.CreateDIBSection(s.memDC, &bmi, win.DIB_RGB_COLORS, &bits, 0, 0)
	if s.dib == 0 || bits == nil {
		win.DeleteDC(s.memDC)
		s.memDC = 0
		return fmt.Errorf("capture: CreateDIBSection failed")
	}
	s.oldBmp = win.SelectObject(s.memDC, win.HGDIOBJ(s.dib))
	s.bits = unsafe.Slice((*byte)(bits), size.X*size.Y*4)
	return nil
}

func (s *layeredSurface) releaseBuffer() {
	if s.memDC == 0 {
		return
	}
	win.SelectObject(s.memDC, s.oldBmp)
	win.DeleteObject(win.HGDIOBJ(s.dib))
	win.DeleteDC(s.memDC)
	s.memDC, s.dib, s.bits = 0, 0, nil
}

// Present copies frame into the DIB and pushes it with UpdateLayeredWindow.
// Frames presented before the window exists are kept and pushed by the
// first nil Present.
func (s *layeredSurface) Present(frame []byte) {
	if s.bits == nil {
		s.pending = frame
		return
	}
	if frame == nil {
		frame = s.pending
		s.pending = nil
	}
	if frame != nil {
		copy(s.bits, frame)
	}
	hwnd := win.HWND(s.hwnd.Load())
	if hwnd == 0 {
		return
	}
	size := s.bounds.Size()
	screenDC := win.GetDC(0)
	defer win.ReleaseDC(0, screenDC)
	dst := win.POINT{X: int32(s.bounds.Min.X), Y: int32(s.bounds.Min.Y)}
	src := win.POINT{}
	sz := win.SIZE{CX: int32(size.X), CY: int32(size.Y)}
	blend := blendFunction{BlendOp: acSrcOver, SourceConstantAlpha: 255, AlphaFormat: acSrcAlpha}
	procUpdateLayeredWindow.Call(
		uintptr(hwnd), uintptr(screenDC),
		uintptr(unsafe.Pointer(&dst)), uintptr(unsafe.Pointer(&sz)),
		uintptr(s.memDC), uintptr(unsafe.Pointer(&src)),
		0, uintptr(unsafe.Pointer(&blend)), ulwAlpha,
	)
}

func (s *layeredSurface) Hide() {
	if hwnd := win.HWND(s.hwnd.Load()); hwnd != 0 {
		win.ShowWindow(hwnd, win.SW_HIDE)
	}
}

func (s *layeredSurface) Close() {
	if hwnd := win.HWND(s.hwnd.Swap(0)); hwnd != 0 {
		win.DestroyWindow(hwnd)
	}
}

func (s *layeredSurface) Interrupt() {
	s.interrupted.Store(true)
	if hwnd := s.hwnd.Load(); hwnd != 0 {
		procPostMessageW.Call(hwnd, wmInterrupt, 0, 0)
	}
}

func pointFromLParam(lParam uintptr) image.Point {
	x := int16(win.LOWORD(uint32(lParam)))
	y := int16(win.HIWORD(uint32(lParam)))
	return image.Pt(int(x), int(y))
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	s := activeSurface.Load()
	if s == nil || s.driver == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}
	switch msg {
	case win.WM_LBUTTONDOWN:
		win.SetCapture(hwnd)
		s.driver.Press(pointFromLParam(lParam))
		return 0
	case win.WM_MOUSEMOVE:
		s.driver.Move(pointFromLParam(lParam))
		return 0
	case win.WM_LBUTTONUP:
		win.ReleaseCapture()
		s.driver.Release(pointFromLParam(lParam))
		return 0
	case win.WM_KEYDOWN:
		if wParam == win.VK_ESCAPE {
			s.driver.Cancel()
		}
		return 0
	case wmInterrupt, win.WM_CLOSE:
		s.driver.Cancel()
		return 0
	case win.WM_NCHITTEST:
		return uintptr(win.HTCLIENT)
	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}
