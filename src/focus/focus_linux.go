//go:build linux

package focus

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

const (
	activateChecks     = 10
	activateCheckDelay = 20 * time.Millisecond
)

// x11 holds one connection with the EWMH atoms it needs.
type x11 struct {
	conn *xgb.Conn
	root xproto.Window

	activeWindow xproto.Atom
	clientList   xproto.Atom
	wmPID        xproto.Atom
	wmName       xproto.Atom
	utf8String   xproto.Atom
}

func dialX11() (*x11, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	x := &x11{conn: conn, root: xproto.Setup(conn).DefaultScreen(conn).Root}
	for name, dst := range map[string]*xproto.Atom{
		"_NET_ACTIVE_WINDOW": &x.activeWindow,
		"_NET_CLIENT_LIST":   &x.clientList,
		"_NET_WM_PID":        &x.wmPID,
		"_NET_WM_NAME":       &x.wmName,
		"UTF8_STRING":        &x.utf8String,
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("intern %s: %w", name, err)
		}
		*dst = reply.Atom
	}
	return x, nil
}

func (x *x11) property(w xproto.Window, atom, typ xproto.Atom) (*xproto.GetPropertyReply, error) {
	return xproto.GetProperty(x.conn, false, w, atom, typ, 0, 1<<16).Reply()
}

func (x *x11) windows(w xproto.Window, atom xproto.Atom) []xproto.Window {
	reply, err := x.property(w, atom, xproto.AtomWindow)
	if err != nil || reply.Format != 32 {
		return nil
	}
	out := make([]xproto.Window, 0, reply.ValueLen)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		out = append(out, xproto.Window(binary.LittleEndian.Uint32(reply.Value[i:])))
	}
	return out
}

func (x *x11) activeWindowID() xproto.Window {
	if ws := x.windows(x.root, x.activeWindow); len(ws) > 0 {
		return ws[0]
	}
	return 0
}

func (x *x11) pid(w xproto.Window) int {
	reply, err := x.property(w, x.wmPID, xproto.AtomCardinal)
	if err != nil || reply.Format != 32 || len(reply.Value) < 4 {
		return 0
	}
	return int(binary.LittleEndian.Uint32(reply.Value))
}

func (x *x11) title(w xproto.Window) string {
	if reply, err := x.property(w, x.wmName, x.utf8String); err == nil && len(reply.Value) > 0 {
		return string(reply.Value)
	}
	if reply, err := x.property(w, xproto.AtomWmName, xproto.AtomAny); err == nil {
		return string(reply.Value)
	}
	return ""
}

// class returns the instance and class parts of WM_CLASS.
func (x *x11) class(w xproto.Window) (string, string) {
	reply, err := x.property(w, xproto.AtomWmClass, xproto.AtomString)
	if err != nil || len(reply.Value) == 0 {
		return "", ""
	}
	parts := strings.Split(strings.TrimRight(string(reply.Value), "\x00"), "\x00")
	if len(parts) < 2 {
		return parts[0], parts[0]
	}
	return parts[0], parts[1]
}

func (x *x11) bounds(w xproto.Window) *events.Rect {
	geom, err := xproto.GetGeometry(x.conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return nil
	}
	pos, err := xproto.TranslateCoordinates(x.conn, w, x.root, 0, 0).Reply()
	if err != nil {
		return nil
	}
	return &events.Rect{X: int(pos.DstX), Y: int(pos.DstY), Width: int(geom.Width), Height: int(geom.Height)}
}

func (x *x11) describe(w xproto.Window) *events.WindowDescriptor {
	d := &events.WindowDescriptor{Title: x.title(w), Bounds: x.bounds(w)}
	instance, class := x.class(w)
	d.App = instance
	d.AppName = class
	if pid := x.pid(w); pid > 0 {
		d.ProcessID = pid
		if exe, err := os.Readlink("/proc/" + strconv.Itoa(pid) + "/exe"); err == nil {
			d.ExecutablePath = exe
			if d.AppName == "" {
				d.AppName = appNameFromPath(exe)
			}
		}
	}
	return d
}

// propertyBackend listens for _NET_ACTIVE_WINDOW changes on the root window.
type propertyBackend struct {
	x      *x11
	emit   func(events.Event)
	filter changeFilter

	mu     sync.Mutex
	closed bool
}

func newBackend() (monitor.Backend, error) {
	return &propertyBackend{}, nil
}

func (b *propertyBackend) Open(emit func(events.Event)) error {
	x, err := dialX11()
	if err != nil {
		return fmt.Errorf("%w: %v", events.ErrSubscriptionFailed, err)
	}
	err = xproto.ChangeWindowAttributesChecked(x.conn, x.root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		x.conn.Close()
		return fmt.Errorf("%w: select PropertyChange: %v", events.ErrSubscriptionFailed, err)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		x.conn.Close()
		return nil
	}
	b.x = x
	b.mu.Unlock()

	b.emit = emit
	if w := x.activeWindowID(); w != 0 {
		b.filter.changed(strconv.FormatUint(uint64(w), 10))
		emit(events.WindowFocusChanged{Window: *x.describe(w)})
	}
	return nil
}

func (b *propertyBackend) Run() {
	b.mu.Lock()
	x := b.x
	b.mu.Unlock()
	if x == nil {
		return
	}
	for {
		ev, xerr := x.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return
		}
		pn, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || pn.Atom != x.activeWindow {
			continue
		}
		w := x.activeWindowID()
		if w == 0 || !b.filter.changed(strconv.FormatUint(uint64(w), 10)) {
			continue
		}
		b.emit(events.WindowFocusChanged{Window: *x.describe(w)})
	}
}

// Wake closes the connection, which makes WaitForEvent return.
func (b *propertyBackend) Wake() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.x != nil {
		b.x.conn.Close()
	}
}

func (b *propertyBackend) Close() {
	b.Wake()
}

func active() (*events.WindowDescriptor, error) {
	x, err := dialX11()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", events.ErrLookupFailed, err)
	}
	defer x.conn.Close()
	w := x.activeWindowID()
	if w == 0 {
		return nil, fmt.Errorf("%w: no active window", events.ErrLookupFailed)
	}
	return x.describe(w), nil
}

func activate(identifier string) (bool, error) {
	x, err := dialX11()
	if err != nil {
		return false, fmt.Errorf("%w: %v", events.ErrLookupFailed, err)
	}
	defer x.conn.Close()

	pid, byPID := parsePID(identifier)
	var target xproto.Window
	for _, w := range x.windows(x.root, x.clientList) {
		if byPID {
			if x.pid(w) == pid {
				target = w
				break
			}
			continue
		}
		instance, class := x.class(w)
		if strings.EqualFold(instance, identifier) || strings.EqualFold(class, identifier) {
			target = w
			break
		}
	}
	if target == 0 {
		return false, nil
	}

	// Source indication 2 marks the request as coming from a pager.
	msg := xproto.ClientMessageEvent{
		Format: 32,
		Window: target,
		Type:   x.activeWindow,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{2, uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)
	if err := xproto.SendEventChecked(x.conn, false, x.root, mask, string(msg.Bytes())).Check(); err != nil {
		return false, fmt.Errorf("send _NET_ACTIVE_WINDOW: %w", err)
	}
	xproto.MapWindow(x.conn, target)

	// The window manager applies the request asynchronously.
	for i := 0; i < activateChecks; i++ {
		if x.activeWindowID() == target {
			return true, nil
		}
		time.Sleep(activateCheckDelay)
	}
	return false, nil
}
