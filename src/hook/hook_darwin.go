//go:build darwin

package hook

/*
#cgo darwin CFLAGS: -x objective-c -fmodules -fobjc-arc
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework Cocoa
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

static Boolean hookAXCheckTrusted(void) {
        const void *keys[] = { kAXTrustedCheckOptionPrompt };
        const void *values[] = { kCFBooleanTrue };
        CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
                                                     &kCFTypeDictionaryKeyCallBacks,
                                                     &kCFTypeDictionaryValueCallBacks);
        Boolean trusted = AXIsProcessTrustedWithOptions(options);
        CFRelease(options);
        return trusted;
}

extern CGEventRef ztHookHandleEvent(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static CFMachPortRef hookCreateTap(uintptr_t handle, CGEventMask mask) {
        return CGEventTapCreate(kCGSessionEventTap,
                                kCGHeadInsertEventTap,
                                kCGEventTapOptionListenOnly,
                                mask,
                                ztHookHandleEvent,
                                (void *)handle);
}

static CFRunLoopSourceRef hookAttachTap(CFMachPortRef tap, CFRunLoopRef loop) {
        CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
        if (source == NULL) {
                return NULL;
        }
        CFRunLoopAddSource(loop, source, kCFRunLoopCommonModes);
        CGEventTapEnable(tap, true);
        return source;
}

static void hookDetachTap(CFMachPortRef tap, CFRunLoopSourceRef source, CFRunLoopRef loop) {
        CGEventTapEnable(tap, false);
        CFRunLoopRemoveSource(loop, source, kCFRunLoopCommonModes);
        CFMachPortInvalidate(tap);
        CFRelease(source);
        CFRelease(tap);
}

static void hookReenable(CFMachPortRef tap) {
        CGEventTapEnable(tap, true);
}

static CGEventMask hookMaskBit(CGEventType type) {
        return ((CGEventMask)1) << type;
}

static CFRunLoopRef hookCurrentRunLoop(void) {
        return CFRunLoopGetCurrent();
}

static void hookRunSlice(void) {
        CFRunLoopRunInMode(kCFRunLoopDefaultMode, 0.25, false);
}

static void hookStopRunLoop(CFRunLoopRef loop) {
        CFRunLoopStop(loop);
        CFRunLoopWakeUp(loop);
}

static double hookEventX(CGEventRef event) { return CGEventGetLocation(event).x; }
static double hookEventY(CGEventRef event) { return CGEventGetLocation(event).y; }

static int64_t hookEventKeycode(CGEventRef event) {
        return CGEventGetIntegerValueField(event, kCGKeyboardEventKeycode);
}

static uint64_t hookEventFlags(CGEventRef event) {
        return (uint64_t)CGEventGetFlags(event);
}
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"ztools-native/src/events"
	"ztools-native/src/keymap"
)

// CGEventFlags device-independent masks.
const (
	flagShift   = 0x00020000
	flagControl = 0x00040000
	flagAlt     = 0x00080000
	flagCommand = 0x00100000
	flagCaps    = 0x00010000
	flagFn      = 0x00800000
)

// Device-dependent bits that tell the left and right modifier keys apart.
var sideMask = map[string]uint64{
	keymap.Control:      0x0001,
	keymap.Shift:        0x0002,
	keymap.RightShift:   0x0004,
	keymap.Meta:         0x0008,
	keymap.RightMeta:    0x0010,
	keymap.Alt:          0x0020,
	keymap.RightAlt:     0x0040,
	keymap.RightControl: 0x2000,
}

type tapBackend struct {
	effect events.Effect
	emit   func(events.Event)

	handle cgo.Handle
	tap    C.CFMachPortRef
	source C.CFRunLoopSourceRef
	loop   atomic.Uintptr
	woken  atomic.Bool
}

func newNativeBackend(effect events.Effect) (backend, error) {
	return &tapBackend{effect: effect}, nil
}

func (b *tapBackend) Open(emit func(events.Event)) error {
	if C.hookAXCheckTrusted() == C.Boolean(0) {
		return events.ErrPermissionDenied
	}
	b.emit = emit

	var mask C.CGEventMask
	if b.effect.Keyboard() {
		mask |= C.hookMaskBit(C.kCGEventKeyDown) |
			C.hookMaskBit(C.kCGEventKeyUp) |
			C.hookMaskBit(C.kCGEventFlagsChanged)
	}
	if b.effect.Mouse() {
		mask |= C.hookMaskBit(C.kCGEventLeftMouseDown) |
			C.hookMaskBit(C.kCGEventLeftMouseUp) |
			C.hookMaskBit(C.kCGEventRightMouseDown) |
			C.hookMaskBit(C.kCGEventRightMouseUp)
	}

	b.handle = cgo.NewHandle(b)
	b.tap = C.hookCreateTap(C.uintptr_t(b.handle), mask)
	if b.tap == 0 {
		b.handle.Delete()
		return fmt.Errorf("%w: CGEventTapCreate returned NULL", events.ErrSubscriptionFailed)
	}
	loop := C.hookCurrentRunLoop()
	b.source = C.hookAttachTap(b.tap, loop)
	if b.source == 0 {
		C.CFMachPortInvalidate(b.tap)
		C.CFRelease(C.CFTypeRef(b.tap))
		b.handle.Delete()
		return fmt.Errorf("%w: could not create run loop source", events.ErrSubscriptionFailed)
	}
	b.loop.Store(uintptr(loop))
	return nil
}

func (b *tapBackend) Run() {
	for !b.woken.Load() {
		C.hookRunSlice()
	}
}

func (b *tapBackend) Wake() {
	b.woken.Store(true)
	if loop := b.loop.Load(); loop != 0 {
		C.hookStopRunLoop(C.CFRunLoopRef(loop))
	}
}

func (b *tapBackend) Close() {
	if loop := b.loop.Load(); loop != 0 {
		C.hookDetachTap(b.tap, b.source, C.CFRunLoopRef(loop))
	}
	b.handle.Delete()
}

func (b *tapBackend) handleKey(eventType C.CGEventType, event C.CGEventRef) {
	name := keymap.FromDarwin(uint16(C.hookEventKeycode(event)))
	flags := uint64(C.hookEventFlags(event))

	var down bool
	switch eventType {
	case C.kCGEventKeyDown:
		down = true
	case C.kCGEventKeyUp:
		down = false
	case C.kCGEventFlagsChanged:
		switch {
		case keymap.IsModifier(name):
			down = flags&sideMask[name] != 0
		case name == keymap.CapsLock:
			down = flags&flagCaps != 0
		case name == keymap.Fn:
			down = flags&flagFn != 0
		}
	}

	held := events.Modifiers{
		Shift: flags&flagShift != 0,
		Ctrl:  flags&flagControl != 0,
		Alt:   flags&flagAlt != 0,
		Meta:  flags&flagCommand != 0,
	}
	if ka, ok := TranslateKey(RawKey{Key: name, Down: down, Held: held}); ok {
		b.emit(ka)
	}
}

func (b *tapBackend) handleMouse(eventType C.CGEventType, event C.CGEventRef) {
	var button MouseButton
	var down bool
	switch eventType {
	case C.kCGEventLeftMouseDown:
		button, down = ButtonLeft, true
	case C.kCGEventLeftMouseUp:
		button = ButtonLeft
	case C.kCGEventRightMouseDown:
		button, down = ButtonRight, true
	case C.kCGEventRightMouseUp:
		button = ButtonRight
	default:
		return
	}
	x, y := int(C.hookEventX(event)), int(C.hookEventY(event))
	if ma, ok := TranslateMouse(button, down, x, y); ok {
		b.emit(ma)
	}
}

//export ztHookHandleEvent
func ztHookHandleEvent(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	b, ok := cgo.Handle(uintptr(userInfo)).Value().(*tapBackend)
	if !ok {
		return event
	}
	switch eventType {
	case C.kCGEventTapDisabledByTimeout, C.kCGEventTapDisabledByUserInput:
		zap.S().Debugf("hook: event tap disabled (%d), re-enabling", int(eventType))
		C.hookReenable(b.tap)
	case C.kCGEventKeyDown, C.kCGEventKeyUp, C.kCGEventFlagsChanged:
		b.handleKey(eventType, event)
	case C.kCGEventLeftMouseDown, C.kCGEventLeftMouseUp,
		C.kCGEventRightMouseDown, C.kCGEventRightMouseUp:
		b.handleMouse(eventType, event)
	}
	return event
}
