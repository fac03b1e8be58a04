//go:build darwin

package focus

/*
#cgo darwin CFLAGS: -x objective-c -fobjc-arc
#cgo darwin LDFLAGS: -framework Cocoa -framework CoreGraphics
#import <Cocoa/Cocoa.h>
#import <CoreGraphics/CoreGraphics.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
	int pid;
	char *appName;
	char *bundleId;
	char *title;
	char *app;
	char *appPath;
	int hasBounds;
	double x, y, w, h;
} ztWindowInfo;

static char *ztDup(NSString *s) {
	if (s == nil) {
		return NULL;
	}
	return strdup([s UTF8String]);
}

// Frontmost regular application, taken from the on-screen window order.
static int ztFrontmostPID(void) {
	@autoreleasepool {
		CFArrayRef list = CGWindowListCopyWindowInfo(
			kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements, kCGNullWindowID);
		if (list != NULL) {
			NSArray *windows = CFBridgingRelease(list);
			for (NSDictionary *w in windows) {
				NSNumber *pid = w[(id)kCGWindowOwnerPID];
				NSNumber *layer = w[(id)kCGWindowLayer];
				if (pid == nil || pid.intValue <= 0 || layer == nil || layer.intValue != 0) {
					continue;
				}
				NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid.intValue];
				if (app != nil && app.activationPolicy == NSApplicationActivationPolicyRegular) {
					return pid.intValue;
				}
			}
		}
		NSRunningApplication *front = [[NSWorkspace sharedWorkspace] frontmostApplication];
		return front != nil ? front.processIdentifier : 0;
	}
}

static void ztDescribe(int pid, ztWindowInfo *out) {
	memset(out, 0, sizeof(*out));
	out->pid = pid;
	@autoreleasepool {
		NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
		if (app != nil) {
			out->appName = ztDup(app.localizedName);
			out->bundleId = ztDup(app.bundleIdentifier);
			if (app.bundleURL != nil) {
				out->app = ztDup(app.bundleURL.lastPathComponent);
			}
			if (app.executableURL != nil) {
				out->appPath = ztDup(app.executableURL.path);
			}
		}
		CFArrayRef list = CGWindowListCopyWindowInfo(
			kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements, kCGNullWindowID);
		if (list == NULL) {
			return;
		}
		NSArray *windows = CFBridgingRelease(list);
		for (NSDictionary *w in windows) {
			NSNumber *owner = w[(id)kCGWindowOwnerPID];
			NSNumber *layer = w[(id)kCGWindowLayer];
			if (owner == nil || owner.intValue != pid || layer == nil || layer.intValue != 0) {
				continue;
			}
			NSString *name = w[(id)kCGWindowName];
			if (name.length > 0) {
				out->title = ztDup(name);
			}
			CGRect rect;
			NSDictionary *bounds = w[(id)kCGWindowBounds];
			if (bounds != nil && CGRectMakeWithDictionaryRepresentation((__bridge CFDictionaryRef)bounds, &rect)) {
				out->hasBounds = 1;
				out->x = rect.origin.x;
				out->y = rect.origin.y;
				out->w = rect.size.width;
				out->h = rect.size.height;
			}
			break;
		}
	}
}

static void ztFreeInfo(ztWindowInfo *info) {
	free(info->appName);
	free(info->bundleId);
	free(info->title);
	free(info->app);
	free(info->appPath);
}

static int ztActivateApp(NSRunningApplication *app) {
	if (app == nil) {
		return 0;
	}
	return [app activateWithOptions:NSApplicationActivateAllWindows | NSApplicationActivateIgnoringOtherApps] ? 1 : 0;
}

static int ztActivatePID(int pid) {
	@autoreleasepool {
		return ztActivateApp([NSRunningApplication runningApplicationWithProcessIdentifier:pid]);
	}
}

static int ztActivateBundle(const char *bundleId) {
	@autoreleasepool {
		NSString *ident = [NSString stringWithUTF8String:bundleId];
		NSArray *apps = [NSRunningApplication runningApplicationsWithBundleIdentifier:ident];
		return ztActivateApp(apps.firstObject);
	}
}
*/
import "C"

import (
	"fmt"
	"strconv"
	"sync"
	"time"
	"unsafe"

	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

// frontmostBackend polls the frontmost application and emits on pid change.
type frontmostBackend struct {
	interval time.Duration
	emit     func(events.Event)
	filter   changeFilter

	wake     chan struct{}
	wakeOnce sync.Once
}

func newBackend() (monitor.Backend, error) {
	return &frontmostBackend{interval: currentPollInterval(), wake: make(chan struct{})}, nil
}

func (b *frontmostBackend) Open(emit func(events.Event)) error {
	b.emit = emit
	if pid := int(C.ztFrontmostPID()); pid > 0 {
		b.filter.changed(strconv.Itoa(pid))
		d := describe(pid)
		emit(events.WindowFocusChanged{Window: *d})
	}
	return nil
}

func (b *frontmostBackend) Run() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.wake:
			return
		case <-ticker.C:
			pid := int(C.ztFrontmostPID())
			if pid <= 0 || !b.filter.changed(strconv.Itoa(pid)) {
				continue
			}
			b.emit(events.WindowFocusChanged{Window: *describe(pid)})
		}
	}
}

func (b *frontmostBackend) Wake() {
	b.wakeOnce.Do(func() { close(b.wake) })
}

func (b *frontmostBackend) Close() {}

func describe(pid int) *events.WindowDescriptor {
	var info C.ztWindowInfo
	C.ztDescribe(C.int(pid), &info)
	defer C.ztFreeInfo(&info)

	d := &events.WindowDescriptor{
		ProcessID:      pid,
		AppName:        goString(info.appName),
		BundleID:       goString(info.bundleId),
		Title:          goString(info.title),
		App:            goString(info.app),
		ExecutablePath: goString(info.appPath),
	}
	if info.hasBounds != 0 {
		d.Bounds = &events.Rect{
			X:      int(info.x),
			Y:      int(info.y),
			Width:  int(info.w),
			Height: int(info.h),
		}
	}
	return d
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

func active() (*events.WindowDescriptor, error) {
	pid := int(C.ztFrontmostPID())
	if pid <= 0 {
		return nil, fmt.Errorf("%w: no frontmost application", events.ErrLookupFailed)
	}
	return describe(pid), nil
}

func activate(identifier string) (bool, error) {
	if pid, ok := parsePID(identifier); ok {
		return C.ztActivatePID(C.int(pid)) != 0, nil
	}
	cs := C.CString(identifier)
	defer C.free(unsafe.Pointer(cs))
	return C.ztActivateBundle(cs) != 0, nil
}
