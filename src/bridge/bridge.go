// Package bridge is the single entry point an embedding host uses: every
// monitor, synthesis, capture and clipboard-file operation behind one type,
// configured once from config.Config.
package bridge

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"

	"ztools-native/src/capture"
	"ztools-native/src/clipfiles"
	"ztools-native/src/clipwatch"
	"ztools-native/src/config"
	"ztools-native/src/dispatch"
	"ztools-native/src/events"
	"ztools-native/src/focus"
	"ztools-native/src/hook"
	"ztools-native/src/input"
	"ztools-native/src/monitor"
)

// Bridge is the host-facing facade. Monitors are process-wide, so one Bridge
// per process is expected; the type carries the applied config and the
// capture options.
type Bridge struct {
	cfg     *config.Config
	capture capture.Options
}

// New applies cfg to every subsystem. A nil cfg means config.Default().
func New(cfg *config.Config) *Bridge {
	if cfg == nil {
		cfg = config.Default()
	}
	monitor.Configure(monitor.Options{
		StartTimeout: cfg.StartTimeout,
		StopTimeout:  cfg.StopTimeout,
		Policy:       dispatch.ParsePolicy(cfg.DispatchPolicy),
	})
	hook.UseBackend(cfg.HookBackend)
	clipwatch.SetPollInterval(cfg.PollInterval)
	focus.SetPollInterval(cfg.PollInterval)
	clipfiles.Configure(clipfiles.Config{Attempts: cfg.ClipboardAttempts, Delay: cfg.ClipboardRetry})

	style := capture.DefaultStyle()
	style.Alpha = cfg.OverlayAlpha
	style.Border = cfg.OverlayBorder

	zap.S().Debugf("bridge: configured policy=%s hook=%s poll=%v", cfg.DispatchPolicy, cfg.HookBackend, cfg.PollInterval)
	return &Bridge{
		cfg:     cfg,
		capture: capture.Options{SettleDelay: cfg.CaptureSettle, Style: style},
	}
}

// Config returns the configuration New applied.
func (b *Bridge) Config() *config.Config { return b.cfg }

// Platform names the running OS the way the host expects it.
func (b *Bridge) Platform() string { return runtime.GOOS }

// StartClipboardMonitor calls onChanged after every clipboard change until
// StopClipboardMonitor. It fails with events.ErrAlreadyRunning if the
// monitor is not idle.
func (b *Bridge) StartClipboardMonitor(onChanged func()) error {
	return clipwatch.Start(onChanged)
}

// StopClipboardMonitor is a no-op when the monitor is idle.
func (b *Bridge) StopClipboardMonitor() error { return clipwatch.Stop() }

// StartWindowMonitor reports the current foreground window at once and then
// every focus change.
func (b *Bridge) StartWindowMonitor(onChanged func(events.WindowDescriptor)) error {
	return focus.Start(onChanged)
}

// StopWindowMonitor is a no-op when the monitor is idle.
func (b *Bridge) StopWindowMonitor() error { return focus.Stop() }

// GetActiveWindow returns nil with a nil error when no window has focus.
func (b *Bridge) GetActiveWindow() (*events.WindowDescriptor, error) {
	return focus.Active()
}

// ActivateWindow brings the app named by identifier to the foreground: a
// pid on Windows, a pid or WM_CLASS on Linux, a bundle id or pid on macOS.
func (b *Bridge) ActivateWindow(identifier string) (bool, error) {
	return focus.Activate(identifier)
}

// HookEvents installs the input hooks. onEvent receives events.MouseAction
// and events.KeyAction values.
func (b *Bridge) HookEvents(effect events.Effect, onEvent func(events.Event)) error {
	return hook.Start(effect, onEvent)
}

// UnhookEvents removes the hooks installed by HookEvents.
func (b *Bridge) UnhookEvents() error { return hook.Stop() }

// SimulatePaste sends the platform paste shortcut to the focused window.
func (b *Bridge) SimulatePaste() bool { return input.SimulatePaste() }

// SimulateKeyTap presses and releases key with mods held. Unknown names
// fail with events.ErrUnknownKey before anything is sent.
func (b *Bridge) SimulateKeyTap(key string, mods ...string) (bool, error) {
	return input.SimulateKeyTap(key, mods...)
}

// StartRegionCapture opens the overlay and returns at once. onResult may be
// nil; the image still lands on the clipboard.
func (b *Bridge) StartRegionCapture(ctx context.Context, onResult func(events.CaptureResult)) error {
	if onResult == nil {
		onResult = func(events.CaptureResult) {}
	}
	return capture.Start(ctx, b.capture, onResult)
}

// CaptureRegion is the blocking form of StartRegionCapture.
func (b *Bridge) CaptureRegion(ctx context.Context) (events.CaptureResult, error) {
	return capture.Run(ctx, b.capture)
}

// GetClipboardFiles returns an empty slice when the clipboard holds no files.
func (b *Bridge) GetClipboardFiles() []clipfiles.File { return clipfiles.Get() }

// SetClipboardFiles replaces the clipboard with a file list. Each item is a
// path string or a value carrying one (clipfiles.File, a struct with a Path
// field, or a decoded JSON object with a "path" key). Order is kept.
func (b *Bridge) SetClipboardFiles(items []any) (bool, error) {
	paths, err := clipfiles.NormalizeInput(items)
	if err != nil {
		return false, err
	}
	return clipfiles.Set(paths)
}

// Shutdown stops every monitor, waiting at most StopTimeout for each.
func (b *Bridge) Shutdown() {
	start := time.Now()
	monitor.Default().StopAll()
	zap.S().Debugf("bridge: monitors stopped in %v", time.Since(start))
}
