// Package tray is the resident agent's system tray menu.
package tray

import (
	"github.com/getlantern/systray"
	"go.uber.org/zap"
)

type Config struct {
	Title   string
	Tooltip string

	OnCapture        func()
	OnWatchClipboard func(on bool) error
	OnWatchWindow    func(on bool) error
	// OnReady runs once the menu exists, on the tray goroutine.
	OnReady func()
	OnExit  func()
}

type Tray struct {
	cfg Config
}

func New(cfg Config) *Tray { return &Tray{cfg: cfg} }

// Run blocks until Quit. On macOS it must be called from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) Quit() { systray.Quit() }

// SetTooltip is safe to call from any goroutine once Run has started.
func SetTooltip(tt string) { systray.SetTooltip(tt) }

func (t *Tray) onReady() {
	systray.SetIcon(Icon())
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)

	mCapture := systray.AddMenuItem("Capture Region", "Select a screen region and copy it")
	systray.AddSeparator()
	mClip := systray.AddMenuItemCheckbox("Watch Clipboard", "Log clipboard changes", false)
	mWin := systray.AddMenuItemCheckbox("Watch Window", "Log foreground window changes", false)
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the agent")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				if t.cfg.OnCapture != nil {
					t.cfg.OnCapture()
				}
			case <-mClip.ClickedCh:
				toggle(mClip, "clipboard", t.cfg.OnWatchClipboard)
			case <-mWin.ClickedCh:
				toggle(mWin, "window", t.cfg.OnWatchWindow)
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()

	if t.cfg.OnReady != nil {
		t.cfg.OnReady()
	}
}

func (t *Tray) onExit() {
	if t.cfg.OnExit != nil {
		t.cfg.OnExit()
	}
}

// toggle flips a checkbox item only when fn accepts the new state.
func toggle(item *systray.MenuItem, name string, fn func(bool) error) {
	if fn == nil {
		return
	}
	want := !item.Checked()
	if err := fn(want); err != nil {
		zap.S().Warnf("tray: watch %s: %v", name, err)
		return
	}
	if want {
		item.Check()
	} else {
		item.Uncheck()
	}
}
