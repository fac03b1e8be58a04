package monitor

// This file defines the lifecycle contract shared by every monitor variant.

import (
	"ztools-native/src/events"
)

// Kind identifies one class of OS notification. At most one monitor per kind
// is live at a time.
type Kind int

const (
	Clipboard Kind = iota
	WindowFocus
	InputHook
)

func (k Kind) String() string {
	switch k {
	case Clipboard:
		return "clipboard"
	case WindowFocus:
		return "window"
	case InputHook:
		return "hook"
	default:
		return "unknown"
	}
}

// State is the lifecycle phase of a monitor kind.
type State int

const (
	Idle State = iota
	Starting
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Backend owns one platform subscription. All methods except Wake run on the
// monitor's worker goroutine, which is locked to its OS thread.
type Backend interface {
	// Open installs the platform subscription. Events are forwarded with
	// emit, which never blocks. A failed Open must not leave anything
	// registered with the OS.
	Open(emit func(events.Event)) error
	// Run blocks in the native wait until Wake is called.
	Run()
	// Wake unblocks Run. It is safe from any goroutine and must make a
	// subsequent Run return immediately if called before Run starts.
	Wake()
	// Close tears down the subscription after Run has returned.
	Close()
}

// Token identifies one start of a monitor kind.
type Token string
