package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ztools-native/src/events"
	"ztools-native/src/input"
	"ztools-native/src/keymap"
	"ztools-native/src/session"
	"ztools-native/src/singleinstance"
)

// streamEvent is the line format of streaming commands.
type streamEvent struct {
	Type  string `json:"type"`
	Event any    `json:"event,omitempty"`
}

// untilInterrupted blocks until SIGINT/SIGTERM or the command context ends.
func untilInterrupted(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream clipboard or foreground window changes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clipboard",
		Short: "Print an event every time the clipboard changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bridge(true)
			if err != nil {
				return err
			}
			if err := b.StartClipboardMonitor(func() {
				_ = a.emit(streamEvent{Type: events.TypeClipboardChanged})
			}); err != nil {
				return err
			}
			untilInterrupted(cmd)
			return b.StopClipboardMonitor()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "window",
		Short: "Print the foreground window on start and on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bridge(false)
			if err != nil {
				return err
			}
			if err := b.StartWindowMonitor(func(w events.WindowDescriptor) {
				_ = a.emit(streamEvent{Type: events.TypeWindowFocusChanged, Event: w})
			}); err != nil {
				return err
			}
			untilInterrupted(cmd)
			return b.StopWindowMonitor()
		},
	})
	return cmd
}

// parseEffect accepts mouse|keyboard|both or the numeric 1|2|3.
func parseEffect(s string) (events.Effect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mouse":
		return events.EffectMouse, nil
	case "keyboard":
		return events.EffectKeyboard, nil
	case "both":
		return events.EffectBoth, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !events.Effect(n).Valid() {
		return 0, fmt.Errorf("%w: effect %q", events.ErrInvalidArgument, s)
	}
	return events.Effect(n), nil
}

func newHookCmd(a *app) *cobra.Command {
	var effect string
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Stream global mouse and keyboard events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseEffect(effect)
			if err != nil {
				return err
			}
			b, err := a.bridge(false)
			if err != nil {
				return err
			}
			if err := b.HookEvents(e, func(ev events.Event) {
				_ = a.emit(streamEvent{Type: ev.Type(), Event: ev})
			}); err != nil {
				return err
			}
			untilInterrupted(cmd)
			return b.UnhookEvents()
		},
	}
	cmd.Flags().StringVar(&effect, "effect", "both", "mouse, keyboard or both (1, 2, 3)")
	return cmd
}

func newWindowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Query or activate windows",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "active",
		Short: "Print the foreground window, or null",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bridge(false)
			if err != nil {
				return err
			}
			w, err := b.GetActiveWindow()
			if err != nil {
				return err
			}
			return a.emit(w)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "activate <pid|bundle-id|class>",
		Short: "Bring a window of the given application to the front",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bridge(false)
			if err != nil {
				return err
			}
			ok, err := b.ActivateWindow(args[0])
			if err != nil {
				return err
			}
			return a.emit(map[string]bool{"activated": ok})
		},
	})
	return cmd
}

func newPasteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "paste",
		Short: "Send the platform paste shortcut to the focused window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bridge(false)
			if err != nil {
				return err
			}
			return a.emit(map[string]bool{"ok": b.SimulatePaste()})
		},
	}
}

func newTapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tap <key> [modifiers...]",
		Short: "Press and release a key with optional modifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reject bad names before touching the desktop.
			if _, err := input.PlanTap(args[0], args[1:]...); err != nil {
				return err
			}
			b, err := a.bridge(false)
			if err != nil {
				return err
			}
			ok, err := b.SimulateKeyTap(args[0], args[1:]...)
			if err != nil {
				return err
			}
			return a.emit(map[string]bool{"ok": ok})
		},
	}
}

func newCaptureCmd(a *app) *cobra.Command {
	var delegate bool
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Select a screen region and copy it to the clipboard as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			if delegate {
				delegated, r, err := singleinstance.NewClient().TryCapture(ctx)
				if err != nil {
					return fmt.Errorf("delegated capture: %w", err)
				}
				if delegated {
					return a.emit(r)
				}
				zap.S().Infof("no resident agent found, capturing locally")
			}

			b, err := a.bridge(true)
			if err != nil {
				return err
			}
			_, err = session.Execute(ctx, session.Options{
				Capture: b.CaptureRegion,
				Target:  session.StdoutTarget{Writer: a.writer()},
			})
			return err
		},
	}
	cmd.Flags().BoolVar(&delegate, "delegate", false, "Ask a running agent to capture instead")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits forever)")
	return cmd
}

func newFilesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Read or write file references on the clipboard",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the files currently on the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bridge(false)
			if err != nil {
				return err
			}
			return a.emit(b.GetClipboardFiles())
		},
	})
	var fromJSON bool
	set := &cobra.Command{
		Use:   "set <path>...",
		Short: "Put files on the clipboard for pasting into a file manager",
		Long: "Put files on the clipboard for pasting into a file manager.\n\n" +
			"With --json the list is read from stdin as a JSON array of path strings\n" +
			"or objects with a \"path\" field, such as the output of \"files get\".",
		Args: func(cmd *cobra.Command, args []string) error {
			if fromJSON {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := fileItems(cmd.InOrStdin(), args, fromJSON)
			if err != nil {
				return err
			}
			b, err := a.bridge(false)
			if err != nil {
				return err
			}
			ok, err := b.SetClipboardFiles(items)
			if err != nil {
				return err
			}
			return a.emit(map[string]bool{"ok": ok})
		},
	}
	set.Flags().BoolVar(&fromJSON, "json", false, "Read the file list from stdin as JSON")
	cmd.AddCommand(set)
	return cmd
}

func newKeysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the canonical key names hook events use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(keymap.Vocabulary())
		},
	}
}

// fileItems collects the files set input: positional paths, or a JSON array
// read from r.
func fileItems(r io.Reader, args []string, fromJSON bool) ([]any, error) {
	if !fromJSON {
		items := make([]any, len(args))
		for i, p := range args {
			items[i] = p
		}
		return items, nil
	}
	var items []any
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: file list must be a JSON array: %v", events.ErrInvalidArgument, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: file list cannot be empty", events.ErrInvalidArgument)
	}
	return items, nil
}
