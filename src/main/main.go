// Command ztools-agent is the resident tray agent: it owns the capture
// hotkey, answers delegated captures and can log monitor activity.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ztools-native/src/bridge"
	"ztools-native/src/config"
	"ztools-native/src/eventloop"
	"ztools-native/src/events"
	"ztools-native/src/hotkey"
	"ztools-native/src/runtimeinit"
	"ztools-native/src/singleinstance"
	"ztools-native/src/tray"
)

type mainOptions struct {
	configFile string
	verbose    bool
	hotkey     string
}

func init() {
	// systray and the macOS hotkey need the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCmd(&mainOptions{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ztools-agent",
		Short:         "Resident tray agent for region capture and desktop monitors",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*opts)
		},
	}
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to a YAML config file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")
	cmd.Flags().StringVar(&opts.hotkey, "hotkey", "", "Capture hotkey, overrides ZTOOLS_CAPTURE_HOTKEY")
	return cmd
}

// preflight fails fast when another agent already owns the start port.
func preflight() error {
	start, _ := singleinstance.PortRange()
	lis, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", start))
	if err != nil {
		return fmt.Errorf("an agent is already running on port %d", start)
	}
	return lis.Close()
}

func run(opts mainOptions) error {
	enableDPIAwareness()

	b, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{ConfigFile: opts.configFile},
		Console:     opts.verbose,
	})
	if err != nil {
		return err
	}
	defer zap.L().Sync()
	defer b.Shutdown()

	if err := preflight(); err != nil {
		return err
	}
	logMonitorConfiguration()

	combo := b.Config().CaptureHotkey
	if opts.hotkey != "" {
		combo = opts.hotkey
	}
	if c, err := hotkey.Parse(combo); err == nil {
		combo = c.String()
	}
	tooltip := fmt.Sprintf("ztools - press %s to capture", combo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := eventloop.New(eventloop.Options{
		Capturer: b,
		OnBusy: func(busy bool) {
			if busy {
				tray.SetTooltip("ztools: capturing...")
			} else {
				tray.SetTooltip(tooltip)
			}
		},
	})

	var hk *hotkey.Listener
	t := tray.New(tray.Config{
		Title:            "ztools",
		Tooltip:          tooltip,
		OnCapture:        loop.TriggerCapture,
		OnWatchClipboard: func(on bool) error { return watchClipboard(b, on) },
		OnWatchWindow:    func(on bool) error { return watchWindow(b, on) },
		OnReady: func() {
			l, err := hotkey.Register(combo, loop.TriggerCapture)
			if err != nil {
				zap.S().Warnf("capture hotkey unavailable: %v", err)
				return
			}
			hk = l
		},
		OnExit: cancel,
	})

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	loopErr := make(chan error, 1)
	go func() {
		err := loop.Run(ctx)
		t.Quit()
		loopErr <- err
	}()

	zap.S().Infof("ztools agent started, hotkey %s", combo)
	t.Run()

	cancel()
	if hk != nil {
		_ = hk.Close()
	}
	if err := <-loopErr; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("event loop stopped: %w", err)
	}
	return nil
}

func watchClipboard(b *bridge.Bridge, on bool) error {
	if !on {
		return b.StopClipboardMonitor()
	}
	return b.StartClipboardMonitor(func() {
		zap.S().Infof("clipboard changed")
	})
}

func watchWindow(b *bridge.Bridge, on bool) error {
	if !on {
		return b.StopWindowMonitor()
	}
	return b.StartWindowMonitor(func(w events.WindowDescriptor) {
		data, _ := json.Marshal(w)
		zap.S().Infof("window focus: %s", data)
	})
}
