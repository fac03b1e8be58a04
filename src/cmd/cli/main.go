// Command ztools exposes the desktop integration layer on the command line.
// Every command prints JSON; streaming commands print one object per line
// until interrupted.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ztools-native/src/bridge"
	"ztools-native/src/config"
	"ztools-native/src/runtimeinit"
)

type cliOptions struct {
	configFile string
	verbose    bool
}

// app is shared by every subcommand. The bridge is built on first use so
// commands that never touch the desktop start instantly.
type app struct {
	opts *cliOptions

	mu     sync.Mutex
	out    io.Writer
	b      *bridge.Bridge
	withCB bool
}

func main() {
	if err := runWithArgs(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"ztools"}
	}
	cmd := newRootCmd(&cliOptions{})
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	a := &app{opts: opts}
	cmd := &cobra.Command{
		Use:           "ztools",
		Short:         "Clipboard, window, input and capture tools for the desktop",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.out = cmd.OutOrStdout()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging to stderr")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a YAML config file")

	cmd.AddCommand(
		newWatchCmd(a),
		newHookCmd(a),
		newWindowCmd(a),
		newPasteCmd(a),
		newTapCmd(a),
		newCaptureCmd(a),
		newFilesCmd(a),
		newKeysCmd(a),
	)
	return cmd
}

// bridge bootstraps on first call. needClipboard also initializes the
// clipboard, which fails on a headless session.
func (a *app) bridge(needClipboard bool) (*bridge.Bridge, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.b != nil && (a.withCB || !needClipboard) {
		return a.b, nil
	}
	level := ""
	if a.opts.verbose {
		level = "debug"
	}
	b, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:   config.LoadOptions{ConfigFile: a.opts.configFile},
		Console:       a.opts.verbose,
		LogLevel:      level,
		SkipClipboard: !needClipboard,
	})
	if err != nil {
		return nil, err
	}
	a.b, a.withCB = b, needClipboard
	return b, nil
}

func (a *app) close() {
	a.mu.Lock()
	b := a.b
	a.mu.Unlock()
	if b != nil {
		b.Shutdown()
		_ = zap.L().Sync()
	}
}

// emit writes v as one JSON line. Listener callbacks and the command body
// may both call it.
func (a *app) emit(v any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	w := a.out
	if w == nil {
		w = os.Stdout
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func (a *app) writer() io.Writer {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}
