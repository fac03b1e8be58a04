// Package monitor runs OS notification backends on dedicated worker threads
// and bridges their callbacks to a single listener.
package monitor

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ztools-native/src/dispatch"
	"ztools-native/src/events"
)

const (
	DefaultStartTimeout = 2 * time.Second
	DefaultStopTimeout  = 2 * time.Second
)

// Options tune every monitor started through a Registry.
type Options struct {
	StartTimeout time.Duration
	StopTimeout  time.Duration
	Policy       dispatch.Policy
}

type handle struct {
	kind    Kind
	state   State
	token   Token
	backend Backend
	channel *dispatch.Channel[events.Event]
	done    chan struct{}

	// stopRequested is set by a Stop that found the handle Starting. Start
	// tears the handle down instead of moving it to Running.
	stopRequested bool
	// gone is closed once the handle has left the registry.
	gone     chan struct{}
	goneOnce sync.Once
}

// Registry holds the single live handle per monitor kind.
type Registry struct {
	mu      sync.Mutex
	handles map[Kind]*handle
	opts    Options
}

// NewRegistry creates an empty registry. Zero timeouts use the defaults.
func NewRegistry(opts Options) *Registry {
	return &Registry{handles: make(map[Kind]*handle), opts: opts.withDefaults()}
}

func (o Options) withDefaults() Options {
	if o.StartTimeout <= 0 {
		o.StartTimeout = DefaultStartTimeout
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = DefaultStopTimeout
	}
	return o
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry(Options{})
	}
	return defaultRegistry
}

// Configure replaces the options of the process-wide registry. Monitors that
// are already running keep the options they started with.
func Configure(opts Options) {
	r := Default()
	r.mu.Lock()
	r.opts = opts.withDefaults()
	r.mu.Unlock()
}

// Start subscribes backend and forwards its events to listener.
func (r *Registry) Start(kind Kind, backend Backend, listener func(events.Event)) (Token, error) {
	if backend == nil || listener == nil {
		return "", fmt.Errorf("%w: backend and listener are required", events.ErrInvalidArgument)
	}

	r.mu.Lock()
	if h, ok := r.handles[kind]; ok {
		r.mu.Unlock()
		return "", fmt.Errorf("%s %w (state %s)", kind, events.ErrAlreadyRunning, h.state)
	}
	h := &handle{
		kind:    kind,
		state:   Starting,
		token:   Token(uuid.NewString()),
		backend: backend,
		channel: dispatch.New[events.Event](r.opts.Policy),
		done:    make(chan struct{}),
		gone:    make(chan struct{}),
	}
	r.handles[kind] = h
	opts := r.opts
	r.mu.Unlock()

	log := zap.L().With(zap.Stringer("kind", kind), zap.String("token", string(h.token)))

	if err := h.channel.Attach(listener); err != nil {
		r.remove(h)
		return "", err
	}

	opened := make(chan error, 1)
	go r.work(h, opened)

	var err error
	select {
	case err = <-opened:
	case <-time.After(opts.StartTimeout):
		err = fmt.Errorf("%w: no response within %v", events.ErrSubscriptionFailed, opts.StartTimeout)
		log.Warn("monitor start timed out", zap.Error(err))
		r.retire(h, log)
		return "", err
	}
	if err != nil {
		log.Warn("monitor start failed", zap.Error(err))
		<-h.done
		h.channel.Release()
		r.remove(h)
		return "", err
	}

	r.mu.Lock()
	if h.stopRequested {
		h.state = Stopping
		r.mu.Unlock()
		log.Info("monitor stopped while starting")
		_ = r.teardown(h, opts, log)
		return "", fmt.Errorf("%w: stopped while starting", events.ErrSubscriptionFailed)
	}
	h.state = Running
	r.mu.Unlock()
	log.Info("monitor running")
	return h.token, nil
}

// retire handles a worker that missed the start deadline. The kind stays
// Stopping until the worker exits, so a restart cannot race the late Open.
func (r *Registry) retire(h *handle, log *zap.Logger) {
	r.mu.Lock()
	h.state = Stopping
	r.mu.Unlock()
	h.backend.Wake()
	h.channel.Release()
	go func() {
		<-h.done
		r.remove(h)
		log.Debug("late monitor worker exited")
	}()
}

// work is the worker goroutine. It reports the Open result exactly once.
func (r *Registry) work(h *handle, opened chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(h.done)

	reported := false
	defer func() {
		if p := recover(); p != nil {
			zap.S().Errorf("monitor %s: worker panic: %v", h.kind, p)
			if !reported {
				opened <- fmt.Errorf("%w: %v", events.ErrSubscriptionFailed, p)
			}
		}
	}()

	if err := h.backend.Open(func(ev events.Event) { h.channel.Send(ev) }); err != nil {
		reported = true
		if !errors.Is(err, events.ErrPermissionDenied) && !errors.Is(err, events.ErrSubscriptionFailed) {
			err = fmt.Errorf("%w: %v", events.ErrSubscriptionFailed, err)
		}
		opened <- err
		return
	}
	reported = true
	opened <- nil

	h.backend.Run()
	h.backend.Close()
}

// Stop tears down the monitor of kind. It is a no-op when the kind is idle,
// and safe to call from any goroutine including the listener. A Stop that
// finds the kind starting cancels the start and waits for it to unwind.
func (r *Registry) Stop(kind Kind) error {
	r.mu.Lock()
	h, ok := r.handles[kind]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	opts := r.opts
	log := zap.L().With(zap.Stringer("kind", kind), zap.String("token", string(h.token)))
	switch h.state {
	case Running:
		h.state = Stopping
		r.mu.Unlock()
		return r.teardown(h, opts, log)
	case Starting:
		h.stopRequested = true
	}
	r.mu.Unlock()

	// Starting or Stopping: whoever owns the handle removes it.
	limit := opts.StartTimeout + opts.StopTimeout
	select {
	case <-h.gone:
		return nil
	case <-time.After(limit):
		log.Warn("monitor stop timed out while another teardown was pending")
		return fmt.Errorf("monitor %s: still registered after %v", kind, limit)
	}
}

// teardown wakes the worker, joins it within StopTimeout and drops the handle.
func (r *Registry) teardown(h *handle, opts Options, log *zap.Logger) error {
	h.backend.Wake()

	var err error
	select {
	case <-h.done:
	case <-time.After(opts.StopTimeout):
		err = fmt.Errorf("monitor %s: worker did not exit within %v", h.kind, opts.StopTimeout)
		log.Warn("monitor stop timed out")
	}

	h.channel.Release()
	r.remove(h)
	if d := h.channel.Dropped(); d > 0 {
		log.Info("monitor stopped", zap.Uint64("dropped", d))
	} else {
		log.Info("monitor stopped")
	}
	return err
}

// StopAll stops every running monitor.
func (r *Registry) StopAll() {
	for _, k := range []Kind{Clipboard, WindowFocus, InputHook} {
		_ = r.Stop(k)
	}
}

func (r *Registry) remove(h *handle) {
	r.mu.Lock()
	if cur, ok := r.handles[h.kind]; ok && cur == h {
		delete(r.handles, h.kind)
	}
	r.mu.Unlock()
	h.goneOnce.Do(func() { close(h.gone) })
}

// State reports the lifecycle phase of kind.
func (r *Registry) State(kind Kind) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.handles[kind]; ok {
		return h.state
	}
	return Idle
}

// Token returns the token of the live handle of kind, if any.
func (r *Registry) Token(kind Kind) (Token, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.handles[kind]; ok {
		return h.token, true
	}
	return "", false
}
