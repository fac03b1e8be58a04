// Package capture runs the interactive region screenshot: a translucent
// overlay, a rubber-band selection, and a clipboard image on commit.
package capture

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"ztools-native/src/clipboard"
	"ztools-native/src/dispatch"
	"ztools-native/src/events"
	"ztools-native/src/screenshot"
)

// DefaultSettleDelay gives the compositor time to remove the hidden overlay
// before the screen is sampled.
const DefaultSettleDelay = 100 * time.Millisecond

// Driver receives surface input. Every call happens on the surface thread.
type Driver interface {
	Press(pt image.Point)
	Move(pt image.Point)
	Release(pt image.Point)
	Cancel()
}

// Surface is the native overlay window. Run, Present, Hide and Close are
// called on the session thread; Interrupt may be called from anywhere.
type Surface interface {
	// Run shows the surface and feeds input to d until Close is called.
	Run(d Driver) error
	// Present pushes a frame produced by Render for the surface size.
	Present(frame []byte)
	Hide()
	Close()
	// Interrupt asks the surface thread to cancel the session.
	Interrupt()
}

// Options configure one capture session. Zero fields take defaults.
type Options struct {
	SettleDelay time.Duration
	Style       Style

	Bounds     func() (image.Rectangle, error)
	NewSurface func(bounds image.Rectangle) (Surface, error)
	Sample     func(r image.Rectangle) (*image.RGBA, error)
	WriteImage func(img image.Image) error
}

func (o Options) withDefaults() Options {
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.Style == (Style{}) {
		o.Style = DefaultStyle()
	}
	if o.Bounds == nil {
		o.Bounds = screenshot.VirtualBounds
	}
	if o.NewSurface == nil {
		o.NewSurface = newPlatformSurface
	}
	if o.Sample == nil {
		o.Sample = screenshot.CaptureRect
	}
	if o.WriteImage == nil {
		o.WriteImage = clipboard.WriteImage
	}
	return o
}

var (
	capturing   atomic.Bool
	threadSetup = prepareThread
)

// InProgress reports whether a session is open.
func InProgress() bool { return capturing.Load() }

// Start opens the overlay and returns immediately. onResult is called
// exactly once, on a separate goroutine, after the overlay is gone.
// Cancelling ctx cancels the session.
func Start(ctx context.Context, opts Options, onResult func(events.CaptureResult)) error {
	if onResult == nil {
		return fmt.Errorf("%w: result callback is required", events.ErrInvalidArgument)
	}
	if !capturing.CompareAndSwap(false, true) {
		return events.ErrAlreadyCapturing
	}
	opts = opts.withDefaults()

	results := dispatch.New[events.CaptureResult](dispatch.PolicyDrop)
	if err := results.Attach(func(r events.CaptureResult) {
		results.Release()
		onResult(r)
	}); err != nil {
		capturing.Store(false)
		return err
	}

	// Bounds, the surface and the sampler all run on the session thread so
	// they share its DPI awareness.
	setup := make(chan error, 1)
	go func() {
		// The thread is not unlocked; it exits with the goroutine and takes
		// any leftover window messages with it.
		runtime.LockOSThread()
		threadSetup()

		s, err := newSession(opts)
		if err != nil {
			results.Release()
			capturing.Store(false)
			setup <- err
			return
		}
		setup <- nil

		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				s.surface.Interrupt()
			case <-done:
			}
		}()
		result := s.run()
		close(done)
		capturing.Store(false)
		results.Send(result)
	}()
	return <-setup
}

func newSession(opts Options) (*session, error) {
	bounds, err := opts.Bounds()
	if err != nil {
		return nil, err
	}
	surface, err := opts.NewSurface(bounds)
	if err != nil {
		return nil, err
	}
	return &session{opts: opts, bounds: bounds, surface: surface}, nil
}

// Run is the blocking form of Start.
func Run(ctx context.Context, opts Options) (events.CaptureResult, error) {
	ch := make(chan events.CaptureResult, 1)
	if err := Start(ctx, opts, func(r events.CaptureResult) { ch <- r }); err != nil {
		return events.CaptureResult{}, err
	}
	return <-ch, nil
}

type session struct {
	opts    Options
	bounds  image.Rectangle
	surface Surface
	sel     Selection
	result  events.CaptureResult
	frame   []byte
}

func (s *session) run() (result events.CaptureResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorf("capture: session panic: %v", r)
			result = events.CaptureResult{}
		}
	}()
	s.sel.Arm()
	s.redraw()
	if err := s.surface.Run(s); err != nil {
		zap.S().Warnf("capture: surface: %v", err)
		return events.CaptureResult{}
	}
	return s.result
}

func (s *session) size() image.Point {
	return s.bounds.Size()
}

func (s *session) redraw() {
	size := s.size()
	if need := size.X * size.Y * 4; len(s.frame) != need {
		s.frame = make([]byte, need)
	}
	Render(s.frame, size, s.sel.Rect(), s.opts.Style)
	s.surface.Present(s.frame)
}

func (s *session) Press(pt image.Point) {
	if s.sel.Press(pt) {
		s.redraw()
	}
}

func (s *session) Move(pt image.Point) {
	if s.sel.Move(pt) {
		s.redraw()
	}
}

func (s *session) Release(pt image.Point) {
	if s.sel.Phase() != PhaseDragging {
		return
	}
	r, ok := s.sel.Release(pt)
	if !ok {
		zap.S().Debugf("capture: empty selection")
		s.finish(events.CaptureResult{})
		return
	}
	s.commit(r)
}

func (s *session) Cancel() {
	if s.sel.Cancel() {
		zap.S().Debugf("capture: cancelled")
		s.finish(events.CaptureResult{})
	}
}

func (s *session) commit(local image.Rectangle) {
	s.surface.Hide()
	time.Sleep(s.opts.SettleDelay)

	abs := local.Add(s.bounds.Min)
	img, err := s.opts.Sample(abs)
	if err != nil {
		zap.S().Warnf("capture: sample %v: %v", abs, err)
		s.finish(events.CaptureResult{})
		return
	}
	if err := s.opts.WriteImage(img); err != nil {
		zap.S().Warnf("capture: clipboard: %v", err)
		s.finish(events.CaptureResult{})
		return
	}
	b := img.Bounds()
	zap.S().Infof("capture: %dx%d at %v copied to clipboard", b.Dx(), b.Dy(), abs.Min)
	s.finish(events.CaptureResult{Success: true, Width: b.Dx(), Height: b.Dy()})
}

func (s *session) finish(r events.CaptureResult) {
	s.result = r
	s.surface.Close()
}
