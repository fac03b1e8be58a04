package capture

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ztools-native/src/events"
)

// fakeSurface replays script on the session thread and then waits for the
// session to close it or for an interrupt.
type fakeSurface struct {
	script func(d Driver)

	mu        sync.Mutex
	log       []string
	presented int
	closed    bool
	interrupt chan struct{}
}

func newFakeSurface(script func(d Driver)) *fakeSurface {
	return &fakeSurface{script: script, interrupt: make(chan struct{}, 1)}
}

func (f *fakeSurface) record(s string) {
	f.mu.Lock()
	f.log = append(f.log, s)
	f.mu.Unlock()
}

func (f *fakeSurface) Run(d Driver) error {
	f.record("run")
	if f.script != nil {
		f.script(d)
	}
	if f.isClosed() {
		return nil
	}
	select {
	case <-f.interrupt:
		d.Cancel()
		return nil
	case <-time.After(2 * time.Second):
		return errors.New("fake surface: session never finished")
	}
}

func (f *fakeSurface) Present([]byte) {
	f.mu.Lock()
	f.presented++
	f.mu.Unlock()
}

func (f *fakeSurface) Hide()  { f.record("hide") }
func (f *fakeSurface) Close() { f.record("close"); f.mu.Lock(); f.closed = true; f.mu.Unlock() }
func (f *fakeSurface) Interrupt() {
	select {
	case f.interrupt <- struct{}{}:
	default:
	}
}

func (f *fakeSurface) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSurface) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.log...)
}

type recorder struct {
	mu      sync.Mutex
	sampled []image.Rectangle
	written int
	surface *fakeSurface
}

func (r *recorder) options(surface *fakeSurface) Options {
	r.surface = surface
	return Options{
		SettleDelay: time.Millisecond,
		Bounds:      func() (image.Rectangle, error) { return image.Rect(-100, 0, 300, 200), nil },
		NewSurface:  func(image.Rectangle) (Surface, error) { return surface, nil },
		Sample: func(rect image.Rectangle) (*image.RGBA, error) {
			r.mu.Lock()
			r.sampled = append(r.sampled, rect)
			r.mu.Unlock()
			surface.record("sample")
			return image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy())), nil
		},
		WriteImage: func(image.Image) error {
			r.mu.Lock()
			r.written++
			r.mu.Unlock()
			surface.record("write")
			return nil
		},
	}
}

func TestRunCommit(t *testing.T) {
	var rec recorder
	surface := newFakeSurface(func(d Driver) {
		d.Press(image.Pt(10, 10))
		d.Move(image.Pt(50, 40))
		d.Release(image.Pt(110, 60))
	})

	res, err := Run(context.Background(), rec.options(surface))
	require.NoError(t, err)
	assert.Equal(t, events.CaptureResult{Success: true, Width: 100, Height: 50}, res)
	assert.Equal(t, []image.Rectangle{image.Rect(-90, 10, 10, 60)}, rec.sampled)
	assert.Equal(t, 1, rec.written)
	assert.Equal(t, []string{"run", "hide", "sample", "write", "close"}, surface.events())
	assert.GreaterOrEqual(t, surface.presented, 3)
	assert.False(t, InProgress())
}

func TestRunEscapeCancels(t *testing.T) {
	var rec recorder
	surface := newFakeSurface(func(d Driver) {
		d.Press(image.Pt(10, 10))
		d.Move(image.Pt(50, 40))
		d.Cancel()
	})

	res, err := Run(context.Background(), rec.options(surface))
	require.NoError(t, err)
	assert.Equal(t, events.CaptureResult{}, res)
	assert.Empty(t, rec.sampled)
	assert.Zero(t, rec.written)
	assert.NotContains(t, surface.events(), "hide")
}

func TestRunZeroSizeSelection(t *testing.T) {
	var rec recorder
	surface := newFakeSurface(func(d Driver) {
		d.Press(image.Pt(10, 10))
		d.Release(image.Pt(10, 10))
	})

	res, err := Run(context.Background(), rec.options(surface))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, rec.sampled)
}

func TestRunSampleFailure(t *testing.T) {
	var rec recorder
	surface := newFakeSurface(func(d Driver) {
		d.Press(image.Pt(0, 0))
		d.Release(image.Pt(5, 5))
	})
	opts := rec.options(surface)
	opts.Sample = func(image.Rectangle) (*image.RGBA, error) { return nil, errors.New("no display") }

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, events.CaptureResult{}, res)
	assert.Zero(t, rec.written)
}

func TestContextCancelEndsSession(t *testing.T) {
	var rec recorder
	surface := newFakeSurface(nil)
	ctx, cancel := context.WithCancel(context.Background())

	got := make(chan events.CaptureResult, 1)
	require.NoError(t, Start(ctx, rec.options(surface), func(r events.CaptureResult) { got <- r }))
	assert.True(t, InProgress())
	cancel()

	select {
	case r := <-got:
		assert.False(t, r.Success)
	case <-time.After(3 * time.Second):
		t.Fatal("no result after cancel")
	}
	assert.False(t, InProgress())
}

func TestStartRejectsReentry(t *testing.T) {
	var rec recorder
	release := make(chan struct{})
	surface := newFakeSurface(func(d Driver) {
		<-release
		d.Cancel()
	})

	got := make(chan events.CaptureResult, 1)
	require.NoError(t, Start(context.Background(), rec.options(surface), func(r events.CaptureResult) { got <- r }))

	err := Start(context.Background(), rec.options(newFakeSurface(nil)), func(events.CaptureResult) {})
	assert.ErrorIs(t, err, events.ErrAlreadyCapturing)

	close(release)
	select {
	case <-got:
	case <-time.After(3 * time.Second):
		t.Fatal("first session never finished")
	}

	select {
	case <-got:
		t.Fatal("result delivered twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartSurfaceUnsupported(t *testing.T) {
	opts := Options{
		Bounds:     func() (image.Rectangle, error) { return image.Rect(0, 0, 10, 10), nil },
		NewSurface: func(image.Rectangle) (Surface, error) { return nil, events.ErrUnsupported },
	}
	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, events.ErrUnsupported)
	assert.False(t, InProgress())
}

func TestStartRequiresCallback(t *testing.T) {
	assert.ErrorIs(t, Start(context.Background(), Options{}, nil), events.ErrInvalidArgument)
}

func TestBoundsComputedAfterThreadSetup(t *testing.T) {
	var mu sync.Mutex
	var order []string
	note := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}
	prev := threadSetup
	threadSetup = func() { note("thread") }
	t.Cleanup(func() { threadSetup = prev })

	var rec recorder
	surface := newFakeSurface(func(d Driver) {
		d.Press(image.Pt(0, 0))
		d.Release(image.Pt(20, 10))
	})
	opts := rec.options(surface)
	bounds := opts.Bounds
	opts.Bounds = func() (image.Rectangle, error) {
		note("bounds")
		return bounds()
	}
	newSurface := opts.NewSurface
	opts.NewSurface = func(r image.Rectangle) (Surface, error) {
		note("surface")
		return newSurface(r)
	}

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, res.Success)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"thread", "bounds", "surface"}, order)
}

func TestBoundsFailureEndsSession(t *testing.T) {
	opts := Options{
		Bounds: func() (image.Rectangle, error) { return image.Rectangle{}, errors.New("no displays") },
	}
	_, err := Run(context.Background(), opts)
	assert.EqualError(t, err, "no displays")
	assert.False(t, InProgress())
}
