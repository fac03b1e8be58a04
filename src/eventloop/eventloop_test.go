package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ztools-native/src/events"
	"ztools-native/src/singleinstance"
)

type fakeServer struct {
	conns chan singleinstance.Conn
}

func newFakeServer() *fakeServer { return &fakeServer{conns: make(chan singleinstance.Conn, 4)} }

func (s *fakeServer) Start(context.Context) error { return nil }
func (s *fakeServer) Port() int                   { return 0 }
func (s *fakeServer) Close() error                { return nil }
func (s *fakeServer) Next(ctx context.Context) (singleinstance.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case c := <-s.conns:
		return c, nil
	}
}

type fakeConn struct {
	mu      sync.Mutex
	command string
	replies []string
	closed  chan struct{}
}

func newFakeConn(command string) *fakeConn {
	return &fakeConn{command: command, closed: make(chan struct{})}
}

func (c *fakeConn) Request() singleinstance.Request { return singleinstance.Request{Command: c.command} }
func (c *fakeConn) RespondSuccess(r events.CaptureResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.Success {
		c.replies = append(c.replies, "success")
	} else {
		c.replies = append(c.replies, "cancelled")
	}
	return nil
}
func (c *fakeConn) RespondError(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, "error: "+msg)
	return nil
}
func (c *fakeConn) Close() error { close(c.closed); return nil }

func (c *fakeConn) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-c.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("connection never closed")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.replies...)
}

// manualCapturer holds each capture open until finish is called.
type manualCapturer struct {
	mu      sync.Mutex
	pending func(events.CaptureResult)
	started chan struct{}
}

func newManualCapturer() *manualCapturer {
	return &manualCapturer{started: make(chan struct{}, 4)}
}

func (m *manualCapturer) StartRegionCapture(_ context.Context, onResult func(events.CaptureResult)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		return events.ErrAlreadyCapturing
	}
	m.pending = onResult
	m.started <- struct{}{}
	return nil
}

func (m *manualCapturer) finish(r events.CaptureResult) {
	m.mu.Lock()
	fn := m.pending
	m.pending = nil
	m.mu.Unlock()
	go fn(r)
}

type localTarget struct {
	results  chan events.CaptureResult
	failures chan error
}

func newLocalTarget() *localTarget {
	return &localTarget{results: make(chan events.CaptureResult, 4), failures: make(chan error, 4)}
}

func (t *localTarget) OnResult(r events.CaptureResult) error { t.results <- r; return nil }
func (t *localTarget) OnFailure(err error) error             { t.failures <- err; return nil }

func runLoop(t *testing.T, opts Options) *Loop {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	l := New(opts)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

func waitStarted(t *testing.T, m *manualCapturer) {
	t.Helper()
	select {
	case <-m.started:
	case <-time.After(2 * time.Second):
		t.Fatal("capture never started")
	}
}

func TestDelegatedCapture(t *testing.T) {
	srv := newFakeServer()
	capt := newManualCapturer()
	runLoop(t, Options{Capturer: capt, Server: srv})

	conn := newFakeConn(singleinstance.CommandCapture)
	srv.conns <- conn
	waitStarted(t, capt)
	capt.finish(events.CaptureResult{Success: true, Width: 1, Height: 1})

	assert.Equal(t, []string{"success"}, conn.wait(t))
}

func TestBusyRejectsSecondRequest(t *testing.T) {
	srv := newFakeServer()
	capt := newManualCapturer()
	local := newLocalTarget()
	var busyMu sync.Mutex
	var busy []bool
	l := runLoop(t, Options{Capturer: capt, Server: srv, Local: local, OnBusy: func(b bool) {
		busyMu.Lock()
		busy = append(busy, b)
		busyMu.Unlock()
	}})

	l.TriggerCapture()
	waitStarted(t, capt)

	second := newFakeConn(singleinstance.CommandCapture)
	srv.conns <- second
	assert.Equal(t, []string{"error: " + events.ErrAlreadyCapturing.Error()}, second.wait(t))

	capt.finish(events.CaptureResult{})
	select {
	case r := <-local.results:
		assert.False(t, r.Success)
	case <-time.After(2 * time.Second):
		t.Fatal("local result not delivered")
	}

	require.Eventually(t, func() bool {
		busyMu.Lock()
		defer busyMu.Unlock()
		return len(busy) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []bool{true, false}, busy)
}

func TestUnknownCommand(t *testing.T) {
	srv := newFakeServer()
	runLoop(t, Options{Capturer: newManualCapturer(), Server: srv})

	conn := newFakeConn("PASTE")
	srv.conns <- conn
	assert.Equal(t, []string{"error: unsupported request"}, conn.wait(t))
}

func TestRunRequiresCapturer(t *testing.T) {
	err := New(Options{Server: newFakeServer()}).Run(context.Background())
	assert.ErrorIs(t, err, events.ErrInvalidArgument)
}
