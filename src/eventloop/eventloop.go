// Package eventloop is the resident agent's single coordinator. Hotkey, tray
// and delegated capture requests are serialized here behind one busy flag.
package eventloop

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ztools-native/src/events"
	"ztools-native/src/session"
	"ztools-native/src/singleinstance"
)

// Capturer starts an asynchronous region capture.
type Capturer interface {
	StartRegionCapture(ctx context.Context, onResult func(events.CaptureResult)) error
}

type Options struct {
	Capturer Capturer
	// Server defaults to singleinstance.NewServer().
	Server singleinstance.Server
	// Local receives results of hotkey and tray captures. Defaults to
	// session.NotifyTarget.
	Local session.ResultTarget
	// OnBusy is told when a capture starts and ends.
	OnBusy func(busy bool)
}

// Loop is the single-threaded coordinator for delegated and local captures.
type Loop struct {
	capturer Capturer
	srv      singleinstance.Server
	local    session.ResultTarget
	onBusy   func(bool)

	busy     bool
	results  chan result
	captureC chan struct{}
}

type result struct {
	res    events.CaptureResult
	target session.ResultTarget
	closer func()
}

func New(opts Options) *Loop {
	l := &Loop{
		capturer: opts.Capturer,
		srv:      opts.Server,
		local:    opts.Local,
		onBusy:   opts.OnBusy,
		results:  make(chan result, 1),
		captureC: make(chan struct{}, 4),
	}
	if l.srv == nil {
		l.srv = singleinstance.NewServer()
	}
	if l.local == nil {
		l.local = session.NotifyTarget{}
	}
	return l
}

// TriggerCapture asks the loop for a local capture. It never blocks; bursts
// beyond the queue depth are dropped.
func (l *Loop) TriggerCapture() {
	select {
	case l.captureC <- struct{}{}:
	default:
	}
}

// Run starts the singleinstance server and processes requests until ctx is
// cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if l.capturer == nil {
		return fmt.Errorf("%w: eventloop needs a capturer", events.ErrInvalidArgument)
	}
	if err := l.srv.Start(ctx); err != nil {
		return err
	}
	defer l.srv.Close()
	if p := l.srv.Port(); p > 0 {
		zap.S().Infof("Resident listening on 127.0.0.1:%d", p)
	}

	// Accept loop in background to avoid blocking result handling
	reqCh := make(chan singleinstance.Conn, 4)
	go func() {
		defer close(reqCh)
		for {
			conn, err := l.srv.Next(ctx)
			if err != nil {
				return
			}
			select {
			case reqCh <- conn:
			case <-ctx.Done():
				_ = conn.Close()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.captureC:
			l.startCapture(ctx, l.local, nil)
		case conn, ok := <-reqCh:
			if !ok {
				return nil
			}
			l.handleConn(ctx, conn)
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) handleConn(ctx context.Context, conn singleinstance.Conn) {
	if conn.Request().Command != singleinstance.CommandCapture {
		_ = conn.RespondError("unsupported request")
		_ = conn.Close()
		return
	}
	l.startCapture(ctx, session.DelegatedTarget{Conn: conn}, func() { _ = conn.Close() })
}

func (l *Loop) startCapture(ctx context.Context, target session.ResultTarget, closer func()) {
	fail := func(err error) {
		_ = session.Deliver(target, events.CaptureResult{}, err)
		if closer != nil {
			closer()
		}
	}
	if l.busy {
		zap.S().Infof("eventloop: busy, rejecting capture request")
		fail(events.ErrAlreadyCapturing)
		return
	}

	err := l.capturer.StartRegionCapture(ctx, func(r events.CaptureResult) {
		select {
		case l.results <- result{res: r, target: target, closer: closer}:
		case <-ctx.Done():
			if closer != nil {
				closer()
			}
		}
	})
	if err != nil {
		if !errors.Is(err, events.ErrAlreadyCapturing) {
			zap.S().Warnf("eventloop: capture failed to start: %v", err)
		}
		fail(err)
		return
	}
	l.setBusy(true)
}

func (l *Loop) handleResult(res result) {
	defer l.setBusy(false)
	if res.closer != nil {
		defer res.closer()
	}
	zap.S().Debugf("eventloop: capture result %+v", res.res)
	_ = session.Deliver(res.target, res.res, nil)
}

func (l *Loop) setBusy(b bool) {
	l.busy = b
	if l.onBusy != nil {
		l.onBusy(b)
	}
}
