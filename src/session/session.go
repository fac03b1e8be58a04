// Package session runs one capture and routes its outcome to a target.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"ztools-native/src/events"
	"ztools-native/src/notification"
	"ztools-native/src/singleinstance"
)

// CaptureFunc blocks until the user finishes or abandons a selection.
type CaptureFunc func(ctx context.Context) (events.CaptureResult, error)

// ResultTarget receives the outcome. A cancelled selection is a result with
// Success false, not a failure.
type ResultTarget interface {
	OnResult(r events.CaptureResult) error
	OnFailure(err error) error
}

type Options struct {
	Capture CaptureFunc
	Target  ResultTarget
}

func Execute(ctx context.Context, opts Options) (events.CaptureResult, error) {
	if opts.Capture == nil {
		return events.CaptureResult{}, errors.New("Capture is required")
	}
	if opts.Target == nil {
		return events.CaptureResult{}, errors.New("Target is required")
	}
	r, err := opts.Capture(ctx)
	return r, Deliver(opts.Target, r, err)
}

// Deliver hands r, or err when set, to t. A delivery error is reported to
// t.OnFailure as well and returned.
func Deliver(t ResultTarget, r events.CaptureResult, err error) error {
	if err != nil {
		_ = t.OnFailure(err)
		return err
	}
	if derr := t.OnResult(r); derr != nil {
		zap.S().Warnf("session: delivery failed: %v", derr)
		_ = t.OnFailure(derr)
		return derr
	}
	return nil
}

// NotifyTarget shows a desktop notification for finished captures.
type NotifyTarget struct{}

func (NotifyTarget) OnResult(r events.CaptureResult) error {
	if !r.Success {
		zap.S().Debugf("session: capture cancelled")
		return nil
	}
	notification.ShowCaptureResult(r)
	return nil
}

func (NotifyTarget) OnFailure(err error) error {
	if errors.Is(err, events.ErrAlreadyCapturing) {
		zap.S().Infof("session: capture already in progress")
		return nil
	}
	notification.ShowError("Capture failed", err)
	return nil
}

// StdoutTarget writes the result as one JSON line.
type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnResult(r events.CaptureResult) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	return json.NewEncoder(w).Encode(r)
}

func (t StdoutTarget) OnFailure(err error) error {
	return nil
}

// DelegatedTarget answers a client that handed its capture to this agent.
type DelegatedTarget struct {
	Conn singleinstance.Conn
}

func (t DelegatedTarget) OnResult(r events.CaptureResult) error {
	if t.Conn == nil {
		return errors.New("delegated target missing connection")
	}
	if err := t.Conn.RespondSuccess(r); err != nil {
		return fmt.Errorf("reply to client: %w", err)
	}
	return nil
}

func (t DelegatedTarget) OnFailure(err error) error {
	if t.Conn == nil {
		return nil
	}
	if err == nil {
		return t.Conn.RespondError("unknown session error")
	}
	return t.Conn.RespondError(err.Error())
}
