package notification

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ztools-native/src/events"
)

func TestCaptureMessage(t *testing.T) {
	tests := []struct {
		name string
		in   events.CaptureResult
		want string
	}{
		{"success", events.CaptureResult{Success: true, Width: 640, Height: 480}, "Copied 640×480 region to the clipboard"},
		{"cancelled", events.CaptureResult{}, "Capture cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, msg := CaptureMessage(tt.in)
			assert.Equal(t, AppName, title)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func stubNotify(t *testing.T) <-chan string {
	t.Helper()
	got := make(chan string, 4)
	prev := notify
	notify = func(title, message, icon string) error {
		got <- title + ": " + message
		return errors.New("no notification daemon")
	}
	t.Cleanup(func() {
		notify = prev
		SetEnabled(true)
	})
	return got
}

func TestShow(t *testing.T) {
	got := stubNotify(t)
	ShowCaptureResult(events.CaptureResult{Success: true, Width: 2, Height: 3})

	select {
	case msg := <-got:
		assert.Equal(t, "ztools: Copied 2×3 region to the clipboard", msg)
	case <-time.After(time.Second):
		t.Fatal("notification not posted")
	}
}

func TestShowDisabled(t *testing.T) {
	got := stubNotify(t)
	SetEnabled(false)
	Show("t", "m")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-got:
			t.Error("disabled notification was posted")
		case <-time.After(100 * time.Millisecond):
		}
	}()
	wg.Wait()
}
