package singleinstance

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ztools-native/src/events"
)

// useFreePort points the range at a single port that is free right now.
func useFreePort(t *testing.T) {
	t.Helper()
	port := 0
	for p := 49600; p < 49700; p++ {
		if !ping(residentHost+":"+strconv.Itoa(p), 20*time.Millisecond) {
			port = p
			break
		}
	}
	if port == 0 {
		t.Skip("no free loopback port")
	}
	t.Setenv("SINGLEINSTANCE_PORT_START", strconv.Itoa(port))
	t.Setenv("SINGLEINSTANCE_PORT_END", strconv.Itoa(port))
}

func startServer(t *testing.T, ctx context.Context) Server {
	t.Helper()
	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback listener unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestCaptureRoundTrip(t *testing.T) {
	useFreePort(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	type reply struct {
		delegated bool
		result    events.CaptureResult
		err       error
	}
	done := make(chan reply, 1)
	go func() {
		d, r, err := NewClient().TryCapture(ctx)
		done <- reply{d, r, err}
	}()

	conn, err := srv.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, CommandCapture, conn.Request().Command)
	require.NoError(t, conn.RespondSuccess(events.CaptureResult{Success: true, Width: 40, Height: 30}))
	require.NoError(t, conn.Close())

	got := <-done
	require.NoError(t, got.err)
	assert.True(t, got.delegated)
	assert.Equal(t, events.CaptureResult{Success: true, Width: 40, Height: 30}, got.result)
}

func TestCaptureError(t *testing.T) {
	useFreePort(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	done := make(chan error, 1)
	go func() {
		_, _, err := NewClient().TryCapture(ctx)
		done <- err
	}()

	conn, err := srv.Next(ctx)
	require.NoError(t, err)
	require.NoError(t, conn.RespondError("capture already in progress"))
	require.NoError(t, conn.Close())

	err = <-done
	require.Error(t, err)
	assert.Equal(t, "capture already in progress", err.Error())
}

func TestNoResident(t *testing.T) {
	useFreePort(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	delegated, _, err := NewClient().TryCapture(ctx)
	assert.NoError(t, err)
	assert.False(t, delegated)

	_, ok := DetectResidentPort(ctx)
	assert.False(t, ok)
}

func TestNextAfterClose(t *testing.T) {
	useFreePort(t)
	ctx := context.Background()
	srv := startServer(t, ctx)
	require.NoError(t, srv.Close())

	_, err := srv.Next(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPortRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantStart  int
		wantEnd    int
	}{
		{"defaults", "", "", defaultPortStart, defaultPortEnd},
		{"custom", "50000", "50010", 50000, 50010},
		{"swapped", "50010", "50000", 50000, 50010},
		{"clamped low", "80", "2000", 1024, 2000},
		{"garbage", "x", "y", defaultPortStart, defaultPortEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SINGLEINSTANCE_PORT_START", tt.start)
			t.Setenv("SINGLEINSTANCE_PORT_END", tt.end)
			s, e := getPortRange()
			assert.Equal(t, tt.wantStart, s)
			assert.Equal(t, tt.wantEnd, e)
		})
	}
}
