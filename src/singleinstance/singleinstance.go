// Package singleinstance lets one resident agent own a loopback TCP port
// and accept capture requests delegated by other processes.
package singleinstance

import (
	"context"

	"ztools-native/src/events"
)

// Server owns the TCP endpoint and answers delegated requests.
type Server interface {
	// Start binds the first port of the configured range and accepts clients.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request, or the ctx error. It returns
	// ErrClosed once the server is closed.
	Next(ctx context.Context) (Conn, error)
	Close() error
}

// Conn is one client connection awaiting a reply.
type Conn interface {
	Request() Request
	RespondSuccess(result events.CaptureResult) error
	RespondError(msg string) error
	Close() error
}

// Request is a single delegated client request.
type Request struct {
	Command string
}

// Client delegates a capture to a resident agent.
type Client interface {
	// TryCapture scans the port range, hands the capture to the resident and
	// waits for its result. With no resident it returns delegated=false and
	// a nil error.
	TryCapture(ctx context.Context) (delegated bool, result events.CaptureResult, err error)
}

func NewServer() Server { return newTcpServer() }

func NewClient() Client { return newTcpClient() }
