package singleinstance

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ztools-native/src/events"
)

const (
	residentHost    = "127.0.0.1"
	pingRequest     = "PING\n"
	pongResponse    = "PONG\n"
	captureRequest  = "CAPTURE\n"
	successStatus   = "SUCCESS\n"
	errorStatus     = "ERROR\n"
	CommandCapture  = "CAPTURE"
	handshakeWindow = 3 * time.Second
)

var ErrClosed = errors.New("singleinstance: server closed")

type tcpServer struct {
	mu       sync.Mutex
	lis      net.Listener
	incoming chan *tcpConn
	closed   chan struct{}
	once     sync.Once
	port     int
}

func newTcpServer() Server {
	return &tcpServer{incoming: make(chan *tcpConn, 8), closed: make(chan struct{})}
}

// Start binds ONLY the start port of the configured range. If occupied, fail.
func (s *tcpServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return nil
	}
	start, _ := getPortRange()
	addr := fmt.Sprintf("%s:%d", residentHost, start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		zap.S().Warnf("singleinstance: failed to bind %s: %v", addr, err)
		return err
	}
	s.lis = lis
	s.port = start
	zap.S().Infof("singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx, lis)
	return nil
}

func (s *tcpServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

func (s *tcpServer) acceptLoop(ctx context.Context, lis net.Listener) {
	for {
		c, err := lis.Accept()
		if err != nil {
			return
		}
		remote := c.RemoteAddr().String()
		_ = c.SetDeadline(time.Now().Add(handshakeWindow))
		br := bufio.NewReader(c)
		line, _ := br.ReadString('\n')
		bw := bufio.NewWriter(c)
		switch line {
		case pingRequest:
			zap.S().Debugf("singleinstance: PING from %s -> PONG", remote)
			_, _ = bw.WriteString(pongResponse)
			_ = bw.Flush()
			_ = c.Close()
			continue
		case captureRequest:
		default:
			zap.S().Warnf("singleinstance: unknown request %q from %s", strings.TrimSpace(line), remote)
			_, _ = bw.WriteString(errorStatus + "unknown request")
			_ = bw.Flush()
			_ = c.Close()
			continue
		}

		// The capture waits on the user, so the reply has no deadline.
		_ = c.SetDeadline(time.Time{})
		zap.S().Infof("singleinstance: capture request from %s", remote)
		tc := &tcpConn{c: c, r: Request{Command: CommandCapture}, w: bw}
		select {
		case s.incoming <- tc:
		case <-ctx.Done():
			_ = c.Close()
			return
		case <-s.closed:
			_ = c.Close()
			return
		}
	}
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.closed:
		return nil, ErrClosed
	case tc := <-s.incoming:
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	s.once.Do(func() { close(s.closed) })
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		_ = s.lis.Close()
		s.lis = nil
	}
	return nil
}

type tcpConn struct {
	c net.Conn
	r Request
	w *bufio.Writer
}

func (tc *tcpConn) Request() Request { return tc.r }

func (tc *tcpConn) RespondSuccess(result events.CaptureResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if _, err := tc.w.WriteString(successStatus); err != nil {
		return err
	}
	if _, err := tc.w.Write(body); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondError(msg string) error {
	if _, err := tc.w.WriteString(errorStatus + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
