package singleinstance

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"ztools-native/src/events"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) TryCapture(ctx context.Context) (bool, events.CaptureResult, error) {
	var none events.CaptureResult
	probe := 300 * time.Millisecond
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if err := ctx.Err(); err != nil {
			return false, none, err
		}
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if !ping(addr, probe) {
			continue
		}
		result, err := c.capture(ctx, addr)
		return true, result, err
	}
	return false, none, nil
}

func (c *tcpClient) capture(ctx context.Context, addr string) (result events.CaptureResult, err error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return result, err
	}
	defer conn.Close()

	// Unblock the read when ctx ends; the user may never finish the capture.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(captureRequest); err != nil {
		return result, err
	}
	if err := w.Flush(); err != nil {
		return result, err
	}
	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, err
	}
	body, _ := io.ReadAll(br)
	switch status {
	case successStatus:
		if err := json.Unmarshal(body, &result); err != nil {
			return result, fmt.Errorf("decode capture result: %w", err)
		}
		return result, nil
	case errorStatus:
		return result, errors.New(string(body))
	}
	return result, fmt.Errorf("unexpected reply %q", status)
}
