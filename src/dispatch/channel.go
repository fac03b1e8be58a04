// Package dispatch hands payloads from OS callback threads to one listener
// through a single-slot, non-blocking queue.
package dispatch

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	ErrConsumerBound = errors.New("dispatch: consumer already attached")
	ErrReleased      = errors.New("dispatch: channel released")
)

// Policy decides what a Send does when the slot is already occupied.
type Policy int

const (
	// PolicyDrop keeps the pending payload and discards the new one.
	PolicyDrop Policy = iota
	// PolicyOverwrite replaces the pending payload with the new one.
	PolicyOverwrite
)

// ParsePolicy maps "drop"/"overwrite" to a Policy. Anything else is PolicyDrop.
func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), "overwrite") {
		return PolicyOverwrite
	}
	return PolicyDrop
}

func (p Policy) String() string {
	if p == PolicyOverwrite {
		return "overwrite"
	}
	return "drop"
}

// Channel is a depth-1 handoff from any number of producers to one listener.
// Send never blocks. After Release returns no listener call begins.
type Channel[T any] struct {
	policy Policy
	slot   chan T
	done   chan struct{}

	mu       sync.Mutex
	bound    bool
	released bool

	closed  atomic.Bool
	dropped atomic.Uint64
	sent    atomic.Uint64
}

// New creates an unbound channel.
func New[T any](policy Policy) *Channel[T] {
	return &Channel[T]{
		policy: policy,
		slot:   make(chan T, 1),
		done:   make(chan struct{}),
	}
}

// Send offers v to the listener without blocking. It returns false when v
// was dropped or the channel is released.
func (c *Channel[T]) Send(v T) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.slot <- v:
		c.sent.Add(1)
		return true
	default:
	}
	if c.policy == PolicyOverwrite {
		select {
		case <-c.slot:
			c.dropped.Add(1)
		default:
		}
		select {
		case c.slot <- v:
			c.sent.Add(1)
			return true
		default:
		}
	}
	c.dropped.Add(1)
	return false
}

// Attach binds listener and starts the delivery goroutine.
func (c *Channel[T]) Attach(listener func(T)) error {
	if listener == nil {
		return errors.New("dispatch: nil listener")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return ErrReleased
	}
	if c.bound {
		return ErrConsumerBound
	}
	c.bound = true
	go c.deliverLoop(listener)
	return nil
}

func (c *Channel[T]) deliverLoop(listener func(T)) {
	for {
		select {
		case <-c.done:
			return
		case v := <-c.slot:
			if !c.begin() {
				return
			}
			c.invoke(listener, v)
		}
	}
}

// begin is the release barrier: a delivery either starts before Release
// takes the lock or never starts at all.
func (c *Channel[T]) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.released
}

func (c *Channel[T]) invoke(listener func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorf("dispatch: listener panic: %v", r)
		}
	}()
	listener(v)
}

// Release severs the channel. Later sends are no-ops and the pending payload,
// if any, is discarded. Release does not wait for a listener call already in
// progress, so a listener may release its own channel.
func (c *Channel[T]) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	c.closed.Store(true)
	close(c.done)
	select {
	case <-c.slot:
	default:
	}
}

// Done is closed once Release has been called.
func (c *Channel[T]) Done() <-chan struct{} { return c.done }

// Dropped counts payloads that were discarded by the slot policy.
func (c *Channel[T]) Dropped() uint64 { return c.dropped.Load() }

// Sent counts payloads that entered the slot.
func (c *Channel[T]) Sent() uint64 { return c.sent.Load() }
