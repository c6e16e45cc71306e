package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var errClosedConn = errors.New("use of closed network connection")

type fakeConn struct {
	incoming chan []byte
	readErr  chan error
	closedCh chan struct{}
	once     sync.Once

	mu      sync.Mutex
	writes  [][]byte
	failing error
	// writeGate, when set, holds every write until it is closed.
	writeGate chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		incoming: make(chan []byte, 16),
		readErr:  make(chan error, 1),
		closedCh: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case b := <-c.incoming:
		return websocket.TextMessage, b, nil
	case err := <-c.readErr:
		return 0, nil, err
	case <-c.closedCh:
		return 0, nil, errClosedConn
	}
}

func (c *fakeConn) WriteMessage(mt int, data []byte) error {
	c.mu.Lock()
	gate := c.writeGate
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}

	select {
	case <-c.closedCh:
		return errClosedConn
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing != nil {
		return c.failing
	}
	if mt == websocket.TextMessage {
		c.writes = append(c.writes, append([]byte(nil), data...))
	}
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closedCh) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closedCh:
		return true
	default:
		return false
	}
}

func (c *fakeConn) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := make([]string, 0, len(c.writes))
	for _, w := range c.writes {
		ret = append(ret, string(w))
	}
	return ret
}

// peerClose simulates the server closing the channel.
func (c *fakeConn) peerClose() {
	c.readErr <- &websocket.CloseError{Code: websocket.CloseGoingAway, Text: "bye"}
}

func (c *fakeConn) send(frame string) {
	c.incoming <- []byte(frame)
}

// fakeDialer hands out queued connections. When gate is set every dial
// blocks until a value is sent on it.
type fakeDialer struct {
	mu    sync.Mutex
	calls int
	conns []*fakeConn
	errs  []error
	gate  chan struct{}
}

func (d *fakeDialer) Dial(ctx context.Context, _ string) (Conn, error) {
	d.mu.Lock()
	d.calls++
	gate := d.gate
	d.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(d.conns) == 0 {
		return nil, errors.New("connection refused")
	}
	c := d.conns[0]
	d.conns = d.conns[1:]
	return c, nil
}

func (d *fakeDialer) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type fakeTimer struct {
	s       *fakeScheduler
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

// fakeScheduler records deferred calls; tests fire them explicitly.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) pending() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ret []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			ret = append(ret, t)
		}
	}
	return ret
}

// fireAll runs every pending timer, as if their delay elapsed.
func (s *fakeScheduler) fireAll() int {
	timers := s.pending()
	s.mu.Lock()
	for _, t := range timers {
		t.fired = true
	}
	s.mu.Unlock()
	for _, t := range timers {
		t.fn()
	}
	return len(timers)
}

func newTestSession(d *fakeDialer, sc *fakeScheduler) *Session {
	cfg := DefaultConfig()
	cfg.HandshakeTimeout = 0
	s, err := New(cfg, WithDialer(d), WithScheduler(sc), WithLogger(zerolog.Nop()))
	if err != nil {
		panic(err)
	}
	return s
}
