package mockbackend

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	mu        sync.Mutex
	texts     []string
	closes    int
	deadlines int
	failing   bool
	closedCh  chan struct{}
}

func newStubConn(failing bool) *stubConn {
	return &stubConn{failing: failing, closedCh: make(chan struct{})}
}

func (s *stubConn) WriteMessage(mt int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("broken pipe")
	}
	switch mt {
	case websocket.TextMessage:
		s.texts = append(s.texts, string(data))
	case websocket.CloseMessage:
		s.closes++
	}
	return nil
}

func (s *stubConn) SetWriteDeadline(_ time.Time) error {
	s.mu.Lock()
	s.deadlines++
	s.mu.Unlock()
	return nil
}

func (s *stubConn) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.closedCh:
	default:
		close(s.closedCh)
	}
	return nil
}

func (s *stubConn) isClosed() bool {
	select {
	case <-s.closedCh:
		return true
	default:
		return false
	}
}

func TestPoolDropsFailedConnections(t *testing.T) {
	pool := NewPool(time.Second, zerolog.Nop())
	good := newStubConn(false)
	bad := newStubConn(true)
	pool.Add(good)
	pool.Add(bad)
	require.Equal(t, 2, pool.Count())

	require.Equal(t, 1, pool.Broadcast([]byte("one")))
	require.Equal(t, 1, pool.Count())
	require.True(t, bad.isClosed())
	require.False(t, good.isClosed())
	require.Equal(t, []string{"one"}, good.texts)
	require.Equal(t, 1, good.deadlines)

	require.False(t, pool.SendTo(bad, []byte("two")))
	require.True(t, pool.SendTo(good, []byte("two")))
}

func TestPoolCloseAllSendsCloseFrame(t *testing.T) {
	pool := NewPool(0, zerolog.Nop())
	a, b := newStubConn(false), newStubConn(false)
	pool.Add(a)
	pool.Add(b)

	pool.CloseAll(websocket.CloseGoingAway, "bye")
	require.Equal(t, 0, pool.Count())
	for _, c := range []*stubConn{a, b} {
		require.True(t, c.isClosed())
		require.Equal(t, 1, c.closes)
		require.Equal(t, 0, c.deadlines)
	}

	pool.Remove(a)
	require.Equal(t, 0, pool.Count())
}
