package mockbackend

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Conn is the part of a websocket connection the pool writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Pool tracks the connected chat clients. All writes go through the pool so
// a connection never has two concurrent writers.
type Pool struct {
	mu           sync.Mutex
	conns        map[Conn]struct{}
	writeTimeout time.Duration
	logger       zerolog.Logger
}

func NewPool(writeTimeout time.Duration, logger zerolog.Logger) *Pool {
	return &Pool{
		conns:        map[Conn]struct{}{},
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

func (p *Pool) Add(conn Conn) {
	if conn == nil {
		return
	}
	p.mu.Lock()
	p.conns[conn] = struct{}{}
	p.mu.Unlock()
}

func (p *Pool) Remove(conn Conn) {
	if conn == nil {
		return
	}
	p.mu.Lock()
	delete(p.conns, conn)
	p.mu.Unlock()
	_ = conn.Close()
}

// SendTo writes one text frame. A failed write drops the connection and
// reports false, as does a connection that is no longer in the pool.
func (p *Pool) SendTo(conn Conn, data []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.conns[conn]; !ok {
		return false
	}
	return p.writeLocked(conn, data)
}

// Broadcast writes a text frame to every client and returns how many got it.
func (p *Pool) Broadcast(data []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for conn := range p.conns {
		if p.writeLocked(conn, data) {
			n++
		}
	}
	return n
}

func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// CloseAll sends a close frame with the given code to every client and
// closes them.
func (p *Pool) CloseAll(code int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, text)
	for conn := range p.conns {
		p.setDeadline(conn)
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		_ = conn.Close()
		delete(p.conns, conn)
	}
}

func (p *Pool) writeLocked(conn Conn, data []byte) bool {
	p.setDeadline(conn)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		p.logger.Warn().Err(err).Msg("ws send failed, dropping connection")
		delete(p.conns, conn)
		_ = conn.Close()
		return false
	}
	return true
}

func (p *Pool) setDeadline(conn Conn) {
	if p.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
	}
}
