// Package session owns the live chat channel to the assistant backend.
//
// A Session is an explicit state machine (Disconnected → Connecting →
// Connected → Disconnected). The dialer, the socket reader and the reconnect
// timer run on their own goroutines but report back through one handler per
// event kind (open, frame, error, close); every handler runs under the session
// mutex, so transcript appends and state transitions happen one at a time and
// in delivery order.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-go-golems/hotel-chat/pkg/protocol"
	"github.com/go-go-golems/hotel-chat/pkg/transcript"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Session struct {
	cfg        Config
	dialer     Dialer
	scheduler  Scheduler
	logger     zerolog.Logger
	transcript *transcript.Transcript

	mu           sync.Mutex
	state        ConnectionState
	reconnecting bool
	awaiting     bool
	closed       bool
	// gen identifies the current connection attempt. Handlers carrying an
	// older generation are stale and ignored.
	gen        uint64
	conn       Conn
	cancelDial context.CancelFunc
	reconnect  *reconnectJob
	subs       map[int]chan Event
	nextSub    int

	writeMu sync.Mutex
}

type Option func(*Session)

func WithDialer(d Dialer) Option {
	return func(s *Session) {
		if d != nil {
			s.dialer = d
		}
	}
}

func WithScheduler(sc Scheduler) Option {
	return func(s *Session) {
		if sc != nil {
			s.scheduler = sc
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithTranscript(t *transcript.Transcript) Option {
	return func(s *Session) {
		if t != nil {
			s.transcript = t
		}
	}
}

// New builds a disconnected session. Call Connect to open the channel.
func New(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid session config")
	}
	s := &Session{
		cfg:        cfg,
		dialer:     WebsocketDialer{},
		scheduler:  timeScheduler{},
		logger:     log.With().Str("component", "session").Logger(),
		transcript: transcript.New(),
		subs:       map[int]chan Event{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) Config() Config { return s.cfg }

func (s *Session) Transcript() *transcript.Transcript { return s.transcript }

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// Subscribe registers a listener. The returned func unsubscribes and closes
// the channel; Close closes all remaining channels.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Connect starts a connection attempt unless one is in flight, the channel
// is already open, or the session is closed. It never blocks on the network.
func (s *Session) Connect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateDisconnected {
		return
	}

	old := s.statusLocked()
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelDial = cancel
	s.state = StateConnecting
	s.reconnecting = true
	s.publishStatusLocked(old)

	s.logger.Debug().Uint64("gen", gen).Str("url", s.cfg.URL).Msg("connecting")
	go s.dial(ctx, gen)
}

// Send appends text as a user record and transmits it. When the channel is
// not open the text is not transmitted: a connection-lost notice is appended,
// a reconnect is started and ErrNotConnected is returned.
func (s *Session) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	payload, err := protocol.EncodeOutbound(text)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.appendLocked(transcript.NewUserRecord(text))
	if s.state != StateConnected || s.conn == nil {
		s.connectionLostLocked()
		s.mu.Unlock()
		s.Connect()
		return ErrNotConnected
	}
	conn, gen := s.conn, s.gen
	old := s.statusLocked()
	s.awaiting = true
	s.publishStatusLocked(old)
	s.mu.Unlock()

	if err := s.write(conn, websocket.TextMessage, payload); err != nil {
		s.logger.Warn().Err(err).Uint64("gen", gen).Msg("send failed, dropping connection")
		s.mu.Lock()
		if !s.closed && gen == s.gen {
			s.connectionLostLocked()
			if s.conn == conn {
				// the reader sees the closed socket and runs the close path
				_ = conn.Close()
			}
		}
		s.mu.Unlock()
		return errors.Wrap(err, "send message")
	}
	return nil
}

// Close stops reconnecting, closes the channel and all subscriptions. The
// session cannot be reused.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	old := s.statusLocked()
	s.closed = true
	s.gen++
	s.reconnect.Cancel()
	s.reconnect = nil
	if s.cancelDial != nil {
		s.cancelDial()
		s.cancelDial = nil
	}
	conn := s.conn
	s.conn = nil
	s.state = StateDisconnected
	s.reconnecting = false
	s.awaiting = false
	s.publishStatusLocked(old)
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	_ = s.write(conn, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client close"))
	return conn.Close()
}

func (s *Session) dial(ctx context.Context, gen uint64) {
	if s.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.HandshakeTimeout)
		defer cancel()
	}
	conn, err := s.dialer.Dial(ctx, s.cfg.URL)
	if err != nil {
		s.handleError(gen, err)
		s.handleClose(gen, err)
		return
	}
	s.handleOpen(gen, conn)
}

func (s *Session) readLoop(gen uint64, conn Conn) {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if !isCloseFrame(err) {
				s.handleError(gen, err)
			}
			s.handleClose(gen, err)
			return
		}
		if mt != websocket.TextMessage {
			s.logger.Debug().Int("message_type", mt).Msg("ignoring non-text frame")
			continue
		}
		s.handleFrame(gen, data)
	}
}

func (s *Session) handleOpen(gen uint64, conn Conn) {
	s.mu.Lock()
	if s.closed || gen != s.gen || s.state != StateConnecting {
		s.mu.Unlock()
		s.logger.Debug().Uint64("gen", gen).Msg("discarding superseded connection")
		_ = conn.Close()
		return
	}
	if s.cancelDial != nil {
		s.cancelDial()
		s.cancelDial = nil
	}
	s.reconnect.Cancel()
	s.reconnect = nil

	old := s.statusLocked()
	s.conn = conn
	s.state = StateConnected
	s.reconnecting = false
	s.publishStatusLocked(old)
	s.mu.Unlock()

	s.logger.Info().Uint64("gen", gen).Str("url", s.cfg.URL).Msg("connected")
	go s.readLoop(gen, conn)
}

func (s *Session) handleFrame(gen uint64, raw []byte) {
	in, err := protocol.DecodeInbound(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("payload", string(raw)).Msg("ignoring undecodable frame")
		return
	}
	c := protocol.Classify(in)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}
	switch c.Action {
	case protocol.ActionIgnore:
		s.logger.Warn().Str("type", in.Type).Msg("unknown message type")
	case protocol.ActionEcho:
		s.logger.Debug().Msg("suppressing user_message echo")
	case protocol.ActionAppend:
		s.appendLocked(c.Record)
		if c.ClearsAwaiting && s.awaiting {
			old := s.statusLocked()
			s.awaiting = false
			s.publishStatusLocked(old)
		}
	}
}

func (s *Session) handleError(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}
	s.logger.Warn().Err(err).Uint64("gen", gen).Msg("transport error")
	s.publishLocked(TransportError{Err: err})
	if !s.reconnecting {
		old := s.statusLocked()
		s.reconnecting = true
		s.publishStatusLocked(old)
	}
}

func (s *Session) handleClose(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen || s.state == StateDisconnected {
		return
	}
	old := s.statusLocked()
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	if s.cancelDial != nil {
		s.cancelDial()
		s.cancelDial = nil
	}
	s.state = StateDisconnected
	// a reply to a message sent on this channel will not arrive on the next one
	s.awaiting = false
	s.scheduleReconnectLocked()
	s.publishStatusLocked(old)

	ev := s.logger.Info().Uint64("gen", gen).Dur("retry_in", s.cfg.ReconnectDelay)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("disconnected")
}

func (s *Session) scheduleReconnectLocked() {
	s.reconnect.Cancel()
	s.reconnect = scheduleReconnect(s.scheduler, s.cfg.ReconnectDelay, s.reconnectFired)
}

// reconnectFired is the body of the reconnect job. It only reconnects when
// the job is still the pending one; Connect itself is a no-op unless the
// session is disconnected, which keeps a timer reconnect and a send-triggered
// reconnect from overlapping.
func (s *Session) reconnectFired(j *reconnectJob) {
	s.mu.Lock()
	if s.reconnect != j || j.Cancelled() {
		s.mu.Unlock()
		return
	}
	s.reconnect = nil
	s.mu.Unlock()
	s.Connect()
}

func (s *Session) write(conn Conn, messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	return conn.WriteMessage(messageType, data)
}

func (s *Session) connectionLostLocked() {
	s.appendLocked(transcript.NewSystemRecord(ConnectionLostNotice))
	if s.awaiting {
		old := s.statusLocked()
		s.awaiting = false
		s.publishStatusLocked(old)
	}
}

func (s *Session) appendLocked(rec transcript.Record) {
	idx, stored := s.transcript.Append(rec)
	s.publishLocked(RecordAppended{Index: idx, Record: stored})
}

func (s *Session) statusLocked() Status {
	return Status{State: s.state, Reconnecting: s.reconnecting, AwaitingReply: s.awaiting}
}

func (s *Session) publishStatusLocked(old Status) {
	cur := s.statusLocked()
	if cur == old {
		return
	}
	s.publishLocked(StatusChanged{Old: old, New: cur})
}

func (s *Session) publishLocked(ev Event) {
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.logger.Warn().Int("subscriber", id).Msgf("subscriber buffer full, dropping %T", ev)
		}
	}
}
