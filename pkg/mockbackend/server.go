// Package mockbackend is a scripted stand-in for the hotel assistant
// backend. It speaks the same chat channel protocol as the real service and
// answers every client message with a fixed frame sequence.
package mockbackend

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-go-golems/hotel-chat/pkg/protocol"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type Option func(*Server)

// WithDelay pauses before each scripted frame.
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		s.delay = d
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

type Server struct {
	script       Script
	delay        time.Duration
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
	pool         *Pool
	logger       zerolog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

func NewServer(script Script, opts ...Option) *Server {
	s := &Server{
		script:       script,
		writeTimeout: 10 * time.Second,
		upgrader:     websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:       log.With().Str("component", "mock-backend").Logger(),
		closed:       make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.pool = NewPool(s.writeTimeout, s.logger)
	return s
}

func (s *Server) Pool() *Pool { return s.pool }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.ChatPath, s.ServeWS)
	return mux
}

// ServeWS upgrades the request and answers each client frame with the
// script until the client goes away.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("ws upgrade failed")
		return
	}
	wsLog := s.logger.With().Str("remote", r.RemoteAddr).Logger()
	wsLog.Info().Msg("ws connected")
	s.pool.Add(conn)
	defer wsLog.Info().Msg("ws disconnected")
	defer s.pool.Remove(conn)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			wsLog.Debug().Err(err).Msg("ws read loop end")
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		out, err := protocol.DecodeOutbound(data)
		if err != nil {
			wsLog.Warn().Err(err).Msg("ignoring malformed client frame")
			continue
		}
		if out.Message == "" {
			continue
		}
		wsLog.Debug().Str("message", out.Message).Msg("ws received message")

		frames, err := s.script.Reply(out.Message)
		if err != nil {
			wsLog.Error().Err(err).Msg("could not encode scripted reply")
			continue
		}
		for _, f := range frames {
			if !s.wait() {
				return
			}
			if !s.pool.SendTo(conn, f) {
				return
			}
		}
	}
}

// wait sleeps for the frame delay. It reports false once the server closes.
func (s *Server) wait() bool {
	if s.delay <= 0 {
		select {
		case <-s.closed:
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-s.closed:
		return false
	}
}

// Close disconnects every client with a going-away close frame.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
	s.pool.CloseAll(websocket.CloseGoingAway, "server shutting down")
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.logger.Info().Str("address", addr).Str("path", protocol.ChatPath).Msg("mock backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "mock backend listen")
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		s.logger.Info().Msg("shutting down mock backend")
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "mock backend shutdown")
		}
		return nil
	})
	return eg.Wait()
}
