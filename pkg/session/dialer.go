package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Conn is the subset of *websocket.Conn the session uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials with gorilla/websocket.
type WebsocketDialer struct {
	Header http.Header
}

var _ Dialer = WebsocketDialer{}

func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	wd := websocket.Dialer{Proxy: http.ProxyFromEnvironment}
	conn, _, err := wd.DialContext(ctx, url, d.Header)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	return conn, nil
}

// isCloseFrame reports whether a read error is the peer closing the channel
// rather than a transport failure.
func isCloseFrame(err error) bool {
	var ce *websocket.CloseError
	return errors.As(err, &ce)
}
