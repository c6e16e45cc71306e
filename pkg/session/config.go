package session

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-go-golems/hotel-chat/pkg/protocol"
	"github.com/pkg/errors"
)

const (
	DefaultURL              = "ws://localhost:8080" + protocol.ChatPath
	DefaultReconnectDelay   = 3000 * time.Millisecond
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
)

// Config controls how the session reaches the backend. Set a timeout to 0 to
// disable it.
type Config struct {
	URL              string
	ReconnectDelay   time.Duration
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:              DefaultURL,
		ReconnectDelay:   DefaultReconnectDelay,
		HandshakeTimeout: DefaultHandshakeTimeout,
		WriteTimeout:     DefaultWriteTimeout,
	}
}

func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("empty URL")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return errors.Wrap(err, "parse URL")
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return errors.Errorf("invalid URL scheme %q, expected ws or wss", u.Scheme)
	}
	if u.Host == "" {
		return errors.Errorf("URL %q has no host", c.URL)
	}
	if c.ReconnectDelay < 0 || c.HandshakeTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("delays and timeouts must not be negative")
	}
	return nil
}

// NormalizeURL maps http(s) to ws(s) and fills in the chat path when the
// URL has none.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(err, "parse URL")
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = protocol.ChatPath
	}
	return u.String(), nil
}
