package session

import (
	"time"

	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
)

const SettingsSlug = "session"

// Settings holds the channel configuration as parsed from flags, env and
// config files.
type Settings struct {
	ServerURL          string `glazed:"server-url"`
	ReconnectDelayMs   int    `glazed:"reconnect-delay-ms"`
	HandshakeTimeoutMs int    `glazed:"handshake-timeout-ms"`
	WriteTimeoutMs     int    `glazed:"write-timeout-ms"`
}

// NewSettingsSection returns the section definition for Settings.
func NewSettingsSection() (schema.Section, error) {
	return schema.NewSection(
		SettingsSlug,
		"Chat channel settings",
		schema.WithFields(
			fields.New("server-url", fields.TypeString,
				fields.WithDefault(DefaultURL),
				fields.WithHelp("Backend chat endpoint (ws, wss, http or https; path defaults to /ws/chat)")),
			fields.New("reconnect-delay-ms", fields.TypeInteger,
				fields.WithDefault(int(DefaultReconnectDelay/time.Millisecond)),
				fields.WithHelp("Fixed delay before reconnecting after the channel closes")),
			fields.New("handshake-timeout-ms", fields.TypeInteger,
				fields.WithDefault(int(DefaultHandshakeTimeout/time.Millisecond)),
				fields.WithHelp("WebSocket handshake timeout (0 disables)")),
			fields.New("write-timeout-ms", fields.TypeInteger,
				fields.WithDefault(int(DefaultWriteTimeout/time.Millisecond)),
				fields.WithHelp("Per-frame write timeout (0 disables)")),
		),
	)
}

// Config turns parsed settings into a validated Config.
func (s Settings) Config() (Config, error) {
	u, err := NormalizeURL(s.ServerURL)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		URL:              u,
		ReconnectDelay:   time.Duration(s.ReconnectDelayMs) * time.Millisecond,
		HandshakeTimeout: time.Duration(s.HandshakeTimeoutMs) * time.Millisecond,
		WriteTimeout:     time.Duration(s.WriteTimeoutMs) * time.Millisecond,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
