package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"ws://localhost:8080/ws/chat": "ws://localhost:8080/ws/chat",
		"http://localhost:8080":       "ws://localhost:8080/ws/chat",
		"https://example.com/":        "wss://example.com/ws/chat",
		"localhost:9000":              "ws://localhost:9000/ws/chat",
		"wss://example.com/custom":    "wss://example.com/custom",
	}
	for in, want := range cases {
		got, err := NormalizeURL(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := NormalizeURL("  ")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.URL = ""
	require.ErrorContains(t, cfg.Validate(), "empty URL")

	cfg = DefaultConfig()
	cfg.URL = "ftp://example.com"
	require.ErrorContains(t, cfg.Validate(), "invalid URL scheme")

	cfg = DefaultConfig()
	cfg.ReconnectDelay = -time.Second
	require.Error(t, cfg.Validate())

	_, err := New(Config{})
	require.Error(t, err)
}

func TestSettingsConfig(t *testing.T) {
	cfg, err := Settings{
		ServerURL:          "http://backend:8080",
		ReconnectDelayMs:   3000,
		HandshakeTimeoutMs: 500,
		WriteTimeoutMs:     0,
	}.Config()
	require.NoError(t, err)
	require.Equal(t, "ws://backend:8080/ws/chat", cfg.URL)
	require.Equal(t, 3*time.Second, cfg.ReconnectDelay)
	require.Equal(t, 500*time.Millisecond, cfg.HandshakeTimeout)
	require.Equal(t, time.Duration(0), cfg.WriteTimeout)

	_, err = Settings{ServerURL: "ws://x", ReconnectDelayMs: -1}.Config()
	require.Error(t, err)
}

func TestStatusLabel(t *testing.T) {
	require.Equal(t, "Connected", Status{State: StateConnected, Reconnecting: true}.Label())
	require.Equal(t, "Reconnecting...", Status{State: StateConnecting, Reconnecting: true}.Label())
	require.Equal(t, "Disconnected", Status{}.Label())
	require.Equal(t, "connecting", StateConnecting.String())
}
