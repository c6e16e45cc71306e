package session

import "github.com/pkg/errors"

// ConnectionLostNotice is appended as a system record when a message could
// not be handed to the channel.
const ConnectionLostNotice = "Connection lost. Trying to reconnect..."

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNotConnected = errors.New("not connected")
	ErrClosed       = errors.New("session is closed")
)
