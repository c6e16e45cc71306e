package session

// ConnectionState is the lifecycle state of the chat channel.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Status is a snapshot of everything the UI derives its affordances from.
type Status struct {
	State ConnectionState
	// Reconnecting is raised when a connection attempt starts or the
	// transport reports an error, and cleared once the channel opens.
	Reconnecting bool
	// AwaitingReply is raised by a transmitted message and cleared by the
	// next assistant reply.
	AwaitingReply bool
}

func (s Status) Connected() bool { return s.State == StateConnected }

// CanSend reports whether the input should accept a new message.
func (s Status) CanSend() bool { return s.Connected() && !s.AwaitingReply }

// Label is the text of the connection indicator.
func (s Status) Label() string {
	switch {
	case s.State == StateConnected:
		return "Connected"
	case s.Reconnecting:
		return "Reconnecting..."
	default:
		return "Disconnected"
	}
}
