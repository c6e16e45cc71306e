package protocol

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ChatPath is the endpoint path of the chat channel.
const ChatPath = "/ws/chat"

const (
	TypeUserMessage = "user_message"
	TypeAIMessage   = "ai_message"
	TypeToolStart   = "tool_start"
	TypeToolResult  = "tool_result"
	TypeToolError   = "tool_error"
)

// Outbound is the client -> server frame.
type Outbound struct {
	Message string `json:"message"`
}

// Inbound is the server -> client frame. Only Type is required; the other
// fields are populated depending on it.
type Inbound struct {
	Type    string          `json:"type"`
	Content string          `json:"content,omitempty"`
	Name    string          `json:"name,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// ErrorText renders the error field of a tool_error frame. Strings are
// unquoted, anything else is kept as its JSON text.
func (in Inbound) ErrorText() string {
	if len(in.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(in.Error, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(in.Error))
}

func EncodeOutbound(text string) ([]byte, error) {
	b, err := json.Marshal(Outbound{Message: text})
	if err != nil {
		return nil, errors.Wrap(err, "encode outbound frame")
	}
	return b, nil
}

// DecodeInbound parses a text frame. A frame without a type is an error.
func DecodeInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, errors.Wrap(err, "decode inbound frame")
	}
	if in.Type == "" {
		return Inbound{}, errors.New("inbound frame has no type")
	}
	return in, nil
}

// DecodeOutbound parses a client frame.
func DecodeOutbound(raw []byte) (Outbound, error) {
	var out Outbound
	if err := json.Unmarshal(raw, &out); err != nil {
		return Outbound{}, errors.Wrap(err, "decode outbound frame")
	}
	return out, nil
}

func EncodeInbound(in Inbound) ([]byte, error) {
	if in.Type == "" {
		return nil, errors.New("inbound frame has no type")
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "encode inbound frame")
	}
	return b, nil
}
