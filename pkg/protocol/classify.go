package protocol

import (
	"fmt"

	"github.com/go-go-golems/hotel-chat/pkg/transcript"
)

// Action tells the session what to do with a classified frame.
type Action int

const (
	// ActionIgnore covers unknown frame types; they are logged and dropped.
	ActionIgnore Action = iota
	// ActionEcho is the server echo of a local send; the record already exists.
	ActionEcho
	// ActionAppend appends Classification.Record to the transcript.
	ActionAppend
)

func (a Action) String() string {
	switch a {
	case ActionIgnore:
		return "ignore"
	case ActionEcho:
		return "echo"
	case ActionAppend:
		return "append"
	default:
		return "unknown"
	}
}

type Classification struct {
	Action Action
	Record transcript.Record
	// ClearsAwaiting is set for assistant replies.
	ClearsAwaiting bool
}

// Classify maps one inbound frame to its transcript effect.
func Classify(in Inbound) Classification {
	switch in.Type {
	case TypeUserMessage:
		return Classification{Action: ActionEcho}
	case TypeAIMessage:
		return Classification{
			Action:         ActionAppend,
			Record:         transcript.NewAssistantRecord(in.Content),
			ClearsAwaiting: true,
		}
	case TypeToolStart:
		rec := transcript.NewSystemRecord(fmt.Sprintf("Using tool: %s...", in.Name))
		rec.Tool = in.Name
		return Classification{Action: ActionAppend, Record: rec}
	case TypeToolResult:
		rec := transcript.NewSystemRecord(fmt.Sprintf("Tool result from %s:", in.Name))
		rec.Tool = in.Name
		rec.Data = in.Result
		return Classification{Action: ActionAppend, Record: rec}
	case TypeToolError:
		rec := transcript.NewSystemRecord(fmt.Sprintf("Error from tool %s: %s", in.Name, in.ErrorText()))
		rec.Tool = in.Name
		return Classification{Action: ActionAppend, Record: rec}
	default:
		return Classification{Action: ActionIgnore}
	}
}
