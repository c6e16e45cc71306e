package transcript

import (
	"encoding/json"
	"time"
)

// Role identifies who produced a record. The set is open: renderers must
// handle values they do not know.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Record is one entry of the transcript.
type Record struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Data is an opaque structured payload attached to tool results.
	Data json.RawMessage `json:"data,omitempty"`
	// Tool names the tool that produced the record, if any.
	Tool      string    `json:"tool,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasData reports whether the record carries a non-empty payload.
func (r Record) HasData() bool {
	if len(r.Data) == 0 {
		return false
	}
	return string(r.Data) != "null"
}

func NewUserRecord(content string) Record {
	return Record{Role: RoleUser, Content: content}
}

func NewAssistantRecord(content string) Record {
	return Record{Role: RoleAssistant, Content: content}
}

func NewSystemRecord(content string) Record {
	return Record{Role: RoleSystem, Content: content}
}
