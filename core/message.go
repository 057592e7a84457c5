package core

import "time"

// Conversation roles used in chat messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolCallRecord captures a tool invocation performed during a turn so it can
// be persisted alongside the assistant message that triggered it.
type ToolCallRecord struct {
	Name      string `json:"name"`                // Tool name
	Arguments string `json:"arguments,omitempty"` // Serialized JSON arguments
	Result    string `json:"result,omitempty"`    // Stringified tool result
}

// Message is a single conversation turn. Messages are append-only per
// session; ordering matters and is preserved by history stores.
type Message struct {
	ID        string            `json:"id,omitempty"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	ToolCall  *ToolCallRecord   `json:"tool_call,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewUserMessage creates a user-authored message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now().UTC()}
}

// NewAssistantMessage creates an assistant-authored message stamped with the
// current time.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: time.Now().UTC()}
}
