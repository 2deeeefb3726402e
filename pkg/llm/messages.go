package llm

import "time"

// Message represents one entry in a conversation sequence. The ordering
// of a []Message slice is the conversation order and is exactly what is
// sent to the completion service.
//
// Invariant: a RoleTool message always immediately follows the assistant
// message that issued the corresponding tool call, and names the same tool.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content,omitempty"` // Empty when the message carries a tool call instead
	Timestamp int64  `json:"timestamp,omitempty"`

	// ToolCall holds the tool invocation requested by the model
	// (only valid for RoleAssistant).
	ToolCall *ToolCall `json:"tool_call,omitempty"`

	// ToolCallID and ToolName associate a RoleTool result with the
	// assistant tool call that produced it.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
}

// ToolCall is a tool invocation request produced by the completion
// service. Arguments is the raw JSON payload, not yet validated.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Reply is the completion service's answer for one request: either plain
// assistant text or a tool invocation request, never both.
type Reply struct {
	Text     string    `json:"text,omitempty"`
	ToolCall *ToolCall `json:"tool_call,omitempty"`
}

// NewTextMessage builds a plain text message for the given role.
func NewTextMessage(role, text string) Message {
	return Message{
		Role:      role,
		Content:   text,
		Timestamp: time.Now().Unix(),
	}
}

// NewSystemMessage builds a system instruction message.
func NewSystemMessage(text string) Message {
	return NewTextMessage(RoleSystem, text)
}

// NewUserMessage builds a user message.
func NewUserMessage(text string) Message {
	return NewTextMessage(RoleUser, text)
}

// NewAssistantMessage builds an assistant text message.
func NewAssistantMessage(text string) Message {
	return NewTextMessage(RoleAssistant, text)
}

// NewToolCallMessage builds the assistant record for a tool invocation.
// Content stays empty; the invocation itself is the payload.
func NewToolCallMessage(tc *ToolCall) Message {
	return Message{
		Role:      RoleAssistant,
		ToolCall:  tc,
		Timestamp: time.Now().Unix(),
	}
}

// NewToolResultMessage builds the tool-result record for a completed
// (or failed) invocation. Content carries the serialized result.
func NewToolResultMessage(tc *ToolCall, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: tc.ID,
		ToolName:   tc.Name,
		Timestamp:  time.Now().Unix(),
	}
}
