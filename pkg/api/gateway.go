package api

// Channel defines the standardized lifecycle interface for the transports
// that feed user text into the engine (console, telegram, web).
type Channel interface {
	ID() string
	Start(ctx ChannelContext) error
	Stop() error
	Send(session SessionContext, message string) error
}

// SignalingChannel is an optional extension of the Channel interface for
// platforms that support control signals (e.g., typing indicators).
type SignalingChannel interface {
	Channel
	// SendSignal transmits a control signal (e.g., "typing") to the
	// target session to change UI state.
	SendSignal(session SessionContext, signal string) error
}

// ChannelContext provides the interface for a Channel implementation to
// communicate back with the gateway core.
type ChannelContext interface {
	MessageResponder
	OnMessage(channelID string, msg *UnifiedMessage)
}

// MessageResponder defines the capabilities for sending responses back to
// a channel. Every progress and final message the engine emits goes
// through this interface.
type MessageResponder interface {
	SendReply(session SessionContext, content string) error
	SendSignal(session SessionContext, signal string) error
}

// UnifiedMessage is the standardized internal form of an incoming user
// message, independent of the platform it arrived on.
type UnifiedMessage struct {
	Session SessionContext // Contextual information about the source (user, chat)
	Content string         // Text content of the message
	Raw     any            // Optional original platform-specific payload
	DebugID string         // Short identifier grouping the logs of one query
}

// SessionContext encapsulates identity and routing information for a
// specific conversation unit on a specific channel. It is an immutable
// value passed through the call chain, never shared mutable state.
type SessionContext struct {
	ChannelID string // Identifier of the originating channel (e.g., "telegram")
	UserID    string // Platform-specific unique identifier for the user
	ChatID    string // Platform-specific identifier for the chat or group
	Username  string // Display name of the user as provided by the platform
}

// MessageHandler is the function signature for processing incoming messages.
type MessageHandler func(*UnifiedMessage)

// OnMessage allows MessageHandler to satisfy the MessageProcessor interface.
func (h MessageHandler) OnMessage(msg *UnifiedMessage) {
	h(msg)
}

// MessageProcessor is implemented by components that consume incoming messages.
type MessageProcessor interface {
	OnMessage(msg *UnifiedMessage)
}

// ResponderAware is implemented by components that need a MessageResponder injected.
type ResponderAware interface {
	SetResponder(responder MessageResponder)
}
