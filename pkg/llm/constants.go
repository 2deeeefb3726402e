package llm

// Role constants for conversation messages. All providers normalize
// their native roles to these values.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)
