package agent

import (
	"fmt"
	"strings"
	"time"

	"helpbot/pkg/llm"
)

// basePrompt is the fixed behavioral instruction text. Dynamic facts
// (date, model, channel) are appended by SystemPrompt.
const basePrompt = `You are a friendly and helpful assistant who likes to answer questions.
Users will refer to you as %s and you can refer to yourself by that name as well.
Use as many function calls as you need to reach an answer.
When you have a final response to a user's query use the conclude function to respond and end the conversation.`

// PromptContext carries the inputs the system prompt is built from.
// SystemPrompt is a pure function of this value, so the same context and
// date always yield the same prompt.
type PromptContext struct {
	BotName string
	Model   string
	Date    time.Time
	Channel string // originating channel identifier, may be empty
}

// SystemPrompt assembles the behavioral instructions plus dynamic facts.
func SystemPrompt(pc PromptContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, basePrompt, pc.BotName)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Today's date is: %s\n", pc.Date.Format("2006-01-02"))
	fmt.Fprintf(&sb, "You are powered by the %s model\n", pc.Model)
	if pc.Channel != "" {
		fmt.Fprintf(&sb, "You are talking over the %s channel\n", pc.Channel)
	}

	return sb.String()
}

// InitialMessages builds the starting conversation sequence for a query:
// the system instruction followed by the user's message.
func InitialMessages(pc PromptContext, userText string) []llm.Message {
	return []llm.Message{
		llm.NewSystemMessage(SystemPrompt(pc)),
		llm.NewUserMessage(userText),
	}
}
