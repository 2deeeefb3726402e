package utils

import (
	"helpbot/pkg/llm"

	"github.com/pkoukk/tiktoken-go"
)

// CountMessageTokens estimates how many prompt tokens a message sequence
// will cost for the given model. Every message carries a fixed framing
// overhead on top of its encoded content, and every reply is primed with
// an assistant marker.
// See https://github.com/openai/openai-python/blob/main/chatml.md
func CountMessageTokens(messages []llm.Message, model string) (int, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Unknown model names fall back to the common chat encoding.
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, err
		}
	}

	numTokens := 0
	for _, message := range messages {
		numTokens += 4 // every message follows <im_start>{role/name}\n{content}<im_end>\n
		numTokens += len(enc.Encode(message.Role, nil, nil))
		if message.Content != "" {
			numTokens += len(enc.Encode(message.Content, nil, nil))
		}
		if message.ToolCall != nil {
			numTokens += len(enc.Encode(message.ToolCall.Name, nil, nil))
			numTokens += len(enc.Encode(message.ToolCall.Arguments, nil, nil))
		}
		if message.ToolName != "" {
			numTokens-- // when a name is present the role is omitted
		}
	}
	numTokens += 2 // every reply is primed with <im_start>assistant
	return numTokens, nil
}
