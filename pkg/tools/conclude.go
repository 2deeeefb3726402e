package tools

import "context"

// ConcludeToolName is the terminal pseudo-tool: invoking it is how the
// engine recognizes that the model has a final answer.
const ConcludeToolName = "conclude"

// DefaultMood is the mood tag used when the model doesn't pick one.
const DefaultMood = "💡"

// Moods is the enumerated set of mood tags the model may attach to its
// final answer.
var Moods = []string{"💡", "🤔", "😕", "🤓", "😎", "❤️", "✅", "🙅🏻‍♀️", "🎲", "🪙"}

// NewConcludeTool builds the conclude descriptor. It carries the final
// answer rather than performing work; the engine terminates on its name
// without running the handler. The handler exists so the descriptor is a
// complete Tool like any other.
func NewConcludeTool() *Tool {
	return &Tool{
		Name: ConcludeToolName,
		Description: "Express a final response to the user. This will end your train of thought " +
			"and you will not be able to take other actions.",
		Parameters: []Parameter{
			{Name: "answer", Type: "string", Description: "The response to convey to the user", Required: true},
			{Name: "emoji", Type: "string", Enum: Moods,
				Description: "An emoji to include with the response. The default 💡 is good for most cases, " +
					"but you may optionally change it according to the mood of your reply."},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			answer, _ := args["answer"].(string)
			return answer, nil
		},
	}
}
