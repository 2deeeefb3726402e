package tools

import (
	"context"
	"math/rand/v2"
)

// NewRandomTool builds the randomization tool: a uniform pick from a
// list of choices, or a uniform integer from a two-element inclusive
// range. Exactly one of the two must be supplied.
func NewRandomTool() *Tool {
	return &Tool{
		Name:        "random",
		Description: "Generate a random number or make a random choice.",
		Parameters: []Parameter{
			{Name: "choices", Type: "array", Description: "A list of choices to pick from", Items: "string"},
			{Name: "range", Type: "array", Description: "A range of numbers to pick from", Items: "number", MinItems: 2, MaxItems: 2},
		},
		ExactlyOneOf: [][]string{{"choices", "range"}},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			if raw, ok := args["choices"]; ok && raw != nil {
				choices, ok := raw.([]any)
				if !ok || len(choices) == 0 {
					return nil, &ArgumentError{Tool: "random", Reason: "choices must be a non-empty array"}
				}
				return choices[rand.IntN(len(choices))], nil
			}

			bounds, ok := args["range"].([]any)
			if !ok || len(bounds) != 2 {
				return nil, &ArgumentError{Tool: "random", Reason: "range must be an array of exactly two numbers"}
			}
			lo, okLo := toInt(bounds[0])
			hi, okHi := toInt(bounds[1])
			if !okLo || !okHi {
				return nil, &ArgumentError{Tool: "random", Reason: "range bounds must be numbers"}
			}
			if lo > hi {
				return nil, &ArgumentError{Tool: "random", Reason: "range lower bound is greater than upper bound"}
			}

			// Inclusive on both ends. The width wraps negative when the
			// span exceeds the int range, which would panic IntN.
			width := hi - lo + 1
			if width <= 0 {
				return nil, &ArgumentError{Tool: "random", Reason: "range is too wide"}
			}
			return lo + rand.IntN(width), nil
		},
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
