package tools

import (
	"context"

	"github.com/expr-lang/expr"
)

// NewCalculateTool builds the arithmetic tool. Expressions are compiled
// against an empty environment, so identifiers and function calls are
// rejected at compile time; only literal arithmetic evaluates.
func NewCalculateTool() *Tool {
	return &Tool{
		Name:        "calculate",
		Description: "Calculate a mathematical expression",
		Parameters: []Parameter{
			{Name: "expression", Type: "string", Description: "The expression to calculate", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			expression, ok := args["expression"].(string)
			if !ok {
				return nil, &ArgumentError{Tool: "calculate", Reason: "expression must be a string"}
			}

			program, err := expr.Compile(expression, expr.Env(map[string]any{}))
			if err != nil {
				return nil, &ExecutionError{Tool: "calculate", Kind: "EvaluationError", Err: err}
			}

			result, err := expr.Run(program, map[string]any{})
			if err != nil {
				return nil, &ExecutionError{Tool: "calculate", Kind: "EvaluationError", Err: err}
			}

			return result, nil
		},
	}
}
