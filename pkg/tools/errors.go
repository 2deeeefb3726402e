package tools

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that a requested tool is not registered.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Tool)
}

// ArgumentError indicates that the supplied arguments do not satisfy the
// tool's declared schema: missing required parameters, a violated
// exactly-one-of constraint, or a value outside an enum. The tool body
// never runs; the error is fed back to the model as conversation data so
// it can retry with corrected arguments.
type ArgumentError struct {
	Tool   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

// ExecutionError wraps a tool's own runtime failure. Kind is a short
// category tag surfaced to the user (e.g., "EvaluationError").
type ExecutionError struct {
	Tool string
	Kind string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Tag returns the short failure-category tag for a tool error, used as
// the prefix of user-visible diagnostics.
func Tag(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return "ToolNotFound"
	}
	var ae *ArgumentError
	if errors.As(err, &ae) {
		return "InvalidArguments"
	}
	var ee *ExecutionError
	if errors.As(err, &ee) && ee.Kind != "" {
		return ee.Kind
	}
	return "ExecutionError"
}
