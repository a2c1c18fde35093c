package tool

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marks a failure of the dispatch mechanism itself, as opposed
// to a failure of an individual tool. Executors wrap it when they can no longer
// run any call (a closed remote session, a cancelled context).
var ErrUnavailable = errors.New("tool: dispatch unavailable")

// ErrNoToolCalls is returned by Dispatch when the turn is not an assistant
// message requesting at least one tool call.
var ErrNoToolCalls = errors.New("tool: turn has no tool calls")

// ErrToolNotFound is returned when a tool call references an unregistered tool.
type ErrToolNotFound struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: not found: %s", e.Name)
}

// ErrToolExecution wraps errors from tool handler execution.
type ErrToolExecution struct {
	Name string
	Err  error
}

// Error returns a formatted error message including the tool name and cause.
func (e *ErrToolExecution) Error() string {
	return fmt.Sprintf("tool: %s execution failed: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ErrToolExecution) Unwrap() error {
	return e.Err
}

// ErrToolAlreadyRegistered is returned when registering a tool with a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

// Error returns a formatted error message including the duplicate tool name.
func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}

// ErrInvalidArguments is returned when call arguments do not satisfy the
// tool's parameter schema.
type ErrInvalidArguments struct {
	Name     string
	Problems []string
}

// Error lists every schema violation.
func (e *ErrInvalidArguments) Error() string {
	return fmt.Sprintf("tool: invalid arguments for %s: %s", e.Name, strings.Join(e.Problems, "; "))
}
