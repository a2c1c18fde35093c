// Package event provides the step-level observability events emitted by an
// agent loop. Events are delivered on a caller-supplied channel and never
// block the loop.
package event

import (
	"context"
	"time"

	ai "github.com/spetersoncode/thinkact"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a loop accepts a task.
	RunStart Type = "run_start"

	// RunEnd fires when the loop reaches the finished state.
	RunEnd Type = "run_end"

	// RunError fires when the loop moves to the failed state.
	RunError Type = "run_error"
)

// Step lifecycle events
const (
	// StepStart fires before each think phase.
	StepStart Type = "step_start"

	// ThinkEnd fires after the model has decided. Response holds the decision.
	ThinkEnd Type = "think_end"

	// ToolCallResult fires once per executed tool call, in request order.
	ToolCallResult Type = "tool_call_result"

	// StepEnd fires when a step completes. Message holds the act summary.
	StepEnd Type = "step_end"
)

// Event represents an observable occurrence during an agent run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// RunID correlates events of one loop.
	RunID string

	// Step is the current step number (1-indexed).
	Step int

	// Response contains the model decision for ThinkEnd events.
	Response *ai.Response

	// ToolCall and ToolResult are set for ToolCallResult events.
	ToolCall   *ai.ToolCall
	ToolResult *ai.ToolResult

	// Error contains the error for RunError events.
	Error error

	// Message contains additional context (act summary, termination reason).
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
// A nil channel drops the event.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}

type forwardKey struct{}

// WithForwardChannel attaches an event channel to the context so nested agents
// (agents used as tools) can report their events to the parent's consumer.
func WithForwardChannel(ctx context.Context, ch chan<- Event) context.Context {
	return context.WithValue(ctx, forwardKey{}, ch)
}

// ForwardChannelFromContext returns the channel attached by WithForwardChannel,
// or nil.
func ForwardChannelFromContext(ctx context.Context) chan<- Event {
	if ch, ok := ctx.Value(forwardKey{}).(chan<- Event); ok {
		return ch
	}
	return nil
}
