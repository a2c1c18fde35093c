package agent

import (
	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/store"
)

// TerminationReason indicates why the agent stopped execution.
type TerminationReason string

const (
	// TerminationComplete indicates the model answered without tool calls.
	TerminationComplete TerminationReason = "complete"

	// TerminationTerminated indicates the terminate tool was called.
	TerminationTerminated TerminationReason = "terminated"

	// TerminationModelError indicates the model call failed; the failure is
	// recorded in the conversation as an assistant turn.
	TerminationModelError TerminationReason = "model_error"

	// TerminationMaxSteps indicates the step limit was reached.
	TerminationMaxSteps TerminationReason = "max_steps"

	// TerminationCancelled indicates the caller cancelled the run.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationDispatchError indicates tool dispatch became unavailable.
	TerminationDispatchError TerminationReason = "dispatch_error"
)

// Normal reports whether the reason is a normal end of the task.
func (r TerminationReason) Normal() bool {
	return r == TerminationComplete || r == TerminationTerminated
}

// Result represents the final outcome of an agent execution.
type Result struct {
	// RunID identifies the loop that produced this result.
	RunID string

	// FinalText is the latest non-empty assistant content in the
	// conversation. For budget exhaustion it is a best-effort answer.
	FinalText string

	// TerminatedNormally is true when the model answered or called the
	// terminate tool.
	TerminatedNormally bool

	// Termination indicates why execution stopped.
	Termination TerminationReason

	// State is the loop state when the result was produced.
	State State

	// Steps is the number of steps executed.
	Steps int

	// TotalUsage aggregates token usage across all steps.
	TotalUsage ai.Usage

	// history contains the complete conversation (private).
	history *store.MessageStore
}

// Messages returns the conversation history as a slice.
func (r *Result) Messages() []ai.Message {
	if r.history == nil {
		return nil
	}
	return r.history.Messages()
}

// MessageCount returns the number of messages in the conversation history.
func (r *Result) MessageCount() int {
	if r.history == nil {
		return 0
	}
	return r.history.Len()
}

// LastMessages returns the last n messages from the conversation history.
// If n exceeds the total message count, all messages are returned.
func (r *Result) LastMessages(n int) []ai.Message {
	if r.history == nil {
		return nil
	}
	return r.history.Last(n)
}
