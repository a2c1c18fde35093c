package agent

import (
	"errors"
	"fmt"
)

// Fatal error kinds returned by Run. Everything else a run encounters is
// absorbed into the conversation and reported through Result.
var (
	// ErrEmptyTask indicates Run was called with blank task text.
	ErrEmptyTask = errors.New("agent: empty task")

	// ErrInvalidState indicates an operation on a loop whose state forbids it,
	// such as stepping a finished loop.
	ErrInvalidState = errors.New("agent: invalid state")

	// ErrDispatchUnavailable indicates tool calls could not be dispatched at
	// all. The loop moves to StateFailed.
	ErrDispatchUnavailable = errors.New("agent: tool dispatch unavailable")

	// ErrCancelled indicates the caller cancelled the run.
	ErrCancelled = errors.New("agent: run cancelled")

	// ErrBudgetExhausted accompanies a Result when the step budget ran out and
	// the model never produced any text.
	ErrBudgetExhausted = errors.New("agent: step budget exhausted without an answer")
)

// ErrTranscriptPersist marks a failed transcript write. It is logged, never
// returned from Run.
var ErrTranscriptPersist = errors.New("agent: transcript not persisted")

// DispatchError wraps the cause of a dispatch failure. It matches both
// ErrDispatchUnavailable and the underlying error under errors.Is.
type DispatchError struct {
	Step int
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("agent: tool dispatch unavailable at step %d: %v", e.Step, e.Err)
}

func (e *DispatchError) Unwrap() []error {
	return []error{ErrDispatchUnavailable, e.Err}
}
