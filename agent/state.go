package agent

import "fmt"

// State is the lifecycle state of a Loop.
type State string

const (
	// StateIdle is the initial state before a task is accepted.
	StateIdle State = "idle"
	// StateRunning means the loop is executing steps.
	StateRunning State = "running"
	// StateFinished is terminal: the run produced an answer, hit the
	// terminate tool, recorded a model failure or exhausted its budget.
	StateFinished State = "finished"
	// StateFailed is terminal: the run was cancelled or tool dispatch became
	// unavailable.
	StateFailed State = "failed"
)

// allowedTransitions lists every legal edge. Finished and Failed have none.
var allowedTransitions = map[State][]State{
	StateIdle:    {StateRunning},
	StateRunning: {StateFinished, StateFailed},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateFailed
}

func canTransition(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Snapshot is a consistent view of a loop's state and step count.
type Snapshot struct {
	State State
	Steps int
}

// StateError reports an operation attempted in a state that does not allow it.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("agent: cannot %s in state %s", e.Op, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
