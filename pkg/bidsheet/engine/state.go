package engine

import "fmt"

// State is the phase of one evaluation request.
type State int

const (
	StateIdle State = iota
	StateLoadingInputs
	StateResolvingDependencies
	StateEvaluating
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingInputs:
		return "loading-inputs"
	case StateResolvingDependencies:
		return "resolving-dependencies"
	case StateEvaluating:
		return "evaluating"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsTerminal reports whether the state is terminal.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

func allowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateLoadingInputs
	case StateLoadingInputs:
		return to == StateResolvingDependencies || to == StateFailed
	case StateResolvingDependencies:
		return to == StateEvaluating || to == StateFailed
	case StateEvaluating:
		return to == StateSucceeded || to == StateFailed
	default:
		return false
	}
}

// machine tracks the evaluation state with validated transitions. An
// invalid transition is a programming error, not an input error.
type machine struct {
	state State
}

func (m *machine) to(next State) {
	if !allowedTransition(m.state, next) {
		panic(fmt.Sprintf("disallowed evaluation transition: %s -> %s", m.state, next))
	}
	m.state = next
}
