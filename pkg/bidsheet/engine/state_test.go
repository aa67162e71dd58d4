package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading-inputs", StateLoadingInputs.String())
	assert.Equal(t, "resolving-dependencies", StateResolvingDependencies.String())
	assert.Equal(t, "evaluating", StateEvaluating.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "state(42)", State(42).String())
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StateSucceeded.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
	assert.False(t, StateIdle.IsTerminal())
	assert.False(t, StateEvaluating.IsTerminal())
}

func TestMachineHappyPath(t *testing.T) {
	m := &machine{}
	m.to(StateLoadingInputs)
	m.to(StateResolvingDependencies)
	m.to(StateEvaluating)
	m.to(StateSucceeded)
	assert.Equal(t, StateSucceeded, m.state)
}

func TestMachineFailureFromAnyActivePhase(t *testing.T) {
	for _, from := range []State{StateLoadingInputs, StateResolvingDependencies, StateEvaluating} {
		m := &machine{state: from}
		m.to(StateFailed)
		assert.Equal(t, StateFailed, m.state, from.String())
	}
}

func TestMachineRejectsInvalidTransition(t *testing.T) {
	m := &machine{}
	assert.Panics(t, func() { m.to(StateEvaluating) }, "idle cannot jump to evaluating")

	m = &machine{state: StateSucceeded}
	assert.Panics(t, func() { m.to(StateEvaluating) }, "terminal states do not transition")
}
