package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusRequested.IsTerminal())
	assert.False(t, StatusAwaitingResponse.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusPlaceholder.IsTerminal())
}

func TestSectionStatus_CanTransition_Forward(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusRequested))
	assert.True(t, StatusRequested.CanTransition(StatusAwaitingResponse))
	assert.True(t, StatusAwaitingResponse.CanTransition(StatusCompleted))
	assert.True(t, StatusAwaitingResponse.CanTransition(StatusFailed))
	assert.True(t, StatusAwaitingResponse.CanTransition(StatusPlaceholder))

	// Skipping intermediate states is still forward motion
	assert.True(t, StatusPending.CanTransition(StatusFailed))
}

func TestSectionStatus_CanTransition_Backward(t *testing.T) {
	assert.False(t, StatusRequested.CanTransition(StatusPending))
	assert.False(t, StatusAwaitingResponse.CanTransition(StatusRequested))
}

func TestSectionStatus_CanTransition_TerminalIsFinal(t *testing.T) {
	for _, s := range []SectionStatus{StatusCompleted, StatusFailed, StatusPlaceholder} {
		assert.False(t, s.CanTransition(StatusPending), "terminal %s must not transition", s)
		assert.False(t, s.CanTransition(StatusCompleted), "terminal %s must not transition", s)
	}
}

func TestSection_Transition(t *testing.T) {
	sec := Section{Title: "Intro", Status: StatusPending}

	require.NoError(t, sec.Transition(StatusRequested))
	require.NoError(t, sec.Transition(StatusAwaitingResponse))
	require.NoError(t, sec.Transition(StatusCompleted))

	err := sec.Transition(StatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal section status transition")
	assert.Equal(t, StatusCompleted, sec.Status)
}

func TestOutline_AllTerminal(t *testing.T) {
	o := Outline{Sections: []Section{
		{Title: "A", Status: StatusCompleted},
		{Title: "B", Status: StatusAwaitingResponse},
	}}
	assert.False(t, o.AllTerminal())

	o.Sections[1].Status = StatusPlaceholder
	assert.True(t, o.AllTerminal())
}
