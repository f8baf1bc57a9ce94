package cue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateFlags(t *testing.T) {
	assert.Equal(t, State(1), Error)
	assert.Equal(t, State(2), Stopped)
	assert.Equal(t, State(4), Running)
	assert.Equal(t, State(8), Paused)
	assert.Equal(t, State(16), PreWait)
	assert.Equal(t, State(32), PostWait)
}

func TestState_Has(t *testing.T) {
	assert.True(t, (Running | PreWait).Has(IsRunning))
	assert.True(t, PostWait.Has(IsRunning))
	assert.True(t, Error.Has(IsStopped))
	assert.False(t, Idle.Has(IsRunning|IsPaused|IsStopped))
	assert.False(t, Paused.Has(IsRunning))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "Running", Running.String())
	assert.Equal(t, "Running|Paused", (Paused | Running).String())
}
