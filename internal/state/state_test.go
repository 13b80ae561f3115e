package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		state      State
		finished   bool
		successful bool
		failed     bool
	}{
		{Pending, false, false, false},
		{Running, false, false, false},
		{Retrying, false, false, false},
		{Paused, false, false, false},
		{Resume, false, false, false},
		{Success, true, true, false},
		{Cached, true, true, false},
		{Skipped, true, true, false},
		{Failed, true, false, true},
		{TimedOut, true, false, true},
		{TriggerFailed, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.finished, tt.state.IsFinished(), "IsFinished")
			assert.Equal(t, tt.successful, tt.state.IsSuccessful(), "IsSuccessful")
			assert.Equal(t, tt.failed, tt.state.IsFailed(), "IsFailed")
		})
	}
}

func TestParseState(t *testing.T) {
	t.Run("round trips every known state", func(t *testing.T) {
		for s := range names {
			parsed, err := ParseState(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("ignores case and whitespace", func(t *testing.T) {
		parsed, err := ParseState("  Trigger_Failed ")
		require.NoError(t, err)
		assert.Equal(t, TriggerFailed, parsed)
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := ParseState("exploded")
		assert.ErrorIs(t, err, ErrUnknownState)
	})
}

func TestTextMarshaling(t *testing.T) {
	text, err := Skipped.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "skipped", string(text))

	var s State
	require.NoError(t, s.UnmarshalText([]byte("timed_out")))
	assert.Equal(t, TimedOut, s)

	_, err = State(99).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownState)
	assert.Equal(t, "unknown", State(99).String())
}

func TestTransition(t *testing.T) {
	assert.NoError(t, Transition(Pending, Running))
	assert.NoError(t, Transition(Pending, Paused))
	assert.NoError(t, Transition(Pending, TriggerFailed))
	assert.NoError(t, Transition(Paused, Resume))
	assert.NoError(t, Transition(Resume, Running))
	assert.NoError(t, Transition(Running, Success))

	// Terminal states never move again.
	assert.ErrorIs(t, Transition(Success, Running), ErrInvalidTransition)
	assert.ErrorIs(t, Transition(TriggerFailed, Running), ErrInvalidTransition)
	// A paused step must be resumed before it runs.
	assert.ErrorIs(t, Transition(Paused, Running), ErrInvalidTransition)
}

func TestUpstreamSetCount(t *testing.T) {
	set := UpstreamSet{Success, Failed, Skipped, TriggerFailed, Pending}
	assert.Equal(t, 2, set.Count(Upstream.IsFailed))
	assert.Equal(t, 2, set.Count(Upstream.IsSuccessful))
	assert.Equal(t, 4, set.Count(Upstream.IsFinished))
	assert.Equal(t, 0, UpstreamSet(nil).Count(Upstream.IsFailed))
}
