package trigger

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Run("resolves builtin names", func(t *testing.T) {
		fn, err := Lookup("any_failed", Bounds{})
		require.NoError(t, err)
		assert.Equal(t, reflect.ValueOf(AnyFailed).Pointer(), reflect.ValueOf(fn).Pointer())
	})

	t.Run("empty name is the default trigger", func(t *testing.T) {
		fn, err := Lookup("", Bounds{})
		require.NoError(t, err)
		assert.Equal(t, reflect.ValueOf(AllSuccessful).Pointer(), reflect.ValueOf(fn).Pointer())
	})

	t.Run("some_failed binds bounds", func(t *testing.T) {
		fn, err := Lookup("some_failed", mustBounds(t, WithAtLeast(2)))
		require.NoError(t, err)
		assert.Equal(t, NotSatisfied, evaluate(t, fn, generateStates(counts{failed: 1, success: 3})).Kind)
		assert.Equal(t, Satisfied, evaluate(t, fn, generateStates(counts{failed: 2, success: 2})).Kind)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := Lookup("most_failed", Bounds{})
		assert.ErrorIs(t, err, ErrUnknownTrigger)
	})

	t.Run("bounds on a trigger that ignores them", func(t *testing.T) {
		_, err := Lookup("all_failed", mustBounds(t, WithAtMost(1)))
		assert.ErrorIs(t, err, ErrInvalidBounds)
	})
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"all_failed",
		"all_finished",
		"all_successful",
		"always_run",
		"any_failed",
		"any_successful",
		"manual_only",
		"some_failed",
	}, Names())
}
