package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/gridgate/internal/state"
)

// AssertStepState checks the final state of "<runner_type>.<name>".
func AssertStepState(t *testing.T, result *HarnessResult, ref string, want state.State) {
	t.Helper()
	require.NotNil(t, result.Report, "run produced no report: %v", result.Err)
	id := "step." + ref
	got, ok := result.Report.States[id]
	require.True(t, ok, "step %s is not part of the report", id)
	require.Equal(t, want, got, "unexpected final state for %s", id)
}
