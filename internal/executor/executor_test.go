package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridgate/internal/config"
	"github.com/vk/gridgate/internal/graph"
	"github.com/vk/gridgate/internal/hclgrid"
	"github.com/vk/gridgate/internal/inmemorystore"
	"github.com/vk/gridgate/internal/state"
	"github.com/vk/gridgate/internal/trigger"
	"github.com/zclconf/go-cty/cty"
)

type handlerFunc func(ctx context.Context, body hcl.Body, evalCtx *hcl.EvalContext) (cty.Value, error)

// fakeInvoker dispatches by runner type and records every invocation.
type fakeInvoker struct {
	mu       sync.Mutex
	handlers map[string]handlerFunc
	calls    []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, runnerType string, body hcl.Body, evalCtx *hcl.EvalContext) (cty.Value, error) {
	f.mu.Lock()
	f.calls = append(f.calls, runnerType)
	h := f.handlers[runnerType]
	f.mu.Unlock()
	return h(ctx, body, evalCtx)
}

type echoInput struct {
	Value cty.Value `hcl:"value,optional"`
}

func newInvoker() *fakeInvoker {
	return &fakeInvoker{handlers: map[string]handlerFunc{
		"echo": func(ctx context.Context, body hcl.Body, evalCtx *hcl.EvalContext) (cty.Value, error) {
			var in echoInput
			if err := hclgrid.DecodeArguments(body, evalCtx, &in); err != nil {
				return cty.NilVal, err
			}
			return in.Value, nil
		},
		"fail": func(context.Context, hcl.Body, *hcl.EvalContext) (cty.Value, error) {
			return cty.NilVal, errors.New("boom")
		},
		"sleep": func(ctx context.Context, _ hcl.Body, _ *hcl.EvalContext) (cty.Value, error) {
			select {
			case <-ctx.Done():
				return cty.NilVal, ctx.Err()
			case <-time.After(5 * time.Second):
				return cty.True, nil
			}
		},
	}}
}

func args(t *testing.T, src string) hcl.Body {
	t.Helper()
	file, diags := hclsyntax.ParseConfig([]byte(src), "args.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), diags.Error())
	return file.Body
}

func step(runner, name string, trig string, deps ...string) *config.Step {
	s := &config.Step{RunnerType: runner, Name: name, DependsOn: deps}
	if trig != "" {
		s.Trigger = &config.Trigger{Name: trig}
	}
	return s
}

func run(t *testing.T, inv *fakeInvoker, steps []*config.Step, opts ...Option) (*Report, *inmemorystore.Store, error) {
	t.Helper()
	g, err := graph.Build(context.Background(), &config.Model{Grid: &config.Grid{Steps: steps}})
	require.NoError(t, err)
	store := inmemorystore.New()
	report, err := New(g, store, inv, 4, opts...).Run(context.Background())
	require.NotNil(t, report)
	return report, store, err
}

func TestRun_OutputsFlowDownstream(t *testing.T) {
	first := step("echo", "first", "")
	first.Arguments = args(t, `value = "hello"`)
	second := step("echo", "second", "")
	second.Arguments = args(t, `value = "${step.echo.first.output} world (${step.echo.first.state})"`)

	report, store, err := run(t, newInvoker(), []*config.Step{first, second})
	require.NoError(t, err)

	assert.Equal(t, state.Success, report.States["step.echo.first"])
	assert.Equal(t, state.Success, report.States["step.echo.second"])

	out, err := store.GetOutput(context.Background(), "step.echo.second")
	require.NoError(t, err)
	assert.Equal(t, "hello world (success)", out.AsString())
}

func TestRun_FailureIsGatedByTriggers(t *testing.T) {
	inv := newInvoker()
	report, _, err := run(t, inv, []*config.Step{
		step("fail", "boom", ""),
		step("echo", "default", "", "fail.boom"),
		step("echo", "after_default", "", "echo.default"),
		step("echo", "cleanup", "all_finished", "fail.boom"),
		step("echo", "on_failure", "any_failed", "fail.boom"),
		step("echo", "on_success", "all_successful", "echo.cleanup"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStepsFailed)
	assert.ErrorContains(t, err, "boom")

	assert.Equal(t, []string{"step.fail.boom"}, report.Failed())
	assert.Equal(t, []string{"step.echo.after_default", "step.echo.default"}, report.NotRun())
	assert.Equal(t, state.Success, report.States["step.echo.cleanup"])
	assert.Equal(t, state.Success, report.States["step.echo.on_failure"])
	assert.Equal(t, state.Success, report.States["step.echo.on_success"])

	assert.ErrorIs(t, report.Errors["step.echo.default"], trigger.ErrNotSatisfied)
	assert.Len(t, inv.calls, 4, "trigger_failed steps never invoke their runner")
}

func TestRun_SomeFailed(t *testing.T) {
	atMost := 0.5
	gated := step("echo", "tolerant", "some_failed", "fail.a", "echo.b", "echo.c", "echo.d")
	gated.Trigger.AtMost = &atMost

	report, _, _ := run(t, newInvoker(), []*config.Step{
		step("fail", "a", ""),
		step("echo", "b", ""),
		step("echo", "c", ""),
		step("echo", "d", ""),
		gated,
	})

	// 1 of 4 failed; at_most 0.5 resolves to 2 and at_least defaults to 0.
	assert.Equal(t, state.Success, report.States["step.echo.tolerant"])
}

func TestRun_ManualOnlyParksAndBlocks(t *testing.T) {
	inv := newInvoker()
	steps := func() []*config.Step {
		return []*config.Step{
			step("echo", "build", ""),
			step("echo", "deploy", "manual_only", "echo.build"),
			step("echo", "verify", "", "echo.deploy"),
			step("echo", "notify", "all_finished", "echo.verify"),
		}
	}

	t.Run("without resume", func(t *testing.T) {
		report, store, err := run(t, inv, steps())
		require.NoError(t, err)

		assert.Equal(t, state.Success, report.States["step.echo.build"])
		assert.Equal(t, []string{"step.echo.deploy"}, report.Paused())
		assert.Equal(t, []string{"step.echo.notify", "step.echo.verify"}, report.Blocked())
		assert.ErrorIs(t, report.Errors["step.echo.deploy"], trigger.ErrPausedForResume)

		status, err := store.GetStatus(context.Background(), "step.echo.verify")
		require.NoError(t, err)
		assert.Equal(t, state.Pending, status)
	})

	t.Run("with resume", func(t *testing.T) {
		report, _, err := run(t, newInvoker(), steps(), WithResume("step.echo.deploy"))
		require.NoError(t, err)

		for id, s := range report.States {
			assert.Equal(t, state.Success, s, id)
		}
		assert.Empty(t, report.Paused())
		assert.Empty(t, report.Blocked())
	})
}

func TestRun_Timeout(t *testing.T) {
	slow := step("sleep", "slow", "")
	slow.Timeout = 20 * time.Millisecond

	report, _, err := run(t, newInvoker(), []*config.Step{
		slow,
		step("echo", "alert", "any_failed", "sleep.slow"),
	})

	require.Error(t, err)
	assert.Equal(t, state.TimedOut, report.States["step.sleep.slow"])
	assert.ErrorIs(t, report.Errors["step.sleep.slow"], ErrStepTimeout)
	assert.Equal(t, state.Success, report.States["step.echo.alert"])
}

func TestRun_CanceledContext(t *testing.T) {
	g, err := graph.Build(context.Background(), &config.Model{Grid: &config.Grid{Steps: []*config.Step{
		step("echo", "a", ""),
		step("echo", "b", "", "echo.a"),
	}}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(g, inmemorystore.New(), newInvoker(), 2).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"step.echo.a", "step.echo.b"}, report.Failed())
}

func TestRun_ArgumentErrorFailsStep(t *testing.T) {
	bad := step("echo", "bad", "")
	bad.Arguments = args(t, `value = upper(42, 43)`)

	report, _, err := run(t, newInvoker(), []*config.Step{bad})
	require.Error(t, err)
	assert.Equal(t, state.Failed, report.States["step.echo.bad"])
}

func TestRun_EmptyGraph(t *testing.T) {
	report, _, err := run(t, newInvoker(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.States)
	assert.Equal(t, 0, report.Count(state.Success))
}
