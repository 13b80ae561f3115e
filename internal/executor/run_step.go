package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/gridgate/internal/hclgrid"
	"github.com/vk/gridgate/internal/node"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/vk/gridgate/internal/state"
	"github.com/zclconf/go-cty/cty"
)

// ErrStepTimeout is recorded for steps that exceed their timeout.
var ErrStepTimeout = errors.New("step timed out")

type stepResult struct {
	output cty.Value
	err    error
}

// runStep evaluates the node's arguments against its upstream outputs and
// invokes its runner, enforcing the node's timeout.
func (e *Executor) runStep(ctx context.Context, n *node.Node) (state.State, cty.Value, error) {
	logger := runctx.Logger(ctx)
	logger.Info("▶️ Running step.", "step", n.Ref, "runner", n.RunnerType)

	evalCtx, err := e.evalContext(ctx, n)
	if err != nil {
		return state.Failed, cty.NilVal, err
	}

	execCtx := ctx
	cancel := func() {}
	if n.Timeout > 0 {
		execCtx, cancel = context.WithTimeout(ctx, n.Timeout)
	}
	defer cancel()

	done := make(chan stepResult, 1)
	go func() {
		output, err := e.invoker.Invoke(execCtx, n.RunnerType, n.Arguments, evalCtx)
		done <- stepResult{output: output, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if n.Timeout > 0 && errors.Is(execCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				return state.TimedOut, cty.NilVal, fmt.Errorf("%w after %v: %w", ErrStepTimeout, n.Timeout, res.err)
			}
			return state.Failed, cty.NilVal, res.err
		}
		output := res.output
		if output == cty.NilVal {
			output = cty.NullVal(cty.DynamicPseudoType)
		}
		return state.Success, output, nil
	case <-execCtx.Done():
		if n.Timeout > 0 && ctx.Err() == nil {
			logger.Warn("Step exceeded its timeout.", "timeout", n.Timeout)
			return state.TimedOut, cty.NilVal, fmt.Errorf("%w after %v", ErrStepTimeout, n.Timeout)
		}
		return state.Failed, cty.NilVal, ctx.Err()
	}
}

// evalContext exposes each dependency's state and output to the node's
// argument expressions.
func (e *Executor) evalContext(ctx context.Context, n *node.Node) (*hcl.EvalContext, error) {
	deps, err := e.graph.Dependencies(n.ID())
	if err != nil {
		return nil, err
	}
	upstream := make([]hclgrid.Upstream, 0, len(deps))
	for _, depID := range deps {
		dep, ok := e.graph.Node(depID)
		if !ok {
			continue
		}
		status, err := e.store.GetStatus(ctx, depID)
		if err != nil {
			return nil, err
		}
		output, err := e.store.GetOutput(ctx, depID)
		if err != nil {
			return nil, err
		}
		upstream = append(upstream, hclgrid.Upstream{
			RunnerType: dep.RunnerType,
			Name:       dep.Name,
			State:      status.String(),
			Output:     output,
		})
	}
	return hclgrid.NewEvalContext(upstream), nil
}
