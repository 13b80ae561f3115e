package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/gridgate/internal/hclgrid"
	"github.com/zclconf/go-cty/cty"
)

// Invoke decodes body into the runner's input struct against evalCtx and
// calls the handler.
func (r *Registry) Invoke(ctx context.Context, runnerType string, body hcl.Body, evalCtx *hcl.EvalContext) (cty.Value, error) {
	runner, ok := r.runners[runnerType]
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: %q", ErrUnknownRunner, runnerType)
	}
	if _, err := checkSignature(runner); err != nil {
		return cty.NilVal, fmt.Errorf("runner %q: %w", runnerType, err)
	}

	args := []reflect.Value{reflect.ValueOf(ctx)}
	if runner.NewInput != nil {
		input := runner.NewInput()
		if err := hclgrid.DecodeArguments(body, evalCtx, input); err != nil {
			return cty.NilVal, fmt.Errorf("failed to decode arguments for runner %q: %w", runnerType, err)
		}
		args = append(args, reflect.ValueOf(input))
	}

	results := reflect.ValueOf(runner.Fn).Call(args)
	output := results[0].Interface().(cty.Value)
	if errVal := results[1].Interface(); errVal != nil {
		return output, errVal.(error)
	}
	return output, nil
}
