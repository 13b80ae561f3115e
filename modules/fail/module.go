// Package fail provides the `fail` runner, which always returns an error.
// It is useful for exercising trigger rules such as any_failed or
// some_failed in a grid.
package fail

import (
	"context"
	"errors"

	"github.com/vk/gridgate/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the fail runner.
type Input struct {
	Message *string `hcl:"message,optional"`
}

// OnRunFail returns an error carrying input.Message.
func OnRunFail(ctx context.Context, input *Input) (cty.Value, error) {
	msg := "step failed deliberately"
	if input.Message != nil && *input.Message != "" {
		msg = *input.Message
	}
	return cty.NilVal, errors.New(msg)
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("fail", &registry.Runner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunFail,
	})
}
