package testutil

import (
	"context"

	"github.com/vk/gridgate/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// NoOpModule registers a single "noop" runner that takes no inputs and
// returns null. It's useful for tests that only care about gating.
type NoOpModule struct{}

// Register implements the registry.Module interface.
func (m *NoOpModule) Register(r *registry.Registry) {
	r.RegisterRunner("noop", &registry.Runner{
		Fn: func(ctx context.Context) (cty.Value, error) {
			return cty.NullVal(cty.DynamicPseudoType), nil
		},
	})
}
